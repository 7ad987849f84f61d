package tagger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kiddomusic/riyaz/internal/common"
	"github.com/kiddomusic/riyaz/internal/model"
	"github.com/kiddomusic/riyaz/internal/service"
)

// taggableExts are the audio formats the API accepts.
var taggableExts = map[string]bool{
	".m4a": true, ".mp3": true, ".wav": true, ".opus": true, ".ogg": true, ".amr": true,
}

// Report summarizes one tagging run.
type Report struct {
	Total   int // audio files found in the directory
	Skipped int // already tagged in a previous run
	Tagged  int
	Failed  int
}

// Progress is called after each file attempt. tag is nil when the file
// failed.
type Progress func(done, total int, tag *model.AudioTag)

// Tagger walks a directory of audio files, tags each untagged one, and
// persists the results so interrupted runs resume where they stopped.
type Tagger struct {
	client service.Tagger
	store  service.Storage
	retry  service.RetryOptions
}

// New creates a Tagger backed by the given client and storage.
func New(client service.Tagger, store service.Storage) *Tagger {
	return &Tagger{
		client: client,
		store:  store,
		retry: service.RetryOptions{
			MaxAttempts:  5,
			InitialDelay: time.Minute,
			MaxDelay:     5 * time.Minute,
			Multiplier:   2.0,
		},
	}
}

// Run tags every untagged audio file under audioDir. Each tag is saved as
// soon as it arrives. Files that keep failing are logged and skipped; the
// run only aborts when the context is canceled.
func (t *Tagger) Run(ctx context.Context, audioDir string, progress Progress) (Report, error) {
	var report Report

	files, err := listAudioFiles(audioDir)
	if err != nil {
		return report, err
	}
	report.Total = len(files)
	if len(files) == 0 {
		return report, common.ErrNoAudioFiles
	}

	tagged, err := t.store.GetTaggedFileNames(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to load previous tags: %w", err)
	}

	var remaining []string
	for _, f := range files {
		if tagged[filepath.Base(f)] {
			report.Skipped++
			continue
		}
		remaining = append(remaining, f)
	}

	slog.Info("Starting audio tagging run",
		"found", report.Total,
		"already_tagged", report.Skipped,
		"remaining", len(remaining))

	for i, path := range remaining {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		tag, tagErr := t.tagOne(ctx, path)
		if tagErr != nil {
			report.Failed++
			slog.Warn("Failed to tag audio file", "file", filepath.Base(path), "error", tagErr)
			if progress != nil {
				progress(i+1, len(remaining), nil)
			}
			continue
		}

		if saveErr := t.store.SaveAudioTag(ctx, tag); saveErr != nil {
			return report, fmt.Errorf("failed to save tag for %s: %w", tag.FileName, saveErr)
		}
		report.Tagged++

		if progress != nil {
			progress(i+1, len(remaining), tag)
		}
	}

	return report, nil
}

func (t *Tagger) tagOne(ctx context.Context, path string) (*model.AudioTag, error) {
	var tag *model.AudioTag
	err := common.WithRetry(ctx, func() error {
		var tagErr error
		tag, tagErr = t.client.Tag(ctx, path)
		return tagErr
	}, t.retry)
	if err != nil {
		return nil, err
	}
	return tag, nil
}

func listAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if taggableExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
