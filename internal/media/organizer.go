// Package media extracts audio, video and photo attachments from export
// archives and renames them with dates and chat-derived context.
package media

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kiddomusic/riyaz/internal/model"
)

// Extension sets per media kind.
var (
	audioExts = map[string]bool{".m4a": true, ".opus": true, ".mp3": true, ".aac": true, ".ogg": true, ".wav": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".3gp": true}
	photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}
)

// filenameRe extracts the capture timestamp WhatsApp embeds in attachment
// names, e.g. 00000009-AUDIO-2024-05-12-13-12-04.m4a.
var filenameRe = regexp.MustCompile(`\d+-(?:AUDIO|VIDEO|PHOTO)-(\d{4})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{2})`)

// contextWindow is how far from a media timestamp a teacher message may sit
// and still label the file.
const contextWindow = 30 * time.Minute

// Stats counts what one organizing run extracted.
type Stats struct {
	Audio  int
	Video  int
	Photos int
}

// Organizer extracts and renames media from export archives, using the
// merged message sequence to label files.
type Organizer struct {
	teacher  model.Teacher
	messages []model.Message
	counters map[string]int
}

// NewOrganizer creates an organizer. messages should be the merged,
// chronologically sorted archive of the chat the exports came from.
func NewOrganizer(messages []model.Message, teacher model.Teacher) *Organizer {
	return &Organizer{
		teacher:  teacher,
		messages: messages,
		counters: make(map[string]int),
	}
}

// KindOf reports how a file should be organized, or "" for non-media.
func KindOf(name string) model.MediaKind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case audioExts[ext]:
		return model.MediaAudio
	case videoExts[ext]:
		return model.MediaVideo
	case photoExts[ext]:
		return model.MediaPhoto
	default:
		return ""
	}
}

// TakenAt extracts the capture timestamp from a WhatsApp attachment name.
// The zero time means the name carried no timestamp.
func TakenAt(name string) time.Time {
	sub := filenameRe.FindStringSubmatch(name)
	if sub == nil {
		return time.Time{}
	}

	var parts [6]int
	for i := range parts {
		parts[i], _ = strconv.Atoi(sub[i+1])
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.UTC)
}

// contextLabels maps body keywords to filename labels, checked in order:
// the more specific musical terms come before the generic "class".
var contextLabels = []struct {
	keyword string
	label   string
}{
	{"recording", "Practice-Recording"},
	{"practice", "Practice-Recording"},
	{"sargam", "Sargam-Practice"},
	{"bandish", "Bandish"},
	{"alaap", "Alaap"},
	{"concert", "Performance"},
	{"performance", "Performance"},
	{"class", "Class"},
}

// FindContext looks for a teacher message within the context window of the
// media timestamp and maps it to a filename label. Returns "" when nothing
// nearby gives context.
func (o *Organizer) FindContext(taken time.Time) string {
	if taken.IsZero() {
		return ""
	}

	for i := range o.messages {
		msg := &o.messages[i]
		sent, err := msg.DateTime()
		if err != nil {
			continue
		}
		if absDuration(sent.Sub(taken)) > contextWindow {
			continue
		}
		if !msg.IsFromTeacher(o.teacher) {
			continue
		}

		lower := strings.ToLower(msg.Body)
		for _, c := range contextLabels {
			if strings.Contains(lower, c.keyword) {
				return c.label
			}
		}
	}
	return ""
}

// Rename builds the organized filename for one attachment:
// YYYY-MM-DD_<Context>_<HHMM>[_n].ext with per-kind collision counters.
func (o *Organizer) Rename(original string, taken time.Time, context string, kind model.MediaKind) string {
	ext := strings.ToLower(filepath.Ext(original))

	dateStr, timeStr := "unknown-date", "0000"
	if !taken.IsZero() {
		dateStr = taken.Format("2006-01-02")
		timeStr = taken.Format("1504")
	}

	label := context
	if label == "" {
		switch kind {
		case model.MediaAudio:
			label = "Audio"
		case model.MediaVideo:
			label = "Video"
		case model.MediaPhoto:
			label = "Photo"
		default:
			label = "File"
		}
	}

	base := fmt.Sprintf("%s_%s_%s", dateStr, label, timeStr)
	key := string(kind) + ":" + base
	o.counters[key]++
	if n := o.counters[key]; n > 1 {
		base = fmt.Sprintf("%s_%d", base, n)
	}

	return base + ext
}

// Organize extracts all media entries from the given export archives into
// kind subdirectories under outputDir, renaming each file.
func (o *Organizer) Organize(zipPaths []string, outputDir string) (Stats, []model.MediaFile, error) {
	var stats Stats
	var files []model.MediaFile

	for _, kind := range []model.MediaKind{model.MediaAudio, model.MediaVideo, model.MediaPhoto} {
		if err := os.MkdirAll(filepath.Join(outputDir, string(kind)), 0750); err != nil {
			return stats, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	for _, zipPath := range zipPaths {
		extracted, err := o.organizeArchive(zipPath, outputDir, &stats)
		if err != nil {
			slog.Warn("Skipping unreadable archive", "path", zipPath, "error", err)
			continue
		}
		files = append(files, extracted...)
	}

	return stats, files, nil
}

func (o *Organizer) organizeArchive(zipPath, outputDir string, stats *Stats) ([]model.MediaFile, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	var files []model.MediaFile
	for _, entry := range zr.File {
		kind := KindOf(entry.Name)
		if kind == "" {
			continue
		}

		taken := TakenAt(entry.Name)
		context := o.FindContext(taken)
		newName := o.Rename(entry.Name, taken, context, kind)

		if err := extractEntry(entry, filepath.Join(outputDir, string(kind), newName)); err != nil {
			return files, err
		}

		switch kind {
		case model.MediaAudio:
			stats.Audio++
		case model.MediaVideo:
			stats.Video++
		case model.MediaPhoto:
			stats.Photos++
		}

		files = append(files, model.MediaFile{
			OriginalName: entry.Name,
			NewName:      newName,
			Kind:         kind,
			Taken:        taken,
			Context:      context,
		})

		slog.Debug("Extracted media file",
			"kind", kind, "from", entry.Name, "to", newName)
	}

	return files, nil
}

func extractEntry(entry *zip.File, target string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", entry.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
