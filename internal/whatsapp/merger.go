package whatsapp

import (
	"log/slog"
	"sort"
	"time"

	"github.com/kiddomusic/riyaz/internal/model"
)

// ArchiveError records a single export that could not be parsed. A failed
// archive never aborts the merge; the caller decides what to do with these.
type ArchiveError struct {
	Path string
	Err  error
}

// MergeReport describes what a merge run did.
type MergeReport struct {
	Failed       []ArchiveError
	ParsedTotal  int // messages seen across all archives, before dedup
	Duplicates   int // messages dropped by the dedup key
	Undated      int // kept messages whose datetime could not be derived
	ArchivesRead int
}

// Merge parses every export in paths and combines the results into one
// chronologically sorted, deduplicated message sequence. Two messages with
// the same dedup key are the same message; the first one encountered wins.
// Messages whose datetime cannot be derived are kept, sorted after all dated
// messages, and counted in the report.
func Merge(paths []string) ([]model.Message, MergeReport) {
	var report MergeReport
	var merged []model.Message
	seen := make(map[string]bool)

	for _, path := range paths {
		messages, err := ParseExport(path)
		if err != nil {
			report.Failed = append(report.Failed, ArchiveError{Path: path, Err: err})
			slog.Warn("Skipping unreadable export", "path", path, "error", err)
			continue
		}

		report.ArchivesRead++
		report.ParsedTotal += len(messages)

		for _, msg := range messages {
			key := msg.DedupKey()
			if seen[key] {
				report.Duplicates++
				continue
			}
			seen[key] = true
			merged = append(merged, msg)
		}
	}

	report.Undated = sortChronologically(merged)
	return merged, report
}

// sortChronologically sorts messages ascending by derived datetime, keeping
// input order among equal timestamps. Messages without a derivable datetime
// sort last, also in input order; their count is returned.
func sortChronologically(messages []model.Message) int {
	type entry struct {
		ts  time.Time
		msg model.Message
		ok  bool
	}

	entries := make([]entry, len(messages))
	undated := 0
	for i := range messages {
		e := entry{msg: messages[i]}
		if ts, err := messages[i].DateTime(); err == nil {
			e.ts, e.ok = ts, true
		} else {
			undated++
		}
		entries[i] = e
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.ok && b.ok:
			return a.ts.Before(b.ts)
		case a.ok:
			return true
		default:
			return false
		}
	})

	for i := range entries {
		messages[i] = entries[i].msg
	}
	return undated
}
