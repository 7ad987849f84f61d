package classes

import (
	"log/slog"

	"github.com/kiddomusic/riyaz/internal/model"
)

// evidenceRunes bounds the excerpt kept on each ClassDate so a human can
// audit why a date was classified without storing whole message bodies.
const evidenceRunes = 100

// Extract scans a chronologically ordered message sequence and returns the
// inferred class dates, in the order the triggering messages were sent.
//
// Only teacher messages are examined. At most one non-cancellation entry is
// kept per printed calendar date, first mention winning; cancellations and
// reschedules are always recorded even when the date already has an entry.
func Extract(messages []model.Message, teacher model.Teacher) []model.ClassDate {
	var out []model.ClassDate
	seen := make(map[string]bool)

	for i := range messages {
		msg := &messages[i]
		if !msg.IsFromTeacher(teacher) {
			continue
		}
		if !relevant(msg.Body) {
			continue
		}

		eventType := DetectType(msg.Body)
		if seen[msg.Date] && !eventType.IsCancellation() {
			continue
		}
		seen[msg.Date] = true

		sentAt, err := msg.DateTime()
		if err != nil {
			// The printed date still identifies the event; only the
			// sort key is missing.
			slog.Warn("class date without derivable send time",
				"date", msg.Date, "time", msg.Time)
		}

		out = append(out, model.ClassDate{
			Date:     msg.Date,
			Time:     ExtractTime(msg.Body),
			Type:     eventType,
			Evidence: excerpt(msg.Body),
			SentAt:   sentAt,
		})
	}

	return out
}

// excerpt bounds body to the audit excerpt length.
func excerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= evidenceRunes {
		return body
	}
	return string(runes[:evidenceRunes]) + "..."
}

// Summary counts extracted class dates by type.
func Summary(dates []model.ClassDate) map[model.EventType]int {
	byType := make(map[model.EventType]int)
	for _, d := range dates {
		byType[d.Type]++
	}
	return byType
}
