// Package classes infers class, performance and cancellation dates from
// teacher messages.
package classes

import (
	"regexp"
	"strings"

	"github.com/kiddomusic/riyaz/internal/model"
)

// Phrase sets that mark a message as scheduling-relevant. Each set compiles
// to one alternation; the three sets stay separate because their match
// results feed the type precedence below.

var classIndicators = []string{
	`see the kiddos`,
	`see you (all|today|tomorrow|sunday|saturday)`,
	`class (at|is|will be|today|tomorrow)`,
	`come by \d`,
	`meet\.google\.com`,
	`facetime\.apple\.com`,
	`zoom\.(us|com)`,
	`practice (at|today|tomorrow)`,
}

var cancelPatterns = []string{
	`cancel`,
	`no class`,
}

var reschedulePatterns = []string{
	`moved.*(to|for).*(\d{1,2}(st|nd|rd|th)?(\s+of)?\s+\w+|\d{1,2}/\d{1,2})`,
	`rescheduled?.*(to|for)`,
}

var eventPatterns = []string{
	`performance`,
	`concert`,
	`event`,
	`havan`,
	`annual day`,
}

func compileAny(patterns []string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + strings.Join(patterns, `|`))
}

var (
	classRe      = compileAny(classIndicators)
	cancelRe     = compileAny(cancelPatterns)
	rescheduleRe = compileAny(reschedulePatterns)
	eventRe      = compileAny(eventPatterns)
)

// timeRe captures a clock-time-like mention such as "12:15", "2:30" or "3 pm".
var timeRe = regexp.MustCompile(`(?i)\b(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)\b`)

// ExtractTime returns the first clock-time-like substring in text, or "".
// Absence of a time is not an error; ClassDate.Time is optional.
func ExtractTime(text string) string {
	if sub := timeRe.FindStringSubmatch(text); sub != nil {
		return strings.TrimSpace(sub[1])
	}
	return ""
}

// DetectType decides what kind of event a scheduling-relevant body announces.
// Cancellation and reschedule information outranks everything else: a message
// carrying both a class reminder and a cancellation records the cancellation.
func DetectType(body string) model.EventType {
	lower := strings.ToLower(body)

	if cancelRe.MatchString(body) {
		return model.EventCancelled
	}
	if rescheduleRe.MatchString(body) {
		return model.EventRescheduled
	}

	if strings.Contains(lower, "online") ||
		strings.Contains(lower, "facetime") ||
		strings.Contains(lower, "meet.google") {
		return model.EventOnline
	}

	if eventRe.MatchString(body) {
		return model.EventPerformance
	}

	return model.EventClass
}

// relevant reports whether a body announces anything schedule-related at all.
// Cancellation phrasing counts on its own so a bare "no class tomorrow" is
// never lost.
func relevant(body string) bool {
	return classRe.MatchString(body) ||
		eventRe.MatchString(body) ||
		cancelRe.MatchString(body) ||
		rescheduleRe.MatchString(body)
}
