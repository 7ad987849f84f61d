package model

import "time"

// EventType classifies what kind of class event a ClassDate records.
type EventType string

const (
	// EventClass is a regular in-person class.
	EventClass EventType = "class"
	// EventOnline is a class held over a meeting link.
	EventOnline EventType = "online"
	// EventPerformance is a concert, havan, annual day or similar event.
	EventPerformance EventType = "performance"
	// EventCancelled records a cancellation notice.
	EventCancelled EventType = "cancelled"
	// EventRescheduled records a date change notice.
	EventRescheduled EventType = "rescheduled"
)

// IsCancellation reports whether the type carries schedule-change information
// that must never be dropped in favor of an earlier entry for the same date.
func (t EventType) IsCancellation() bool {
	return t == EventCancelled || t == EventRescheduled
}

// ClassDate is one inferred scheduling event, derived from a teacher message.
// It is a read-only artifact: created once by the extractor, never mutated.
type ClassDate struct {
	SentAt   time.Time // when the triggering message was sent
	Date     string    // printed date of the triggering message
	Time     string    // clock time mentioned in the body, if any
	Type     EventType
	Evidence string // bounded excerpt of the triggering body, for auditing
}
