// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrBadDateTime indicates a message's date/time strings could not be parsed
// into any supported literal shape. The message itself stays valid; only
// datetime-derived operations fail.
var ErrBadDateTime = errors.New("unparseable message date/time")

// Message is one chat message as captured from a WhatsApp export transcript.
// The Time, Date and Sender fields are the literal substrings from the header
// line of the message; Body may span multiple physical lines. Messages are
// never mutated after the parser emits them.
type Message struct {
	Time   string // as printed, e.g. "5:55 PM" or "5:54:21 PM"
	Date   string // as printed, e.g. "2/8/2026" or "7/17/23"
	Sender string // display name exactly as exported
	Body   string
}

// secondsRe strips a :SS component sitting directly before the AM/PM marker.
var secondsRe = regexp.MustCompile(`(?i)^(\d{1,2}:\d{2}):\d{2}(\s*[AP]M)$`)

// meridiemRe detects a time whose AM/PM marker lost its leading space to
// unicode normalization (the narrow no-break space is removed, not replaced).
var meridiemRe = regexp.MustCompile(`(?i)^(\d{1,2}:\d{2})\s*([AP]M)$`)

// DateTime derives a time.Time from the printed date and time strings.
// Seconds are discarded before parsing; 2-digit years mean 2000+YY. Returns
// ErrBadDateTime when neither accepted shape matches.
func (m *Message) DateTime() (time.Time, error) {
	clock := strings.TrimSpace(m.Time)
	if sub := secondsRe.FindStringSubmatch(clock); sub != nil {
		clock = sub[1] + sub[2]
	}
	// Canonicalize to "H:MM PM" so a stripped narrow no-break space
	// doesn't change the parse result.
	if sub := meridiemRe.FindStringSubmatch(clock); sub != nil {
		clock = sub[1] + " " + strings.ToUpper(sub[2])
	}

	s := strings.TrimSpace(m.Date) + " " + clock
	if ts, err := time.Parse("1/2/2006 3:04 PM", s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("1/2/06 3:04 PM", s); err == nil {
		// Two-digit years always mean 2000+YY, not Go's 1969 pivot.
		if ts.Year() < 2000 {
			ts = ts.AddDate(100, 0, 0)
		}
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDateTime, s)
}

// dedupBodyRunes bounds how much of the body participates in the dedup key.
// Hashing only a prefix is a deliberate trade-off inherited from the exports
// this tool consumes: re-exports reproduce headers and bodies verbatim, and
// two distinct messages from the same sender at the same minute sharing their
// first 100 characters collapse into one.
const dedupBodyRunes = 100

// DedupKey returns the string key identifying this message across exports:
// printed date, printed time, lowercased sender, and the first 100 characters
// of the body.
func (m *Message) DedupKey() string {
	body := m.Body
	if runes := []rune(body); len(runes) > dedupBodyRunes {
		body = string(runes[:dedupBodyRunes])
	}
	return fmt.Sprintf("%s|%s|%s|%s", m.Date, m.Time, strings.ToLower(m.Sender), body)
}

// DedupHash returns a stable hex hash of the dedup key, used as the unique
// column in storage.
func (m *Message) DedupHash() string {
	sum := sha256.Sum256([]byte(m.DedupKey()))
	return fmt.Sprintf("%x", sum)
}

// driveLinkRe matches Google Drive URLs by shape; full URL parsing is not
// needed for link harvesting.
var driveLinkRe = regexp.MustCompile(`(?i)https?://drive\.google\.com/[^\s<>'"]+`)

// HasDriveLink reports whether the body contains a Google Drive URL.
func (m *Message) HasDriveLink() bool {
	return driveLinkRe.MatchString(m.Body)
}

// DriveLinks returns all Google Drive URLs in the body, in order of first
// appearance, without repeats.
func (m *Message) DriveLinks() []string {
	var links []string
	seen := make(map[string]bool)
	for _, l := range driveLinkRe.FindAllString(m.Body, -1) {
		if seen[l] {
			continue
		}
		seen[l] = true
		links = append(links, l)
	}
	return links
}
