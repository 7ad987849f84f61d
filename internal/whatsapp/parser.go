// Package whatsapp parses WhatsApp chat export transcripts into structured
// messages and merges multiple exports of the same chat.
package whatsapp

import (
	"regexp"
	"strings"

	"github.com/kiddomusic/riyaz/internal/model"
)

// The two export header grammars are kept separate on purpose: they differ in
// field order and digit widths, and misfires are far easier to debug than
// with one combined expression.

// headerA matches the time-first format with a 4-digit year:
// [5:55 PM, 2/8/2026] Sender Name: message
var headerA = regexp.MustCompile(`(?i)^\[(\d{1,2}:\d{2}\s*[AP]M),\s*(\d{1,2}/\d{1,2}/\d{4})\]\s*(.+?):\s*(.*)$`)

// headerB matches the date-first format with a 2-digit year and optional
// seconds: [7/17/23, 5:54:21 PM] Sender Name: message
var headerB = regexp.MustCompile(`(?i)^\[(\d{1,2}/\d{1,2}/\d{2,4}),\s*(\d{1,2}:\d{2}(?::\d{2})?\s*[AP]M)\]\s*(.+?):\s*(.*)$`)

// normalizer strips the control characters WhatsApp embeds in exports: the
// narrow no-break space before AM/PM, the left-to-right mark, and carriage
// returns. They are export artifacts, not content.
var normalizer = strings.NewReplacer(" ", "", "‎", "", "\r", "")

// Normalize removes WhatsApp-inserted control characters from a line.
func Normalize(line string) string {
	return normalizer.Replace(line)
}

// tryHeader attempts to read line as the start of a new message, trying
// format A then format B. Returns nil when the line is not a header.
func tryHeader(line string) *model.Message {
	if sub := headerA.FindStringSubmatch(line); sub != nil {
		return &model.Message{
			Time:   strings.TrimSpace(sub[1]),
			Date:   strings.TrimSpace(sub[2]),
			Sender: strings.TrimSpace(sub[3]),
			Body:   sub[4],
		}
	}
	if sub := headerB.FindStringSubmatch(line); sub != nil {
		return &model.Message{
			Date:   strings.TrimSpace(sub[1]),
			Time:   strings.TrimSpace(sub[2]),
			Sender: strings.TrimSpace(sub[3]),
			Body:   sub[4],
		}
	}
	return nil
}

// ParseText parses one transcript's raw text into messages, preserving
// transcript order. Lines that do not start a message continue the previous
// one; blank lines and lines arriving before the first header are dropped.
func ParseText(text string) []model.Message {
	var messages []model.Message

	for _, raw := range strings.Split(text, "\n") {
		line := Normalize(raw)

		if msg := tryHeader(line); msg != nil {
			messages = append(messages, *msg)
			continue
		}
		if len(messages) == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		messages[len(messages)-1].Body += "\n" + line
	}

	return messages
}
