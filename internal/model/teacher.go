package model

import "strings"

// Teacher identifies the class teacher by display-name aliases. Matching is
// case-insensitive containment so that exported sender names with irregular
// internal whitespace ("Guruji  Sharma") still match a short alias.
type Teacher struct {
	Aliases []string
}

// NewTeacher builds a Teacher from configured aliases, dropping blanks.
func NewTeacher(aliases ...string) Teacher {
	t := Teacher{}
	for _, a := range aliases {
		if a = strings.TrimSpace(a); a != "" {
			t.Aliases = append(t.Aliases, a)
		}
	}
	return t
}

// Matches reports whether the given sender belongs to the teacher.
func (t Teacher) Matches(sender string) bool {
	s := strings.ToLower(sender)
	for _, a := range t.Aliases {
		if strings.Contains(s, strings.ToLower(a)) {
			return true
		}
	}
	return false
}

// IsFromTeacher reports whether the message was sent by the teacher.
func (m *Message) IsFromTeacher(t Teacher) bool {
	return t.Matches(m.Sender)
}
