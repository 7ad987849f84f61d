package model

import "time"

// AudioTag is the AI-assigned classification of one audio recording.
type AudioTag struct {
	TaggedAt        time.Time
	FileName        string
	Raga            string // melodic framework, "Unknown" when inaudible
	CompositionType string // Alaap, Bandish, Taan or Unknown
	Taal            string // rhythm cycle, "Unknown" when inaudible
	Explanation     string
	Model           string // which model produced the tag
	Paltaas         bool   // sargam/paltaa practice exercise
}
