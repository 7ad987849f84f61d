// Package tagger analyzes practice recordings with the Gemini API and
// stores the resulting raga and composition tags.
package tagger

import (
	"time"

	"github.com/kiddomusic/riyaz/internal/service"
)

// Client analyzes audio files and must be closed after use.
type Client interface {
	service.Tagger
	Close() error
}

// Config holds settings for the tagging client.
type Config struct {
	APIKey            string
	Models            []string // tried in order when a model's quota is exhausted
	RequestsPerMinute int
	Timeout           time.Duration
}

// NewClient creates a tagging client for the configured provider.
func NewClient(cfg Config) (Client, error) {
	return newGeminiClient(cfg)
}
