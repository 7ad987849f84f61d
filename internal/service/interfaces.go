// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/kiddomusic/riyaz/internal/model"
)

// MessageFilter defines filtering options for message queries.
type MessageFilter struct {
	Sender string // substring match on sender, case-insensitive
	Search string // substring match on body, case-insensitive
	Limit  int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Message operations
	SaveMessages(ctx context.Context, messages []model.Message) (int, error)
	GetMessages(ctx context.Context, filter MessageFilter) ([]model.Message, error)
	GetMessageCount(ctx context.Context) (int, error)

	// Class date operations
	ReplaceClassDates(ctx context.Context, dates []model.ClassDate) error
	GetClassDates(ctx context.Context) ([]model.ClassDate, error)

	// Audio tag operations
	SaveAudioTag(ctx context.Context, tag *model.AudioTag) error
	GetAudioTag(ctx context.Context, fileName string) (*model.AudioTag, error)
	GetTaggedFileNames(ctx context.Context) (map[string]bool, error)
	GetAudioTags(ctx context.Context) ([]model.AudioTag, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Tagger classifies one audio recording.
type Tagger interface {
	Tag(ctx context.Context, path string) (*model.AudioTag, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
