package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiddomusic/riyaz/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("value cannot be empty")
	ErrNilTag       = errors.New("audio tag cannot be nil")
	ErrEmptyMessage = errors.New("message is missing required fields")
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, name)
	}
	return nil
}

func validateMessage(msg *model.Message) error {
	if msg.Date == "" || msg.Time == "" || msg.Sender == "" {
		return fmt.Errorf("%w: date=%q time=%q sender=%q",
			ErrEmptyMessage, msg.Date, msg.Time, msg.Sender)
	}
	return nil
}

func validateTag(tag *model.AudioTag) error {
	if tag == nil {
		return ErrNilTag
	}
	return validateString(tag.FileName, "tag.FileName")
}
