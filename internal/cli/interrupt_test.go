package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptHandler(t *testing.T) {
	var buf bytes.Buffer
	h := NewInterruptHandler(&buf)

	ctx := h.HandleInterrupts(context.Background(), true)
	assert.NoError(t, ctx.Err())
	assert.False(t, h.WasInterrupted())

	h.showInterruptMessage()
	assert.Contains(t, buf.String(), "Tagging interrupted")
	assert.Contains(t, buf.String(), "resume")
}

func TestInterruptHandler_NilWriterDefaultsToStdout(t *testing.T) {
	h := NewInterruptHandler(nil)
	assert.NotNil(t, h.writer)
}
