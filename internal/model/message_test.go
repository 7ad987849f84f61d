package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_DateTime(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		want    time.Time
		wantErr bool
	}{
		{
			name: "four digit year",
			msg:  Message{Date: "2/8/2026", Time: "5:55 PM"},
			want: time.Date(2026, 2, 8, 17, 55, 0, 0, time.UTC),
		},
		{
			name: "two digit year with seconds",
			msg:  Message{Date: "7/17/23", Time: "5:54:21 PM"},
			want: time.Date(2023, 7, 17, 17, 54, 0, 0, time.UTC),
		},
		{
			name: "seconds equivalent to no seconds",
			msg:  Message{Date: "7/17/23", Time: "5:54 PM"},
			want: time.Date(2023, 7, 17, 17, 54, 0, 0, time.UTC),
		},
		{
			name: "missing space before meridiem",
			msg:  Message{Date: "2/8/2026", Time: "5:55PM"},
			want: time.Date(2026, 2, 8, 17, 55, 0, 0, time.UTC),
		},
		{
			name: "morning time",
			msg:  Message{Date: "12/1/2025", Time: "9:05 AM"},
			want: time.Date(2025, 12, 1, 9, 5, 0, 0, time.UTC),
		},
		{
			name:    "garbage time",
			msg:     Message{Date: "2/8/2026", Time: "around noon"},
			wantErr: true,
		},
		{
			name:    "garbage date",
			msg:     Message{Date: "February 8th", Time: "5:55 PM"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.DateTime()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadDateTime)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestMessage_DedupKey(t *testing.T) {
	base := Message{Date: "2/8/2026", Time: "5:55 PM", Sender: "Vaishnavi  Kondapalli"}

	t.Run("sender case is folded", func(t *testing.T) {
		a := base
		b := base
		b.Sender = strings.ToUpper(base.Sender)
		a.Body, b.Body = "hello", "hello"
		assert.Equal(t, a.DedupKey(), b.DedupKey())
		assert.Equal(t, a.DedupHash(), b.DedupHash())
	})

	t.Run("bodies differing after 100 runes collide", func(t *testing.T) {
		prefix := strings.Repeat("x", 100)
		a := base
		b := base
		a.Body = prefix + " first tail"
		b.Body = prefix + " second tail"
		assert.Equal(t, a.DedupKey(), b.DedupKey())
	})

	t.Run("bodies differing within 100 runes do not collide", func(t *testing.T) {
		a := base
		b := base
		a.Body = "see you at class"
		b.Body = "see you at practice"
		assert.NotEqual(t, a.DedupKey(), b.DedupKey())
	})

	t.Run("multibyte runes count as characters not bytes", func(t *testing.T) {
		prefix := strings.Repeat("रा", 50) // 100 runes, 300 bytes
		a := base
		b := base
		a.Body = prefix + "tail one"
		b.Body = prefix + "tail two"
		assert.Equal(t, a.DedupKey(), b.DedupKey())
	})
}

func TestMessage_DriveLinks(t *testing.T) {
	msg := Message{Body: "recording: https://drive.google.com/file/d/abc123/view\n" +
		"again https://drive.google.com/file/d/abc123/view and " +
		"https://drive.google.com/drive/folders/xyz"}

	assert.True(t, msg.HasDriveLink())
	links := msg.DriveLinks()
	assert.Equal(t, []string{
		"https://drive.google.com/file/d/abc123/view",
		"https://drive.google.com/drive/folders/xyz",
	}, links)

	plain := Message{Body: "see you tomorrow at 5"}
	assert.False(t, plain.HasDriveLink())
	assert.Empty(t, plain.DriveLinks())
}

func TestTeacher_Matches(t *testing.T) {
	teacher := NewTeacher("Vaishnavi", "V Kondapalli")

	tests := []struct {
		sender string
		want   bool
	}{
		{"Vaishnavi  Kondapalli", true},
		{"vaishnavi", true},
		{"VAISHNAVI KONDAPALLI", true},
		{"Ankur Desai", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, teacher.Matches(tt.sender), "sender %q", tt.sender)
	}

	empty := NewTeacher()
	assert.False(t, empty.Matches("Vaishnavi"))
}
