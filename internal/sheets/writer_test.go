package sheets

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiddomusic/riyaz/internal/model"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no auth at all",
			mutate:  func(_ *Config) {},
			wantErr: "no authentication method",
		},
		{
			name: "service account only",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
			},
		},
		{
			name: "oauth only",
			mutate: func(c *Config) {
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
		},
		{
			name: "both auth methods",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
				c.ClientID = "id"
				c.ClientSecret = "secret"
				c.RefreshToken = "token"
			},
			wantErr: "multiple authentication methods",
		},
		{
			name: "negative retries",
			mutate: func(c *Config) {
				c.ServiceAccountPath = "/tmp/key.json"
				c.RetryAttempts = -1
			},
			wantErr: "retry attempts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPrepareCalendarData(t *testing.T) {
	w := &Writer{config: DefaultConfig(), logger: slog.Default()}

	dates := []model.ClassDate{
		{
			Date:   "5/19/2024",
			Time:   "1 PM",
			Type:   model.EventClass,
			SentAt: time.Date(2024, time.May, 18, 10, 0, 0, 0, time.UTC),
		},
		{
			Date: "6/2/2024",
			Type: model.EventCancelled,
			// Zero SentAt sorts last.
		},
		{
			Date:   "5/12/2024",
			Time:   "1 PM",
			Type:   model.EventClass,
			SentAt: time.Date(2024, time.May, 11, 9, 0, 0, 0, time.UTC),
		},
	}

	values := w.prepareCalendarData(dates)

	// Title, blank, Summary header, two summary rows (class and cancelled),
	// blank, column header, then one row per date.
	require.Len(t, values, 7+len(dates))

	assert.Equal(t, []any{string(model.EventClass), 2}, values[3])
	assert.Equal(t, []any{string(model.EventCancelled), 1}, values[4])

	header := values[6]
	assert.Equal(t, []any{"Date", "Time", "Type", "Announced", "Evidence"}, header)

	// Announcement order, undatable entry last.
	assert.Equal(t, "5/12/2024", values[7][0])
	assert.Equal(t, "5/19/2024", values[8][0])
	assert.Equal(t, "6/2/2024", values[9][0])
	assert.Equal(t, "", values[9][3])
}
