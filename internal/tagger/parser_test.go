package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		raga    string
		ctype   string
		taal    string
		paltaas bool
	}{
		{
			name:  "plain JSON",
			input: `{"raga": "Yaman", "composition_type": "Bandish", "paltaas": false, "taal": "Teentaal", "explanation": "steady 16 beat cycle"}`,
			raga:  "Yaman",
			ctype: "Bandish",
			taal:  "Teentaal",
		},
		{
			name: "markdown fenced",
			input: "```json\n" +
				`{"raga": "Brindavani Sarang", "composition_type": "Alaap", "paltaas": false, "taal": "Unknown", "explanation": "slow improvisation"}` +
				"\n```",
			raga:  "Brindavani Sarang",
			ctype: "Alaap",
			taal:  "Unknown",
		},
		{
			name:    "prose around the object",
			input:   `Here is my analysis: {"raga": "Bhairav", "composition_type": "Taan", "paltaas": true, "taal": "Ektaal", "explanation": "fast runs"} Hope this helps!`,
			raga:    "Bhairav",
			ctype:   "Taan",
			taal:    "Ektaal",
			paltaas: true,
		},
		{
			name:  "alternate raga spelling is normalized",
			input: `{"raga": "Bhoopali", "composition_type": "Bandish", "paltaas": false, "taal": "Teentaal", "explanation": ""}`,
			raga:  "Bhupali",
			ctype: "Bandish",
			taal:  "Teentaal",
		},
		{
			name:    "not JSON at all",
			input:   "I could not identify the raga.",
			wantErr: true,
		},
		{
			name:    "missing raga",
			input:   `{"composition_type": "Bandish", "paltaas": false, "taal": "Teentaal"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, err := parseTag(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errBadTagJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raga, tag.Raga)
			assert.Equal(t, tt.ctype, tag.CompositionType)
			assert.Equal(t, tt.taal, tag.Taal)
			assert.Equal(t, tt.paltaas, tag.Paltaas)
		})
	}
}

func TestCleanTagJSON_BareFence(t *testing.T) {
	input := "```\n{\"raga\": \"Yaman\"}\n```"
	assert.Equal(t, `{"raga": "Yaman"}`, cleanTagJSON(input))
}
