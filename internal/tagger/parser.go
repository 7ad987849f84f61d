package tagger

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kiddomusic/riyaz/internal/model"
)

// errBadTagJSON marks responses whose JSON could not be parsed, which makes
// them eligible for a retry on the next model in the chain.
var errBadTagJSON = errors.New("malformed tag JSON")

// jsonObjectRe finds the outermost JSON object when the model wraps its
// answer in prose.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// cleanTagJSON strips markdown code fences and surrounding prose from a
// model response, leaving just the JSON object.
func cleanTagJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+len("```"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	if match := jsonObjectRe.FindString(text); match != "" {
		text = match
	}
	return strings.TrimSpace(text)
}

// parseTag extracts an AudioTag from a model response. FileName and Model
// are left for the caller to fill in.
func parseTag(text string) (*model.AudioTag, error) {
	var resp struct {
		Raga            string `json:"raga"`
		CompositionType string `json:"composition_type"`
		Paltaas         bool   `json:"paltaas"`
		Taal            string `json:"taal"`
		Explanation     string `json:"explanation"`
	}

	cleaned := cleanTagJSON(text)
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadTagJSON, err)
	}

	if resp.Raga == "" {
		return nil, fmt.Errorf("%w: no raga in response", errBadTagJSON)
	}

	return &model.AudioTag{
		Raga:            normalizeRaga(resp.Raga),
		CompositionType: resp.CompositionType,
		Paltaas:         resp.Paltaas,
		Taal:            resp.Taal,
		Explanation:     resp.Explanation,
	}, nil
}

// normalizeRaga folds common alternate spellings onto one canonical name.
func normalizeRaga(raga string) string {
	if strings.EqualFold(raga, "Bhoopali") {
		return "Bhupali"
	}
	return raga
}
