package tagger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kiddomusic/riyaz/internal/common"
	"github.com/kiddomusic/riyaz/internal/model"
)

const taxonomyPrompt = `Identify the following for this Hindustani classical music audio:
1. Raga: The melodic framework (e.g., Brindavani Sarang, Yaman, Bhairav, Bhupali, etc.)
   NOTE: Use "Bhupali" (not "Bhoopali") as the standard spelling.
2. Composition Type: Alaap (slow improv), Bandish (song with lyrics), or Taan (fast runs)
3. Paltaas: Is this a Sargam/Paltaa practice exercise? (Yes/No)
4. Taal: The rhythm cycle if audible (e.g., Teentaal - 16, Ektaal - 12, Jhaptaal - 10, Rupak - 7, Dadra - 6)

Return ONLY valid JSON with no extra text, in this exact format:
{
  "raga": "name or Unknown",
  "composition_type": "Alaap/Bandish/Taan/Unknown",
  "paltaas": true/false,
  "taal": "name or Unknown",
  "explanation": "Brief reason for classification"
}`

// defaultModels are tried in order; each draws from a separate quota pool.
var defaultModels = []string{"gemini-2.0-flash", "gemini-2.5-flash"}

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// geminiClient implements the Client interface for the Gemini API.
type geminiClient struct {
	httpClient *http.Client
	limiter    *rateLimiter
	apiKey     string
	models     []string
}

// newGeminiClient creates a new Gemini API client.
func newGeminiClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	models := cfg.Models
	if len(models) == 0 {
		models = defaultModels
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute // audio upload and analysis are slow
	}

	return &geminiClient{
		apiKey:  cfg.APIKey,
		models:  models,
		limiter: newRateLimiter(cfg.RequestsPerMinute),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Tag uploads one audio file and returns the parsed tag. Models are tried in
// order; when every model answers 429 the error is retryable so callers can
// back off and try the whole chain again.
func (c *geminiClient) Tag(ctx context.Context, path string) (*model.AudioTag, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	mime := mimeTypeFor(path)
	fileName := filepath.Base(path)

	var lastErr error
	allRateLimited := true
	for _, m := range c.models {
		tag, tagErr := c.tagWithModel(ctx, m, fileName, mime, data)
		if tagErr == nil {
			return tag, nil
		}

		lastErr = tagErr
		if !isQuotaError(tagErr) {
			allRateLimited = false
		}
		// Quota and malformed-JSON failures both fall through to the next
		// model; anything else is unlikely to improve.
		if !isQuotaError(tagErr) && !isParseError(tagErr) {
			return nil, tagErr
		}
	}

	if allRateLimited {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("all models quota-limited: %w", common.ErrRateLimit),
			Retryable: true,
		}
	}
	return nil, &common.RetryableError{
		Err:       fmt.Errorf("%w: %w", common.ErrTaggingFailed, lastErr),
		Retryable: false,
	}
}

func (c *geminiClient) tagWithModel(ctx context.Context, modelName, fileName, mime string, data []byte) (*model.AudioTag, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return nil, err
	}

	requestBody := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"inline_data": map[string]string{
						"mime_type": mime,
						"data":      base64.StdEncoding.EncodeToString(data),
					}},
					{"text": taxonomyPrompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature": 0.2,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpoint, modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(jsonBody)))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("gemini quota exhausted for %s: %w", modelName, common.ErrRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response geminiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	text := response.text()
	if text == "" {
		return nil, fmt.Errorf("no content in response")
	}

	tag, err := parseTag(text)
	if err != nil {
		return nil, err
	}
	tag.FileName = fileName
	tag.Model = modelName
	return tag, nil
}

// Close stops the rate limiter's refill goroutine.
func (c *geminiClient) Close() error {
	c.limiter.Close()
	return nil
}

// geminiResponse represents the Gemini generateContent response structure.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r *geminiResponse) text() string {
	var sb strings.Builder
	for _, cand := range r.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".opus":
		return "audio/opus"
	case ".ogg":
		return "audio/ogg"
	case ".amr":
		return "audio/amr"
	default:
		return "audio/mpeg"
	}
}

func isQuotaError(err error) bool {
	return errors.Is(err, common.ErrRateLimit)
}

func isParseError(err error) bool {
	return errors.Is(err, errBadTagJSON)
}
