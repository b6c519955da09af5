package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/openscrapers/docketproc/internal/apperr"
	"github.com/openscrapers/docketproc/internal/model"
)

// DeepInfraAdapter calls DeepInfra's OpenAI-compatible chat completion API
// to split and clean organization/author name blobs. DeepInfra was chosen
// over a dedicated SDK because its API surface is a thin OpenAI-compatible
// REST endpoint — there is no ecosystem client library for it in active
// use, so this talks to it directly over net/http (see DESIGN.md).
type DeepInfraAdapter struct {
	httpClient *http.Client
	apiKey     string
	model      string
	logger     *zap.Logger
}

const deepInfraBaseURL = "https://api.deepinfra.com/v1/openai/chat/completions"

// NewDeepInfraAdapter builds an Adapter backed by the DeepInfra API.
func NewDeepInfraAdapter(apiKey, model string, logger *zap.Logger) *DeepInfraAdapter {
	return &DeepInfraAdapter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		model:      model,
		logger:     logger.Named("llm.deepinfra"),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

const splitSystemPrompt = `You split a free-text list of organization or person names into a JSON array of objects with "name" and "suffix" fields (suffix is a trailing legal-entity designator like "LLC" or empty). Respond with JSON only, no prose.`

// SplitOrganizationNames asks the model to parse blob into structured
// names. On any transport or parse failure, the error is wrapped with
// apperr.Transport/apperr.Parse and the caller (the processing engine)
// falls back per its configured policy — this adapter never silently
// invents names.
func (d *DeepInfraAdapter) SplitOrganizationNames(ctx context.Context, blob string) ([]model.OrgName, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, nil
	}

	content, err := d.chat(ctx, splitSystemPrompt, blob)
	if err != nil {
		return nil, err
	}

	var parsed []model.OrgName
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &parsed); err != nil {
		return nil, apperr.Wrap(apperr.Parse, fmt.Errorf("llm: parse split response: %w", err))
	}
	return parsed, nil
}

const cleanSystemPrompt = `You receive a JSON array of organization names with "name" and "suffix" fields and return a corrected JSON array with the same shape: fix casing, strip stray punctuation, and move any legal-entity suffix embedded in "name" into "suffix". Respond with JSON only, no prose.`

// CleanOrganizationNames asks the model to normalize an existing list.
func (d *DeepInfraAdapter) CleanOrganizationNames(ctx context.Context, names []model.OrgName) ([]model.OrgName, error) {
	if len(names) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(names)
	if err != nil {
		return nil, fmt.Errorf("llm: encode names for cleanup: %w", err)
	}

	content, err := d.chat(ctx, cleanSystemPrompt, string(payload))
	if err != nil {
		return nil, err
	}

	var cleaned []model.OrgName
	if err := json.Unmarshal([]byte(extractJSONArray(content)), &cleaned); err != nil {
		return nil, apperr.Wrap(apperr.Parse, fmt.Errorf("llm: parse cleanup response: %w", err))
	}
	return cleaned, nil
}

func (d *DeepInfraAdapter) chat(ctx context.Context, systemPrompt, userContent string) (string, error) {
	reqBody := chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature: 0,
	}

	buf, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepInfraBaseURL, bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.Transport, fmt.Errorf("llm: request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperr.Wrap(apperr.Transport, fmt.Errorf("llm: unexpected status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", apperr.Wrap(apperr.Parse, fmt.Errorf("llm: decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return "", apperr.Wrap(apperr.Parse, fmt.Errorf("llm: empty response"))
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractJSONArray trims any leading/trailing prose a model might add
// despite instructions, returning the substring bounded by the first "["
// and the last "]".
func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "[]"
	}
	return s[start : end+1]
}
