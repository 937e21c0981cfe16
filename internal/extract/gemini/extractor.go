// Package gemini implements the single-step vision extraction strategy:
// the PDF is sent inline and the model reports values with positions in
// one call.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldlens/internal/config"
	"fieldlens/internal/domain"
	"fieldlens/internal/extract"
	"fieldlens/internal/port"
	"fieldlens/internal/schema"
)

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// hybridConfidence is the envelope confidence for vision extraction; the
// model sees the pages directly, so positions come straight from it.
const hybridConfidence = 0.95

// Extractor implements port.Extractor using Google's Gemini API.
type Extractor struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// New creates a vision extractor using the configured default model.
func New(cfg *config.ProviderConfig) *Extractor {
	return newExtractor(cfg, cfg.Model, "")
}

// NewWithModel creates a vision extractor pinned to a specific model.
func NewWithModel(cfg *config.ProviderConfig, model string) *Extractor {
	return newExtractor(cfg, model, "")
}

// NewWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewWithEndpoint(cfg *config.ProviderConfig, endpoint string) *Extractor {
	return newExtractor(cfg, cfg.Model, endpoint)
}

func newExtractor(cfg *config.ProviderConfig, model, endpoint string) *Extractor {
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
	}
	return &Extractor{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.ExtractionResult, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("gemini API key not configured")
	}

	prompt, err := extract.BuildVisionPrompt(input.DocumentType, input.Schema, input.ExtractTables)
	if err != nil {
		return nil, err
	}

	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)

	reqBody := map[string]any{
		"contents": []map[string]any{
			{
				"role": "user",
				"parts": []map[string]any{
					{
						"inline_data": map[string]any{
							"mime_type": "application/pdf",
							"data":      encoded,
						},
					},
					{
						"text": prompt,
					},
				},
			},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"maxOutputTokens":  16384,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling gemini API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	return e.parseResponse(respBody, input)
}

// geminiResponse models the Gemini API response.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (e *Extractor) parseResponse(body []byte, input port.ExtractInput) (*domain.ExtractionResult, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from API: no candidates")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from API: no parts")
	}

	text := resp.Candidates[0].Content.Parts[0].Text
	raw, err := extract.ExtractJSON(text)
	if err != nil {
		return nil, fmt.Errorf("parsing model output: %w (raw: %s)", err, truncate(text, 500))
	}

	if err := schema.Validate(input.Schema, raw); err != nil {
		return nil, err
	}

	var data domain.ExtractionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding extraction data: %w", err)
	}

	confidence := hybridConfidence
	canvas := domain.DefaultCanvas
	return &domain.ExtractionResult{
		Status:          domain.StatusSuccess,
		Data:            &data,
		SchemaUsed:      input.SchemaName,
		ConfidenceScore: &confidence,
		PagesProcessed:  input.Pages,
		Canvas:          &canvas,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
