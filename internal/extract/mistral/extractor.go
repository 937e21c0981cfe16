// Package mistral implements the two-step extraction strategy: the
// Mistral OCR API produces page text, then a chat-completions call
// structures it against the schema.
package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fieldlens/internal/config"
	"fieldlens/internal/domain"
	"fieldlens/internal/extract"
	"fieldlens/internal/port"
	"fieldlens/internal/schema"
)

const apiBaseURL = "https://api.mistral.ai/v1"

// ocrModel is the fixed model for the OCR step; the configurable model
// only applies to the structuring step.
const ocrModel = "mistral-ocr-latest"

// twoStepConfidence is the envelope confidence for the OCR+LLM pipeline.
const twoStepConfidence = 0.9

// Extractor implements port.Extractor using the Mistral OCR and chat APIs.
type Extractor struct {
	apiKey       string
	chatModel    string
	ocrEndpoint  string
	chatEndpoint string
	client       *http.Client
}

// New creates a two-step extractor against the public Mistral API.
func New(cfg *config.ProviderConfig) *Extractor {
	return NewWithEndpoints(cfg, apiBaseURL+"/ocr", apiBaseURL+"/chat/completions")
}

// NewWithEndpoints creates an extractor pointing at custom API endpoints (for testing).
func NewWithEndpoints(cfg *config.ProviderConfig, ocrEndpoint, chatEndpoint string) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "mistral-medium-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 300 * time.Second
	}
	return &Extractor{
		apiKey:       cfg.APIKey,
		chatModel:    model,
		ocrEndpoint:  ocrEndpoint,
		chatEndpoint: chatEndpoint,
		client:       &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.ExtractionResult, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("mistral API key not configured")
	}

	text, pages, err := e.runOCR(ctx, input.FileBytes)
	if err != nil {
		return nil, err
	}

	raw, err := e.structure(ctx, text, input)
	if err != nil {
		return nil, err
	}

	if err := schema.Validate(input.Schema, raw); err != nil {
		return nil, err
	}

	var data domain.ExtractionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decoding extraction data: %w", err)
	}

	if pages == 0 {
		pages = input.Pages
	}
	confidence := twoStepConfidence
	canvas := domain.DefaultCanvas
	return &domain.ExtractionResult{
		Status:          domain.StatusSuccess,
		Data:            &data,
		SchemaUsed:      input.SchemaName,
		ConfidenceScore: &confidence,
		PagesProcessed:  pages,
		Canvas:          &canvas,
	}, nil
}

// ocrResponse models the Mistral OCR API response.
type ocrResponse struct {
	Pages []struct {
		Index    int    `json:"index"`
		Markdown string `json:"markdown"`
	} `json:"pages"`
}

// runOCR sends the PDF as a base64 data URI and concatenates the
// per-page markdown.
func (e *Extractor) runOCR(ctx context.Context, fileBytes []byte) (string, int, error) {
	reqBody := map[string]any{
		"model": ocrModel,
		"document": map[string]any{
			"type":         "document_url",
			"document_url": "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(fileBytes),
		},
	}

	body, err := e.post(ctx, e.ocrEndpoint, reqBody, "OCR")
	if err != nil {
		return "", 0, err
	}

	var resp ocrResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", 0, fmt.Errorf("unmarshaling OCR response: %w", err)
	}

	var sb strings.Builder
	for _, page := range resp.Pages {
		if page.Markdown == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page.Markdown)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", 0, fmt.Errorf("OCR returned no text")
	}
	return text, len(resp.Pages), nil
}

// chatResponse models the chat-completions response.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// structure asks the LLM to shape the OCR text into schema-conformant JSON.
func (e *Extractor) structure(ctx context.Context, text string, input port.ExtractInput) (json.RawMessage, error) {
	userPrompt, err := extract.BuildStructuringPrompt(text, input.Schema, input.ExtractTables)
	if err != nil {
		return nil, err
	}

	reqBody := map[string]any{
		"model": e.chatModel,
		"messages": []map[string]any{
			{"role": "system", "content": extract.SystemPrompt(input.DocumentType)},
			{"role": "user", "content": userPrompt},
		},
		// Low temperature for consistent structured output.
		"temperature": 0.1,
	}

	body, err := e.post(ctx, e.chatEndpoint, reqBody, "LLM")
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from API: no choices")
	}

	content := resp.Choices[0].Message.Content
	raw, err := extract.ExtractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}
	return raw, nil
}

func (e *Extractor) post(ctx context.Context, endpoint string, reqBody map[string]any, step string) ([]byte, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", step, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating %s request: %w", step, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling mistral %s API: %w", step, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", step, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("invalid Mistral API key")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limit exceeded")
	default:
		return nil, fmt.Errorf("mistral %s API error (status %d)", step, resp.StatusCode)
	}
}
