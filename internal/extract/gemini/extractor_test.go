package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldlens/internal/config"
	"fieldlens/internal/domain"
	"fieldlens/internal/extract/gemini"
	"fieldlens/internal/port"
	"fieldlens/internal/schema"
)

func newTestExtractor(serverURL string) *gemini.Extractor {
	cfg := &config.ProviderConfig{
		APIKey:      "test-gemini-key",
		Model:       "gemini-2.5-flash-lite",
		TimeoutSecs: 30,
	}
	return gemini.NewWithEndpoint(cfg, serverURL)
}

func geminiSuccessResponse(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func bankStatementInput() port.ExtractInput {
	return port.ExtractInput{
		FileBytes:     []byte("%PDF-1.4 test content"),
		Filename:      "statement.pdf",
		DocumentType:  domain.DocTypeBankStatement,
		Schema:        schema.Defaults[domain.DocTypeBankStatement],
		SchemaName:    "bank_statement",
		ExtractTables: true,
		Pages:         3,
	}
}

func TestExtract_Success(t *testing.T) {
	llmJSON := `{
		"basic_information": {
			"account_holder": {"value": "Jane Doe", "confidence": 0.92, "position": [10, 10, 200, 40]}
		},
		"transactions": []
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]any)
		require.Len(t, contents, 1)
		msg := contents[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])

		parts := msg["parts"].([]any)
		require.Len(t, parts, 2)

		inlineData := parts[0].(map[string]any)["inline_data"].(map[string]any)
		assert.Equal(t, "application/pdf", inlineData["mime_type"])
		assert.NotEmpty(t, inlineData["data"])

		text := parts[1].(map[string]any)["text"].(string)
		assert.Contains(t, text, "bank statement")
		assert.Contains(t, text, "review_required")

		genConfig := reqBody["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", genConfig["responseMimeType"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(geminiSuccessResponse(llmJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	result, err := e.Extract(context.Background(), bankStatementInput())

	require.NoError(t, err)
	require.True(t, result.Succeeded())
	assert.Equal(t, "bank_statement", result.SchemaUsed)
	assert.Equal(t, 3, result.PagesProcessed)
	require.NotNil(t, result.ConfidenceScore)
	assert.InDelta(t, 0.95, *result.ConfidenceScore, 1e-9)
	require.NotNil(t, result.Canvas)
	assert.Equal(t, domain.DefaultCanvas, *result.Canvas)

	holder, ok := result.Data.BasicInformation.Get("account_holder")
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", holder.Value)
	assert.Equal(t, []float64{10, 10, 200, 40}, holder.Position)
}

func TestExtract_JSONWrappedInProse(t *testing.T) {
	llmJSON := "Sure, here it is:\n{\"basic_information\":{},\"transactions\":[]}"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geminiSuccessResponse(llmJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	result, err := e.Extract(context.Background(), bankStatementInput())

	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, result.Status)
}

func TestExtract_SchemaViolationRejected(t *testing.T) {
	// Bare scalar instead of the field object form must fail validation.
	llmJSON := `{"basic_information": {"account_holder": "Jane Doe"}, "transactions": []}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(geminiSuccessResponse(llmJSON))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), bankStatementInput())

	assert.Error(t, err)
}

func TestExtract_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "boom"}`))
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), bankStatementInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestExtract_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	e := newTestExtractor(server.URL)
	_, err := e.Extract(context.Background(), bankStatementInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestExtract_MissingAPIKey(t *testing.T) {
	cfg := &config.ProviderConfig{Model: "gemini-2.5-flash-lite", TimeoutSecs: 5}
	e := gemini.NewWithEndpoint(cfg, "http://127.0.0.1:0")

	_, err := e.Extract(context.Background(), bankStatementInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}
