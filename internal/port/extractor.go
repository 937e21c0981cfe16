package port

import (
	"context"

	"fieldlens/internal/domain"
)

// ExtractInput carries the data needed for one extraction run.
type ExtractInput struct {
	FileBytes     []byte
	Filename      string
	DocumentType  domain.DocumentType
	Schema        map[string]any
	SchemaName    string
	ExtractTables bool
	Pages         int // page count from local PDF inspection
}

// Extractor abstracts one extraction strategy (two-step OCR+LLM, or
// single-step vision). Implementations fill Data, ConfidenceScore,
// PagesProcessed, SchemaUsed, and Canvas; the orchestrator owns Status
// and timing.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.ExtractionResult, error)
}
