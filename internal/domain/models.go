package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BoundingBox is a rectangle in extraction space: the pixel coordinate
// system of the source image the OCR provider reported positions in.
// Origin is top-left, y grows downward.
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Canvas holds the extraction-space dimensions for one processed document.
// Providers that cannot report the rendered source-image size fall back to
// DefaultCanvas.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultCanvas is the source-image size the OCR pipeline rasterizes PDF
// pages at when the provider does not report per-document dimensions.
var DefaultCanvas = Canvas{Width: 2000, Height: 2339}

// ExtractionField is one extracted datum. Value is the raw JSON value
// (string, number, or nil). Confidence and Position are optional; their
// absence is fallback rendering, never an error.
type ExtractionField struct {
	Value          any       `json:"value"`
	Confidence     *float64  `json:"confidence,omitempty"`
	Position       []float64 `json:"position,omitempty"`
	ReviewRequired bool      `json:"review_required,omitempty"`
}

// HasValue reports whether the field holds a present, truthy value.
// Nil, empty string, zero, and false all render as "not found".
func (f ExtractionField) HasValue() bool {
	switch v := f.Value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	default:
		return true
	}
}

// FieldMap is a mapping of field name to ExtractionField that preserves
// insertion order, matching the order the extractor emitted the fields in.
type FieldMap struct {
	keys   []string
	fields map[string]ExtractionField
}

// NewFieldMap creates an empty FieldMap.
func NewFieldMap() *FieldMap {
	return &FieldMap{fields: make(map[string]ExtractionField)}
}

// Set adds or replaces a field, keeping first-insertion order.
func (m *FieldMap) Set(name string, f ExtractionField) {
	if m.fields == nil {
		m.fields = make(map[string]ExtractionField)
	}
	if _, ok := m.fields[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.fields[name] = f
}

// Get returns the field by name.
func (m *FieldMap) Get(name string) (ExtractionField, bool) {
	f, ok := m.fields[name]
	return f, ok
}

// Keys returns field names in insertion order.
func (m *FieldMap) Keys() []string {
	return m.keys
}

// Len returns the number of fields.
func (m *FieldMap) Len() int {
	return len(m.keys)
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (m *FieldMap) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.fields = make(map[string]ExtractionField)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("field map: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var f ExtractionField
		if err := dec.Decode(&f); err != nil {
			return fmt.Errorf("field map: decoding %q: %w", key, err)
		}
		m.Set(key, f)
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ExtractionData is the structured payload of a successful extraction.
type ExtractionData struct {
	BasicInformation FieldMap   `json:"basic_information"`
	Transactions     []FieldMap `json:"transactions"`
	StatementSummary *FieldMap  `json:"statement_summary,omitempty"`
}

// ExtractionResult is the top-level envelope returned by the processing
// endpoint. Status is "success" or "error"; anything other than "success"
// means Data must be ignored and Error carries the message.
type ExtractionResult struct {
	Status           string          `json:"status"`
	Data             *ExtractionData `json:"data,omitempty"`
	SchemaUsed       string          `json:"schema_used,omitempty"`
	ConfidenceScore  *float64        `json:"confidence_score,omitempty"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	PagesProcessed   int             `json:"pages_processed"`
	Canvas           *Canvas         `json:"canvas,omitempty"`
	Error            string          `json:"error,omitempty"`
}

// Succeeded reports whether the envelope carries a usable result.
func (r *ExtractionResult) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess && r.Data != nil
}

// Document is the persisted record of one processed upload.
type Document struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	OriginalName     string          `db:"original_name" json:"original_name"`
	FileSize         int64           `db:"file_size" json:"file_size"`
	ModelName        ModelName       `db:"model_name" json:"model_name"`
	DocumentType     DocumentType    `db:"document_type" json:"document_type"`
	SchemaUsed       string          `db:"schema_used" json:"schema_used"`
	Status           DocumentStatus  `db:"status" json:"status"`
	Error            string          `db:"error" json:"error,omitempty"`
	Result           json.RawMessage `db:"result" json:"result,omitempty"`
	ConfidenceScore  *float64        `db:"confidence_score" json:"confidence_score,omitempty"`
	ProcessingTimeMS int64           `db:"processing_time_ms" json:"processing_time_ms"`
	PagesProcessed   int             `db:"pages_processed" json:"pages_processed"`
	CanvasWidth      float64         `db:"canvas_width" json:"canvas_width"`
	CanvasHeight     float64         `db:"canvas_height" json:"canvas_height"`
	S3Bucket         string          `db:"s3_bucket" json:"-"`
	S3Key            string          `db:"s3_key" json:"-"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}
