package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldlens/internal/extract"
)

func TestExtractJSON_Direct(t *testing.T) {
	raw, err := extract.ExtractJSON(`{"a": 1}`)

	assert.NoError(t, err)
	assert.JSONEq(t, `{"a": 1}`, string(raw))
}

func TestExtractJSON_WrappedInProse(t *testing.T) {
	raw, err := extract.ExtractJSON("Here is the result:\n```json\n{\"a\": {\"b\": 2}}\n```\nLet me know!")

	assert.NoError(t, err)
	assert.JSONEq(t, `{"a": {"b": 2}}`, string(raw))
}

func TestExtractJSON_BracesInsideStrings(t *testing.T) {
	raw, err := extract.ExtractJSON(`prefix {"narration": "POS {terminal} purchase", "n": 1} suffix`)

	assert.NoError(t, err)
	assert.JSONEq(t, `{"narration": "POS {terminal} purchase", "n": 1}`, string(raw))
}

func TestExtractJSON_NoObject(t *testing.T) {
	_, err := extract.ExtractJSON("the document could not be read")

	assert.Error(t, err)
}

func TestExtractJSON_Unbalanced(t *testing.T) {
	_, err := extract.ExtractJSON(`{"a": {"b": 2}`)

	assert.Error(t, err)
}
