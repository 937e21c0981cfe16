package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldlens/internal/domain"
)

func TestFieldMap_PreservesInsertionOrder(t *testing.T) {
	raw := `{
		"zeta": {"value": "last-alphabetically"},
		"account_holder": {"value": "Jane Doe", "confidence": 0.92},
		"alpha": {"value": 1}
	}`

	var m domain.FieldMap
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	assert.Equal(t, []string{"zeta", "account_holder", "alpha"}, m.Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	// Round-tripping must keep the same key order.
	var again domain.FieldMap
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, m.Keys(), again.Keys())
}

func TestFieldMap_SetAndGet(t *testing.T) {
	m := domain.NewFieldMap()
	m.Set("a", domain.ExtractionField{Value: "one"})
	m.Set("b", domain.ExtractionField{Value: "two"})
	m.Set("a", domain.ExtractionField{Value: "replaced"})

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, 2, m.Len())
	f, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "replaced", f.Value)
}

func TestFieldMap_RejectsNonObject(t *testing.T) {
	var m domain.FieldMap
	assert.Error(t, json.Unmarshal([]byte(`["not", "an", "object"]`), &m))
}

func TestExtractionField_HasValue(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"empty string", "", false},
		{"zero number", float64(0), false},
		{"false", false, false},
		{"string", "Jane", true},
		{"number", float64(42), true},
		{"true", true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := domain.ExtractionField{Value: tc.value}
			assert.Equal(t, tc.want, f.HasValue())
		})
	}
}

func TestExtractionResult_Succeeded(t *testing.T) {
	assert.False(t, (&domain.ExtractionResult{Status: domain.StatusError}).Succeeded())
	assert.False(t, (&domain.ExtractionResult{Status: domain.StatusSuccess}).Succeeded())
	assert.True(t, (&domain.ExtractionResult{
		Status: domain.StatusSuccess,
		Data:   &domain.ExtractionData{},
	}).Succeeded())
}
