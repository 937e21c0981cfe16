package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldlens/internal/domain"
)

func TestApplyResult_DiscardsSupersededSequence(t *testing.T) {
	o := NewOrchestrator(OrchestratorDeps{})

	first, err := o.takeSlot()
	require.NoError(t, err)

	// The first upload finishes with a transport failure, releasing the
	// slot for the next document.
	failed := &domain.ExtractionResult{Status: domain.StatusError, Error: "timed out"}
	require.True(t, o.applyResult(first, failed))

	second, err := o.takeSlot()
	require.NoError(t, err)
	fresh := &domain.ExtractionResult{Status: domain.StatusSuccess, Data: &domain.ExtractionData{}}
	require.True(t, o.applyResult(second, fresh))

	// A late result carrying the old sequence must not overwrite the
	// newer document's state.
	late := &domain.ExtractionResult{Status: domain.StatusSuccess, Data: &domain.ExtractionData{}}
	assert.False(t, o.applyResult(first, late))
	assert.Same(t, fresh, o.Result())
	assert.Equal(t, domain.UploadSuccess, o.State())
}
