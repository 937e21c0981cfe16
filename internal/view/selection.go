// Package view owns the field-selection state and the presentation
// shaping of extraction results.
package view

import (
	"sync"

	"fieldlens/internal/domain"
)

// SelectionState is the current field selection: the name of the clicked
// field and the extraction-space box to highlight, either of which may be
// unset.
type SelectionState struct {
	FieldName string              `json:"field_name,omitempty"`
	Box       *domain.BoundingBox `json:"box,omitempty"`
}

// SelectionController holds the currently selected field and highlight
// region. State changes only on a field click, an explicit clear, or a
// new document; last click wins.
type SelectionController struct {
	mu    sync.Mutex
	state SelectionState
}

// NewSelectionController creates a controller in the idle (no selection) state.
func NewSelectionController() *SelectionController {
	return &SelectionController{}
}

// Select records a field click. A nil box is legal: the field name is
// still recorded for styling feedback, with no highlight.
func (c *SelectionController) Select(fieldName string, box *domain.BoundingBox) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = SelectionState{FieldName: fieldName, Box: box}
}

// Clear drops any selection. Idempotent.
func (c *SelectionController) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = SelectionState{}
}

// Reset forces the idle state when a new document replaces the current one.
func (c *SelectionController) Reset() {
	c.Clear()
}

// Current returns the selection state; ok is false when nothing is selected.
func (c *SelectionController) Current() (SelectionState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.state.FieldName != ""
}
