package view

import (
	"fieldlens/internal/domain"
	"fieldlens/internal/geometry"
)

// ResultSource exposes the extraction result currently loaded for viewing.
type ResultSource interface {
	Result() *domain.ExtractionResult
}

// State is everything the result pane needs for one render: the shaped
// result, the current selection, and the highlight box in render space.
// Highlight is nil when nothing is selected or the selected field has no
// usable position.
type State struct {
	Result       *domain.ExtractionResult `json:"result,omitempty"`
	Presentation *Presentation            `json:"presentation,omitempty"`
	Selection    *SelectionState          `json:"selection,omitempty"`
	Highlight    *geometry.RenderBox      `json:"highlight,omitempty"`
}

// Service answers view queries against the currently loaded result.
type Service struct {
	source    ResultSource
	selection *SelectionController
}

func NewService(source ResultSource, selection *SelectionController) *Service {
	return &Service{source: source, selection: selection}
}

// Select records a field click. A malformed or missing position still
// selects the field, just without a highlight.
func (s *Service) Select(fieldName string, position []float64) error {
	if s.source.Result() == nil {
		return domain.ErrNoDocumentLoaded
	}
	if box, ok := geometry.ParseBox(position); ok {
		s.selection.Select(fieldName, &box)
	} else {
		s.selection.Select(fieldName, nil)
	}
	return nil
}

// Clear drops the current selection. Safe to call with nothing selected.
func (s *Service) Clear() {
	s.selection.Clear()
}

// View renders the current state for a page displayed at the given size
// and zoom. The highlight is recomputed from the stored extraction-space
// box on every call, so zoom changes need no stored state.
func (s *Service) View(page geometry.Size, zoom float64) (*State, error) {
	result := s.source.Result()
	if result == nil {
		return nil, domain.ErrNoDocumentLoaded
	}

	state := &State{
		Result:       result,
		Presentation: Present(result),
	}

	if sel, ok := s.selection.Current(); ok {
		state.Selection = &sel
		if sel.Box != nil {
			canvas := domain.DefaultCanvas
			if result.Canvas != nil {
				canvas = *result.Canvas
			}
			hl := geometry.MapToRenderSpace(*sel.Box, geometry.Size{Width: canvas.Width, Height: canvas.Height}, page, zoom)
			state.Highlight = &hl
		}
	}
	return state, nil
}
