// Package geometry converts extraction-space bounding boxes into
// render-space coordinates for the currently displayed page.
package geometry

import (
	"math"

	"fieldlens/internal/domain"
)

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderBox is a highlight rectangle in render space: CSS pixels of the
// displayed page at the current zoom. Derived, never persisted.
type RenderBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ParseBox interprets a raw position array as an extraction-space box.
// Providers emit positions as [x_min, y_min, x_max, y_max]; anything with
// a different arity or a non-finite element yields no box, and the caller
// must treat that as "no highlight". A zero-area box is valid.
func ParseBox(raw []float64) (domain.BoundingBox, bool) {
	if len(raw) != 4 {
		return domain.BoundingBox{}, false
	}
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.BoundingBox{}, false
		}
	}
	return domain.BoundingBox{XMin: raw[0], YMin: raw[1], XMax: raw[2], YMax: raw[3]}, true
}

// MapToRenderSpace scales box from the extraction canvas onto a rendered
// page at the given zoom. Extraction space and render space share a
// top-left origin and are axis-aligned; horizontal and vertical scale
// factors are independent. Pure function, safe to call on every render.
//
// The canvas dimensions must be positive; callers resolve them from the
// ExtractionResult (falling back to domain.DefaultCanvas).
func MapToRenderSpace(box domain.BoundingBox, canvas Size, page Size, zoom float64) RenderBox {
	scaleX := (page.Width * zoom) / canvas.Width
	scaleY := (page.Height * zoom) / canvas.Height
	return RenderBox{
		Left:   box.XMin * scaleX,
		Top:    box.YMin * scaleY,
		Width:  (box.XMax - box.XMin) * scaleX,
		Height: (box.YMax - box.YMin) * scaleY,
	}
}
