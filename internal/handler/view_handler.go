package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldlens/internal/geometry"
	"fieldlens/internal/view"
)

// ViewHandler handles the result-pane view endpoints for the currently
// loaded document.
type ViewHandler struct {
	view *view.Service
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(v *view.Service) *ViewHandler {
	return &ViewHandler{view: v}
}

// View handles GET /api/v1/view. The query parameters describe the
// rendered page so the highlight can be computed for the caller's
// viewport.
func (h *ViewHandler) View(c *gin.Context) {
	pageWidth, err := strconv.ParseFloat(c.DefaultQuery("page_width", "1000"), 64)
	if err != nil || pageWidth <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_PAGE_SIZE", "page_width must be a positive number")
		return
	}
	pageHeight, err := strconv.ParseFloat(c.DefaultQuery("page_height", "1169.5"), 64)
	if err != nil || pageHeight <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_PAGE_SIZE", "page_height must be a positive number")
		return
	}
	zoom, err := strconv.ParseFloat(c.DefaultQuery("zoom", "1"), 64)
	if err != nil || zoom <= 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_ZOOM", "zoom must be a positive number")
		return
	}

	state, err := h.view.View(geometry.Size{Width: pageWidth, Height: pageHeight}, zoom)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, state)
}

type selectRequest struct {
	Field    string    `json:"field" binding:"required"`
	Position []float64 `json:"position"`
}

// Select handles POST /api/v1/view/select, recording a field click.
func (h *ViewHandler) Select(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "field is required")
		return
	}

	if err := h.view.Select(req.Field, req.Position); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"selected": req.Field})
}

// Clear handles POST /api/v1/view/clear. Clearing with no selection is
// not an error.
func (h *ViewHandler) Clear(c *gin.Context) {
	h.view.Clear()
	RespondOK(c, gin.H{"selected": nil})
}
