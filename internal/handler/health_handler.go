package handler

import (
	"github.com/gin-gonic/gin"
)

const serviceName = "fieldlens"

// HealthHandler handles health and service-info endpoints.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": h.version,
	})
}

// Root handles GET /, returning basic service information.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(200, gin.H{
		"service": serviceName,
		"version": h.version,
		"endpoints": gin.H{
			"process":   "POST /ocr/process",
			"status":    "GET /ocr/status",
			"health":    "GET /health",
			"documents": "GET /api/v1/documents",
			"view":      "GET /api/v1/view",
		},
	})
}
