// Package router wires the HTTP routes onto a Gin engine.
package router

import (
	"github.com/gin-gonic/gin"

	"fieldlens/internal/handler"
	"fieldlens/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	corsOrigins []string,
	healthH *handler.HealthHandler,
	processH *handler.ProcessHandler,
	documentH *handler.DocumentHandler,
	viewH *handler.ViewHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Service info and health
	r.GET("/", healthH.Root)
	r.GET("/health", healthH.Health)

	// Processing
	ocr := r.Group("/ocr")
	ocr.POST("/process", processH.Process)
	ocr.GET("/status", processH.Status)

	v1 := r.Group("/api/v1")

	// Processed documents
	documents := v1.Group("/documents")
	documents.GET("", documentH.List)
	documents.GET("/:id", documentH.GetByID)
	documents.GET("/:id/file", documentH.GetFileURL)
	documents.GET("/:id/export", documentH.Export)

	// Result-pane view state for the current document
	view := v1.Group("/view")
	view.GET("", viewH.View)
	view.POST("/select", viewH.Select)
	view.POST("/clear", viewH.Clear)

	return r
}
