package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldlens/internal/domain"
	"fieldlens/internal/service"
)

// ProcessHandler handles the document processing endpoint.
type ProcessHandler struct {
	orchestrator service.UploadOrchestrator
	maxBytes     int64
}

// NewProcessHandler creates a new ProcessHandler.
func NewProcessHandler(orchestrator service.UploadOrchestrator, maxBytes int64) *ProcessHandler {
	return &ProcessHandler{orchestrator: orchestrator, maxBytes: maxBytes}
}

// Process handles POST /ocr/process. It accepts a multipart PDF upload
// plus processing options and returns the extraction envelope. Provider
// failures are a 200 with an error-status envelope; only local
// validation failures produce 4xx responses.
func (h *ProcessHandler) Process(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	// Reject oversized bodies before buffering the whole file.
	if h.maxBytes > 0 && header.Size > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_BODY", "could not read uploaded file")
		return
	}

	modelName := domain.ModelName(c.DefaultPostForm("model_name", string(domain.ModelMistralOCR)))
	docType := domain.DocumentType(c.DefaultPostForm("document_type", string(domain.DocTypeAuto)))

	extractTables := true
	if raw := c.PostForm("extract_tables"); raw != "" {
		parsed, parseErr := strconv.ParseBool(raw)
		if parseErr != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_EXTRACT_TABLES", "extract_tables must be a boolean")
			return
		}
		extractTables = parsed
	}

	req := service.UploadRequest{
		Filename:      header.Filename,
		FileBytes:     fileBytes,
		ModelName:     modelName,
		DocumentType:  docType,
		CustomSchema:  c.PostForm("custom_schema"),
		ExtractTables: extractTables,
	}

	result, err := h.orchestrator.Submit(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Status handles GET /ocr/status, reporting the upload lifecycle state.
func (h *ProcessHandler) Status(c *gin.Context) {
	RespondOK(c, gin.H{"state": h.orchestrator.State()})
}
