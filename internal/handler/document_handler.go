package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fieldlens/internal/domain"
	"fieldlens/internal/export"
	"fieldlens/internal/port"
)

// DocumentHandler handles the processed-document endpoints.
type DocumentHandler struct {
	repo          port.DocumentRepository
	storage       port.ObjectStorage
	presignExpiry int64
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(repo port.DocumentRepository, storage port.ObjectStorage, presignExpiry int64) *DocumentHandler {
	return &DocumentHandler{repo: repo, storage: storage, presignExpiry: presignExpiry}
}

// List handles GET /api/v1/documents with offset/limit pagination.
func (h *DocumentHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	docs, total, err := h.repo.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id.
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document id")
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// GetFileURL handles GET /api/v1/documents/:id/file, returning a
// presigned URL for the archived original.
func (h *DocumentHandler) GetFileURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document id")
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if doc.S3Key == "" {
		HandleError(c, domain.ErrNotFound)
		return
	}

	url, err := h.storage.GetPresignedURL(c.Request.Context(), doc.S3Bucket, doc.S3Key, h.presignExpiry)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url, "expires_in": h.presignExpiry})
}

// Export handles GET /api/v1/documents/:id/export?format=csv|xlsx,
// streaming the stored extraction result as a download.
func (h *DocumentHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document id")
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if len(doc.Result) == 0 {
		HandleError(c, domain.ErrNoResultData)
		return
	}

	var result domain.ExtractionResult
	if err := json.Unmarshal(doc.Result, &result); err != nil {
		HandleError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		data, err := export.CSV(&result)
		if err != nil {
			HandleError(c, err)
			return
		}
		filename := fmt.Sprintf("%s.csv", id)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		data, err := export.XLSX(&result)
		if err != nil {
			HandleError(c, err)
			return
		}
		filename := fmt.Sprintf("%s.xlsx", id)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}
