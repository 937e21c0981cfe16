package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fieldlens/internal/domain"
	"fieldlens/internal/handler"
	"fieldlens/internal/service"
	"fieldlens/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, fileBytes []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileBytes != nil {
		fw, err := w.CreateFormFile("file", "statement.pdf")
		require.NoError(t, err)
		_, err = fw.Write(fileBytes)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func processRouter(orch service.UploadOrchestrator) *gin.Engine {
	r := gin.New()
	h := handler.NewProcessHandler(orch, 50*1024*1024)
	r.POST("/ocr/process", h.Process)
	r.GET("/ocr/status", h.Status)
	return r
}

func TestProcess_Success(t *testing.T) {
	orch := new(mocks.MockUploadOrchestrator)
	confidence := 0.95
	orch.On("Submit", mock.Anything, mock.MatchedBy(func(req service.UploadRequest) bool {
		return req.Filename == "statement.pdf" &&
			req.ModelName == domain.ModelGeminiVision &&
			req.DocumentType == domain.DocTypeBankStatement &&
			!req.ExtractTables
	})).Return(&domain.ExtractionResult{
		Status:          domain.StatusSuccess,
		Data:            &domain.ExtractionData{},
		SchemaUsed:      "bank_statement",
		ConfidenceScore: &confidence,
		PagesProcessed:  2,
	}, nil)

	body, contentType := multipartBody(t, []byte("%PDF-1.4"), map[string]string{
		"model_name":     "gemini-vision",
		"document_type":  "bank_statement",
		"extract_tables": "false",
	})
	req := httptest.NewRequest(http.MethodPost, "/ocr/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	processRouter(orch).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.ExtractionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusSuccess, resp.Status)
	assert.Equal(t, "bank_statement", resp.SchemaUsed)
	orch.AssertExpectations(t)
}

func TestProcess_DefaultsToMistralAuto(t *testing.T) {
	orch := new(mocks.MockUploadOrchestrator)
	orch.On("Submit", mock.Anything, mock.MatchedBy(func(req service.UploadRequest) bool {
		return req.ModelName == domain.ModelMistralOCR &&
			req.DocumentType == domain.DocTypeAuto &&
			req.ExtractTables
	})).Return(&domain.ExtractionResult{Status: domain.StatusSuccess, Data: &domain.ExtractionData{}}, nil)

	body, contentType := multipartBody(t, []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/ocr/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	processRouter(orch).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	orch.AssertExpectations(t)
}

func TestProcess_MissingFile(t *testing.T) {
	orch := new(mocks.MockUploadOrchestrator)

	body, contentType := multipartBody(t, nil, map[string]string{"model_name": "gemini-vision"})
	req := httptest.NewRequest(http.MethodPost, "/ocr/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	processRouter(orch).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	orch.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestProcess_ProviderFailureIsStillHTTP200(t *testing.T) {
	orch := new(mocks.MockUploadOrchestrator)
	orch.On("Submit", mock.Anything, mock.Anything).Return(&domain.ExtractionResult{
		Status: domain.StatusError,
		Error:  "rate limit exceeded",
	}, nil)

	body, contentType := multipartBody(t, []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/ocr/process", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	processRouter(orch).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp domain.ExtractionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.StatusError, resp.Status)
	assert.Equal(t, "rate limit exceeded", resp.Error)
}

func TestProcess_DomainErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrUploadInFlight, http.StatusConflict, "UPLOAD_IN_FLIGHT"},
		{domain.ErrInvalidSchema, http.StatusBadRequest, "INVALID_SCHEMA"},
		{domain.ErrUnknownModel, http.StatusBadRequest, "UNKNOWN_MODEL"},
	}

	for _, tc := range cases {
		orch := new(mocks.MockUploadOrchestrator)
		orch.On("Submit", mock.Anything, mock.Anything).Return(nil, tc.err)

		body, contentType := multipartBody(t, []byte("%PDF-1.4"), nil)
		req := httptest.NewRequest(http.MethodPost, "/ocr/process", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		processRouter(orch).ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code, tc.code)

		var resp handler.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, tc.code, resp.Error.Code)
	}
}

func TestStatus(t *testing.T) {
	orch := new(mocks.MockUploadOrchestrator)
	orch.On("State").Return(domain.UploadSuccess)

	req := httptest.NewRequest(http.MethodGet, "/ocr/status", nil)
	w := httptest.NewRecorder()
	processRouter(orch).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success"`)
}
