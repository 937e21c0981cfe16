package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldlens/internal/domain"
	"fieldlens/internal/handler"
	"fieldlens/internal/view"
)

type stubResultSource struct {
	result *domain.ExtractionResult
}

func (s *stubResultSource) Result() *domain.ExtractionResult { return s.result }

func viewRouter(t *testing.T, result *domain.ExtractionResult) *gin.Engine {
	t.Helper()
	svc := view.NewService(&stubResultSource{result: result}, view.NewSelectionController())
	h := handler.NewViewHandler(svc)
	r := gin.New()
	r.GET("/api/v1/view", h.View)
	r.POST("/api/v1/view/select", h.Select)
	r.POST("/api/v1/view/clear", h.Clear)
	return r
}

func loadedResult(t *testing.T) *domain.ExtractionResult {
	t.Helper()
	raw := `{
		"basic_information": {
			"account_holder": {"value": "Jane Doe", "confidence": 0.92, "position": [10, 10, 200, 40]}
		},
		"transactions": []
	}`
	var data domain.ExtractionData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	canvas := domain.DefaultCanvas
	return &domain.ExtractionResult{
		Status: domain.StatusSuccess,
		Data:   &data,
		Canvas: &canvas,
	}
}

func TestView_NoDocument(t *testing.T) {
	r := viewRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NO_DOCUMENT_LOADED")
}

func TestView_SelectThenView(t *testing.T) {
	r := viewRouter(t, loadedResult(t))

	body := strings.NewReader(`{"field": "account_holder", "position": [10, 10, 200, 40]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/view/select", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/view?page_width=1000&page_height=1169.5&zoom=1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data view.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Selection)
	assert.Equal(t, "account_holder", resp.Data.Selection.FieldName)
	require.NotNil(t, resp.Data.Highlight)
	assert.InDelta(t, 5, resp.Data.Highlight.Left, 1e-9)
	require.NotNil(t, resp.Data.Presentation)
	require.Len(t, resp.Data.Presentation.Cards, 1)
}

func TestView_ClearIsIdempotent(t *testing.T) {
	r := viewRouter(t, loadedResult(t))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/view/clear", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/view", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data view.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Data.Selection)
	assert.Nil(t, resp.Data.Highlight)
}

func TestView_SelectWithoutField(t *testing.T) {
	r := viewRouter(t, loadedResult(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/view/select", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestView_InvalidZoom(t *testing.T) {
	r := viewRouter(t, loadedResult(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/view?zoom=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
