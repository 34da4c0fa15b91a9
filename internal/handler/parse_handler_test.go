package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docparse/internal/domain"
	"docparse/internal/handler"
	"docparse/internal/inspect"
	"docparse/internal/repository/noop"
	"docparse/internal/service"
	"docparse/internal/staging"
	"docparse/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postParse(t *testing.T, h *handler.ParseHandler, query string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/parseDocument"+query, body)
	c.Request.Header.Set("Content-Type", contentType)
	h.ParseDocument(c)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestParseHandler_ParseDocument_Success(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 1<<20, zap.NewNop())

	svc.On("IngestReader", mock.Anything, mock.MatchedBy(func(req domain.ParseRequest) bool {
		return req.Filename == "my_report.pdf" &&
			req.MaxBytes == 1<<20 &&
			req.Source == domain.ParseSourceHTTP &&
			req.Options.RenderFormat == domain.RenderFormatHTML &&
			req.Options.ApplyOCR &&
			!req.Options.UseNewIndentParser
	})).Return(domain.Succeeded(map[string]any{"content": "hello"}, nil))

	body, ct := multipartBody(t, "file", "my report.pdf", []byte("%PDF-1.4"))
	w := postParse(t, h, "?renderFormat=html&applyOcr=yes", body, ct)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(200), resp["status"])
	assert.Equal(t, map[string]any{"content": "hello"}, resp["return_dict"])
	svc.AssertExpectations(t)
}

func TestParseHandler_ParseDocument_NonASCIIFilename(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 1<<20, zap.NewNop())

	svc.On("IngestReader", mock.Anything, mock.MatchedBy(func(req domain.ParseRequest) bool {
		return req.Filename == "uploaded_document.pdf"
	})).Return(domain.Succeeded(map[string]any{}, nil))

	body, ct := multipartBody(t, "file", "报告.pdf", []byte("%PDF-1.4"))
	w := postParse(t, h, "", body, ct)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestParseHandler_ParseDocument_MissingFile(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 1<<20, zap.NewNop())

	body, ct := multipartBody(t, "document", "a.txt", []byte("hello"))
	w := postParse(t, h, "", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "fail", resp["status"])
	svc.AssertNotCalled(t, "IngestReader", mock.Anything, mock.Anything)
}

func TestParseHandler_ParseDocument_InvalidRenderFormat(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 1<<20, zap.NewNop())

	body, ct := multipartBody(t, "file", "a.txt", []byte("hello"))
	w := postParse(t, h, "?renderFormat=pdf", body, ct)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["reason"], "pdf")
	svc.AssertNotCalled(t, "IngestReader", mock.Anything, mock.Anything)
}

func TestParseHandler_ParseDocument_EngineFailure(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 1<<20, zap.NewNop())

	svc.On("IngestReader", mock.Anything, mock.Anything).
		Return(domain.Failed(fmt.Errorf("%w: %w", domain.ErrEngine, errors.New("connection refused"))))

	body, ct := multipartBody(t, "file", "a.txt", []byte("hello"))
	w := postParse(t, h, "", body, ct)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "fail", resp["status"])
	assert.Contains(t, resp["reason"], "connection refused")
}

func TestParseHandler_ParseDocument_SizeLimitFromService(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 5, zap.NewNop())

	svc.On("IngestReader", mock.Anything, mock.Anything).
		Return(domain.Failed(&domain.SizeLimitError{Size: 10, Limit: 5}))

	body, ct := multipartBody(t, "file", "a.txt", []byte("0123456789"))
	w := postParse(t, h, "", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestParseHandler_ParseDocument_BodyOverFrameworkLimit(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 16, zap.NewNop())

	body, ct := multipartBody(t, "file", "big.bin", bytes.Repeat([]byte("x"), 4096))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/parseDocument", body)
	c.Request.Header.Set("Content-Type", ct)
	c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 256)

	h.ParseDocument(c)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	svc.AssertNotCalled(t, "IngestReader", mock.Anything, mock.Anything)
}

func TestParseHandler_ListRecords(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 1<<20, zap.NewNop())

	svc.On("History", mock.Anything, 500).Return([]domain.ParseRecord{{Filename: "a.txt", Status: domain.ParseStatusOK}}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/parseRecords?limit=9999", http.NoBody)
	h.ListRecords(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 500, resp.Meta.Limit)
}

func TestParseHandler_ListRecords_Error(t *testing.T) {
	svc := new(mocks.MockIngestService)
	h := handler.NewParseHandler(svc, 1<<20, zap.NewNop())

	svc.On("History", mock.Anything, 20).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/parseRecords", http.NoBody)
	h.ListRecords(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// End-to-end through the real orchestrator, staging and inspector; only the
// parse engine is faked.

func newRealParseHandler(t *testing.T, maxBytes int64, engine *mocks.MockEngine) (*handler.ParseHandler, string) {
	t.Helper()
	dir := t.TempDir()
	svc := service.NewIngestService(
		staging.New(dir, zap.NewNop()),
		inspect.New(zap.NewNop()),
		engine,
		noop.NewParseRecordRepo(zap.NewNop()),
		zap.NewNop(),
	)
	return handler.NewParseHandler(svc, maxBytes, zap.NewNop()), dir
}

func TestParseDocument_EndToEnd_SmallTextFile(t *testing.T) {
	engine := new(mocks.MockEngine)
	engine.On("Ingest", mock.Anything, "a.txt", mock.AnythingOfType("string"), "text/plain", mock.Anything).
		Return(nil, nil, nil)
	h, dir := newRealParseHandler(t, 100<<20, engine)

	body, ct := multipartBody(t, "file", "a.txt", []byte("0123456789"))
	w := postParse(t, h, "", body, ct)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(200), resp["status"])
	assert.Contains(t, resp, "return_dict")
	assert.Equal(t, map[string]any{}, resp["return_dict"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseDocument_EndToEnd_OverLimit(t *testing.T) {
	engine := new(mocks.MockEngine)
	h, dir := newRealParseHandler(t, 5, engine)

	body, ct := multipartBody(t, "file", "a.txt", []byte("0123456789"))
	w := postParse(t, h, "", body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	reason, _ := decode(t, w)["reason"].(string)
	assert.True(t, strings.Contains(reason, "10 bytes"), reason)
	assert.True(t, strings.Contains(reason, "5 bytes"), reason)
	engine.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHealthHandler(t *testing.T) {
	sup := new(mocks.MockProcessSupervisor)
	h := handler.NewHealthHandler(sup, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	h.Root(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Service is running", w.Body.String())

	sup.On("HealthCheck", mock.Anything).Return(false).Once()
	sup.On("HealthCheck", mock.Anything).Return(true).Once()
	sup.On("State").Return(domain.SupervisorReady)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequestWithContext(context.Background(), http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequestWithContext(context.Background(), http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
