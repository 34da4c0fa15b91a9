package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"docparse/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret, issuer string, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "client-1",
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.BearerAuth("test-secret", "docparse"))
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextKeySubject))
	})
	return r
}

func TestBearerAuth_ValidToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "docparse", time.Now().Add(time.Hour)))

	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "client-1", w.Body.String())
}

func TestBearerAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"wrong secret", "Bearer " + signToken(t, "other", "docparse", time.Now().Add(time.Hour))},
		{"wrong issuer", "Bearer " + signToken(t, "test-secret", "someone-else", time.Now().Add(time.Hour))},
		{"expired", "Bearer " + signToken(t, "test-secret", "docparse", time.Now().Add(-time.Minute))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			authRouter().ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"fail"`)
		})
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_UnknownOriginAndPreflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", http.NoBody)
	req.Header.Set("Origin", "http://evil.example")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimit_DeclaredLengthTooLarge(t *testing.T) {
	r := gin.New()
	r.Use(middleware.BodyLimit(10))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	body := strings.Repeat("x", 128<<10)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "request body (131072 bytes)")
	assert.Contains(t, w.Body.String(), "(10 bytes)")
	assert.NotContains(t, w.Body.String(), "file size")
}

func TestBodyLimit_StreamingBodyCapped(t *testing.T) {
	r := gin.New()
	r.Use(middleware.BodyLimit(10))
	r.POST("/", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		var maxErr *http.MaxBytesError
		if assert.ErrorAs(t, err, &maxErr) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader(strings.Repeat("x", 128<<10))))
	req.ContentLength = -1
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(zap.NewNop()), middleware.Recovery(zap.NewNop()))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID)) })
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", http.NoBody)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", http.NoBody))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", http.NoBody))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
