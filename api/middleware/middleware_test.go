package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ddd-course/api/response"
	"ddd-course/config"
	"ddd-course/infrastructure/persistence"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newEngine(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middlewares...)
	return engine
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := newEngine(RequestIDMiddleware())
	var fromContext, fromGin string
	engine.GET("/ping", func(c *gin.Context) {
		fromContext = persistence.RequestIDFromContext(c.Request.Context())
		fromGin = response.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("propagates incoming header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", fromContext)
		assert.Equal(t, "req-123", fromGin)
	})

	t.Run("generates one when missing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		assert.Equal(t, rec.Header().Get(RequestIDHeader), fromContext)
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	engine := newEngine(RequestIDMiddleware(), RecoveryMiddleware())
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"INTERNAL_ERROR"`)
	assert.Contains(t, rec.Body.String(), `"message":"internal server error"`)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestCORSMiddleware(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	engine := newEngine(CORSMiddleware(cfg))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET, POST", rec.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://evil.example")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	engine := newEngine(RequestIDMiddleware(), RateLimitMiddleware(&config.RateLimitConfig{Enabled: true, Rate: 0.001, Burst: 2}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	var last *httptest.ResponseRecorder
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		engine.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Contains(t, last.Body.String(), `"error":"TOO_MANY_REQUESTS"`)
	assert.Contains(t, last.Body.String(), `"code":429`)
	assert.Contains(t, last.Body.String(), `"request_id":"`+last.Header().Get(RequestIDHeader)+`"`)
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	engine := newEngine(RateLimitMiddleware(&config.RateLimitConfig{Enabled: false}))
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
