package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/use-agent/distill/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(keys []string) *gin.Engine {
	r := gin.New()
	r.Use(Auth(keys))
	r.GET("/ping", func(c *gin.Context) {
		key, _ := c.Get("api_key")
		c.JSON(http.StatusOK, gin.H{"key": key})
	})
	return r
}

func get(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth_NoKeysConfiguredIsOpen(t *testing.T) {
	r := newAuthRouter(nil)
	rec := get(r, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_MissingKey(t *testing.T) {
	r := newAuthRouter([]string{"sk-1"})
	rec := get(r, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), models.ErrCodeUnauthorized)
}

func TestAuth_XAPIKeyHeader(t *testing.T) {
	r := newAuthRouter([]string{"sk-1", "sk-2"})

	rec := get(r, map[string]string{"X-API-Key": "sk-2"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sk-2")
}

func TestAuth_BearerHeader(t *testing.T) {
	r := newAuthRouter([]string{"sk-1"})

	rec := get(r, map[string]string{"Authorization": "Bearer sk-1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_InvalidKey(t *testing.T) {
	r := newAuthRouter([]string{"sk-1"})

	rec := get(r, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
