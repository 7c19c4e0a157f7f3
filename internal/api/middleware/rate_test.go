package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func rateRouter(cfg RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(cfg))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/work", ok)
	r.GET("/health", ok)
	return r
}

func hit(r *gin.Engine, path, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	r := rateRouter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, StaleAfter: time.Hour})

	assert.Equal(t, http.StatusOK, hit(r, "/work", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/work", "10.0.0.1"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	r := rateRouter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, StaleAfter: time.Hour})

	assert.Equal(t, http.StatusOK, hit(r, "/work", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/work", "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(r, "/work", "10.0.0.2"))
}

func TestRateLimitExemptPaths(t *testing.T) {
	r := rateRouter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		ExemptPaths:       []string{"/health"},
		StaleAfter:        time.Hour,
	})

	assert.Equal(t, http.StatusOK, hit(r, "/work", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/work", "10.0.0.1"))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/health", "10.0.0.1"))
	}
}

func TestRateLimitSweepsIdleClients(t *testing.T) {
	r := rateRouter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, StaleAfter: 10 * time.Millisecond})

	assert.Equal(t, http.StatusOK, hit(r, "/work", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "/work", "10.0.0.1"))

	// After the idle window the entry is swept and the client starts over
	// with a fresh burst. A retained limiter would still reject: at 1 rps
	// the bucket cannot refill in 30ms.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(r, "/work", "10.0.0.1"))
}
