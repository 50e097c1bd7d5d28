package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit", func(t *testing.T) {
		limiter := NewRateLimiter(t.Context(), 3, time.Minute)

		for i := 2; i >= 0; i-- {
			ok, remaining := limiter.Allow("client1")
			assert.True(t, ok)
			assert.Equal(t, i, remaining)
		}
		ok, _ := limiter.Allow("client1")
		assert.False(t, ok)
	})

	t.Run("separates clients", func(t *testing.T) {
		limiter := NewRateLimiter(t.Context(), 1, time.Minute)

		ok, _ := limiter.Allow("client1")
		assert.True(t, ok)
		ok, _ = limiter.Allow("client2")
		assert.True(t, ok)
		ok, _ = limiter.Allow("client1")
		assert.False(t, ok)
	})

	t.Run("resets after the window", func(t *testing.T) {
		now := time.Now()
		limiter := NewRateLimiter(t.Context(), 1, time.Minute)
		limiter.now = func() time.Time { return now }

		ok, _ := limiter.Allow("client1")
		assert.True(t, ok)
		ok, _ = limiter.Allow("client1")
		assert.False(t, ok)

		now = now.Add(time.Minute)
		ok, _ = limiter.Allow("client1")
		assert.True(t, ok)
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		limiter := NewRateLimiter(context.Background(), 50, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := limiter.Allow("shared"); ok {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(t.Context(), 2, time.Minute)
	router := gin.New()
	router.Use(RequestID(), RateLimit(limiter))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
	assert.Contains(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}
