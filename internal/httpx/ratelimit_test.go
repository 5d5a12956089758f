package httpx

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// httptest requests come from 192.0.2.1.
const pingKey = "rl:192.0.2.1:GET:/ping"

func newLimitedRouter(t *testing.T, limit int, window time.Duration) (*miniredis.Miniredis, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RequestID(), RateLimiter(rdb, limit, window, log))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return mr, r
}

func ping(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w
}

// ===== Rate limiter over Redis =====

func TestRateLimiter_RejectsPastLimit(t *testing.T) {
	mr, r := newLimitedRouter(t, 2, time.Minute)

	for i, wantRemaining := range []string{"1", "0"} {
		w := ping(r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status=%d", i, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != wantRemaining {
			t.Fatalf("request %d: remaining=%q want %q", i, got, wantRemaining)
		}
	}

	w := ping(r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status=%d", w.Code)
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "2" {
		t.Fatalf("limit header=%q", got)
	}
	if got := w.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("remaining header=%q", got)
	}
	reset, err := strconv.Atoi(w.Header().Get("X-RateLimit-Reset"))
	if err != nil || reset <= 0 || reset > 60 {
		t.Fatalf("reset header=%q", w.Header().Get("X-RateLimit-Reset"))
	}
	if ttl := mr.TTL(pingKey); ttl <= 0 {
		t.Fatalf("window key has no expiry: %v", ttl)
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	mr, r := newLimitedRouter(t, 1, time.Minute)

	if w := ping(r); w.Code != http.StatusOK {
		t.Fatalf("first request: status=%d", w.Code)
	}
	if w := ping(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status=%d", w.Code)
	}
	mr.FastForward(time.Minute)
	if w := ping(r); w.Code != http.StatusOK {
		t.Fatalf("after the window: status=%d", w.Code)
	}
}

// A counter left without an expiry must be re-armed instead of blocking
// the client for good.
func TestRateLimiter_RearmsKeyWithoutExpiry(t *testing.T) {
	mr, r := newLimitedRouter(t, 1, time.Minute)
	if err := mr.Set(pingKey, "5"); err != nil {
		t.Fatal(err)
	}

	if w := ping(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", w.Code)
	}
	if ttl := mr.TTL(pingKey); ttl != time.Minute {
		t.Fatalf("ttl=%v want %v", ttl, time.Minute)
	}
	mr.FastForward(time.Minute)
	if w := ping(r); w.Code != http.StatusOK {
		t.Fatalf("after the window: status=%d", w.Code)
	}
}

func TestRateLimiter_FailsOpenWhenRedisDown(t *testing.T) {
	mr, r := newLimitedRouter(t, 1, time.Minute)
	mr.Close()

	for i := 0; i < 3; i++ {
		w := ping(r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status=%d", i, w.Code)
		}
		if got := w.Header().Get("X-RateLimit-Remaining"); got != "" {
			t.Fatalf("request %d: unexpected remaining header %q", i, got)
		}
	}
}
