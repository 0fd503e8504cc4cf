package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func TestKeyByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	if key := KeyByIP()(c); key != "ip:203.0.113.9" {
		t.Fatalf("expected ip-based key; got %q", key)
	}
}

func TestNewRateLimiter_Defaults_AndVisitorReuse(t *testing.T) {
	rl := NewRateLimiter(2.0, 0, nil) // burst<=0 coerced to 1, nil key -> KeyByIP
	if rl.burst != 1 || rl.keyFn == nil {
		t.Fatalf("defaults not applied: burst=%d keyFn=%v", rl.burst, rl.keyFn != nil)
	}
	lim := rl.getVisitor("k1")
	if got := rl.getVisitor("k1"); got != lim {
		t.Fatalf("expected same limiter instance to be reused")
	}
}

func TestRateLimiter_getVisitor_GC(t *testing.T) {
	rl := NewRateLimiter(1.0, 1, KeyByIP())
	rl.ttl = time.Nanosecond

	rl.mu.Lock()
	rl.visitors["old"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: time.Now().Add(-time.Hour)}
	rl.cleanupN = 4999 // next lookup sweeps
	rl.mu.Unlock()

	_ = rl.getVisitor("fresh")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["old"]; ok {
		t.Fatalf("expected idle visitor to be evicted")
	}
	if rl.cleanupN != 0 {
		t.Fatalf("cleanup counter not reset: %d", rl.cleanupN)
	}
}

func TestRateLimiter_Handler_429AndSkip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(0.0001, 1, KeyByIP()) // one token, effectively no refill
	r := gin.New()
	r.Use(rl.Handler("/health"))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	do := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "198.51.100.1:5555"
		r.ServeHTTP(w, req)
		return w
	}

	if w := do("/"); w.Code != http.StatusOK {
		t.Fatalf("first request = %d; want 200", w.Code)
	}
	w := do("/")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d; want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" || !strings.Contains(w.Body.String(), "Too Many Requests") {
		t.Fatalf("unexpected 429 response: headers=%v body=%q", w.Header(), w.Body.String())
	}

	// Skipped paths are never limited.
	for i := 0; i < 3; i++ {
		if w := do("/health"); w.Code != http.StatusOK {
			t.Fatalf("/health limited on attempt %d: %d", i, w.Code)
		}
	}
}
