package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
	c.Request = req

	if got := KeyByUserOrIP()(c); got != "ip:203.0.113.9" {
		t.Fatalf("expected ip-based key; got %q", got)
	}
	setIdentity(c, "u123", "")
	if got := KeyByUserOrIP()(c); got != "user:u123" {
		t.Fatalf("expected user-based key; got %q", got)
	}
}

func TestNewRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiter(RateLimitOptions{RPS: 2})
	if rl.opts.Burst != 1 || rl.opts.Key == nil || rl.opts.IdleTTL != 10*time.Minute {
		t.Fatalf("defaults not applied: %+v", rl.opts)
	}
	lim := rl.limiterFor("k1")
	if rl.limiterFor("k1") != lim {
		t.Fatalf("expected bucket reuse")
	}
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(RateLimitOptions{RPS: 1, IdleTTL: time.Minute})
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	old := rl.limiterFor("old")
	clock = clock.Add(30 * time.Second)
	_ = rl.limiterFor("fresh")
	if rl.Len() != 2 {
		t.Fatalf("expected 2 buckets, got %d", rl.Len())
	}

	clock = clock.Add(45 * time.Second) // old idle 75s, fresh idle 45s
	_ = rl.limiterFor("other")
	if rl.Len() != 2 {
		t.Fatalf("expected old bucket swept, have %d", rl.Len())
	}
	if rl.limiterFor("old") == old {
		t.Fatalf("swept bucket must be recreated")
	}
}

func TestRetryAfter(t *testing.T) {
	cases := map[float64]int{0: 60, 0.2: 5, 1: 1, 10: 1}
	for rps, want := range cases {
		if got := retryAfter(rps); got != want {
			t.Fatalf("retryAfter(%v) = %d; want %d", rps, got, want)
		}
	}
}

func TestIsRateBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if IsRateBypass(c) {
		t.Fatalf("expected false by default")
	}
	c.Set(ctxKeyRateBypass, true)
	if !IsRateBypass(c) {
		t.Fatalf("expected true when set")
	}
	c.Set(ctxKeyRateBypass, "yes")
	if IsRateBypass(c) {
		t.Fatalf("non-bool must read as false")
	}
}

func TestRateLimiter_Handler_AllowDenyBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(RateLimitOptions{RPS: 0.5, Burst: 1})
	r := gin.New()
	r.Use(RequestID(), Identity(IdentityOptions{TrustHeaders: true}), rl.Handler())
	r.POST("/posts", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	post := func(uid string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/posts", nil)
		req.Header.Set(HeaderUserID, uid)
		r.ServeHTTP(w, req)
		return w
	}

	base := testutil.ToFloat64(rateLimited.WithLabelValues("/posts"))
	if w := post("u1"); w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}
	w := post("u1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After = %q; want 2", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["code"] != "rate_limited" || body["request_id"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
	if got := testutil.ToFloat64(rateLimited.WithLabelValues("/posts")); got != base+1 {
		t.Fatalf("rate_limited counter = %v; want %v", got, base+1)
	}

	if w := post("u2"); w.Code != http.StatusOK {
		t.Fatalf("other users have their own bucket, got %d", w.Code)
	}

	rb := gin.New()
	rb.Use(func(c *gin.Context) { c.Set(ctxKeyRateBypass, true); c.Next() })
	rb.Use(Identity(IdentityOptions{TrustHeaders: true}), rl.Handler())
	rb.POST("/posts", func(c *gin.Context) { c.Status(http.StatusOK) })
	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	req.Header.Set(HeaderUserID, "u1")
	w3 := httptest.NewRecorder()
	rb.ServeHTTP(w3, req)
	if w3.Code != http.StatusOK {
		t.Fatalf("bypassed request should pass, got %d", w3.Code)
	}
}

func TestRateLimiter_WritesOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(RateLimitOptions{RPS: 0.1, Burst: 1, WritesOnly: true})
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/forums", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/forums", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/forums", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("reads must not be limited, got %d", w.Code)
		}
	}
	codes := []int{}
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/forums", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected write codes: %v", codes)
	}
}
