package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf) // plain JSON lines
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var m map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &m); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/rid", func(c *gin.Context) {
		if v, ok := c.Get(requestIDKey); !ok || v == "" {
			t.Fatalf("requestID not set in context")
		}
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rid", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated %s header", requestIDHeader)
	}

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/rid", nil)
	req2.Header.Set(strings.ToLower(requestIDHeader), "abc-123")
	r.ServeHTTP(w2, req2)
	if got := w2.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", got)
	}
}

func TestAccessLogger_RedactsAndMasks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), AccessLogger(LogOptions{MaskHeaders: []string{"X-Api-Key"}}), Identity(IdentityOptions{TrustHeaders: true}))
	r.GET("/assessments/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	q := "email=a.b@example.com&id=123e4567-e89b-12d3-a456-426614174000&t=eyJhbGciOiJIUzI1NiJ9.eyJ1aWQiOiJ1MSJ9.c2ln"
	req := httptest.NewRequest(http.MethodGet, "/assessments/x?"+q, nil)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set("X-Api-Key", "shhh")
	req.Header.Set(HeaderUserID, "u-42")
	req.Header.Set("X-Custom", "mail a@b.com")
	req.Header.Set(requestIDHeader, "rid-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := buf.String()
	for _, leaked := range []string{"a.b@example.com", "123e4567-e89b", "eyJhbGciOiJIUzI1NiJ9", "secret", "shhh", "a@b.com", "u-42"} {
		if strings.Contains(out, leaked) {
			t.Fatalf("log leaked %q: %s", leaked, out)
		}
	}

	m := lastLine(t, buf)
	if m["level"] != "info" || m["path"] != "/assessments/:id" || m["request_id"] != "rid-1" {
		t.Fatalf("unexpected log fields: %v", m)
	}
	if _, ok := m["user_id"]; ok {
		t.Fatalf("raw user id logged: %v", m)
	}
	if ref := m["user_ref"]; ref != userRef("u-42") || ref == "" {
		t.Fatalf("expected pseudonymous user ref, got %v", ref)
	}
	hdrs, _ := m["headers"].(map[string]any)
	if hdrs["X-User-Id"] != "[REDACTED]" || hdrs["Authorization"] != "[REDACTED]" {
		t.Fatalf("credential headers not masked: %v", hdrs)
	}
}

func TestUserRef(t *testing.T) {
	if userRef("") != "" {
		t.Fatalf("anonymous caller must have no ref")
	}
	a, b := userRef("u-1"), userRef("u-2")
	if len(a) != 12 || a == b || a != userRef("u-1") {
		t.Fatalf("refs must be stable, distinct, 12 hex chars: %q %q", a, b)
	}
}

func TestAccessLogger_LevelsAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), AccessLogger(LogOptions{}))
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	cases := []struct {
		path, level, logged string
	}{
		{"/bad", "warn", "/bad"},
		{"/boom", "error", "/boom"},
		{"/missing", "warn", "/missing"},
	}
	for _, tc := range cases {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tc.path, nil))
		m := lastLine(t, buf)
		if m["level"] != tc.level || m["path"] != tc.logged {
			t.Fatalf("%s: got level=%v path=%v", tc.path, m["level"], m["path"])
		}
	}
}

func TestRecovery_PanicsToJSON500AndLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), AccessLogger(LogOptions{}), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["code"] != "internal_error" || body["request_id"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Fatalf("expected panic log, got %s", buf.String())
	}
}

func TestRecovery_PanicAfterWrite_NoJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_ = captureLogger(t)

	r := gin.New()
	r.Use(Recovery())
	r.GET("/half", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/half", nil))
	if strings.Contains(w.Body.String(), "internal_error") {
		t.Fatalf("must not append JSON after a partial write: %q", w.Body.String())
	}
}

func TestLoggerFrom_FallbackAndRequestScoped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if LoggerFrom(c) == nil {
		t.Fatalf("fallback logger must not be nil")
	}

	r := gin.New()
	r.Use(RequestID(), AccessLogger(LogOptions{}))
	r.GET("/x", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("inside")
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "rid-scoped")
	r.ServeHTTP(httptest.NewRecorder(), req)

	first := strings.Split(strings.TrimSpace(buf.String()), "\n")[0]
	if !strings.Contains(first, `"message":"inside"`) || !strings.Contains(first, `"request_id":"rid-scoped"`) {
		t.Fatalf("request-scoped fields missing: %s", first)
	}
}

func TestRedactAndTruncate(t *testing.T) {
	if got := redact("call +1 212-555-1212 or mail x@y.io"); strings.Contains(got, "555") || strings.Contains(got, "x@y.io") {
		t.Fatalf("redact left PII: %q", got)
	}
	if redact("") != "" {
		t.Fatalf("empty input must stay empty")
	}
	if truncate("abcdef", 3) != "abc…" || truncate("abc", 0) != "abc" {
		t.Fatalf("truncate mismatch")
	}
	if asString(42) != "" || asString("s") != "s" {
		t.Fatalf("asString mismatch")
	}
}
