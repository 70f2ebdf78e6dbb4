package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

var managedEnv = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "DB_DRIVER", "DB_PATH", "DATABASE_URL",
	"JWT_SECRET", "ALLOW_HEADER_IDENTITY", "MAX_TITLE_RUNES", "MAX_BODY_RUNES", "RATE_RPS", "RATE_BURST",
	"IDEMPOTENCY_TTL", "OTEL_SERVICE_NAME",
}

func TestMain(m *testing.M) {
	for _, k := range managedEnv {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

func containsErr(err error, want string) bool {
	return err != nil && strings.Contains(err.Error(), want)
}

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIBasePath != "/api/v1" || cfg.GinMode != "release" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.DB.Driver != DriverSQLite || cfg.DB.DSN() != "wellbeing.db" {
		t.Fatalf("unexpected db defaults: %+v", cfg.DB)
	}
	if cfg.HeaderIdentity() || cfg.AllowHeaderIdentity {
		t.Fatalf("header identity must be off by default")
	}
	if cfg.MaxTitleRunes != 200 || cfg.MaxBodyRunes != 10000 || !cfg.RateWritesOnly {
		t.Fatalf("unexpected content/rate defaults: %+v", cfg)
	}
	if cfg.OTEL.ServiceName != "go-wellbeing-backend" || cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("MAX_BODY_BYTES", "4096")
	t.Setenv("GIN_MODE", "weird")
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("DB_DRIVER", " Postgres ")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/wb?sslmode=disable")
	t.Setenv("JWT_SECRET", strings.Repeat("k", 32))
	t.Setenv("MAX_TITLE_RUNES", "80")
	t.Setenv("MAX_BODY_RUNES", "0")
	t.Setenv("RATE_RPS", "x")
	t.Setenv("RATE_WRITES_ONLY", "off")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("CACHE_NO_STORE", "yes")
	t.Setenv("IDEMPOTENCY_SWEEP", "5m")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second || cfg.ShutdownTimeout != 3*time.Second ||
		cfg.MaxBodyBytes != 4096 || cfg.GinMode != "release" || cfg.LogLevel != "warn" || cfg.APIBasePath != "/api/v2" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.DB.Driver != DriverPostgres || !strings.HasPrefix(cfg.DB.DSN(), "postgres://") {
		t.Fatalf("db fields unexpected: %+v", cfg.DB)
	}
	if cfg.HeaderIdentity() {
		t.Fatalf("JWT_SECRET set must disable header identity")
	}
	if cfg.MaxTitleRunes != 80 || cfg.MaxBodyRunes != 0 {
		t.Fatalf("content limits unexpected: %d %d", cfg.MaxTitleRunes, cfg.MaxBodyRunes)
	}
	if cfg.RateRPS != 5.0 || cfg.RateWritesOnly {
		t.Fatalf("rate fields unexpected: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) || !cfg.Security.NoStore {
		t.Fatalf("web fields unexpected: %+v %+v", cfg.CORS, cfg.Security)
	}
	if cfg.IdempotencySweep != 5*time.Minute || cfg.OTEL.SampleRatio != 0.25 {
		t.Fatalf("misc fields unexpected: %+v", cfg)
	}
}

func TestLoad_HeaderIdentity(t *testing.T) {
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("ALLOW_HEADER_IDENTITY", "true")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.HeaderIdentity() {
		t.Fatalf("opt-in in debug mode must enable header identity")
	}

	// A secret always wins over the headers, even in release.
	t.Setenv("GIN_MODE", "release")
	t.Setenv("JWT_SECRET", strings.Repeat("k", 32))
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.HeaderIdentity() {
		t.Fatalf("JWT_SECRET must disable header identity")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"blank port", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"header bytes", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"body bytes", map[string]string{"MAX_BODY_BYTES": "-1"}, "MAX_BODY_BYTES"},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}, "DB_DRIVER"},
		{"blank sqlite path", map[string]string{"DB_PATH": "   "}, "DB_PATH"},
		{"postgres without url", map[string]string{"DB_DRIVER": "postgres"}, "DATABASE_URL"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, "JWT_SECRET"},
		{"header identity in release", map[string]string{"ALLOW_HEADER_IDENTITY": "true"}, "ALLOW_HEADER_IDENTITY"},
		{"negative runes", map[string]string{"MAX_TITLE_RUNES": "-1"}, "MAX_TITLE_RUNES"},
		{"rate rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"rate burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"hsts", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"idem ttl", map[string]string{"IDEMPOTENCY_TTL": "0s"}, "IDEMPOTENCY_TTL"},
		{"idem sweep", map[string]string{"IDEMPOTENCY_SWEEP": "-1m"}, "IDEMPOTENCY_SWEEP"},
		{"sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !containsErr(err, tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestHelpers_getters(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back on empty var")
	}
	t.Setenv("F_BAD", "nope")
	t.Setenv("I_VALID", "42")
	t.Setenv("D_VALID", "150ms")
	if getfloat("F_BAD", 1.5) != 1.5 || getint("I_VALID", 0) != 42 || getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("numeric getters mismatch")
	}
	for _, v := range []string{"1", " yes ", "On"} {
		t.Setenv("B", v)
		if !getbool("B", false) {
			t.Fatalf("getbool(%q) should be true", v)
		}
	}
	for _, v := range []string{"0", "NO", "off"} {
		t.Setenv("B", v)
		if getbool("B", true) {
			t.Fatalf("getbool(%q) should be false", v)
		}
	}
	t.Setenv("B", "maybe")
	if !getbool("B", true) {
		t.Fatalf("unrecognized bool must keep default")
	}
}

func TestHelpers_splitCSV_and_normalizeBasePath(t *testing.T) {
	if splitCSV("") != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("splitCSV mismatch: %#v", got)
	}
	for in, want := range map[string]string{"": "/", "v1": "/v1", "/v1/": "/v1", " / ": "/", "//": "/"} {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q) = %q; want %q", in, got, want)
		}
	}
}
