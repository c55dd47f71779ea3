package config

import (
	"reflect"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")

	// Chat
	t.Setenv("ROOM_CAP", "50")
	t.Setenv("MAX_MESSAGE_RUNES", "512")
	t.Setenv("MAX_FILE_BYTES", "1048576")

	// Rate limiting (invalids fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 20.0
	t.Setenv("RATE_BURST", "nope") // -> default 40

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging
	if cfg.LogLevel != "warn" || !cfg.LogPretty {
		t.Fatalf("logging fields unexpected: %+v", cfg)
	}

	// Chat
	if cfg.Chat.RoomCap != 50 ||
		cfg.Chat.MaxMessageRunes != 512 || cfg.Chat.MaxFileBytes != 1<<20 {
		t.Fatalf("chat fields unexpected: %+v", cfg.Chat)
	}

	// Rate-limit fallbacks on parse failure
	if cfg.RateRPS != 20.0 || cfg.RateBurst != 40 {
		t.Fatalf("rate-limit fallbacks unexpected: rps=%v burst=%d", cfg.RateRPS, cfg.RateBurst)
	}

	// CORS CSV trimming
	wantOrigins := []string{"https://a.com", "http://b"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, wantOrigins) {
		t.Fatalf("CORS origins = %v, want %v", cfg.CORS.AllowedOrigins, wantOrigins)
	}

	// Security
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security fields unexpected: %+v", cfg.Security)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" ||
		cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" ||
		cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel fields unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults should succeed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("default port = %q", cfg.Port)
	}
	if cfg.Chat.RoomCap != 200 {
		t.Fatalf("default room cap = %d, want 200", cfg.Chat.RoomCap)
	}
	if cfg.Chat.MaxFileBytes != 10<<20 {
		t.Fatalf("default max file bytes = %d", cfg.Chat.MaxFileBytes)
	}
	if cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("default mode/level unexpected: %+v", cfg)
	}
}

// --- validation failures ---

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"zero read timeout", "READ_TIMEOUT", "0s"},
		{"negative idle timeout", "IDLE_TIMEOUT", "-1s"},
		{"zero max header bytes", "MAX_HEADER_BYTES", "0"},
		{"zero room cap", "ROOM_CAP", "0"},
		{"zero message runes", "MAX_MESSAGE_RUNES", "0"},
		{"negative file bytes", "MAX_FILE_BYTES", "-1"},
		{"negative rps", "RATE_RPS", "-1"},
		{"zero burst", "RATE_BURST", "0"},
		{"negative hsts", "HSTS_MAX_AGE", "-1h"},
		{"sampler out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

// --- helper parsing ---

func TestGetBool_Variants(t *testing.T) {
	for val, want := range map[string]bool{
		"1": true, "true": true, "YES": true, "on": true,
		"0": false, "false": false, "No": false, "off": false,
	} {
		t.Setenv("BOOL_PROBE", val)
		if got := getbool("BOOL_PROBE", !want); got != want {
			t.Fatalf("getbool(%q) = %v, want %v", val, got, want)
		}
	}
	// Unparseable value falls back to default.
	t.Setenv("BOOL_PROBE", "maybe")
	if got := getbool("BOOL_PROBE", true); !got {
		t.Fatalf("expected default for unparseable bool")
	}
}

func TestSplitCSV(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Fatalf("empty input should return nil, got %v", got)
	}
	got := splitCSV("a, b ,, c ,")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitCSV = %v, want %v", got, want)
	}
}
