package infra

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XAI_API_KEY", "test-key")
	for _, key := range []string{
		"PORT", "XAI_BASE_URL", "XAI_MODEL", "VIDEO_DURATION_SECONDS",
		"POLL_INTERVAL_SECONDS", "POLL_TIMEOUT_SECONDS", "POLL_MAX_ATTEMPTS",
		"MAX_INFLIGHT_GENERATIONS", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "3001" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "3001")
	}
	if cfg.XAIBaseURL != "https://api.x.ai/v1/videos" {
		t.Fatalf("XAIBaseURL mismatch: got %q", cfg.XAIBaseURL)
	}
	if cfg.XAIModel != "grok-imagine-video" {
		t.Fatalf("XAIModel mismatch: got %q", cfg.XAIModel)
	}
	if cfg.VideoDuration != 8 || cfg.VideoAspectRatio != "16:9" || cfg.VideoResolution != "720p" {
		t.Fatalf("video parameters mismatch: %d %q %q", cfg.VideoDuration, cfg.VideoAspectRatio, cfg.VideoResolution)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Fatalf("PollInterval mismatch: got %s", cfg.PollInterval)
	}
	if cfg.PollTimeout != 10*time.Minute {
		t.Fatalf("PollTimeout mismatch: got %s", cfg.PollTimeout)
	}
	if cfg.PollMaxAttempts != 0 || cfg.MaxInflight != 0 {
		t.Fatalf("bounds should default to unbounded: attempts=%d inflight=%d", cfg.PollMaxAttempts, cfg.MaxInflight)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("CORSAllowedOrigins mismatch: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRequiresAPIKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("XAI_API_KEY", "  ")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when XAI_API_KEY is blank")
	}
}

func TestLoadConfigTrimsBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("XAI_BASE_URL", "http://localhost:9999/videos/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.XAIBaseURL != "http://localhost:9999/videos" {
		t.Fatalf("XAIBaseURL mismatch: got %q", cfg.XAIBaseURL)
	}
}

func TestLoadConfigParsesOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSAllowedOrigins) != len(expected) {
		t.Fatalf("CORSAllowedOrigins mismatch: got %#v want %#v", cfg.CORSAllowedOrigins, expected)
	}
	for i, origin := range expected {
		if cfg.CORSAllowedOrigins[i] != origin {
			t.Fatalf("CORSAllowedOrigins[%d] = %q, want %q", i, cfg.CORSAllowedOrigins[i], origin)
		}
	}
}

func TestLoadConfigRejectsNonPositiveInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_INTERVAL_SECONDS", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for zero poll interval")
	}
}

func TestLoadConfigRejectsNegativeBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLL_MAX_ATTEMPTS", "-1")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for negative attempts")
	}
}
