package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                 string
	Port                   string
	XAIAPIKey              string
	XAIBaseURL             string
	XAIModel               string
	VideoDuration          int
	VideoAspectRatio       string
	VideoResolution        string
	PollInterval           time.Duration
	PollTimeout            time.Duration
	PollMaxAttempts        int
	ProviderRequestTimeout time.Duration
	MaxInflight            int
	CORSAllowedOrigins     []string
	HTTPReadTimeout        time.Duration
	HTTPWriteTimeout       time.Duration
	HTTPIdleTimeout        time.Duration
	ShutdownTimeout        time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:                 getEnv("APP_ENV", "development"),
		Port:                   getEnv("PORT", "3001"),
		XAIAPIKey:              strings.TrimSpace(os.Getenv("XAI_API_KEY")),
		XAIBaseURL:             strings.TrimRight(getEnv("XAI_BASE_URL", "https://api.x.ai/v1/videos"), "/"),
		XAIModel:               getEnv("XAI_MODEL", "grok-imagine-video"),
		VideoDuration:          getEnvInt("VIDEO_DURATION_SECONDS", 8),
		VideoAspectRatio:       getEnv("VIDEO_ASPECT_RATIO", "16:9"),
		VideoResolution:        getEnv("VIDEO_RESOLUTION", "720p"),
		PollInterval:           time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 10)),
		PollTimeout:            time.Second * time.Duration(getEnvInt("POLL_TIMEOUT_SECONDS", 600)),
		PollMaxAttempts:        getEnvInt("POLL_MAX_ATTEMPTS", 0),
		ProviderRequestTimeout: time.Second * time.Duration(getEnvInt("PROVIDER_REQUEST_TIMEOUT_SECONDS", 30)),
		MaxInflight:            getEnvInt("MAX_INFLIGHT_GENERATIONS", 0),
		CORSAllowedOrigins:     getEnvCSV("CORS_ALLOWED_ORIGINS", []string{"*"}),
		HTTPReadTimeout:        time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:       time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)),
		HTTPIdleTimeout:        time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		ShutdownTimeout:        time.Second * time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 30)),
	}

	if cfg.XAIAPIKey == "" {
		return nil, fmt.Errorf("XAI_API_KEY is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_SECONDS must be positive")
	}
	if cfg.VideoDuration <= 0 {
		return nil, fmt.Errorf("VIDEO_DURATION_SECONDS must be positive")
	}
	if cfg.PollTimeout < 0 || cfg.PollMaxAttempts < 0 || cfg.MaxInflight < 0 {
		return nil, fmt.Errorf("poll and inflight bounds must not be negative")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvCSV(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
