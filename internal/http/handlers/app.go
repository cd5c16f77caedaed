package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"videorelay/internal/infra"
	"videorelay/internal/metrics"
	"videorelay/internal/videogen"
)

// Generator runs one video generation to completion.
type Generator interface {
	Generate(ctx context.Context, req videogen.Request) (*videogen.Result, error)
}

type App struct {
	Videos    Generator
	Collector *metrics.Collector
	Logger    *infra.Logger

	started time.Time
}

func NewApp(videos Generator, m *metrics.Collector, logger *infra.Logger) *App {
	if logger == nil {
		logger = infra.NopLogger()
	}
	return &App{Videos: videos, Collector: m, Logger: logger, started: time.Now()}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
