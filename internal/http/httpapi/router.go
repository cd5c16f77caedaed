package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"videorelay/internal/http/handlers"
	"videorelay/internal/infra"
	"videorelay/internal/middleware"
)

func NewRouter(cfg *infra.Config, app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(*app.Logger, app.Collector),
		chimw.Recoverer,
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/metrics", app.Metrics)

	r.Post("/generate-video", app.GenerateVideo)

	return r
}
