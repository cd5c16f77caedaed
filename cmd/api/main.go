package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"videorelay/internal/http/handlers"
	httpapi "videorelay/internal/http/httpapi"
	"videorelay/internal/infra"
	"videorelay/internal/metrics"
	"videorelay/internal/providers/xai"
	"videorelay/internal/videogen"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector("videorelay", prometheus.NewRegistry(), &logger)

	client, err := xai.NewClient(xai.Options{
		APIKey:         cfg.XAIAPIKey,
		BaseURL:        cfg.XAIBaseURL,
		Model:          cfg.XAIModel,
		RequestTimeout: cfg.ProviderRequestTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure xai client")
	}

	poller := videogen.NewPoller(client, videogen.PollerOptions{
		Interval:    cfg.PollInterval,
		Timeout:     cfg.PollTimeout,
		MaxAttempts: cfg.PollMaxAttempts,
		Logger:      &logger,
		Metrics:     collector,
	})
	svc := videogen.NewService(videogen.Options{
		Provider:    client,
		Poller:      poller,
		Duration:    cfg.VideoDuration,
		AspectRatio: cfg.VideoAspectRatio,
		Resolution:  cfg.VideoResolution,
		MaxInflight: cfg.MaxInflight,
		Logger:      &logger,
		Metrics:     collector,
	})

	app := handlers.NewApp(svc, collector, &logger)
	router := httpapi.NewRouter(cfg, app)

	// Request contexts derive from ctx so a signal aborts in-flight polls.
	server := infra.NewHTTPServer(ctx, cfg, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().
			Str("model", client.Model()).
			Dur("poll_interval", cfg.PollInterval).
			Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped")
}
