// Command serve runs the pipeline on a refresh interval and serves the
// generated artifacts, health probes, and Prometheus metrics over HTTP.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidecraft/wavefeed/internal/adapter/artifact"
	"github.com/tidecraft/wavefeed/internal/adapter/feed"
	httpadapter "github.com/tidecraft/wavefeed/internal/adapter/http"
	kafkaadapter "github.com/tidecraft/wavefeed/internal/adapter/kafka"
	"github.com/tidecraft/wavefeed/internal/adapter/mapbox"
	"github.com/tidecraft/wavefeed/internal/config"
	"github.com/tidecraft/wavefeed/internal/domain"
	"github.com/tidecraft/wavefeed/internal/observability"
	"github.com/tidecraft/wavefeed/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := feed.NewClient(cfg.FeedURL, cfg.FetchTimeout, logger)
	writer := artifact.NewWriter(cfg.OutputDir, logger)

	var publisher pipeline.Publisher
	var kw *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kw = kafkaadapter.NewWriter(cfg, logger)
		publisher = kw
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize)
	}

	p := pipeline.New(fetcher, writer, publisher, geocoder, cfg, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cfg.OutputDir, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	go func() {
		if err := p.RunEvery(ctx, cfg.RefreshInterval); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kw != nil {
		if err := kw.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
