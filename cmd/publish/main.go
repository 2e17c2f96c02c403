// Command publish runs one fetch-classify-reduce-write pass and exits. It is
// the cron-friendly entry point: a transport or artifact-write failure exits
// non-zero with nothing written, while schema drift still produces well-formed
// empty artifacts and a zero exit.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/tidecraft/wavefeed/internal/adapter/artifact"
	"github.com/tidecraft/wavefeed/internal/adapter/feed"
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

	// Optional Kafka side channel (feature-flagged via KAFKA_ENABLED).
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		kw := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := kw.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = kw
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic)
	}

	// Optional place enrichment (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize)
	}

	p := pipeline.New(fetcher, writer, publisher, geocoder, cfg, logger, metrics)

	if _, err := p.Run(context.Background()); err != nil {
		logger.Error("run failed", "dataset", cfg.DatasetID, "error", err)
		os.Exit(1)
	}
}
