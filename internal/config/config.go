package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultFeedURL = "https://erddap.marine.ie/erddap/tabledap/%s.csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatasetID string
	FeedURL   string // must contain a %s placeholder for the dataset id

	StationCode  string
	PlatformID   string
	InstrumentID string
	StationName  string

	OutputDir    string
	FetchTimeout time.Duration
	IncludeRaw   bool
	SampleRows   int

	LogLevel  string
	LogFormat string

	// Optional Kafka publishing of the canonical series.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Optional Mapbox reverse geocoding of the buoy position.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Serve mode.
	HTTPAddr        string
	RefreshInterval time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables (optionally a .env
// file), applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	fetchTimeout, err := durationOrDefault("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	refreshInterval, err := durationOrDefault("REFRESH_INTERVAL", 30*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := durationOrDefault("MAPBOX_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	sampleRows, err := intOrDefault("SAMPLE_ROWS", 3)
	if err != nil {
		return nil, err
	}
	mapboxCacheSize, err := intOrDefault("MAPBOX_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		DatasetID: strings.TrimSpace(os.Getenv("DATASET_ID")),
		FeedURL:   envOrDefault("FEED_URL", defaultFeedURL),

		StationCode:  strings.TrimSpace(os.Getenv("STATION_CODE")),
		PlatformID:   strings.TrimSpace(os.Getenv("PLATFORM_ID")),
		InstrumentID: strings.TrimSpace(os.Getenv("INSTRUMENT_ID")),
		StationName:  strings.TrimSpace(os.Getenv("STATION_NAME")),

		OutputDir:    envOrDefault("OUTPUT_DIR", "public"),
		FetchTimeout: fetchTimeout,
		IncludeRaw:   boolEnv("INCLUDE_RAW"),
		SampleRows:   sampleRows,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaEnabled: boolEnv("KAFKA_ENABLED"),
		KafkaBrokers: splitList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "wave-observations"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		RefreshInterval: refreshInterval,
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DatasetID == "" {
		return nil, errors.New("DATASET_ID is required")
	}
	if !strings.Contains(cfg.FeedURL, "%s") {
		return nil, errors.New("FEED_URL must contain a %s dataset placeholder")
	}
	if cfg.StationCode == "" && cfg.PlatformID == "" && cfg.InstrumentID == "" && cfg.StationName == "" {
		return nil, errors.New("at least one of STATION_CODE, PLATFORM_ID, INSTRUMENT_ID, STATION_NAME is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.SampleRows < 0 {
		return nil, errors.New("SAMPLE_ROWS must not be negative")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func intOrDefault(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
