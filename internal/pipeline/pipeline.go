package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/tidecraft/wavefeed/internal/config"
	"github.com/tidecraft/wavefeed/internal/domain"
	"github.com/tidecraft/wavefeed/internal/observability"
)

// Fetcher retrieves the whole export payload for a dataset.
type Fetcher interface {
	Fetch(ctx context.Context, datasetID string) ([]byte, error)
}

// ArtifactWriter publishes one run's result as static documents.
type ArtifactWriter interface {
	Write(result *domain.Result) error
}

// Publisher forwards the canonical series to an external channel.
type Publisher interface {
	Publish(ctx context.Context, records []domain.Record) error
}

// Pipeline orchestrates one fetch-classify-reduce-write pass. Every run is
// self-contained: all state below the struct fields is request-scoped and
// discarded when Run returns.
type Pipeline struct {
	fetcher   Fetcher
	writer    ArtifactWriter
	publisher Publisher       // nil disables Kafka publishing
	geocoder  domain.Geocoder // nil disables place enrichment

	datasetID  string
	identity   domain.StationIdentity
	includeRaw bool
	sampleRows int

	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline. publisher and geocoder may be nil.
func New(f Fetcher, w ArtifactWriter, p Publisher, g domain.Geocoder, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		writer:    w,
		publisher: p,
		geocoder:  g,
		datasetID: cfg.DatasetID,
		identity: domain.StationIdentity{
			Code:         cfg.StationCode,
			PlatformID:   cfg.PlatformID,
			InstrumentID: cfg.InstrumentID,
			Name:         cfg.StationName,
		},
		includeRaw: cfg.IncludeRaw,
		sampleRows: cfg.SampleRows,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no run has completed yet")
	}
	return nil
}

// Run executes one full pass. Only transport and artifact-write failures are
// returned as errors; schema drift and per-row noise are absorbed into the
// diagnostics document and still produce well-formed (possibly empty) output.
func (p *Pipeline) Run(ctx context.Context) (*domain.Result, error) {
	start := time.Now()
	p.metrics.RunsTotal.Inc()

	payload, err := p.fetcher.Fetch(ctx, p.datasetID)
	if err != nil {
		p.metrics.RunFailures.Inc()
		return nil, fmt.Errorf("fetch dataset %s: %w", p.datasetID, err)
	}

	result := p.build(ctx, payload)

	if err := p.writer.Write(result); err != nil {
		p.metrics.RunFailures.Inc()
		return nil, fmt.Errorf("write artifacts: %w", err)
	}
	p.metrics.ArtifactsWritten.Inc()

	if p.publisher != nil && len(result.Series) > 0 {
		if err := p.publisher.Publish(ctx, result.Series); err != nil {
			// Artifacts are already on disk; a broken broker must not fail the run.
			p.logger.Warn("publish failed", "error", err, "records", len(result.Series))
			p.metrics.PublishFailures.Inc()
		} else {
			p.metrics.RecordsPublished.Add(float64(len(result.Series)))
		}
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)

	p.logger.Info("run complete",
		"dataset", p.datasetID,
		"shape", result.Diagnostics.Shape,
		"rows_fetched", result.Diagnostics.RowsFetched,
		"rows_selected", result.Diagnostics.RowsSelected,
		"series_length", len(result.Series),
		"schema_error", result.Diagnostics.SchemaError,
	)
	return result, nil
}

// RunEvery runs immediately and then once per interval until the context is
// cancelled. Individual run failures are logged and the loop keeps going.
func (p *Pipeline) RunEvery(ctx context.Context, interval time.Duration) error {
	if _, err := p.Run(ctx); err != nil {
		p.logger.Error("run failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if _, err := p.Run(ctx); err != nil {
				p.logger.Error("run failed", "error", err)
			}
		}
	}
}

// build turns a raw payload into a Result. It never fails: anything short of
// a usable schema degrades to an empty series with the reason recorded in
// diagnostics.
func (p *Pipeline) build(ctx context.Context, payload []byte) *domain.Result {
	site := domain.Site{
		DatasetID:    p.datasetID,
		StationCode:  p.identity.Code,
		PlatformID:   p.identity.PlatformID,
		InstrumentID: p.identity.InstrumentID,
		Name:         p.identity.Name,
	}
	diag := domain.NewDiagnostics(p.datasetID)

	empty := func(reason string) *domain.Result {
		diag.SchemaError = reason
		p.metrics.SchemaFailures.Inc()
		p.metrics.SeriesLength.Set(0)
		return &domain.Result{Series: []domain.Record{}, Site: site, Diagnostics: diag}
	}

	ds, err := domain.ParseDataset(payload)
	if err != nil {
		return empty(err.Error())
	}
	if len(ds.Headers) == 0 {
		return empty("empty payload")
	}

	roles := domain.ResolveRoles(ds.Headers)
	shape := domain.DetectShape(ds.Headers)
	diag.Roles = roles
	diag.Shape = shape.String()
	diag.RowsFetched = len(ds.Rows)
	diag.SampleRows = sampleRows(ds.Rows, p.sampleRows)
	diag.ParameterLabels = parameterLabels(ds, roles, shape)

	if !domain.UsableSchema(roles, shape) {
		return empty("required column roles unresolved")
	}

	wide := domain.WideColumns(ds.Headers)
	red := domain.NewReducer(p.includeRaw)
	var lastSelected domain.Row

	for _, row := range ds.Rows {
		if !p.identity.Matches(row, roles) {
			continue
		}
		diag.RowsSelected++
		lastSelected = row
		domain.ExtractRow(row, ds.Headers, roles, shape, wide, red)
	}

	series := red.Series()
	diag.SeriesLength = len(series)
	diag.DroppedTimestamps = red.Dropped()

	p.metrics.RowsFetched.Add(float64(diag.RowsFetched))
	p.metrics.RowsSelected.Add(float64(diag.RowsSelected))
	p.metrics.DroppedTimestamps.Add(float64(diag.DroppedTimestamps))
	p.metrics.SeriesLength.Set(float64(diag.SeriesLength))

	site = p.enrichPlace(ctx, site, lastSelected, roles)

	return &domain.Result{
		Series:      series,
		Latest:      domain.Latest(series),
		Site:        site,
		Diagnostics: diag,
	}
}

// enrichPlace decorates the site with a reverse-geocoded place name when the
// export carries coordinates and a geocoder is configured.
func (p *Pipeline) enrichPlace(ctx context.Context, site domain.Site, row domain.Row, roles domain.Roles) domain.Site {
	if p.geocoder == nil || row == nil || roles.Latitude == "" || roles.Longitude == "" {
		return site
	}
	lat, okLat := domain.ParseValue(row[roles.Latitude])
	lon, okLon := domain.ParseValue(row[roles.Longitude])
	if !okLat || !okLon {
		return site
	}

	enriched := domain.EnrichSitePlace(ctx, site, lat, lon, p.geocoder, p.logger)
	if enriched.Place != "" {
		p.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	} else {
		p.metrics.GeocodeRequests.WithLabelValues("miss").Inc()
	}
	return enriched
}

// sampleRows copies the first n raw rows into the diagnostics document.
func sampleRows(rows []domain.Row, n int) []domain.Row {
	if n > len(rows) {
		n = len(rows)
	}
	if n <= 0 {
		return nil
	}
	out := make([]domain.Row, n)
	copy(out, rows[:n])
	return out
}

// parameterLabels collects the distinct raw parameter labels observed: the
// parameter cells of every row for long exports, the recognizable measurement
// headers for wide ones.
func parameterLabels(ds domain.Dataset, roles domain.Roles, shape domain.Shape) []string {
	seen := make(map[string]struct{})

	if shape == domain.ShapeWide {
		for col := range domain.WideColumns(ds.Headers) {
			seen[col] = struct{}{}
		}
	} else if roles.Parameter != "" {
		for _, row := range ds.Rows {
			if label := row[roles.Parameter]; label != "" {
				seen[label] = struct{}{}
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
