package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidecraft/wavefeed/internal/config"
	"github.com/tidecraft/wavefeed/internal/domain"
	"github.com/tidecraft/wavefeed/internal/observability"
)

const longCSV = `time,station_id,parameter,value
01/06/2024 12:00,EXT,Hm0,"1,5"
01/06/2024 12:00,EXT,Tp,6.2
01/06/2024 12:00,M6,Hm0,9.9
`

const wideCSV = `time,station_id,Hm0,Tp
2024-06-01T12:00:00Z,EXT,1.2,5.0
`

type stubFetcher struct {
	payload []byte
	err     error
	calls   atomic.Int32
}

func (f *stubFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	f.calls.Add(1)
	return f.payload, f.err
}

type captureWriter struct {
	result *domain.Result
	err    error
}

func (w *captureWriter) Write(result *domain.Result) error {
	w.result = result
	return w.err
}

type stubPublisher struct {
	err  error
	got  []domain.Record
	sent int
}

func (p *stubPublisher) Publish(_ context.Context, records []domain.Record) error {
	p.sent++
	p.got = records
	return p.err
}

type stubGeocoder struct {
	place string
	err   error
	lat   float64
	lon   float64
}

func (g *stubGeocoder) ReverseGeocode(_ context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	g.lat, g.lon = lat, lon
	if g.err != nil {
		return domain.GeocodingResult{}, g.err
	}
	return domain.GeocodingResult{PlaceName: g.place}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DatasetID:   "IWaveBNetwork_waves",
		StationCode: "EXT",
		SampleRows:  3,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestPipeline(f Fetcher, w ArtifactWriter, p Publisher, g domain.Geocoder, cfg *config.Config) *Pipeline {
	return New(f, w, p, g, cfg, testLogger(), observability.NewMetricsForTesting())
}

func TestRunLongExport(t *testing.T) {
	writer := &captureWriter{}
	pl := newTestPipeline(&stubFetcher{payload: []byte(longCSV)}, writer, nil, nil, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err)
	require.Same(t, result, writer.result)

	require.Len(t, result.Series, 1)
	rec := result.Series[0]
	assert.Equal(t, "2024-06-01T12:00:00.000Z", rec.Timestamp)
	require.NotNil(t, rec.Hm0)
	assert.Equal(t, 1.5, *rec.Hm0)
	require.NotNil(t, rec.Tp)
	assert.Equal(t, 6.2, *rec.Tp)
	assert.Nil(t, rec.Tz)
	assert.Nil(t, rec.Dir)

	require.NotNil(t, result.Latest)
	assert.Equal(t, rec, *result.Latest)

	diag := result.Diagnostics
	assert.Equal(t, "long", diag.Shape)
	assert.Equal(t, 3, diag.RowsFetched)
	assert.Equal(t, 2, diag.RowsSelected)
	assert.Equal(t, 1, diag.SeriesLength)
	assert.Equal(t, 0, diag.DroppedTimestamps)
	assert.Empty(t, diag.SchemaError)
	assert.Equal(t, []string{"Hm0", "Tp"}, diag.ParameterLabels)
	assert.Len(t, diag.SampleRows, 3)
}

func TestRunWideExport(t *testing.T) {
	writer := &captureWriter{}
	pl := newTestPipeline(&stubFetcher{payload: []byte(wideCSV)}, writer, nil, nil, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Series, 1)
	rec := result.Series[0]
	require.NotNil(t, rec.Hm0)
	assert.Equal(t, 1.2, *rec.Hm0)
	require.NotNil(t, rec.Tp)
	assert.Equal(t, 5.0, *rec.Tp)

	assert.Equal(t, "wide", result.Diagnostics.Shape)
	assert.Equal(t, []string{"Hm0", "Tp"}, result.Diagnostics.ParameterLabels)
}

func TestRunNoMatchingStation(t *testing.T) {
	cfg := testConfig()
	cfg.StationCode = "M4"
	writer := &captureWriter{}
	pl := newTestPipeline(&stubFetcher{payload: []byte(longCSV)}, writer, nil, nil, cfg)

	result, err := pl.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Series)
	assert.NotNil(t, result.Series)
	assert.Nil(t, result.Latest)
	assert.Equal(t, 0, result.Diagnostics.RowsSelected)
	assert.Empty(t, result.Diagnostics.SchemaError)
}

func TestRunUnparseableTimestampDropped(t *testing.T) {
	csv := "time,station_id,parameter,value\n" +
		"garbage,EXT,Hm0,1.5\n" +
		"2024-06-01T12:00:00Z,EXT,Hm0,1.6\n"
	writer := &captureWriter{}
	pl := newTestPipeline(&stubFetcher{payload: []byte(csv)}, writer, nil, nil, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Series, 1)
	assert.Equal(t, 1, result.Diagnostics.DroppedTimestamps)
}

func TestRunEmptyPayload(t *testing.T) {
	writer := &captureWriter{}
	pl := newTestPipeline(&stubFetcher{payload: nil}, writer, nil, nil, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err, "schema-level failures must not abort the run")

	require.NotNil(t, writer.result, "empty outputs must still be written")
	assert.NotNil(t, result.Series)
	assert.Empty(t, result.Series)
	assert.Nil(t, result.Latest)
	assert.Equal(t, "empty payload", result.Diagnostics.SchemaError)
}

func TestRunUnusableSchema(t *testing.T) {
	csv := "foo,bar\n1,2\n"
	writer := &captureWriter{}
	pl := newTestPipeline(&stubFetcher{payload: []byte(csv)}, writer, nil, nil, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Series)
	assert.Equal(t, "required column roles unresolved", result.Diagnostics.SchemaError)
	assert.Equal(t, 1, result.Diagnostics.RowsFetched)
}

func TestRunFetchFailureIsFatal(t *testing.T) {
	writer := &captureWriter{}
	pl := newTestPipeline(&stubFetcher{err: errors.New("connection refused")}, writer, nil, nil, testConfig())

	_, err := pl.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Nil(t, writer.result, "no artifacts on transport failure")
}

func TestRunWriteFailureIsFatal(t *testing.T) {
	writer := &captureWriter{err: errors.New("disk full")}
	pl := newTestPipeline(&stubFetcher{payload: []byte(longCSV)}, writer, nil, nil, testConfig())

	_, err := pl.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRunPublisherFailureIsNotFatal(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker unreachable")}
	pl := newTestPipeline(&stubFetcher{payload: []byte(longCSV)}, &captureWriter{}, pub, nil, testConfig())

	_, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, pub.sent)
}

func TestRunPublishesSeries(t *testing.T) {
	pub := &stubPublisher{}
	pl := newTestPipeline(&stubFetcher{payload: []byte(longCSV)}, &captureWriter{}, pub, nil, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, result.Series, pub.got)
}

func TestRunSkipsPublishOnEmptySeries(t *testing.T) {
	pub := &stubPublisher{}
	pl := newTestPipeline(&stubFetcher{payload: nil}, &captureWriter{}, pub, nil, testConfig())

	_, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, pub.sent)
}

func TestRunEnrichesPlaceFromCoordinates(t *testing.T) {
	csv := "time,station_id,parameter,value,latitude,longitude\n" +
		"2024-06-01T12:00:00Z,EXT,Hm0,1.5,53.23,-9.255\n"
	geo := &stubGeocoder{place: "Galway Bay"}
	pl := newTestPipeline(&stubFetcher{payload: []byte(csv)}, &captureWriter{}, nil, geo, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Galway Bay", result.Site.Place)
	assert.Equal(t, 53.23, geo.lat)
	assert.Equal(t, -9.255, geo.lon)
}

func TestRunGeocoderFailureLeavesSiteBare(t *testing.T) {
	csv := "time,station_id,parameter,value,latitude,longitude\n" +
		"2024-06-01T12:00:00Z,EXT,Hm0,1.5,53.23,-9.255\n"
	geo := &stubGeocoder{err: errors.New("rate limited")}
	pl := newTestPipeline(&stubFetcher{payload: []byte(csv)}, &captureWriter{}, nil, geo, testConfig())

	result, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Site.Place)
}

func TestRunIsIdempotent(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	run := func() *domain.Result {
		writer := &captureWriter{}
		pl := newTestPipeline(&stubFetcher{payload: []byte(longCSV)}, writer, nil, nil, testConfig())
		result, err := pl.Run(context.Background())
		require.NoError(t, err)
		return result
	}

	first, err := json.Marshal(run())
	require.NoError(t, err)
	second, err := json.Marshal(run())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCheckReadiness(t *testing.T) {
	pl := newTestPipeline(&stubFetcher{payload: []byte(longCSV)}, &captureWriter{}, nil, nil, testConfig())

	require.Error(t, pl.CheckReadiness(context.Background()))

	_, err := pl.Run(context.Background())
	require.NoError(t, err)
	assert.NoError(t, pl.CheckReadiness(context.Background()))
}

func TestRunEveryStopsOnContextCancel(t *testing.T) {
	fetcher := &stubFetcher{payload: []byte(longCSV)}
	pl := newTestPipeline(fetcher, &captureWriter{}, nil, nil, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = pl.RunEvery(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return fetcher.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunEvery did not stop after cancellation")
	}
}
