package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tidecraft/wavefeed/internal/domain"
)

// Artifact file names inside the output directory.
const (
	SeriesFile      = "series.json"
	LatestFile      = "latest.json"
	DiagnosticsFile = "diagnostics.json"
	IndexFile       = "index.html"
)

// Writer publishes one run's artifacts as static files in a public output
// directory. Each run overwrites the previous one.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates an artifact writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// latestDoc is the latest-snapshot document: site identity plus the single
// latest canonical record, null when no rows matched.
type latestDoc struct {
	Site   domain.Site    `json:"site"`
	Latest *domain.Record `json:"latest"`
}

// Write emits series.json, latest.json, diagnostics.json, and index.html.
// Outputs are well-formed even when the run produced no records.
func (w *Writer) Write(result *domain.Result) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	series := result.Series
	if series == nil {
		series = []domain.Record{}
	}

	if err := w.writeJSON(SeriesFile, series); err != nil {
		return err
	}
	if err := w.writeJSON(LatestFile, latestDoc{Site: result.Site, Latest: result.Latest}); err != nil {
		return err
	}
	if err := w.writeJSON(DiagnosticsFile, result.Diagnostics); err != nil {
		return err
	}
	if err := w.writeIndex(result); err != nil {
		return err
	}

	w.logger.Debug("artifacts written", "dir", w.dir, "series_length", len(series))
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(filepath.Join(w.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

var indexTmpl = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.SeriesLength}} records{{if .LatestTimestamp}}, latest at {{.LatestTimestamp}}{{end}}.</p>
<ul>
<li><a href="series.json">series.json</a> &mdash; full canonical time series</li>
<li><a href="latest.json">latest.json</a> &mdash; latest observation snapshot</li>
<li><a href="diagnostics.json">diagnostics.json</a> &mdash; schema-drift diagnostics</li>
</ul>
</body>
</html>
`))

type indexData struct {
	Title           string
	SeriesLength    int
	LatestTimestamp string
}

func (w *Writer) writeIndex(result *domain.Result) error {
	data := indexData{
		Title:        indexTitle(result.Site),
		SeriesLength: len(result.Series),
	}
	if result.Latest != nil {
		data.LatestTimestamp = result.Latest.Timestamp
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", IndexFile, err)
	}
	if err := os.WriteFile(filepath.Join(w.dir, IndexFile), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", IndexFile, err)
	}
	return nil
}

func indexTitle(site domain.Site) string {
	switch {
	case site.Name != "":
		return site.Name + " wave observations"
	case site.StationCode != "":
		return site.StationCode + " wave observations"
	default:
		return site.DatasetID + " wave observations"
	}
}
