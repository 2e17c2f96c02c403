// Command genfixture writes deterministic sample export CSVs plus the
// canonical series they reduce to. It uses the actual domain package, so the
// expected-output fixture always matches real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfixture -out testdata/fixtures
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tidecraft/wavefeed/internal/domain"
)

var longRows = [][]string{
	{"time", "station_id", "parameter", "value", "latitude", "longitude"},
	{"2024-06-01T12:00:00Z", "EXT", "Hm0", "1,5", "53.23", "-9.255"},
	{"2024-06-01T12:00:00Z", "EXT", "Tp", "6.2", "53.23", "-9.255"},
	{"2024-06-01T12:00:00Z", "EXT", "MWD", "245", "53.23", "-9.255"},
	{"2024-06-01T12:30:00Z", "EXT", "Hm0", "1.7", "53.23", "-9.255"},
	{"2024-06-01T12:30:00Z", "EXT", "Tz", "4.8", "53.23", "-9.255"},
	{"2024-06-01T12:00:00Z", "M6", "Hm0", "9.9", "52.98", "-15.88"},
	{"not-a-time", "EXT", "Hm0", "2.0", "53.23", "-9.255"},
}

var wideRows = [][]string{
	{"time", "station_id", "Hm0", "Tp", "Tz", "MWD"},
	{"UTC", "", "metres", "seconds", "seconds", "degrees"},
	{"01/06/2024 12:00", "EXT", "1,5", "6.2", "", "245"},
	{"01/06/2024 12:30", "EXT", "1.7", "", "4.8", ""},
	{"01/06/2024 12:00", "M6", "9.9", "", "", ""},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for fixture files")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Fix the clock so any generated timestamps are reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.June, 1, 13, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	if err := writeCSV(filepath.Join(*out, "export_long.csv"), longRows); err != nil {
		return err
	}
	if err := writeCSV(filepath.Join(*out, "export_wide.csv"), wideRows); err != nil {
		return err
	}

	// Both fixtures reduce to the same canonical series.
	series, err := reduce(longRows)
	if err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(*out, "expected_series.json"), series); err != nil {
		return err
	}

	fmt.Printf("wrote %d fixture files to %s (%d canonical records)\n", 3, *out, len(series))
	return nil
}

func reduce(table [][]string) ([]domain.Record, error) {
	headers := table[0]
	roles := domain.ResolveRoles(headers)
	shape := domain.DetectShape(headers)
	wide := domain.WideColumns(headers)

	identity := domain.StationIdentity{Code: "EXT"}
	red := domain.NewReducer(false)

	for _, cells := range table[1:] {
		row := make(domain.Row, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = cells[i]
			}
		}
		if !identity.Matches(row, roles) {
			continue
		}
		domain.ExtractRow(row, headers, roles, shape, wide, red)
	}
	return red.Series(), nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
