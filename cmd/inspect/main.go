// Command inspect classifies a local export CSV and reports what the pipeline
// would make of it: resolved column roles, detected shape, parameter labels,
// and, when a station is given, the reduced canonical series. It is the tool
// to reach for when a feed changes under you.
//
// Usage:
//
//	go run ./cmd/inspect -file export.csv -station EXT
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/tidecraft/wavefeed/internal/domain"
)

func main() {
	file := flag.String("file", "", "path to an export CSV file")
	station := flag.String("station", "", "station code to reduce a series for (optional)")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file, *station); code != 0 {
		os.Exit(code)
	}
}

func run(path, station string) int {
	payload, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		return 1
	}

	ds, err := domain.ParseDataset(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", path, err)
		return 1
	}
	if len(ds.Headers) == 0 {
		fmt.Fprintln(os.Stderr, "empty payload")
		return 1
	}

	roles := domain.ResolveRoles(ds.Headers)
	shape := domain.DetectShape(ds.Headers)

	fmt.Printf("file:    %s\n", path)
	fmt.Printf("shape:   %s\n", shape)
	fmt.Printf("rows:    %d\n", len(ds.Rows))
	fmt.Printf("headers: %v\n", ds.Headers)
	fmt.Println("roles:")
	printRole("time", roles.Time)
	printRole("station", roles.Station)
	printRole("platform", roles.Platform)
	printRole("deployment", roles.Deployment)
	printRole("parameter", roles.Parameter)
	printRole("value", roles.Value)
	printRole("instrument", roles.InstrumentID)
	printRole("latitude", roles.Latitude)
	printRole("longitude", roles.Longitude)

	printLabels(ds, roles, shape)

	if !domain.UsableSchema(roles, shape) {
		fmt.Println("schema:  UNUSABLE (no timestamp column, or no value column for a long export)")
		return 2
	}
	fmt.Println("schema:  usable")

	if station != "" {
		printSeries(ds, roles, shape, station)
	}
	return 0
}

func printRole(name, header string) {
	if header == "" {
		header = "(unresolved)"
	}
	fmt.Printf("  %-11s %s\n", name, header)
}

// printLabels lists the distinct parameter labels with their canonical
// classification, or "-" for labels the reducer would route to the raw side
// channel only.
func printLabels(ds domain.Dataset, roles domain.Roles, shape domain.Shape) {
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
		return
	}

	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Println("parameter labels:")
	for _, label := range labels {
		key, ok := domain.ClassifyParameter(label)
		if !ok {
			fmt.Printf("  %-20s -\n", label)
			continue
		}
		fmt.Printf("  %-20s %s\n", label, key)
	}
}

func printSeries(ds domain.Dataset, roles domain.Roles, shape domain.Shape, station string) {
	identity := domain.StationIdentity{Code: station, Name: station}
	wide := domain.WideColumns(ds.Headers)
	red := domain.NewReducer(false)

	selected := 0
	for _, row := range ds.Rows {
		if !identity.Matches(row, roles) {
			continue
		}
		selected++
		domain.ExtractRow(row, ds.Headers, roles, shape, wide, red)
	}

	series := red.Series()
	fmt.Printf("station %q: %d rows selected, %d records, %d timestamps dropped\n",
		station, selected, len(series), red.Dropped())
	for _, rec := range series {
		fmt.Printf("  %s", rec.Timestamp)
		for _, key := range domain.CanonicalKeys {
			if v := rec.Field(key); v != nil {
				fmt.Printf("  %s=%g", key, *v)
			}
		}
		fmt.Println()
	}
}
