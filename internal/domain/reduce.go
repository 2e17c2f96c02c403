package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ParseValue parses a raw numeric cell. Some export snapshots use a comma
// decimal separator ("1,5"), which is accepted alongside the dot form.
func ParseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Reducer folds (timestamp, canonical key, value) triples into records keyed
// by normalized timestamp. It is created, populated, and consumed entirely
// within one run; nothing survives across invocations.
type Reducer struct {
	records    map[string]*Record
	includeRaw bool
	dropped    int
}

// NewReducer creates an empty reducer. When includeRaw is set, each record
// also retains the original label-to-value pairs seen for its timestamp.
func NewReducer(includeRaw bool) *Reducer {
	return &Reducer{
		records:    make(map[string]*Record),
		includeRaw: includeRaw,
	}
}

// Add folds one triple into the accumulation. A later triple for the same
// timestamp and key overwrites the earlier value; triples whose timestamp
// fails normalization contribute nothing and raise no error.
func (r *Reducer) Add(rawTimestamp string, key CanonicalKey, value float64) {
	ts, ok := NormalizeTimestamp(rawTimestamp)
	if !ok {
		r.dropped++
		return
	}
	r.record(ts).Set(key, value)
}

// AddRaw records an original label-to-value pair in the raw side channel.
// No-op unless the reducer was created with includeRaw.
func (r *Reducer) AddRaw(rawTimestamp, label string, value float64) {
	if !r.includeRaw || strings.TrimSpace(label) == "" {
		return
	}
	ts, ok := NormalizeTimestamp(rawTimestamp)
	if !ok {
		return
	}
	rec := r.record(ts)
	if rec.Raw == nil {
		rec.Raw = make(map[string]float64)
	}
	rec.Raw[label] = value
}

func (r *Reducer) record(ts string) *Record {
	rec, ok := r.records[ts]
	if !ok {
		rec = &Record{Timestamp: ts}
		r.records[ts] = rec
	}
	return rec
}

// Dropped returns how many triples were discarded for unparseable timestamps.
func (r *Reducer) Dropped() int { return r.dropped }

// Series emits the accumulated records sorted ascending by timestamp.
// Lexical comparison of the canonical layout is chronological comparison.
// The result is never nil so an empty series serializes as [].
func (r *Reducer) Series() []Record {
	out := make([]Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// Latest returns a copy of the last record of a sorted series, or nil when
// the series is empty.
func Latest(series []Record) *Record {
	if len(series) == 0 {
		return nil
	}
	last := series[len(series)-1]
	return &last
}

// ExtractRow feeds the canonical triples carried by one selected row into the
// reducer. Wide rows contribute one triple per recognizable measurement
// column, walked in header order so duplicate classifications resolve
// deterministically; long rows contribute at most one, pivoted through the
// parameter label.
func ExtractRow(row Row, headers []string, roles Roles, shape Shape, wide map[string]CanonicalKey, red *Reducer) {
	ts := row[roles.Time]

	if shape == ShapeWide {
		for _, col := range headers {
			key, ok := wide[col]
			if !ok {
				continue
			}
			v, ok := ParseValue(row[col])
			if !ok {
				continue
			}
			red.Add(ts, key, v)
			red.AddRaw(ts, col, v)
		}
		return
	}

	v, ok := ParseValue(row[roles.Value])
	if !ok {
		return
	}
	label := row[roles.Parameter]
	if key, ok := ClassifyParameter(label); ok {
		red.Add(ts, key, v)
	}
	red.AddRaw(ts, label, v)
}
