package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the canonical output format: ISO-8601 UTC with
// millisecond precision. Lexical order on these strings is chronological
// order, which is what the reducer sorts by.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Layout groups tried per input shape. Within a group, first parse wins.
var (
	isoTLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
	}
	slashLayouts = []string{
		"02/01/2006 15:04:05",
		"02/01/2006 15:04",
		"02/01/2006",
	}
	dashLayouts = []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}
	genericLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		time.RFC1123Z,
		time.RFC1123,
	}
)

// NormalizeTimestamp converts a raw cell value into the canonical layout.
// Input shapes are tried in order: ISO-8601 with a T separator, then
// DD/MM/YYYY with optional time, then YYYY-MM-DD with optional time, then a
// generic last-chance parse with a UTC marker appended when the string lacks
// one. Missing time components default to zero and all naive inputs are
// interpreted as UTC. ok=false means the value is expected upstream noise and
// the owning triple must be dropped.
func NormalizeTimestamp(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if strings.Contains(s, "T") {
		if t, ok := parseAny(s, isoTLayouts); ok {
			return t.UTC().Format(TimestampLayout), true
		}
	}
	if t, ok := parseAny(s, slashLayouts); ok {
		return t.UTC().Format(TimestampLayout), true
	}
	if t, ok := parseAny(s, dashLayouts); ok {
		return t.UTC().Format(TimestampLayout), true
	}

	fallback := s
	if !strings.HasSuffix(s, "Z") && !strings.HasSuffix(s, "UTC") {
		fallback += "Z"
	}
	if t, ok := parseAny(fallback, genericLayouts); ok {
		return t.UTC().Format(TimestampLayout), true
	}

	return "", false
}

func parseAny(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
