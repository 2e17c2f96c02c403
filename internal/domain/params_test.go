package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hm0", "hm0"},
		{"Peak Direction (deg)", "peakdirectiondeg"},
		{"significant_wave_height", "significantwaveheight"},
		{"T02", "t02"},
		{"  ", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeLabel(tt.input))
		})
	}
}

func TestClassifyParameter(t *testing.T) {
	tests := []struct {
		label    string
		expected CanonicalKey
	}{
		{"Hm0", KeyHm0},
		{"hm0 (m)", KeyHm0},
		{"Hs", KeyHm0},
		{"SignificantWaveHeight", KeyHm0},
		{"Tp", KeyTp},
		{"Tpeak", KeyTp},
		{"Tpp", KeyTp},
		{"Peak Period", KeyTp},
		{"Tz", KeyTz},
		{"T02", KeyTz},
		{"ZeroCrossingPeriod", KeyTz},
		{"zero_crossing_period_s", KeyTz},
		{"Wpdir", KeyDir},
		{"wp_dir", KeyDir},
		{"Dp", KeyDir},
		{"PeakDirection", KeyDir},
		{"MWD", KeyDir},
		{"MeanDirection", KeyDir},
		{"Direction", KeyDir},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			key, ok := ClassifyParameter(tt.label)
			require.True(t, ok)
			assert.Equal(t, tt.expected, key)
		})
	}
}

func TestClassifyParameter_Unclassified(t *testing.T) {
	for _, label := range []string{"Salinity", "SeaTemperature", "BatteryVoltage", "", "  "} {
		t.Run(label, func(t *testing.T) {
			_, ok := ClassifyParameter(label)
			assert.False(t, ok)
		})
	}
}

// A label and a wide-column header with the same normalized text must always
// land on the same canonical key.
func TestClassifyParameter_HeaderLabelRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"Hm0", "hm0 (m)"},
		{"PeakPeriod", "peak_period_s"},
		{"ZeroCrossing", "zero-crossing"},
		{"MeanDirection", "mean direction (deg)"},
	}

	for _, p := range pairs {
		asLabel, okLabel := ClassifyParameter(p[0])
		asHeader, okHeader := ClassifyParameter(p[1])
		require.True(t, okLabel, p[0])
		require.True(t, okHeader, p[1])
		assert.Equal(t, asLabel, asHeader)
	}
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		expected Shape
	}{
		{"two canonical headers", []string{"time", "station_id", "Hm0", "Tp"}, ShapeWide},
		{"four canonical headers", []string{"time", "Hm0", "Tp", "Tz", "PeakDirection"}, ShapeWide},
		{"one canonical header", []string{"time", "station_id", "Hm0", "value"}, ShapeLong},
		{"no canonical headers", []string{"time", "station_id", "parameter", "value"}, ShapeLong},
		{"duplicate class counts once", []string{"time", "Hm0", "Hs"}, ShapeLong},
		{"empty", nil, ShapeLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectShape(tt.headers))
		})
	}
}

func TestWideColumns(t *testing.T) {
	cols := WideColumns([]string{"time", "station_id", "Hm0", "Tp", "Salinity"})

	assert.Equal(t, map[string]CanonicalKey{"Hm0": KeyHm0, "Tp": KeyTp}, cols)
}
