package domain

// CanonicalKey names one of the fixed measurement fields every raw parameter
// label is mapped onto.
type CanonicalKey string

const (
	KeyHm0 CanonicalKey = "hm0" // significant wave height
	KeyTp  CanonicalKey = "tp"  // peak period
	KeyTz  CanonicalKey = "tz"  // zero-crossing period
	KeyDir CanonicalKey = "dir" // wave direction
)

// CanonicalKeys lists every key in a stable order.
var CanonicalKeys = []CanonicalKey{KeyHm0, KeyTp, KeyTz, KeyDir}

// Row is one parsed export row: column name to raw cell text.
type Row map[string]string

// Dataset is a parsed export: the header row plus data rows. Headers preserve
// the column order of the payload; Rows index cells by header name.
type Dataset struct {
	Headers []string
	Rows    []Row
}

// Shape describes the layout of an export snapshot.
type Shape int

const (
	// ShapeLong has one row per timestamp+parameter pair with a shared value column.
	ShapeLong Shape = iota
	// ShapeWide has one row per timestamp and one column per measurement.
	ShapeWide
)

func (s Shape) String() string {
	if s == ShapeWide {
		return "wide"
	}
	return "long"
}

// Roles maps each logical column role to the concrete column name resolved for
// this export snapshot. An empty string means the role is unresolved.
type Roles struct {
	Time         string `json:"time,omitempty"`
	Station      string `json:"station,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Deployment   string `json:"deployment,omitempty"`
	Parameter    string `json:"parameter,omitempty"`
	Value        string `json:"value,omitempty"`
	InstrumentID string `json:"instrument_id,omitempty"`
	Latitude     string `json:"latitude,omitempty"`
	Longitude    string `json:"longitude,omitempty"`
}

// StationIdentity is the set of matching signals configured for one run.
type StationIdentity struct {
	Code         string
	PlatformID   string
	InstrumentID string
	Name         string
}

// Empty reports whether no identity signal is configured at all.
func (id StationIdentity) Empty() bool {
	return id.Code == "" && id.PlatformID == "" && id.InstrumentID == "" && id.Name == ""
}

// Record is one canonical observation. Timestamps are unique within a run's
// output; a nil field means the measurement was never observed for that
// timestamp.
type Record struct {
	Timestamp string             `json:"timestamp"`
	Hm0       *float64           `json:"hm0,omitempty"`
	Tp        *float64           `json:"tp,omitempty"`
	Tz        *float64           `json:"tz,omitempty"`
	Dir       *float64           `json:"dir,omitempty"`
	Raw       map[string]float64 `json:"raw,omitempty"`
}

// Set assigns a canonical field, overwriting any prior value for the same key.
func (r *Record) Set(key CanonicalKey, v float64) {
	switch key {
	case KeyHm0:
		r.Hm0 = &v
	case KeyTp:
		r.Tp = &v
	case KeyTz:
		r.Tz = &v
	case KeyDir:
		r.Dir = &v
	}
}

// Field returns the canonical field for key, or nil if unset.
func (r *Record) Field(key CanonicalKey) *float64 {
	switch key {
	case KeyHm0:
		return r.Hm0
	case KeyTp:
		return r.Tp
	case KeyTz:
		return r.Tz
	case KeyDir:
		return r.Dir
	default:
		return nil
	}
}

// Site identifies the target station in the latest-snapshot artifact.
type Site struct {
	DatasetID    string `json:"dataset_id"`
	StationCode  string `json:"station_code,omitempty"`
	PlatformID   string `json:"platform_id,omitempty"`
	InstrumentID string `json:"instrument_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Place        string `json:"place,omitempty"`
}

// Diagnostics is the schema-drift debugging artifact. It is not meant for
// programmatic consumption by other systems.
type Diagnostics struct {
	GeneratedAt       string   `json:"generated_at"`
	DatasetID         string   `json:"dataset_id"`
	Shape             string   `json:"shape,omitempty"`
	Roles             Roles    `json:"roles"`
	SchemaError       string   `json:"schema_error,omitempty"`
	RowsFetched       int      `json:"rows_fetched"`
	RowsSelected      int      `json:"rows_selected"`
	SeriesLength      int      `json:"series_length"`
	DroppedTimestamps int      `json:"dropped_timestamps"`
	ParameterLabels   []string `json:"parameter_labels,omitempty"`
	SampleRows        []Row    `json:"sample_rows,omitempty"`
}

// NewDiagnostics stamps a diagnostics document for one run. The timestamp
// comes from the package clock so fixtures can freeze it.
func NewDiagnostics(datasetID string) Diagnostics {
	return Diagnostics{
		GeneratedAt: clock.Now().UTC().Format(TimestampLayout),
		DatasetID:   datasetID,
	}
}

// Result is everything one run produces: the sorted series, the latest
// pointer, the target site identity, and the diagnostics document.
type Result struct {
	Series      []Record
	Latest      *Record
	Site        Site
	Diagnostics Diagnostics
}
