package domain

import "strings"

// roleSpec lists the exact candidate names and substring fallback needles for
// one logical column role. Exact candidates are tried case-insensitively in
// priority order, all of them, before any needle is considered: fallback is a
// last resort, never interleaved.
type roleSpec struct {
	exact   []string
	needles []string
}

var (
	timeSpec = roleSpec{
		exact:   []string{"time", "timestamp", "datetime", "date", "time_utc"},
		needles: []string{"time", "date"},
	}
	stationSpec = roleSpec{
		exact:   []string{"station_id", "stationid", "station", "site_id"},
		needles: []string{"station"},
	}
	platformSpec = roleSpec{
		exact:   []string{"platform_id", "platform", "buoy_id", "buoy"},
		needles: []string{"platform", "buoy"},
	}
	deploymentSpec = roleSpec{
		exact:   []string{"deployment", "deployment_id", "site_name", "location"},
		needles: []string{"deploy", "site", "location", "name"},
	}
	parameterSpec = roleSpec{
		exact:   []string{"parameter", "param", "parameter_code", "parametercode"},
		needles: []string{"param"},
	}
	valueSpec = roleSpec{
		exact:   []string{"value", "result", "measurement"},
		needles: []string{"value", "result"},
	}
	instrumentSpec = roleSpec{
		exact:   []string{"instrument_id", "instrument", "sensor_id", "sensor"},
		needles: []string{"instrument", "sensor"},
	}
	latitudeSpec = roleSpec{
		exact:   []string{"latitude", "lat"},
		needles: []string{"latitude"},
	}
	longitudeSpec = roleSpec{
		exact:   []string{"longitude", "lon", "lng"},
		needles: []string{"longitude"},
	}
)

// classifyHeader returns the first header matching any exact candidate, then
// the first header whose case-folded name contains any fallback needle, then "".
func classifyHeader(headers []string, spec roleSpec) string {
	for _, candidate := range spec.exact {
		for _, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), candidate) {
				return h
			}
		}
	}
	for _, needle := range spec.needles {
		for _, h := range headers {
			if strings.Contains(strings.ToLower(h), needle) {
				return h
			}
		}
	}
	return ""
}

// ResolveRoles computes the column role assignment for one export snapshot.
// It runs once per dataset; rows are never re-inspected for structure.
func ResolveRoles(headers []string) Roles {
	return Roles{
		Time:         classifyHeader(headers, timeSpec),
		Station:      classifyHeader(headers, stationSpec),
		Platform:     classifyHeader(headers, platformSpec),
		Deployment:   classifyHeader(headers, deploymentSpec),
		Parameter:    classifyHeader(headers, parameterSpec),
		Value:        classifyHeader(headers, valueSpec),
		InstrumentID: classifyHeader(headers, instrumentSpec),
		Latitude:     classifyHeader(headers, latitudeSpec),
		Longitude:    classifyHeader(headers, longitudeSpec),
	}
}

// UsableSchema reports whether the resolved roles can produce canonical
// records: a timestamp column plus value-bearing capability, which for a wide
// export means the recognizable measurement columns themselves and for a long
// export means a shared value column.
func UsableSchema(roles Roles, shape Shape) bool {
	if roles.Time == "" {
		return false
	}
	if shape == ShapeWide {
		return true
	}
	return roles.Value != ""
}
