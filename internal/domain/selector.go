package domain

import "strings"

// identityColumns returns the resolved columns that can carry station
// identity text, in role priority order.
func identityColumns(roles Roles) []string {
	var cols []string
	for _, c := range []string{roles.Station, roles.Platform, roles.Deployment} {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

// Matches decides whether a raw row belongs to the configured station. The
// signals are checked as a logical OR, not a priority chain: an exact
// case-insensitive code or platform match against any identity column, a
// digit-stripped instrument-id equality, or a case-insensitive substring
// match of the configured site name in the row's identity text. Rows with no
// identity columns resolved are never selected.
func (id StationIdentity) Matches(row Row, roles Roles) bool {
	cols := identityColumns(roles)
	if len(cols) == 0 && roles.InstrumentID == "" {
		return false
	}

	for _, col := range cols {
		cell := strings.TrimSpace(row[col])
		if cell == "" {
			continue
		}
		if id.Code != "" && strings.EqualFold(cell, id.Code) {
			return true
		}
		if id.PlatformID != "" && strings.EqualFold(cell, id.PlatformID) {
			return true
		}
	}

	if want := digitsOnly(id.InstrumentID); want != "" && roles.InstrumentID != "" {
		if got := digitsOnly(row[roles.InstrumentID]); got != "" && got == want {
			return true
		}
	}

	if id.Name != "" {
		name := strings.ToLower(id.Name)
		for _, col := range cols {
			if strings.Contains(strings.ToLower(row[col]), name) {
				return true
			}
		}
	}

	return false
}

// digitsOnly strips everything but ASCII digits.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
