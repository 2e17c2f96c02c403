package domain

// DetectShape classifies the export layout without external configuration.
// If two or more distinct canonical keys are directly identifiable among the
// column headers, each row already carries multiple measurements and the
// export is wide; otherwise it is long and needs a pivot on the parameter
// column.
func DetectShape(headers []string) Shape {
	keys := make(map[CanonicalKey]struct{})
	for _, h := range headers {
		if key, ok := ClassifyParameter(h); ok {
			keys[key] = struct{}{}
		}
	}
	if len(keys) >= 2 {
		return ShapeWide
	}
	return ShapeLong
}

// WideColumns maps each recognizable measurement column header to its
// canonical key. Unrecognized columns are left out and ignored for canonical
// purposes.
func WideColumns(headers []string) map[string]CanonicalKey {
	cols := make(map[string]CanonicalKey)
	for _, h := range headers {
		if key, ok := ClassifyParameter(h); ok {
			cols[h] = key
		}
	}
	return cols
}
