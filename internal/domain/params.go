package domain

import "strings"

// NormalizeLabel case-folds a raw parameter label or column header and strips
// every character that is not a lowercase letter or digit, so that
// "Peak Direction (deg)" and "peak_direction" compare equal.
func NormalizeLabel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ClassifyParameter maps a raw parameter label, or a wide-column header, to a
// canonical key. The rule classes are mutually exclusive in practice; ties
// resolve to the first matching class in hm0, tp, tz, dir order.
func ClassifyParameter(label string) (CanonicalKey, bool) {
	n := NormalizeLabel(label)
	if n == "" {
		return "", false
	}
	switch {
	case strings.Contains(n, "hm0"),
		strings.Contains(n, "hs"),
		strings.Contains(n, "significantwaveheight"):
		return KeyHm0, true
	case n == "tpeak", n == "tp", n == "tpp",
		strings.Contains(n, "peakperiod"):
		return KeyTp, true
	case n == "tz", n == "t02",
		strings.Contains(n, "zerocross"):
		return KeyTz, true
	case n == "dp", n == "mwd", n == "direction",
		strings.Contains(n, "wpdir"),
		strings.Contains(n, "peakdirection"),
		strings.Contains(n, "meandirection"):
		return KeyDir, true
	default:
		return "", false
	}
}
