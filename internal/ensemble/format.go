package ensemble

import (
	"fmt"
	"strings"
)

// pct renders a ratio as a whole percentage, or the placeholder when unknown.
func pct(x *float64) string {
	if x == nil {
		return "—"
	}
	return fmt.Sprintf("%.0f%%", *x*100)
}

// intOrDash renders a numeric value as an integer, or the placeholder.
func intOrDash(x *float64) string {
	if x == nil {
		return "—"
	}
	return fmt.Sprintf("%d", int(*x))
}

// fmtMoney renders an amount in rupiah with dot thousand separators,
// e.g. Rp12.500.000.
func fmtMoney(x *float64) string {
	if x == nil {
		return "—"
	}
	s := fmt.Sprintf("%.0f", *x)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "Rp" + strings.Join(parts, ".")
	if neg {
		out = "-" + out
	}
	return out
}
