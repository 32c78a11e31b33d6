package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ============================================================================
// NUMBER FORMATTING — Labels, tooltips, legends
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatNumber formats v with comma separators and up to decimals fraction
// digits; trailing zeros are dropped. NaN and infinities format as "–".
func FormatNumber(v float64, decimals int) string {
	if !finite(v) {
		return "–"
	}
	negative := v < 0
	if negative {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intStr, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	if len(intStr) > 3 {
		var parts []string
		for len(intStr) > 3 {
			parts = append([]string{intStr[len(intStr)-3:]}, parts...)
			intStr = intStr[:len(intStr)-3]
		}
		parts = append([]string{intStr}, parts...)
		intStr = strings.Join(parts, ",")
	}

	result := intStr
	if frac != "" {
		result += "." + frac
	}
	if negative && result != "0" {
		result = "-" + result
	}
	return result
}

// FormatPercent formats a percentage value (already scaled to 0..100).
func FormatPercent(v float64, decimals int) string {
	return FormatNumber(v, decimals) + "%"
}

// FormatFixed formats v with exactly decimals fraction digits.
func FormatFixed(v float64, decimals int) string {
	if !finite(v) {
		return "–"
	}
	if decimals < 0 {
		decimals = 0
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s
}
