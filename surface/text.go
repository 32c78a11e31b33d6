package surface

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Text metrics are estimated with the 7x13 bitmap face scaled to the
// requested size. Hosts render with their own fonts, so this is only used
// to decide whether a label fits.
var metricsFace font.Face = basicfont.Face7x13

const metricsSize = 13.0

// MeasureText returns the estimated advance width of s at the given font size.
func MeasureText(s string, size float64) float64 {
	if s == "" || size <= 0 {
		return 0
	}
	adv := font.MeasureString(metricsFace, s)
	return float64(adv) / 64 * size / metricsSize
}

// TextHeight returns the estimated line height at the given font size.
func TextHeight(size float64) float64 {
	m := metricsFace.Metrics()
	h := float64(m.Ascent+m.Descent) / 64
	return h * size / metricsSize
}

// Truncate shortens s with a trailing ellipsis until it fits in maxWidth.
// It returns "" when not even the ellipsis fits. maxWidth <= 0 disables
// truncation.
func Truncate(s string, size, maxWidth float64) string {
	if maxWidth <= 0 || MeasureText(s, size) <= maxWidth {
		return s
	}
	r := []rune(s)
	for n := len(r) - 1; n > 0; n-- {
		t := string(r[:n]) + "…"
		if MeasureText(t, size) <= maxWidth {
			return t
		}
	}
	return ""
}
