// Package colors maps data values onto colors.
//
// Three scale kinds share one contract, ColorFor(value) → "#rrggbb":
// Sequential interpolates a numeric domain across an ordered palette,
// Diverging interpolates a signed domain through a neutral midpoint and
// Ordinal assigns categories to a finite palette, cycling when it runs out.
// Named schemes come from ColorBrewer and viridis; any caller-supplied list
// of hex colors works as well.
package colors

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/palette"
	"github.com/aclements/go-gg/palette/brewer"

	"github.com/spektr-org/chartcore/scale"
)

// ============================================================================
// CONTRACT
// ============================================================================

// Scale is the value → color contract shared by all color scales.
// Implementations are pure: the same value always yields the same color.
type Scale interface {
	ColorFor(v any) string
}

// Default scheme names.
const (
	DefaultSequential = "Blues"
	DefaultDiverging  = "RdBu"
	Viridis           = "viridis"
)

// DefaultPalette is the ordinal palette used when a chart has none configured.
var DefaultPalette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ============================================================================
// HEX
// ============================================================================

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" (the leading # is optional).
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	if len(h) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	// Non-premultiplied input; RGBA is premultiplied.
	c := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(c).(color.RGBA), nil
}

// Hex formats c as "#rrggbb". Alpha is dropped.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func toRGBA(c color.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

// ============================================================================
// SCHEMES
// ============================================================================

// Scheme returns the colors of a named ColorBrewer scheme at its largest
// variant. Names are case-insensitive.
func Scheme(name string) ([]color.RGBA, bool) {
	for key, variants := range brewer.ByName {
		if !strings.EqualFold(key, name) {
			continue
		}
		best := -1
		for n := range variants {
			if n > best {
				best = n
			}
		}
		if best < 0 {
			return nil, false
		}
		out := make([]color.RGBA, 0, best)
		for _, c := range variants[best] {
			out = append(out, toRGBA(c))
		}
		return out, true
	}
	return nil, false
}

// SchemeNames lists the known scheme names, sorted.
func SchemeNames() []string {
	names := []string{Viridis}
	for key := range brewer.ByName {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Continuous resolves a named scheme or an explicit hex list into a
// continuous palette over [0, 1]. An explicit list wins over the name; an
// unknown name falls back to fallback.
func Continuous(name string, hex []string, fallback string) (palette.Continuous, error) {
	if len(hex) > 0 {
		stops := make([]color.RGBA, 0, len(hex))
		for _, h := range hex {
			c, err := ParseHex(h)
			if err != nil {
				return nil, err
			}
			stops = append(stops, c)
		}
		if len(stops) == 1 {
			stops = append(stops, stops[0])
		}
		return palette.RGBGradient{Colors: stops}, nil
	}
	if name == "" {
		name = fallback
	}
	if strings.EqualFold(name, Viridis) {
		return palette.Viridis, nil
	}
	if cs, ok := Scheme(name); ok {
		return palette.RGBGradient{Colors: cs}, nil
	}
	if name != fallback {
		return Continuous(fallback, nil, fallback)
	}
	return nil, fmt.Errorf("unknown color scheme %q", name)
}

// reversed flips a continuous palette end for end.
type reversed struct{ p palette.Continuous }

func (r reversed) Map(x float64) color.Color { return r.p.Map(1 - x) }

// Reverse returns p with its ends swapped.
func Reverse(p palette.Continuous) palette.Continuous {
	if r, ok := p.(reversed); ok {
		return r.p
	}
	return reversed{p}
}

// ============================================================================
// SEQUENTIAL
// ============================================================================

// Sequential maps a numeric domain onto a continuous palette.
type Sequential struct {
	domain [2]float64
	pal    palette.Continuous
}

// NewSequential builds a sequential scale over domain. A degenerate domain
// maps every value to the palette's low end.
func NewSequential(domain [2]float64, pal palette.Continuous) Sequential {
	if domain[0] > domain[1] {
		domain[0], domain[1] = domain[1], domain[0]
	}
	return Sequential{domain: domain, pal: pal}
}

// Domain returns the numeric domain.
func (s Sequential) Domain() [2]float64 { return s.domain }

// Normalize maps v into [0, 1], clamped.
func (s Sequential) Normalize(v float64) float64 {
	span := s.domain[1] - s.domain[0]
	if span == 0 || math.IsNaN(v) {
		return 0
	}
	return clamp01((v - s.domain[0]) / span)
}

// Color returns the color for v.
func (s Sequential) Color(v float64) color.Color {
	return s.pal.Map(s.Normalize(v))
}

// ColorFor implements Scale. Non-numeric values get the low end.
func (s Sequential) ColorFor(v any) string {
	f, _ := scale.AsFloat(v)
	return Hex(s.Color(f))
}

// Stops samples n evenly spaced colors across the palette, for gradients.
func (s Sequential) Stops(n int) []string {
	return sample(s.pal, n)
}

// ============================================================================
// DIVERGING
// ============================================================================

// Diverging maps a signed domain through a midpoint: lo → 0, mid → 0.5,
// hi → 1 on the palette.
type Diverging struct {
	lo, mid, hi float64
	pal         palette.Continuous
}

// NewDiverging builds a diverging scale.
func NewDiverging(lo, mid, hi float64, pal palette.Continuous) Diverging {
	return Diverging{lo: lo, mid: mid, hi: hi, pal: pal}
}

// Domain returns lo, mid and hi.
func (d Diverging) Domain() [3]float64 { return [3]float64{d.lo, d.mid, d.hi} }

// Normalize maps v into [0, 1], piecewise linear on each side of mid.
func (d Diverging) Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return 0.5
	}
	switch {
	case v < d.mid:
		if d.mid == d.lo {
			return 0
		}
		return clamp01(0.5 * (v - d.lo) / (d.mid - d.lo))
	case v > d.mid:
		if d.hi == d.mid {
			return 1
		}
		return clamp01(0.5 + 0.5*(v-d.mid)/(d.hi-d.mid))
	default:
		return 0.5
	}
}

// Color returns the color for v.
func (d Diverging) Color(v float64) color.Color {
	return d.pal.Map(d.Normalize(v))
}

// ColorFor implements Scale. Non-numeric values get the midpoint color.
func (d Diverging) ColorFor(v any) string {
	f, ok := scale.AsFloat(v)
	if !ok {
		f = d.mid
	}
	return Hex(d.Color(f))
}

// Stops samples n evenly spaced colors across the palette.
func (d Diverging) Stops(n int) []string {
	return sample(d.pal, n)
}

// ============================================================================
// ORDINAL
// ============================================================================

// Ordinal assigns categories to palette entries in domain order, cycling
// when there are more categories than colors.
type Ordinal struct {
	domain []string
	index  map[string]int
	colors []string
}

// NewOrdinal builds an ordinal scale. An empty palette uses DefaultPalette.
func NewOrdinal(domain []string, colors []string) Ordinal {
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	o := Ordinal{index: make(map[string]int, len(domain)), colors: colors}
	for _, d := range domain {
		if _, ok := o.index[d]; ok {
			continue
		}
		o.index[d] = len(o.domain)
		o.domain = append(o.domain, d)
	}
	return o
}

// NewOrdinalScheme builds an ordinal scale from a named scheme, falling
// back to DefaultPalette for unknown names.
func NewOrdinalScheme(domain []string, name string) Ordinal {
	cs, ok := Scheme(name)
	if !ok {
		return NewOrdinal(domain, nil)
	}
	hex := make([]string, len(cs))
	for i, c := range cs {
		hex[i] = Hex(c)
	}
	return NewOrdinal(domain, hex)
}

// Domain returns the categories in assignment order.
func (o Ordinal) Domain() []string { return o.domain }

// At returns the i-th palette color, cycling.
func (o Ordinal) At(i int) string {
	if i < 0 {
		i = -i
	}
	return o.colors[i%len(o.colors)]
}

// ColorFor implements Scale. Categories outside the domain get a color
// derived from their label so the result stays deterministic.
func (o Ordinal) ColorFor(v any) string {
	key := fmt.Sprint(v)
	if s, ok := v.(string); ok {
		key = s
	}
	if i, ok := o.index[key]; ok {
		return o.At(i)
	}
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return o.At(int(h % uint32(len(o.colors))))
}

// ============================================================================
// HELPERS
// ============================================================================

func sample(p palette.Continuous, n int) []string {
	if n < 2 {
		n = 2
	}
	out := make([]string, n)
	for i := range out {
		out[i] = Hex(p.Map(float64(i) / float64(n-1)))
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
