package scale

import (
	"math"
	"strconv"

	mscale "github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// DefaultTickCount is the tick budget used when a caller passes zero.
const DefaultTickCount = 10

// Tick is one labelled position on an axis.
type Tick struct {
	Value any
	Pos   float64
	Label string
}

// Formatter turns a domain value into a tick label.
type Formatter func(v any) string

// Scale is the contract shared by all scale kinds, as consumed by the axis
// renderer.
type Scale interface {
	Kind() Kind
	Range() [2]float64
	// Position maps a raw domain value to a pixel coordinate.
	Position(v any) (float64, bool)
	// Ticks returns about count ticks, labelled by format (nil for default).
	Ticks(count int, format Formatter) []Tick
}

// LinearOptions controls domain derivation.
type LinearOptions struct {
	// Nice extends the domain outward to round tick values.
	Nice bool
	// Fixed pins the domain, ignoring the data. Used for percent stacks.
	Fixed *[2]float64
	// Include forces values into the domain, e.g. a zero baseline.
	Include []float64
	// TickCount is the tick budget used for niceing.
	TickCount int
}

// Linear maps a continuous numeric domain onto a pixel range.
type Linear struct {
	domain [2]float64
	rng    [2]float64
	s      mscale.Linear
}

// NewLinear derives the domain [min, max] of values, applies options and
// binds it to rng.
func NewLinear(values []float64, rng [2]float64, opts LinearOptions) Linear {
	var d [2]float64
	if opts.Fixed != nil {
		d = *opts.Fixed
	} else {
		d = Extent(append(append([]float64(nil), values...), opts.Include...))
		if opts.Nice {
			d = Nice(d, opts.TickCount)
		}
	}
	return LinearDomain(d, rng)
}

// LinearDomain binds an explicit domain to rng.
func LinearDomain(domain, rng [2]float64) Linear {
	if domain[0] > domain[1] {
		domain[0], domain[1] = domain[1], domain[0]
	}
	return Linear{
		domain: domain,
		rng:    rng,
		s:      mscale.Linear{Min: domain[0], Max: domain[1]},
	}
}

// Extent returns [min, max] of the finite values, or [0, 0] when there are
// none.
func Extent(values []float64) [2]float64 {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return [2]float64{0, 0}
	}
	lo, hi := stats.Bounds(finite)
	return [2]float64{lo, hi}
}

// Nice extends d outward to round values at the coarsest tick level that
// still yields at most count ticks. Degenerate domains are returned unchanged.
func Nice(d [2]float64, count int) [2]float64 {
	if d[0] == d[1] {
		return d
	}
	if count <= 0 {
		count = DefaultTickCount
	}
	ls := mscale.Linear{Min: d[0], Max: d[1]}
	ls.Nice(mscale.TickOptions{Max: count})
	return [2]float64{ls.Min, ls.Max}
}

func tickValues(d [2]float64, count int) []float64 {
	if d[0] == d[1] {
		return []float64{d[0]}
	}
	if count <= 0 {
		count = DefaultTickCount
	}
	ls := mscale.Linear{Min: d[0], Max: d[1]}
	major, _ := ls.Ticks(mscale.TickOptions{Max: count})
	return major
}

// Kind implements Scale.
func (l Linear) Kind() Kind { return Numeric }

// Domain returns the numeric domain.
func (l Linear) Domain() [2]float64 { return l.domain }

// Range implements Scale.
func (l Linear) Range() [2]float64 { return l.rng }

// Degenerate reports whether the domain has zero width.
func (l Linear) Degenerate() bool { return l.domain[0] == l.domain[1] }

// Map converts a domain value to a pixel coordinate. A zero-width domain maps
// every value to the middle of the range.
func (l Linear) Map(v float64) float64 {
	if l.Degenerate() {
		return (l.rng[0] + l.rng[1]) / 2
	}
	return l.rng[0] + l.s.Map(v)*(l.rng[1]-l.rng[0])
}

// Invert converts a pixel coordinate back to the domain.
func (l Linear) Invert(px float64) float64 {
	span := l.rng[1] - l.rng[0]
	if span == 0 || l.Degenerate() {
		return l.domain[0]
	}
	return l.s.Unmap((px - l.rng[0]) / span)
}

// Position implements Scale.
func (l Linear) Position(v any) (float64, bool) {
	f, ok := AsFloat(v)
	if !ok {
		return 0, false
	}
	return l.Map(f), true
}

// TickValues returns about count round values inside the domain.
func (l Linear) TickValues(count int) []float64 {
	return tickValues(l.domain, count)
}

// Ticks implements Scale.
func (l Linear) Ticks(count int, format Formatter) []Tick {
	values := l.TickValues(count)
	step := 0.0
	if len(values) > 1 {
		step = values[1] - values[0]
	}
	ticks := make([]Tick, len(values))
	for i, v := range values {
		label := ""
		if format != nil {
			label = format(v)
		} else {
			label = FormatStep(v, step)
		}
		ticks[i] = Tick{Value: v, Pos: l.Map(v), Label: label}
	}
	return ticks
}

// FormatStep formats v with just enough decimals to distinguish ticks that
// are step apart.
func FormatStep(v, step float64) string {
	decimals := 0
	if step > 0 {
		for decimals < 10 {
			scaled := step * math.Pow(10, float64(decimals))
			if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
				break
			}
			decimals++
		}
	}
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
