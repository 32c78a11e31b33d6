package scale

import "math"

// BandOptions controls band spacing. Padding values are fractions of a step.
type BandOptions struct {
	PaddingInner float64
	PaddingOuter float64
	// Align positions the bands inside the range when outer padding leaves
	// slack: 0 left, 0.5 centered, 1 right. Nil means centered.
	Align *float64
}

// Band maps discrete categories onto evenly spaced bins of a pixel range.
type Band struct {
	domain    []string
	index     map[string]int
	rng       [2]float64
	step      float64
	bandwidth float64
	start     float64
}

// NewBand builds a band scale. The domain is used as given: callers pass
// first-seen order or a sorted order explicitly. Duplicates are dropped.
func NewBand(domain []string, rng [2]float64, opts BandOptions) Band {
	domain = Unique(domain)
	b := Band{
		domain: domain,
		index:  make(map[string]int, len(domain)),
		rng:    rng,
	}
	for i, v := range domain {
		b.index[v] = i
	}

	inner := clamp01(opts.PaddingInner)
	outer := math.Max(0, opts.PaddingOuter)
	align := 0.5
	if opts.Align != nil {
		align = clamp01(*opts.Align)
	}

	n := float64(len(domain))
	r0, r1 := rng[0], rng[1]
	reverse := r1 < r0
	if reverse {
		r0, r1 = r1, r0
	}
	if n == 0 {
		b.start = (r0 + r1) / 2
		return b
	}
	b.step = (r1 - r0) / math.Max(1, n-inner+2*outer)
	b.bandwidth = b.step * (1 - inner)
	b.start = r0 + (r1-r0-b.step*(n-inner))*align
	if reverse {
		// Bands run from r1 toward r0; Map still returns the band's lower
		// coordinate so rects can be drawn with positive height.
		b.step = -b.step
		b.start = r1 - (b.start - r0) - b.bandwidth
	}
	return b
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Kind implements Scale.
func (b Band) Kind() Kind { return Categorical }

// Domain returns the categories in scale order.
func (b Band) Domain() []string { return b.domain }

// Range implements Scale.
func (b Band) Range() [2]float64 { return b.rng }

// Bandwidth is the width of one band.
func (b Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (b Band) Step() float64 { return math.Abs(b.step) }

// Map returns the start coordinate of a category's band. Unknown categories
// report false and map to the range start.
func (b Band) Map(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return b.start, false
	}
	return b.start + float64(i)*b.step, true
}

// Center returns the middle of a category's band.
func (b Band) Center(v string) (float64, bool) {
	p, ok := b.Map(v)
	return p + b.bandwidth/2, ok
}

// Position implements Scale, returning the band center.
func (b Band) Position(v any) (float64, bool) {
	return b.Center(AsString(v))
}

// Ticks implements Scale: one tick per category at its center. count is
// ignored because every category is labelled.
func (b Band) Ticks(_ int, format Formatter) []Tick {
	ticks := make([]Tick, len(b.domain))
	for i, v := range b.domain {
		label := v
		if format != nil {
			label = format(v)
		}
		pos, _ := b.Center(v)
		ticks[i] = Tick{Value: v, Pos: pos, Label: label}
	}
	return ticks
}
