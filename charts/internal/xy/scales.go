package xy

import (
	"math"
	"time"

	"github.com/spektr-org/chartcore/scale"
)

// XScale is the horizontal scale of a line or area chart. The kind follows
// the x values: numbers get a linear scale, instants a time scale and
// anything else a point scale in first-seen order.
type XScale struct {
	kind scale.Kind
	lin  scale.Linear
	tm   scale.Time
	band scale.Band
}

// NewXScale builds the x scale over the visible series for [0, width].
func NewXScale(series []Series, width float64, nice bool) XScale {
	rng := [2]float64{0, width}
	var raws []any
	for _, s := range series {
		if !s.Visible {
			continue
		}
		for _, p := range s.Points {
			raws = append(raws, p.X)
		}
	}
	kind := scale.KindOf(raws)
	xs := XScale{kind: kind}
	switch kind {
	case scale.Numeric:
		vals := make([]float64, 0, len(raws))
		for _, v := range raws {
			if f, ok := scale.AsFloat(v); ok {
				vals = append(vals, f)
			}
		}
		xs.lin = scale.NewLinear(vals, rng, scale.LinearOptions{Nice: nice})
	case scale.Temporal:
		ts := make([]time.Time, 0, len(raws))
		for _, v := range raws {
			if t, ok := scale.AsTime(v); ok {
				ts = append(ts, t)
			}
		}
		xs.tm = scale.NewTime(ts, rng)
	default:
		keys := XKeys(series)
		xs.band = scale.NewBand(keys, rng, scale.BandOptions{PaddingInner: 1, PaddingOuter: 0.5})
	}
	return xs
}

// Kind reports the detected x kind.
func (x XScale) Kind() scale.Kind { return x.kind }

// Scale returns the underlying scale for axis rendering.
func (x XScale) Scale() scale.Scale {
	switch x.kind {
	case scale.Numeric:
		return x.lin
	case scale.Temporal:
		return x.tm
	}
	return x.band
}

// Pos maps a point's x to a pixel, NaN when it cannot be placed.
func (x XScale) Pos(p *Point) float64 {
	var (
		v  float64
		ok bool
	)
	switch x.kind {
	case scale.Numeric:
		v, ok = x.lin.Position(p.X)
	case scale.Temporal:
		v, ok = x.tm.Position(p.X)
	default:
		v, ok = x.band.Center(p.XKey)
	}
	if !ok {
		return math.NaN()
	}
	return v
}

// YValues collects the values the y domain must cover: the tops of the
// visible series, plus their baselines when stacked. Undefined points are
// ignored.
func YValues(series []Series, stacked, includeZero bool) []float64 {
	var vals []float64
	if includeZero {
		vals = append(vals, 0)
	}
	for _, s := range series {
		if !s.Visible {
			continue
		}
		for _, p := range s.Points {
			if !p.Defined {
				continue
			}
			vals = append(vals, p.Y1)
			if stacked {
				vals = append(vals, p.Y0)
			}
		}
	}
	return vals
}
