package scale

import (
	"math"
	"time"

	mscale "github.com/aclements/go-moremath/scale"
)

// interval is one rung of the time tick ladder.
type interval struct {
	d      time.Duration // fixed-length step, zero for calendar steps
	months int           // calendar step in months
	format string
}

var ladder = []interval{
	{d: time.Second, format: "15:04:05"},
	{d: 5 * time.Second, format: "15:04:05"},
	{d: 15 * time.Second, format: "15:04:05"},
	{d: 30 * time.Second, format: "15:04:05"},
	{d: time.Minute, format: "15:04"},
	{d: 5 * time.Minute, format: "15:04"},
	{d: 15 * time.Minute, format: "15:04"},
	{d: 30 * time.Minute, format: "15:04"},
	{d: time.Hour, format: "15:04"},
	{d: 3 * time.Hour, format: "Jan 02 15:04"},
	{d: 6 * time.Hour, format: "Jan 02 15:04"},
	{d: 12 * time.Hour, format: "Jan 02 15:04"},
	{d: 24 * time.Hour, format: "Jan 02"},
	{d: 2 * 24 * time.Hour, format: "Jan 02"},
	{d: 7 * 24 * time.Hour, format: "Jan 02"},
	{months: 1, format: "Jan 2006"},
	{months: 3, format: "Jan 2006"},
	{months: 6, format: "Jan 2006"},
	{months: 12, format: "2006"},
	{months: 24, format: "2006"},
	{months: 60, format: "2006"},
	{months: 120, format: "2006"},
	{months: 600, format: "2006"},
}

// Time maps instants onto a pixel range.
type Time struct {
	lin   Linear
	t0    time.Time
	t1    time.Time
	empty bool
}

// NewTime derives [min, max] of values and binds it to rng.
func NewTime(values []time.Time, rng [2]float64) Time {
	if len(values) == 0 {
		return Time{lin: LinearDomain([2]float64{0, 0}, rng), empty: true}
	}
	t0, t1 := values[0], values[0]
	for _, t := range values[1:] {
		if t.Before(t0) {
			t0 = t
		}
		if t.After(t1) {
			t1 = t
		}
	}
	return TimeDomain(t0, t1, rng)
}

// TimeDomain binds an explicit time domain to rng.
func TimeDomain(t0, t1 time.Time, rng [2]float64) Time {
	if t1.Before(t0) {
		t0, t1 = t1, t0
	}
	return Time{
		lin: LinearDomain([2]float64{unix(t0), unix(t1)}, rng),
		t0:  t0,
		t1:  t1,
	}
}

func unix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// Kind implements Scale.
func (s Time) Kind() Kind { return Temporal }

// Domain returns the first and last instants.
func (s Time) Domain() (time.Time, time.Time) { return s.t0, s.t1 }

// Range implements Scale.
func (s Time) Range() [2]float64 { return s.lin.Range() }

// Map converts an instant to a pixel coordinate.
func (s Time) Map(t time.Time) float64 {
	return s.lin.Map(unix(t))
}

// Invert converts a pixel coordinate to an instant, rounded to the
// millisecond.
func (s Time) Invert(px float64) time.Time {
	ms := math.Round(s.lin.Invert(px) * 1e3)
	return time.UnixMilli(int64(ms)).In(s.t0.Location())
}

// Position implements Scale.
func (s Time) Position(v any) (float64, bool) {
	t, ok := AsTime(v)
	if !ok {
		return 0, false
	}
	return s.Map(t), true
}

// Ticks implements Scale. The tick interval is the smallest rung of the
// ladder producing at most count ticks.
func (s Time) Ticks(count int, format Formatter) []Tick {
	if s.empty {
		return nil
	}
	if !s.t1.After(s.t0) {
		label := s.t0.Format(time.RFC3339)
		if format != nil {
			label = format(s.t0)
		}
		return []Tick{{Value: s.t0, Pos: s.Map(s.t0), Label: label}}
	}
	if count <= 0 {
		count = DefaultTickCount
	}

	opts := mscale.TickOptions{Max: count, MinLevel: 0, MaxLevel: len(ladder) - 1}
	tk := timeTicker{s}
	level, ok := opts.FindLevel(tk, len(ladder)/2)
	if !ok {
		level = len(ladder) - 1
	}

	iv := ladder[level]
	var ticks []Tick
	for _, t := range s.instants(iv) {
		label := t.Format(iv.format)
		if format != nil {
			label = format(t)
		}
		ticks = append(ticks, Tick{Value: t, Pos: s.Map(t), Label: label})
	}
	return ticks
}

// timeTicker adapts the ladder to moremath's level search. Higher levels are
// coarser rungs, so the count is weakly decreasing.
type timeTicker struct{ s Time }

func (t timeTicker) CountTicks(level int) int {
	return len(t.s.instants(ladder[level]))
}

func (t timeTicker) TicksAtLevel(level int) interface{} {
	ts := t.s.instants(ladder[level])
	out := make([]float64, len(ts))
	for i, v := range ts {
		out[i] = unix(v)
	}
	return out
}

// instants returns the interval-aligned instants within the domain.
func (s Time) instants(iv interval) []time.Time {
	var out []time.Time
	t := floor(s.t0, iv)
	for i := 0; !t.After(s.t1) && i < 10000; i++ {
		if !t.Before(s.t0) {
			out = append(out, t)
		}
		t = next(t, iv)
	}
	return out
}

func floor(t time.Time, iv interval) time.Time {
	if iv.months == 0 {
		if iv.d >= 24*time.Hour {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		}
		return t.Truncate(iv.d)
	}
	m := int(t.Month()) - 1
	if iv.months >= 12 {
		years := iv.months / 12
		y := t.Year() - t.Year()%years
		return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
	}
	m -= m % iv.months
	return time.Date(t.Year(), time.Month(m+1), 1, 0, 0, 0, 0, t.Location())
}

func next(t time.Time, iv interval) time.Time {
	if iv.months == 0 {
		if iv.d >= 24*time.Hour {
			return t.AddDate(0, 0, int(iv.d/(24*time.Hour)))
		}
		return t.Add(iv.d)
	}
	return t.AddDate(0, iv.months, 0)
}
