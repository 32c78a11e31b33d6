// Package exactfunnel implements the exact funnel chart core: a single
// smooth silhouette whose width at each step is proportional to the square
// root of the step's share of the first value.
package exactfunnel

import (
	"math"

	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/shape"
	"github.com/spektr-org/chartcore/surface"
)

// ChartType is the exact funnel's type name.
const ChartType = "exact-funnel"

// Default keys consulted when an accessor is unset.
const (
	KeyStep  = "step"
	KeyValue = "value"
)

// Config is the exact funnel configuration.
type Config struct {
	engine.Common

	Step, Value engine.Accessor

	Color       string
	FillOpacity float64
	// Alpha is the Catmull-Rom parameterization of the silhouette.
	Alpha float64

	HideDividers bool
	HideLabels   bool
	ValueFormat  func(float64) string
}

func withDefaults(cfg Config) Config {
	if cfg.Color == "" {
		cfg.Color = "#4F46E5"
	}
	if cfg.FillOpacity <= 0 {
		cfg.FillOpacity = 0.85
	}
	if cfg.Alpha <= 0 || cfg.Alpha > 1 {
		cfg.Alpha = 0.5
	}
	if cfg.ValueFormat == nil {
		cfg.ValueFormat = func(v float64) string { return engine.FormatNumber(v, 0) }
	}
	if cfg.Margin == (engine.Margin{}) {
		cfg.Margin = engine.Margin{Top: 20, Right: 160, Bottom: 20, Left: 20}
	}
	return cfg
}

// Step is one processed funnel step.
type Step struct {
	Original engine.Record
	Index    int

	Label string
	Value float64
	// PercentOfFirst is Value / first Value × 100.
	PercentOfFirst float64
	// ConversionRate is Value / previous Value × 100, 0 for the first step.
	ConversionRate float64

	// Y and HalfWidth place the step on the silhouette.
	Y, HalfWidth float64
}

// Chart is the exact funnel chart core.
type Chart struct {
	*engine.Base
	cfg Config

	steps []*Step
	path  string
}

// New builds an exact funnel. Nothing is drawn until Initialize.
func New(cfg Config, opts ...engine.Option) *Chart {
	c := &Chart{cfg: withDefaults(cfg)}
	c.Base = engine.NewBase(c, opts...)
	return c
}

// ChartType implements engine.Pipeline.
func (c *Chart) ChartType() string { return ChartType }

// Common implements engine.Pipeline.
func (c *Chart) Common() engine.Common { return c.cfg.Common }

// Config returns the current configuration.
func (c *Chart) Config() Config { return c.cfg }

// UpdateConfig applies fn to a copy of the config, replaces it and re-runs
// the pipeline.
func (c *Chart) UpdateConfig(fn func(*Config)) error {
	next := c.cfg
	fn(&next)
	c.cfg = withDefaults(next)
	return c.Rerun()
}

// SetConfig replaces the whole configuration.
func (c *Chart) SetConfig(cfg Config) error {
	c.cfg = withDefaults(cfg)
	return c.Rerun()
}

// ProcessedData returns one step per input record.
func (c *Chart) ProcessedData() []*Step {
	if c.steps == nil {
		return []*Step{}
	}
	return c.steps
}

// Steps returns the processed steps in order.
func (c *Chart) Steps() []*Step { return c.ProcessedData() }

// Path returns the silhouette path data, "" when the placeholder is shown.
func (c *Chart) Path() string { return c.path }

// ============================================================================
// PIPELINE
// ============================================================================

// ProcessData implements engine.Pipeline.
func (c *Chart) ProcessData(r *engine.Resolver) error {
	c.steps = make([]*Step, r.Len())
	for i := range c.steps {
		v := r.Number(c.cfg.Value, KeyValue, i)
		if v < 0 || !engine.Finite(v) {
			v = 0
		}
		c.steps[i] = &Step{
			Original: r.Records()[i],
			Index:    i,
			Label:    r.Label(c.cfg.Step, KeyStep, i),
			Value:    v,
		}
	}
	first := c.steps[0].Value
	for i, s := range c.steps {
		if first > 0 {
			s.PercentOfFirst = s.Value / first * 100
		}
		if i > 0 && c.steps[i-1].Value > 0 {
			s.ConversionRate = s.Value / c.steps[i-1].Value * 100
		}
	}
	return nil
}

// CreateScales implements engine.Pipeline. Steps are spread evenly down the
// plot and the silhouette is computed here; any non-finite width leaves the
// path empty.
func (c *Chart) CreateScales(f engine.Frame) error {
	c.path = ""
	n := len(c.steps)
	first := c.steps[0].Value
	if first <= 0 {
		return nil
	}
	half := f.InnerWidth / 2
	for i, s := range c.steps {
		s.HalfWidth = half * math.Sqrt(s.Value/first)
		if n > 1 {
			s.Y = float64(i) / float64(n-1) * f.InnerHeight
		}
	}

	right := make([]shape.Point, 0, n+1)
	for _, s := range c.steps {
		right = append(right, shape.Point{X: half + s.HalfWidth, Y: s.Y})
	}
	if n == 1 {
		right = append(right, shape.Point{X: half + c.steps[0].HalfWidth, Y: f.InnerHeight})
	}
	left := make([]shape.Point, len(right))
	for i, pt := range right {
		left[len(right)-1-i] = shape.Point{X: 2*half - pt.X, Y: pt.Y}
	}
	for _, pt := range right {
		if !pt.Valid() {
			return nil
		}
	}

	curve := shape.CatmullRom{Alpha: c.cfg.Alpha}
	p := shape.NewPath()
	curve.Trace(p, right, false)
	curve.Trace(p, left, true)
	p.Close()
	c.path = p.String()
	return nil
}

// RenderChart implements engine.Pipeline.
func (c *Chart) RenderChart(cv *engine.Canvas) error {
	if c.path == "" {
		engine.DrawPlaceholder(cv, engine.NoDataText, c.cfg.AxisStyle)
		c.Warn(engine.Errorf(engine.ErrDegenerateGeometry, "funnel silhouette cannot be drawn"))
		return nil
	}
	cv.Draw(surface.Element{
		Kind:       surface.KindPath,
		Class:      "silhouette",
		Layer:      "funnel",
		D:          c.path,
		Style:      surface.Style{Fill: c.cfg.Color, FillOpacity: c.cfg.FillOpacity, Stroke: c.cfg.Color, StrokeWidth: 1},
		Transition: cv.Transition(0),
	})
	c.drawSteps(cv)
	return nil
}

// Reset implements engine.Pipeline.
func (c *Chart) Reset() {
	c.steps = nil
	c.path = ""
}

// drawSteps draws a divider across the silhouette at every inner step, a
// label to the right of every step and an invisible hover band per step.
func (c *Chart) drawSteps(cv *engine.Canvas) {
	st := axis.DefaultStyle().Merge(c.cfg.AxisStyle)
	w, h := cv.Width(), cv.Height()
	n := len(c.steps)
	band := h
	if n > 1 {
		band = h / float64(n-1)
	}
	for i, s := range c.steps {
		if !c.cfg.HideDividers && i > 0 && i < n-1 {
			cv.Draw(surface.Element{
				Kind:  surface.KindLine,
				Class: "divider",
				Layer: "dividers",
				X:     w/2 - s.HalfWidth,
				Y:     s.Y,
				X2:    w/2 + s.HalfWidth,
				Y2:    s.Y,
				Style: surface.Style{Stroke: "#ffffff", StrokeWidth: 1.5, Opacity: 0.8},
			})
		}

		top := math.Max(0, s.Y-band/2)
		cv.Draw(surface.Element{
			Kind:    surface.KindRect,
			Class:   "hover-target",
			Layer:   "hover",
			X:       0,
			Y:       top,
			W:       w,
			H:       math.Min(h, s.Y+band/2) - top,
			Style:   surface.Style{Fill: "#000000", FillOpacity: 0.001},
			Tooltip: c.tooltip(s),
		})

		if c.cfg.HideLabels {
			continue
		}
		cv.Draw(surface.Element{
			Kind:  surface.KindText,
			Class: "step-label",
			Layer: "labels",
			X:     w + 10,
			Y:     s.Y,
			Text:  s.Label + ": " + c.cfg.ValueFormat(s.Value) + " (" + engine.FormatPercent(s.PercentOfFirst, 1) + ")",
			Style: surface.Style{
				Fill:       st.TextColor,
				FontSize:   st.FontSize,
				FontFamily: st.FontFamily,
				Anchor:     "start",
				Baseline:   "middle",
			},
		})
	}
}

func (c *Chart) tooltip(s *Step) string {
	out := s.Label + ": " + c.cfg.ValueFormat(s.Value) + " (" + engine.FormatPercent(s.PercentOfFirst, 1) + " of first)"
	if s.Index > 0 {
		out += ", conversion " + engine.FormatPercent(s.ConversionRate, 1)
	}
	return out
}
