// Package area implements the area chart core: series split by category,
// optional normal or percent stacking and curve interpolation.
package area

import (
	"strconv"

	"github.com/spektr-org/chartcore/charts/internal/xy"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/scale"
	"github.com/spektr-org/chartcore/shape"
	"github.com/spektr-org/chartcore/surface"
)

// ChartType is the area chart's type name.
const ChartType = "area"

// Config is the area chart configuration.
type Config struct {
	engine.Common

	X, Y, Category engine.Accessor

	// StackMode is none, normal or percent. Series stack in category
	// discovery order: the first category seen sits on the baseline.
	StackMode shape.StackMode
	// Curve names the interpolation, see shape.CurveByName.
	Curve        string
	ConnectNulls bool

	FillOpacity float64
	StrokeWidth float64
	HideLine    bool
	ShowPoints  bool
	PointRadius float64

	Colors      []string
	ColorScheme string

	HiddenSeries []string
	HideLegend   bool

	XAxisTitle, YAxisTitle string
	XTickCount, YTickCount int
	XFormat, YFormat       scale.Formatter
	HideGrid               bool
}

func withDefaults(cfg Config) Config {
	if cfg.StackMode == "" {
		cfg.StackMode = shape.StackNone
	}
	if cfg.FillOpacity <= 0 {
		cfg.FillOpacity = 0.7
	}
	if cfg.StrokeWidth <= 0 {
		cfg.StrokeWidth = 2
	}
	if cfg.PointRadius <= 0 {
		cfg.PointRadius = 3
	}
	if cfg.Margin == (engine.Margin{}) {
		cfg.Margin = engine.DefaultMargin
	}
	return cfg
}

// Chart is the area chart core.
type Chart struct {
	*engine.Base
	cfg Config

	points []*xy.Point
	series []xy.Series
	xs     xy.XScale
	ys     scale.Linear
}

// New builds an area chart. Nothing is drawn until Initialize.
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

// ProcessedData returns one point per input record, in input order.
func (c *Chart) ProcessedData() []*xy.Point {
	if c.points == nil {
		return []*xy.Point{}
	}
	return c.points
}

// SeriesData returns the series in stacking order, hidden ones included.
func (c *Chart) SeriesData() []xy.Series { return c.series }

// SetSeriesVisible shows or hides a series and re-renders.
func (c *Chart) SetSeriesVisible(name string, visible bool) error {
	return c.UpdateConfig(func(cfg *Config) {
		cfg.HiddenSeries = setHidden(cfg.HiddenSeries, name, visible)
	})
}

func setHidden(hidden []string, name string, visible bool) []string {
	out := make([]string, 0, len(hidden)+1)
	for _, h := range hidden {
		if h != name {
			out = append(out, h)
		}
	}
	if !visible {
		out = append(out, name)
	}
	return out
}

// ============================================================================
// PIPELINE
// ============================================================================

// ProcessData implements engine.Pipeline.
func (c *Chart) ProcessData(r *engine.Resolver) error {
	c.points = xy.Resolve(r, xy.Fields{X: c.cfg.X, Y: c.cfg.Y, Category: c.cfg.Category})

	hidden := make(map[string]bool, len(c.cfg.HiddenSeries))
	for _, h := range c.cfg.HiddenSeries {
		hidden[h] = true
	}
	order, _ := engine.GroupBy(c.points, func(p *xy.Point) string { return p.Category })
	palette := xy.Palette(order, c.cfg.Colors, c.cfg.ColorScheme)
	c.series = xy.Group(c.points, palette, hidden)
	xy.Stack(c.series, c.cfg.StackMode)
	return nil
}

// CreateScales implements engine.Pipeline.
func (c *Chart) CreateScales(f engine.Frame) error {
	c.xs = xy.NewXScale(c.series, f.InnerWidth, false)
	rng := [2]float64{f.InnerHeight, 0}
	if c.cfg.StackMode == shape.StackPercent {
		fixed := [2]float64{0, 100}
		c.ys = scale.NewLinear(nil, rng, scale.LinearOptions{Fixed: &fixed})
		return nil
	}
	c.ys = scale.NewLinear(
		xy.YValues(c.series, c.cfg.StackMode.Stacking(), true),
		rng,
		scale.LinearOptions{Nice: true, TickCount: c.cfg.YTickCount},
	)
	return nil
}

// RenderChart implements engine.Pipeline.
func (c *Chart) RenderChart(cv *engine.Canvas) error {
	ax := xy.AxisOptions{
		XTitle:   c.cfg.XAxisTitle,
		YTitle:   c.cfg.YAxisTitle,
		XTicks:   c.cfg.XTickCount,
		YTicks:   c.cfg.YTickCount,
		XFormat:  c.cfg.XFormat,
		YFormat:  c.cfg.YFormat,
		HideGrid: c.cfg.HideGrid,
		Style:    c.cfg.AxisStyle,
	}
	xy.DrawGrid(cv, c.ys, ax)

	curve, ok := shape.CurveByName(c.cfg.Curve)
	if !ok {
		c.Warn(engine.Errorf(engine.ErrInvalidData, "unknown curve %q, using linear", c.cfg.Curve))
	}

	for i, s := range c.series {
		if !s.Visible {
			continue
		}
		pts, defined := xy.AreaTrace(s, c.xs, c.ys, c.cfg.ConnectNulls)
		if d := shape.AreaPath(curve, pts, defined); d != "" {
			cv.Draw(surface.Element{
				Kind:       surface.KindPath,
				Class:      "area",
				Layer:      "series",
				ID:         cv.UID("area-" + strconv.Itoa(i)),
				D:          d,
				Style:      surface.Style{Fill: s.Color, FillOpacity: c.cfg.FillOpacity},
				Transition: cv.Transition(i),
			})
		}
		if !c.cfg.HideLine {
			top, tdef := xy.Trace(s, c.xs, c.ys, false, c.cfg.ConnectNulls)
			if d := shape.LinePath(curve, top, tdef); d != "" {
				cv.Draw(surface.Element{
					Kind:       surface.KindPath,
					Class:      "line",
					Layer:      "series",
					D:          d,
					Style:      surface.Style{Fill: "none", Stroke: s.Color, StrokeWidth: c.cfg.StrokeWidth},
					Transition: cv.Transition(i),
				})
			}
		}
	}
	for _, s := range c.series {
		if s.Visible {
			xy.DrawPoints(cv, s, c.xs, c.ys, c.cfg.PointRadius, !c.cfg.ShowPoints, xy.Tooltip)
		}
	}

	xy.DrawAxes(cv, c.xs, c.ys, ax)
	if !c.cfg.HideLegend && len(c.series) > 1 {
		engine.DrawLegend(cv, xy.LegendItems(c.series), c.cfg.AxisStyle)
	}
	return nil
}

// Reset implements engine.Pipeline.
func (c *Chart) Reset() {
	c.points = nil
	c.series = nil
	c.xs = xy.XScale{}
	c.ys = scale.Linear{}
}
