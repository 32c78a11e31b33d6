// Package heatmap implements the heatmap chart core: a categorical grid of
// cells colored by value, with optional in-cell labels and a gradient legend.
package heatmap

import (
	"math"
	"sort"

	"github.com/spektr-org/chartcore/colors"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/scale"
)

// ChartType is the heatmap's type name.
const ChartType = "heatmap"

// Default keys consulted when an accessor is unset.
const (
	KeyX     = "x"
	KeyY     = "y"
	KeyValue = "value"
)

// Legend positions.
const (
	LegendTop    = "top"
	LegendBottom = "bottom"
	LegendLeft   = "left"
	LegendRight  = "right"
)

// Legend configures the gradient legend.
type Legend struct {
	Show      bool
	Position  string
	TickCount int
	Format    scale.Formatter
	Title     string
}

// Config is the heatmap configuration.
type Config struct {
	engine.Common

	X, Y, Value engine.Accessor

	// ColorScheme names a sequential scheme; Colors overrides it with
	// explicit gradient stops.
	ColorScheme string
	Colors      []string
	// Domain fixes the color domain instead of the data extent.
	Domain *[2]float64

	CellPadding float64
	CellRadius  float64

	ShowValues  bool
	ValueFormat func(float64) string

	Legend Legend

	XAxisTitle, YAxisTitle string
	HideXAxis, HideYAxis   bool
}

func withDefaults(cfg Config) Config {
	if cfg.CellPadding <= 0 || cfg.CellPadding >= 1 {
		cfg.CellPadding = 0.05
	}
	if cfg.ValueFormat == nil {
		cfg.ValueFormat = func(v float64) string { return engine.FormatNumber(v, 2) }
	}
	switch cfg.Legend.Position {
	case LegendTop, LegendBottom, LegendLeft, LegendRight:
	default:
		cfg.Legend.Position = LegendRight
	}
	if cfg.Legend.TickCount <= 0 {
		cfg.Legend.TickCount = 5
	}
	if cfg.Margin == (engine.Margin{}) {
		cfg.Margin = engine.Margin{Top: 30, Right: 90, Bottom: 50, Left: 80}
	}
	return cfg
}

// Cell is one processed record.
type Cell struct {
	Original engine.Record
	Index    int

	X, Y  string
	Value float64
	// Defined is false when the value is missing or not numeric.
	Defined bool
	// Normalized is (value - min) / (max - min), 0 for a degenerate range.
	Normalized float64
	Color      string
}

// Chart is the heatmap chart core.
type Chart struct {
	*engine.Base
	cfg Config

	cells  []*Cell
	grid   map[[2]string]*Cell
	xKeys  []string
	yKeys  []string
	extent [2]float64

	xs    scale.Band
	ys    scale.Band
	color colors.Sequential
}

// New builds a heatmap. Nothing is drawn until Initialize.
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

// ProcessedData returns one cell per input record, in input order.
func (c *Chart) ProcessedData() []*Cell {
	if c.cells == nil {
		return []*Cell{}
	}
	return c.cells
}

// XDomain returns the sorted x categories.
func (c *Chart) XDomain() []string { return c.xKeys }

// YDomain returns the sorted y categories.
func (c *Chart) YDomain() []string { return c.yKeys }

// Extent returns the [min, max] of the defined values.
func (c *Chart) Extent() [2]float64 { return c.extent }

// CellAt returns the cell drawn at (x, y). When several records share the
// position the last one wins.
func (c *Chart) CellAt(x, y string) (*Cell, bool) {
	cell, ok := c.grid[[2]string{x, y}]
	return cell, ok
}

// ============================================================================
// PIPELINE
// ============================================================================

// ProcessData implements engine.Pipeline.
func (c *Chart) ProcessData(r *engine.Resolver) error {
	c.cells = make([]*Cell, r.Len())
	c.grid = make(map[[2]string]*Cell, r.Len())
	var xs, ys []string
	var values []float64

	for i := range c.cells {
		xv, _ := r.Value(c.cfg.X, KeyX, i)
		yv, _ := r.Value(c.cfg.Y, KeyY, i)
		v, ok := r.Float(c.cfg.Value, KeyValue, i)
		cell := &Cell{
			Original: r.Records()[i],
			Index:    i,
			X:        scale.AsString(xv),
			Y:        scale.AsString(yv),
			Value:    v,
			Defined:  ok,
		}
		if !ok {
			cell.Value = math.NaN()
		} else {
			values = append(values, v)
		}
		c.cells[i] = cell
		c.grid[[2]string{cell.X, cell.Y}] = cell
		xs = append(xs, cell.X)
		ys = append(ys, cell.Y)
	}

	// Lexical order keeps the grid stable regardless of record order.
	c.xKeys = scale.Unique(xs)
	c.yKeys = scale.Unique(ys)
	sort.Strings(c.xKeys)
	sort.Strings(c.yKeys)

	c.extent = [2]float64{engine.Min(values), engine.Max(values)}
	span := c.extent[1] - c.extent[0]
	for _, cell := range c.cells {
		if cell.Defined && span > 0 {
			cell.Normalized = (cell.Value - c.extent[0]) / span
		}
	}
	return nil
}

// CreateScales implements engine.Pipeline.
func (c *Chart) CreateScales(f engine.Frame) error {
	band := scale.BandOptions{PaddingInner: c.cfg.CellPadding, PaddingOuter: c.cfg.CellPadding / 2}
	c.xs = scale.NewBand(c.xKeys, [2]float64{0, f.InnerWidth}, band)
	c.ys = scale.NewBand(c.yKeys, [2]float64{0, f.InnerHeight}, band)

	pal, err := colors.Continuous(c.cfg.ColorScheme, c.cfg.Colors, colors.DefaultSequential)
	if err != nil {
		return engine.Errorf(engine.ErrInvalidData, "color scheme: %v", err)
	}
	domain := c.extent
	if c.cfg.Domain != nil {
		domain = *c.cfg.Domain
	}
	c.color = colors.NewSequential(domain, pal)
	for _, cell := range c.cells {
		if cell.Defined {
			cell.Color = colors.Hex(c.color.Color(cell.Value))
		}
	}
	return nil
}

// RenderChart implements engine.Pipeline.
func (c *Chart) RenderChart(cv *engine.Canvas) error {
	c.drawCells(cv)
	c.drawAxes(cv)
	if c.cfg.Legend.Show {
		c.drawLegend(cv)
	}
	return nil
}

// Reset implements engine.Pipeline.
func (c *Chart) Reset() {
	c.cells = nil
	c.grid = nil
	c.xKeys = nil
	c.yKeys = nil
	c.extent = [2]float64{}
	c.xs = scale.Band{}
	c.ys = scale.Band{}
	c.color = colors.Sequential{}
}
