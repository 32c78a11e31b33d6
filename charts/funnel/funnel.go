// Package funnel implements the segmented funnel chart core: one trapezoid
// per stage, stacked top to bottom with a gap.
package funnel

import (
	"math"

	"github.com/spektr-org/chartcore/colors"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/shape"
)

// ChartType is the funnel's type name.
const ChartType = "funnel"

// Default keys consulted when an accessor is unset.
const (
	KeyLabel = "label"
	KeyValue = "value"
)

// Mode selects how segment widths are derived.
type Mode string

const (
	// Traditional sizes each segment by its value's ratio to the maximum.
	Traditional Mode = "traditional"
	// Equal narrows every segment by EqualShrink regardless of the data,
	// giving a stylised funnel whose widths carry no information.
	Equal Mode = "equal"
)

// EqualShrink is the width ratio between consecutive segments in Equal mode.
const EqualShrink = 0.8

// minWidthRatio keeps tiny stages visible in Traditional mode.
const minWidthRatio = 0.02

// Config is the funnel configuration.
type Config struct {
	engine.Common

	Label, Value engine.Accessor

	Mode Mode
	// Gap is the vertical space between segments in pixels.
	Gap float64
	// BottomWidthRatio narrows the last segment's bottom edge to this share
	// of its top edge. Zero keeps it straight.
	BottomWidthRatio float64

	Colors      []string
	ColorScheme string

	HideLabels     bool
	ShowConversion bool
	ValueFormat    func(float64) string
}

func withDefaults(cfg Config) Config {
	if cfg.Mode != Equal {
		cfg.Mode = Traditional
	}
	if cfg.Gap < 0 {
		cfg.Gap = 0
	}
	cfg.BottomWidthRatio = math.Max(0, math.Min(1, cfg.BottomWidthRatio))
	if cfg.ValueFormat == nil {
		cfg.ValueFormat = func(v float64) string { return engine.FormatNumber(v, 2) }
	}
	if cfg.Margin == (engine.Margin{}) {
		cfg.Margin = engine.Margin{Top: 20, Right: 80, Bottom: 20, Left: 80}
	}
	return cfg
}

// Segment is one processed stage.
type Segment struct {
	Original engine.Record
	Index    int

	Label string
	Value float64
	// Percentage is Value / ΣValues × 100.
	Percentage float64
	// ConversionRate is Value / previous Value × 100, 0 for the first stage
	// and after a zero stage.
	ConversionRate float64

	// Geometry in plot coordinates, centered horizontally.
	Y, Height             float64
	TopWidth, BottomWidth float64
	Color                 string
	Path                  string
}

// Chart is the funnel chart core.
type Chart struct {
	*engine.Base
	cfg Config

	segments []*Segment
	total    float64
}

// New builds a funnel. Nothing is drawn until Initialize.
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

// ProcessedData returns one segment per input record.
func (c *Chart) ProcessedData() []*Segment {
	if c.segments == nil {
		return []*Segment{}
	}
	return c.segments
}

// Segments returns the laid-out segments in stage order.
func (c *Chart) Segments() []*Segment { return c.ProcessedData() }

// Total returns the sum of all stage values.
func (c *Chart) Total() float64 { return c.total }

// ============================================================================
// PIPELINE
// ============================================================================

// ProcessData implements engine.Pipeline.
func (c *Chart) ProcessData(r *engine.Resolver) error {
	c.segments = make([]*Segment, r.Len())
	values := make([]float64, r.Len())
	negatives := 0
	for i := range c.segments {
		v := r.Number(c.cfg.Value, KeyValue, i)
		if v < 0 || !engine.Finite(v) {
			negatives++
			v = 0
		}
		values[i] = v
		c.segments[i] = &Segment{
			Original: r.Records()[i],
			Index:    i,
			Label:    r.Label(c.cfg.Label, KeyLabel, i),
			Value:    v,
		}
	}
	if negatives > 0 {
		c.Warn(engine.Errorf(engine.ErrInvalidData, "%d negative or non-finite stage value(s) treated as 0", negatives))
	}

	c.total = engine.Sum(values)
	for i, s := range c.segments {
		if c.total > 0 {
			s.Percentage = s.Value / c.total * 100
		}
		if i > 0 && values[i-1] > 0 {
			s.ConversionRate = s.Value / values[i-1] * 100
		}
	}
	return nil
}

// CreateScales implements engine.Pipeline. The funnel has no axes; this
// stage lays out the segment geometry.
func (c *Chart) CreateScales(f engine.Frame) error {
	n := len(c.segments)
	if n == 0 || c.total <= 0 {
		return nil
	}
	gap := c.cfg.Gap
	if gap*float64(n-1) >= f.InnerHeight {
		gap = 0
	}
	h := (f.InnerHeight - gap*float64(n-1)) / float64(n)
	w := f.InnerWidth

	widths := make([]float64, n)
	switch c.cfg.Mode {
	case Equal:
		for i := range widths {
			widths[i] = w * math.Pow(EqualShrink, float64(i))
		}
	default:
		peak := 0.0
		for _, s := range c.segments {
			peak = math.Max(peak, s.Value)
		}
		for i, s := range c.segments {
			widths[i] = w * math.Max(minWidthRatio, s.Value/peak)
		}
	}

	palette := segmentPalette(c.segments, c.cfg.Colors, c.cfg.ColorScheme)
	cx := w / 2
	for i, s := range c.segments {
		s.Y = float64(i) * (h + gap)
		s.Height = h
		s.TopWidth = widths[i]
		switch {
		case i+1 < n:
			s.BottomWidth = widths[i+1]
		case c.cfg.BottomWidthRatio > 0:
			s.BottomWidth = widths[i] * c.cfg.BottomWidthRatio
		default:
			s.BottomWidth = widths[i]
		}
		s.Color = palette.At(i)
		s.Path = shape.Polygon([]shape.Point{
			{X: cx - s.TopWidth/2, Y: s.Y},
			{X: cx + s.TopWidth/2, Y: s.Y},
			{X: cx + s.BottomWidth/2, Y: s.Y + h},
			{X: cx - s.BottomWidth/2, Y: s.Y + h},
		})
	}
	return nil
}

// RenderChart implements engine.Pipeline.
func (c *Chart) RenderChart(cv *engine.Canvas) error {
	if len(c.segments) > 0 && c.total <= 0 {
		engine.DrawPlaceholder(cv, engine.NoDataText, c.cfg.AxisStyle)
		c.Warn(engine.Errorf(engine.ErrDegenerateGeometry, "all stage values are zero"))
		return nil
	}
	c.drawSegments(cv)
	return nil
}

// Reset implements engine.Pipeline.
func (c *Chart) Reset() {
	c.segments = nil
	c.total = 0
}

func segmentPalette(segments []*Segment, list []string, scheme string) colors.Ordinal {
	labels := make([]string, len(segments))
	for i, s := range segments {
		labels[i] = s.Label
	}
	if len(list) == 0 && scheme != "" {
		return colors.NewOrdinalScheme(labels, scheme)
	}
	return colors.NewOrdinal(labels, list)
}
