// Package axis draws axes and gridlines for any scale.
//
// Every chart core goes through Render so tick marks, labels, domain lines
// and gridlines look the same across chart types. Visual settings live in
// Style; a chart may override them per call.
package axis

import (
	"github.com/spektr-org/chartcore/scale"
	"github.com/spektr-org/chartcore/surface"
)

// Orientation says which side of the plot an axis sits on.
type Orientation string

const (
	Top    Orientation = "top"
	Right  Orientation = "right"
	Bottom Orientation = "bottom"
	Left   Orientation = "left"
)

// Style is the shared visual contract for axes.
type Style struct {
	FontSize      float64 `json:"fontSize" yaml:"fontSize"`
	FontFamily    string  `json:"fontFamily" yaml:"fontFamily"`
	TextColor     string  `json:"textColor" yaml:"textColor"`
	TickColor     string  `json:"tickColor" yaml:"tickColor"`
	TickLength    float64 `json:"tickLength" yaml:"tickLength"`
	TickPadding   float64 `json:"tickPadding" yaml:"tickPadding"`
	DomainColor   string  `json:"domainColor" yaml:"domainColor"`
	GridColor     string  `json:"gridColor" yaml:"gridColor"`
	GridDash      string  `json:"gridDash" yaml:"gridDash"`
	GridOpacity   float64 `json:"gridOpacity" yaml:"gridOpacity"`
	TitleFontSize float64 `json:"titleFontSize" yaml:"titleFontSize"`
	TitleColor    string  `json:"titleColor" yaml:"titleColor"`
}

// DefaultStyle returns the style every chart starts from.
func DefaultStyle() Style {
	return Style{
		FontSize:      12,
		TextColor:     "#6b7280",
		TickColor:     "#9ca3af",
		TickLength:    6,
		TickPadding:   3,
		DomainColor:   "#9ca3af",
		GridColor:     "#e5e7eb",
		GridDash:      "3,3",
		GridOpacity:   0.7,
		TitleFontSize: 14,
		TitleColor:    "#374151",
	}
}

// Merge returns s overridden by the non-zero fields of o.
func (s Style) Merge(o Style) Style {
	if o.FontSize > 0 {
		s.FontSize = o.FontSize
	}
	if o.FontFamily != "" {
		s.FontFamily = o.FontFamily
	}
	if o.TextColor != "" {
		s.TextColor = o.TextColor
	}
	if o.TickColor != "" {
		s.TickColor = o.TickColor
	}
	if o.TickLength > 0 {
		s.TickLength = o.TickLength
	}
	if o.TickPadding > 0 {
		s.TickPadding = o.TickPadding
	}
	if o.DomainColor != "" {
		s.DomainColor = o.DomainColor
	}
	if o.GridColor != "" {
		s.GridColor = o.GridColor
	}
	if o.GridDash != "" {
		s.GridDash = o.GridDash
	}
	if o.GridOpacity > 0 {
		s.GridOpacity = o.GridOpacity
	}
	if o.TitleFontSize > 0 {
		s.TitleFontSize = o.TitleFontSize
	}
	if o.TitleColor != "" {
		s.TitleColor = o.TitleColor
	}
	return s
}

// Options describes one axis.
type Options struct {
	Orientation Orientation
	// Name tags every element's Layer, e.g. "x-axis".
	Name string
	// Position is the axis line's coordinate across the scale: the y of a
	// top/bottom axis or the x of a left/right axis, in plot coordinates.
	Position float64
	// DX, DY translate the whole axis, usually by the chart margin.
	DX, DY float64

	// TickValues overrides the scale's natural ticks.
	TickValues []any
	// TickCount is the tick budget for numeric and time scales.
	TickCount int
	Format    scale.Formatter

	Title       string
	TitleOffset float64

	// Grid draws a gridline of length GridLength at every tick, pointing
	// into the plot.
	Grid       bool
	GridLength float64

	HideDomain bool
	HideTicks  bool
	// MaxLabelWidth truncates longer labels. Zero disables truncation.
	MaxLabelWidth float64
	LabelRotate   float64

	Style Style
}

// Render draws an axis for sc and returns the ticks it placed.
func Render(s surface.Surface, sc scale.Scale, opts Options) []scale.Tick {
	st := DefaultStyle().Merge(opts.Style)
	ticks := ticksFor(sc, opts)
	rng := sc.Range()
	horizontal := opts.Orientation == Top || opts.Orientation == Bottom
	// sign points away from the plot.
	sign := 1.0
	if opts.Orientation == Top || opts.Orientation == Left {
		sign = -1
	}
	pos := opts.Position

	draw := func(e surface.Element) {
		e.Layer = opts.Name
		e.DX, e.DY = opts.DX, opts.DY
		s.Draw(e)
	}
	line := func(class string, a, b, c, d float64, stroke string, width float64, dash string, opacity float64) {
		e := surface.Element{Kind: surface.KindLine, Class: class, Style: surface.Style{
			Stroke: stroke, StrokeWidth: width, Dash: dash, Opacity: opacity,
		}}
		if horizontal {
			e.X, e.Y, e.X2, e.Y2 = a, b, c, d
		} else {
			e.X, e.Y, e.X2, e.Y2 = b, a, d, c
		}
		draw(e)
	}

	if opts.Grid && opts.GridLength > 0 {
		for _, t := range ticks {
			line("grid", t.Pos, pos, t.Pos, pos-sign*opts.GridLength, st.GridColor, 1, st.GridDash, st.GridOpacity)
		}
	}

	if !opts.HideDomain {
		line("domain", rng[0], pos, rng[1], pos, st.DomainColor, 1, "", 0)
	}

	labelAt := pos + sign*(st.TickPadding)
	if !opts.HideTicks {
		labelAt += sign * st.TickLength
	}
	for _, t := range ticks {
		if !opts.HideTicks {
			line("tick", t.Pos, pos, t.Pos, pos+sign*st.TickLength, st.TickColor, 1, "", 0)
		}
		label := surface.Truncate(t.Label, st.FontSize, opts.MaxLabelWidth)
		if label == "" {
			continue
		}
		e := surface.Element{
			Kind:  surface.KindText,
			Class: "tick-label",
			Text:  label,
			Style: surface.Style{
				Fill:       st.TextColor,
				FontSize:   st.FontSize,
				FontFamily: st.FontFamily,
				Rotate:     opts.LabelRotate,
			},
		}
		switch opts.Orientation {
		case Bottom:
			e.X, e.Y = t.Pos, labelAt
			e.Style.Anchor, e.Style.Baseline = "middle", "hanging"
			if opts.LabelRotate != 0 {
				e.Style.Anchor = "end"
			}
		case Top:
			e.X, e.Y = t.Pos, labelAt
			e.Style.Anchor, e.Style.Baseline = "middle", "auto"
		case Left:
			e.X, e.Y = labelAt, t.Pos
			e.Style.Anchor, e.Style.Baseline = "end", "middle"
		case Right:
			e.X, e.Y = labelAt, t.Pos
			e.Style.Anchor, e.Style.Baseline = "start", "middle"
		}
		draw(e)
	}

	if opts.Title != "" {
		mid := (rng[0] + rng[1]) / 2
		e := surface.Element{
			Kind:  surface.KindText,
			Class: "axis-title",
			Text:  opts.Title,
			Style: surface.Style{
				Fill:       st.TitleColor,
				FontSize:   st.TitleFontSize,
				FontFamily: st.FontFamily,
				FontWeight: "500",
				Anchor:     "middle",
			},
		}
		off := sign * opts.TitleOffset
		switch opts.Orientation {
		case Bottom, Top:
			e.X, e.Y = mid, pos+off
		case Left:
			e.X, e.Y = pos+off, mid
			e.Style.Rotate = -90
		case Right:
			e.X, e.Y = pos+off, mid
			e.Style.Rotate = 90
		}
		draw(e)
	}
	return ticks
}

// Grid draws only gridlines for sc, without an axis.
func Grid(s surface.Surface, sc scale.Scale, opts Options) {
	st := DefaultStyle().Merge(opts.Style)
	sign := 1.0
	if opts.Orientation == Top || opts.Orientation == Left {
		sign = -1
	}
	for _, t := range ticksFor(sc, opts) {
		e := surface.Element{
			Kind:  surface.KindLine,
			Class: "grid",
			Layer: opts.Name,
			DX:    opts.DX,
			DY:    opts.DY,
			Style: surface.Style{Stroke: st.GridColor, StrokeWidth: 1, Dash: st.GridDash, Opacity: st.GridOpacity},
		}
		end := opts.Position - sign*opts.GridLength
		if opts.Orientation == Top || opts.Orientation == Bottom {
			e.X, e.Y, e.X2, e.Y2 = t.Pos, opts.Position, t.Pos, end
		} else {
			e.X, e.Y, e.X2, e.Y2 = opts.Position, t.Pos, end, t.Pos
		}
		s.Draw(e)
	}
}

func ticksFor(sc scale.Scale, opts Options) []scale.Tick {
	if len(opts.TickValues) == 0 {
		return sc.Ticks(opts.TickCount, opts.Format)
	}
	ticks := make([]scale.Tick, 0, len(opts.TickValues))
	for _, v := range opts.TickValues {
		p, ok := sc.Position(v)
		if !ok {
			continue
		}
		label := scale.AsString(v)
		if opts.Format != nil {
			label = opts.Format(v)
		}
		ticks = append(ticks, scale.Tick{Value: v, Pos: p, Label: label})
	}
	return ticks
}
