package xy

import (
	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/scale"
	"github.com/spektr-org/chartcore/shape"
	"github.com/spektr-org/chartcore/surface"
)

// AxisOptions configures the two axes of an x/y chart.
type AxisOptions struct {
	XTitle, YTitle   string
	XTicks, YTicks   int
	XFormat, YFormat scale.Formatter
	HideGrid         bool
	HideXAxis        bool
	HideYAxis        bool
	Style            axis.Style
}

// DrawGrid draws horizontal gridlines at the y ticks.
func DrawGrid(c *engine.Canvas, ys scale.Linear, o AxisOptions) {
	if o.HideGrid {
		return
	}
	axis.Grid(c, ys, axis.Options{
		Orientation: axis.Left,
		Name:        "grid",
		TickCount:   o.YTicks,
		GridLength:  c.Width(),
		Style:       o.Style,
	})
}

// DrawAxes draws the bottom x axis and the left y axis.
func DrawAxes(c *engine.Canvas, xs XScale, ys scale.Linear, o AxisOptions) {
	if !o.HideXAxis {
		axis.Render(c, xs.Scale(), axis.Options{
			Orientation:   axis.Bottom,
			Name:          "x-axis",
			Position:      c.Height(),
			TickCount:     o.XTicks,
			Format:        o.XFormat,
			Title:         o.XTitle,
			TitleOffset:   34,
			MaxLabelWidth: 80,
			Style:         o.Style,
		})
	}
	if !o.HideYAxis {
		axis.Render(c, ys, axis.Options{
			Orientation: axis.Left,
			Name:        "y-axis",
			TickCount:   o.YTicks,
			Format:      o.YFormat,
			Title:       o.YTitle,
			TitleOffset: 40,
			Style:       o.Style,
		})
	}
}

// Trace returns the pixel points of s along its tops (or baselines) with
// their defined flags. With connectNulls set, undefined points are dropped so
// the path bridges the gap.
func Trace(s Series, xs XScale, ys scale.Linear, baseline, connectNulls bool) ([]shape.Point, []bool) {
	pts := make([]shape.Point, 0, len(s.Points))
	defined := make([]bool, 0, len(s.Points))
	for _, p := range s.Points {
		if connectNulls && !p.Defined {
			continue
		}
		y := p.Y1
		if baseline {
			y = p.Y0
		}
		pts = append(pts, shape.Point{X: xs.Pos(p), Y: ys.Map(y)})
		defined = append(defined, p.Defined)
	}
	return pts, defined
}

// AreaTrace returns the area outline points of s.
func AreaTrace(s Series, xs XScale, ys scale.Linear, connectNulls bool) ([]shape.AreaPoint, []bool) {
	top, defined := Trace(s, xs, ys, false, connectNulls)
	base, _ := Trace(s, xs, ys, true, connectNulls)
	out := make([]shape.AreaPoint, len(top))
	for i := range top {
		out[i] = shape.AreaPoint{X: top[i].X, Y0: base[i].Y, Y1: top[i].Y}
	}
	return out, defined
}

// DrawPoints draws one marker per defined point carrying its tooltip. With
// hidden set the markers are transparent and only serve hover.
func DrawPoints(c *engine.Canvas, s Series, xs XScale, ys scale.Linear, r float64, hidden bool, format func(*Point) string) {
	for i, p := range s.Points {
		if !p.Defined {
			continue
		}
		x, y := xs.Pos(p), ys.Map(p.Y1)
		if !engine.Finite(x) || !engine.Finite(y) {
			continue
		}
		st := surface.Style{Fill: s.Color, Stroke: "#ffffff", StrokeWidth: 1}
		class := "point"
		if hidden {
			st = surface.Style{Fill: s.Color, FillOpacity: 0.001}
			class = "hover-target"
		}
		c.Draw(surface.Element{
			Kind:       surface.KindCircle,
			Class:      class,
			Layer:      "points",
			X:          x,
			Y:          y,
			R:          r,
			Style:      st,
			Transition: c.Transition(i),
			Tooltip:    format(p),
		})
	}
}

// LegendItems lists every series, hidden ones included.
func LegendItems(series []Series) []engine.LegendItem {
	items := make([]engine.LegendItem, len(series))
	for i, s := range series {
		items[i] = engine.LegendItem{Label: s.Name, Color: s.Color, Hidden: !s.Visible}
	}
	return items
}

// Tooltip formats a point as "series: x, y".
func Tooltip(p *Point) string {
	head := scale.AsString(p.X)
	if p.Category != DefaultSeries {
		head = p.Category + ": " + head
	}
	return head + ", " + engine.FormatNumber(p.Y, 2)
}
