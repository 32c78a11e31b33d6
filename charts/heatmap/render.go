package heatmap

import (
	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/scale"
	"github.com/spektr-org/chartcore/surface"
)

const (
	legendThickness = 12.0
	legendGap       = 20.0
	legendStops     = 10
)

// drawCells draws one rect per distinct (x, y) pair, rows top to bottom.
func (c *Chart) drawCells(cv *engine.Canvas) {
	st := axis.DefaultStyle().Merge(c.cfg.AxisStyle)
	w, h := c.xs.Bandwidth(), c.ys.Bandwidth()
	i := 0
	for _, y := range c.yKeys {
		for _, x := range c.xKeys {
			cell, ok := c.grid[[2]string{x, y}]
			if !ok || !cell.Defined {
				continue
			}
			px, _ := c.xs.Map(x)
			py, _ := c.ys.Map(y)
			value := c.cfg.ValueFormat(cell.Value)
			cv.Draw(surface.Element{
				Kind:       surface.KindRect,
				Class:      "cell",
				Layer:      "cells",
				X:          px,
				Y:          py,
				W:          w,
				H:          h,
				R:          c.cfg.CellRadius,
				Style:      surface.Style{Fill: cell.Color},
				Transition: cv.Transition(i),
				Tooltip:    x + ", " + y + ": " + value,
			})
			i++
			if !c.cfg.ShowValues {
				continue
			}
			fill := "#1f2937"
			if cell.Normalized > 0.5 {
				fill = "#ffffff"
			}
			cv.Draw(surface.Element{
				Kind:  surface.KindText,
				Class: "cell-label",
				Layer: "cells",
				X:     px + w/2,
				Y:     py + h/2,
				Text:  surface.Truncate(value, st.FontSize, w),
				Style: surface.Style{
					Fill:       fill,
					FontSize:   st.FontSize,
					FontFamily: st.FontFamily,
					Anchor:     "middle",
					Baseline:   "middle",
				},
			})
		}
	}
}

func (c *Chart) drawAxes(cv *engine.Canvas) {
	if !c.cfg.HideXAxis {
		axis.Render(cv, c.xs, axis.Options{
			Orientation:   axis.Bottom,
			Name:          "x-axis",
			Position:      cv.Height(),
			Title:         c.cfg.XAxisTitle,
			TitleOffset:   36,
			HideDomain:    true,
			MaxLabelWidth: c.xs.Step(),
			Style:         c.cfg.AxisStyle,
		})
	}
	if !c.cfg.HideYAxis {
		axis.Render(cv, c.ys, axis.Options{
			Orientation:   axis.Left,
			Name:          "y-axis",
			Title:         c.cfg.YAxisTitle,
			TitleOffset:   c.Frame().Margin.Left - 14,
			HideDomain:    true,
			MaxLabelWidth: c.Frame().Margin.Left - 12,
			Style:         c.cfg.AxisStyle,
		})
	}
}

// drawLegend draws a gradient bar with a value axis along it. Horizontal
// bars run low to high left to right, vertical bars bottom to top.
func (c *Chart) drawLegend(cv *engine.Canvas) {
	lg := c.cfg.Legend
	m := cv.Frame().Margin
	w, h := cv.Width(), cv.Height()
	id := cv.UID("heatmap-gradient")

	stops := c.color.Stops(legendStops)
	grad := surface.Element{Kind: surface.KindGradient, ID: id, Layer: "legend"}
	for i, col := range stops {
		grad.Stops = append(grad.Stops, surface.Stop{Offset: float64(i) / float64(len(stops)-1), Color: col})
	}

	bar := surface.Element{
		Kind:  surface.KindRect,
		Class: "legend-gradient",
		Layer: "legend",
		Style: surface.Style{Fill: "url(#" + id + ")"},
	}
	var opts axis.Options
	var rng [2]float64
	switch lg.Position {
	case LegendTop, LegendBottom:
		grad.X2 = 1
		bar.X, bar.W, bar.H = 0, w, legendThickness
		rng = [2]float64{0, w}
		if lg.Position == LegendTop {
			bar.Y = -m.Top + legendGap
			opts = axis.Options{Orientation: axis.Top, Position: bar.Y}
		} else {
			bar.Y = h + legendGap*2
			opts = axis.Options{Orientation: axis.Bottom, Position: bar.Y + legendThickness}
		}
	default:
		grad.Y = 1
		bar.Y, bar.W, bar.H = 0, legendThickness, h
		rng = [2]float64{h, 0}
		if lg.Position == LegendLeft {
			bar.X = -m.Left + legendGap*2
			opts = axis.Options{Orientation: axis.Left, Position: bar.X}
		} else {
			bar.X = w + legendGap
			opts = axis.Options{Orientation: axis.Right, Position: bar.X + legendThickness}
		}
	}
	cv.Draw(grad)
	cv.Draw(bar)

	opts.Name = "legend-axis"
	opts.TickCount = lg.TickCount
	opts.Format = lg.Format
	opts.HideDomain = true
	opts.Style = c.cfg.AxisStyle
	axis.Render(cv, scale.LinearDomain(c.color.Domain(), rng), opts)

	if lg.Title != "" {
		st := axis.DefaultStyle().Merge(c.cfg.AxisStyle)
		cv.Draw(surface.Element{
			Kind:  surface.KindText,
			Class: "legend-title",
			Layer: "legend",
			X:     bar.X,
			Y:     bar.Y - 6,
			Text:  lg.Title,
			Style: surface.Style{Fill: st.TitleColor, FontSize: st.FontSize, FontFamily: st.FontFamily, Anchor: "start"},
		})
	}
}
