package correlogram

import (
	"math"

	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/surface"
)

// drawCells draws a faint grid cell behind every matrix position, then the
// shape and/or number of each kept cell.
func (c *Chart) drawCells(cv *engine.Canvas) {
	st := axis.DefaultStyle().Merge(c.cfg.AxisStyle)
	w, h := c.xs.Bandwidth(), c.ys.Bandwidth()

	for _, y := range c.vars {
		for _, x := range c.vars {
			px, _ := c.xs.Map(x)
			py, _ := c.ys.Map(y)
			cv.Draw(surface.Element{
				Kind:  surface.KindRect,
				Class: "grid-cell",
				Layer: "grid",
				X:     px,
				Y:     py,
				W:     w,
				H:     h,
				Style: surface.Style{Fill: "none", Stroke: st.GridColor, StrokeWidth: 1},
			})
		}
	}

	for i, cell := range c.cells {
		px, _ := c.xs.Map(cell.X)
		py, _ := c.ys.Map(cell.Y)
		cx, cy := px+w/2, py+h/2
		tip := c.tooltip(cell)

		if cell.Mode.visual() {
			el := surface.Element{
				Class:      "correlation",
				Layer:      "cells",
				Style:      surface.Style{Fill: cell.Color},
				Transition: cv.Transition(i),
				Tooltip:    tip,
			}
			if c.cfg.Shape == Square {
				el.Kind = surface.KindRect
				el.X, el.Y = cx-cell.Radius, cy-cell.Radius
				el.W, el.H = 2*cell.Radius, 2*cell.Radius
			} else {
				el.Kind = surface.KindCircle
				el.X, el.Y, el.R = cx, cy, cell.Radius
			}
			cv.Draw(el)
		} else {
			cv.Draw(surface.Element{
				Kind:    surface.KindRect,
				Class:   "hover-target",
				Layer:   "cells",
				X:       px,
				Y:       py,
				W:       w,
				H:       h,
				Style:   surface.Style{Fill: "#000000", FillOpacity: 0.001},
				Tooltip: tip,
			})
		}

		if !cell.Mode.text() {
			continue
		}
		fill := cell.Color
		if cell.Mode == ModeBoth {
			fill = "#1f2937"
			if math.Abs(cell.Correlation) > 0.6 {
				fill = "#ffffff"
			}
		}
		cv.Draw(surface.Element{
			Kind:  surface.KindText,
			Class: "correlation-label",
			Layer: "labels",
			X:     cx,
			Y:     cy,
			Text:  surface.Truncate(c.label(cell.Correlation), st.FontSize, w),
			Style: surface.Style{
				Fill:       fill,
				FontSize:   st.FontSize,
				FontFamily: st.FontFamily,
				FontWeight: "500",
				Anchor:     "middle",
				Baseline:   "middle",
			},
		})
	}
}

func (c *Chart) drawAxes(cv *engine.Canvas) {
	if !c.cfg.HideXAxis {
		axis.Render(cv, c.xs, axis.Options{
			Orientation:   axis.Bottom,
			Name:          "x-axis",
			Position:      cv.Height(),
			HideDomain:    true,
			MaxLabelWidth: c.xs.Step(),
			Style:         c.cfg.AxisStyle,
		})
	}
	if !c.cfg.HideYAxis {
		axis.Render(cv, c.ys, axis.Options{
			Orientation:   axis.Left,
			Name:          "y-axis",
			HideDomain:    true,
			MaxLabelWidth: c.Frame().Margin.Left - 12,
			Style:         c.cfg.AxisStyle,
		})
	}
}
