package engine

import (
	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/surface"
)

// LegendItem is one entry of a categorical legend.
type LegendItem struct {
	Label  string
	Color  string
	Hidden bool
}

const (
	legendSwatch = 10.0
	legendGap    = 6.0
	legendSpace  = 16.0
)

// DrawLegend draws a single row of swatches centered in the top margin, left
// aligned with the plot area. Hidden entries are drawn faded.
func DrawLegend(c *Canvas, items []LegendItem, style axis.Style) {
	st := axis.DefaultStyle().Merge(style)
	top := c.Frame().Margin.Top
	y := -top / 2
	x := 0.0
	for i, it := range items {
		opacity := 1.0
		if it.Hidden {
			opacity = 0.3
		}
		c.Draw(surface.Element{
			Kind:  surface.KindRect,
			Class: "legend-swatch",
			Layer: "legend",
			X:     x,
			Y:     y - legendSwatch/2,
			W:     legendSwatch,
			H:     legendSwatch,
			Style: surface.Style{Fill: it.Color, Opacity: opacity},
		})
		x += legendSwatch + legendGap
		c.Draw(surface.Element{
			Kind:  surface.KindText,
			Class: "legend-label",
			Layer: "legend",
			X:     x,
			Y:     y,
			Text:  it.Label,
			Style: surface.Style{
				Fill:       st.TextColor,
				FontSize:   st.FontSize,
				FontFamily: st.FontFamily,
				Anchor:     "start",
				Baseline:   "middle",
				Opacity:    opacity,
			},
		})
		x += surface.MeasureText(it.Label, st.FontSize)
		if i < len(items)-1 {
			x += legendSpace
		}
	}
}
