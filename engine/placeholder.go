package engine

import (
	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/surface"
)

// NoDataText is the placeholder shown for data that cannot be drawn.
const NoDataText = "No data"

// DrawPlaceholder draws text centered in the plot area in place of a chart
// whose geometry would be degenerate.
func DrawPlaceholder(c *Canvas, text string, style axis.Style) {
	st := axis.DefaultStyle().Merge(style)
	c.Draw(surface.Element{
		Kind:  surface.KindText,
		Class: "placeholder",
		Layer: "placeholder",
		X:     c.Width() / 2,
		Y:     c.Height() / 2,
		Text:  text,
		Style: surface.Style{
			Fill:       st.TextColor,
			FontSize:   st.TitleFontSize,
			FontFamily: st.FontFamily,
			Anchor:     "middle",
			Baseline:   "middle",
		},
	})
}
