package funnel

import (
	"math"

	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/surface"
)

func (c *Chart) drawSegments(cv *engine.Canvas) {
	st := axis.DefaultStyle().Merge(c.cfg.AxisStyle)
	cx := cv.Width() / 2
	for i, s := range c.segments {
		if s.Path == "" {
			continue
		}
		wide := math.Max(s.TopWidth, s.BottomWidth)
		cv.Draw(surface.Element{
			Kind:  surface.KindPath,
			Class: "segment",
			Layer: "segments",
			D:     s.Path,
			// Bounding box for hit testing.
			X:          cx - wide/2,
			Y:          s.Y,
			W:          wide,
			H:          s.Height,
			Style:      surface.Style{Fill: s.Color},
			Transition: cv.Transition(i),
			Tooltip:    c.tooltip(s),
		})

		if c.cfg.HideLabels {
			continue
		}
		label := s.Label + ": " + c.cfg.ValueFormat(s.Value) + " (" + engine.FormatPercent(s.Percentage, 1) + ")"
		cv.Draw(surface.Element{
			Kind:  surface.KindText,
			Class: "segment-label",
			Layer: "labels",
			X:     cx,
			Y:     s.Y + s.Height/2,
			Text:  surface.Truncate(label, st.FontSize, math.Min(s.TopWidth, s.BottomWidth)),
			Style: surface.Style{
				Fill:       "#ffffff",
				FontSize:   st.FontSize,
				FontFamily: st.FontFamily,
				FontWeight: "500",
				Anchor:     "middle",
				Baseline:   "middle",
			},
		})
		if c.cfg.ShowConversion && i > 0 {
			cv.Draw(surface.Element{
				Kind:  surface.KindText,
				Class: "conversion-label",
				Layer: "labels",
				X:     cx + wide/2 + 8,
				Y:     s.Y,
				Text:  engine.FormatPercent(s.ConversionRate, 1),
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
}

func (c *Chart) tooltip(s *Segment) string {
	out := s.Label + ": " + c.cfg.ValueFormat(s.Value) + " (" + engine.FormatPercent(s.Percentage, 1) + ")"
	if s.Index > 0 {
		out += ", conversion " + engine.FormatPercent(s.ConversionRate, 1)
	}
	return out
}
