package treemap

import (
	"strings"

	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/surface"
)

const labelInset = 4.0

// view maps layout coordinates into the plot so that the zoomed node fills
// it.
type view struct {
	x0, y0, sx, sy float64
}

func (c *Chart) view(w, h float64) view {
	z := c.tree.Node(c.zoom)
	v := view{x0: z.X0, y0: z.Y0, sx: 1, sy: 1}
	if z.Width() > 0 {
		v.sx = w / z.Width()
	}
	if z.Height() > 0 {
		v.sy = h / z.Height()
	}
	return v
}

func (v view) rect(n *Node) (x, y, w, h float64) {
	return (n.X0 - v.x0) * v.sx, (n.Y0 - v.y0) * v.sy, n.Width() * v.sx, n.Height() * v.sy
}

// drawTiles draws the leaves under the zoomed node, then their labels.
func (c *Chart) drawTiles(cv *engine.Canvas) {
	st := axis.DefaultStyle().Merge(c.cfg.AxisStyle)
	v := c.view(cv.Width(), cv.Height())

	for k, i := range c.tree.Leaves(c.zoom) {
		n := c.tree.Node(i)
		x, y, w, h := v.rect(n)
		if w <= 0 || h <= 0 {
			continue
		}
		cv.Draw(surface.Element{
			Kind:       surface.KindRect,
			Class:      "tile",
			Layer:      "tiles",
			X:          x,
			Y:          y,
			W:          w,
			H:          h,
			Style:      surface.Style{Fill: n.Color, Stroke: c.cfg.StrokeColor, StrokeWidth: 1},
			Transition: cv.Transition(k),
			Tooltip:    c.tooltip(i),
		})
		if !c.cfg.HideLabels {
			c.drawLabel(cv, st, n, x, y, w, h)
		}
	}
}

// drawLabel places the node name, and optionally its value, at the
// configured anchor. Tiles at or under the minimum size get no label.
func (c *Chart) drawLabel(cv *engine.Canvas, st axis.Style, n *Node, x, y, w, h float64) {
	if w <= c.cfg.MinLabelWidth || h <= c.cfg.MinLabelHeight || w <= 2*labelInset {
		return
	}
	text := surface.Truncate(n.Name, st.FontSize, w-2*labelInset)
	if text == "" {
		return
	}
	lines := []string{text}
	lineHeight := surface.TextHeight(st.FontSize)
	if c.cfg.ShowValues && h > 2*lineHeight+2*labelInset {
		if val := surface.Truncate(c.cfg.ValueFormat(n.Value), st.FontSize, w-2*labelInset); val != "" {
			lines = append(lines, val)
		}
	}

	anchor := string(c.cfg.LabelAnchor)
	tx, textAnchor := x+w/2, "middle"
	switch {
	case strings.HasSuffix(anchor, "left"):
		tx, textAnchor = x+labelInset, "start"
	case strings.HasSuffix(anchor, "right"):
		tx, textAnchor = x+w-labelInset, "end"
	}
	block := float64(len(lines)) * lineHeight
	var ty float64
	switch {
	case strings.HasPrefix(anchor, "top"):
		ty = y + labelInset + lineHeight/2
	case strings.HasPrefix(anchor, "bottom"):
		ty = y + h - labelInset - block + lineHeight/2
	default:
		ty = y + h/2 - block/2 + lineHeight/2
	}

	for k, line := range lines {
		class, weight := "tile-label", "600"
		if k > 0 {
			class, weight = "tile-value", "400"
		}
		cv.Draw(surface.Element{
			Kind:  surface.KindText,
			Class: class,
			Layer: "labels",
			X:     tx,
			Y:     ty + float64(k)*lineHeight,
			Text:  line,
			Style: surface.Style{
				Fill:       "#ffffff",
				FontSize:   st.FontSize,
				FontFamily: st.FontFamily,
				FontWeight: weight,
				Anchor:     textAnchor,
				Baseline:   "middle",
			},
		})
	}
}

func (c *Chart) tooltip(i int) string {
	path := c.tree.Path(i)
	if len(path) == 0 {
		path = []string{c.tree.Node(i).Name}
	}
	return strings.Join(path, " / ") + ": " + c.cfg.ValueFormat(c.tree.Node(i).Value)
}
