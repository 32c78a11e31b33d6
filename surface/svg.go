package surface

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// DefaultFontFamily is used for the document when no element overrides it.
const DefaultFontFamily = `Roboto,"Helvetica Neue",Helvetica,Arial,sans-serif`

// WriteSVG serializes elements as an SVG document of the given size.
// Gradients are emitted into a single defs block ahead of the shapes.
func WriteSVG(w io.Writer, elems []Element, width, height float64) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(px(width), px(height), `font-family="`+escapeAttr(DefaultFontFamily)+`"`)

	var gradients []Element
	for _, e := range elems {
		if e.Kind == KindGradient {
			gradients = append(gradients, e)
		}
	}
	if len(gradients) > 0 {
		canvas.Def()
		for _, g := range gradients {
			stops := make([]svg.Offcolor, len(g.Stops))
			for i, s := range g.Stops {
				stops[i] = svg.Offcolor{Offset: pct(s.Offset), Color: s.Color, Opacity: 1}
			}
			canvas.LinearGradient(g.ID, pct(g.X), pct(g.Y), pct(g.X2), pct(g.Y2), stops)
		}
		canvas.DefEnd()
	}

	for _, e := range elems {
		attrs := attributes(e)
		switch e.Kind {
		case KindRect:
			canvas.Rect(px(e.X), px(e.Y), px(e.W), px(e.H), attrs)
		case KindCircle:
			canvas.Circle(px(e.X), px(e.Y), px(e.R), attrs)
		case KindLine:
			canvas.Line(px(e.X), px(e.Y), px(e.X2), px(e.Y2), attrs)
		case KindPath:
			if e.D == "" {
				continue
			}
			canvas.Path(e.D, attrs)
		case KindText:
			canvas.Text(px(e.X), px(e.Y), e.Text, attrs)
		}
	}
	canvas.End()
	return ew.err
}

// attributes renders an element's style as a single attribute string. svgo
// passes strings containing '=' through verbatim.
func attributes(e Element) string {
	var b strings.Builder
	add := func(name, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, `%s="%s"`, name, escapeAttr(value))
	}
	num := func(name string, v float64) {
		if v == 0 || math.IsNaN(v) {
			return
		}
		add(name, strconv.FormatFloat(v, 'f', -1, 64))
	}

	add("id", e.ID)
	add("class", e.Class)
	if e.Kind == KindRect {
		num("rx", e.R)
		num("ry", e.R)
	}
	s := e.Style
	switch {
	case s.Fill != "":
		add("fill", s.Fill)
	case e.Kind == KindPath || e.Kind == KindLine:
		add("fill", "none")
	}
	num("fill-opacity", s.FillOpacity)
	add("stroke", s.Stroke)
	num("stroke-width", s.StrokeWidth)
	num("opacity", s.Opacity)
	add("stroke-dasharray", s.Dash)
	num("font-size", s.FontSize)
	add("font-family", s.FontFamily)
	add("font-weight", s.FontWeight)
	add("text-anchor", s.Anchor)
	add("dominant-baseline", s.Baseline)
	var transform []string
	if e.DX != 0 || e.DY != 0 {
		transform = append(transform, fmt.Sprintf("translate(%s %s)", coord(e.DX), coord(e.DY)))
	}
	if s.Rotate != 0 {
		transform = append(transform, fmt.Sprintf("rotate(%g %d %d)", s.Rotate, px(e.X), px(e.Y)))
	}
	add("transform", strings.Join(transform, " "))
	if t := e.Transition; t != nil {
		num("data-duration", float64(t.Duration.Milliseconds()))
		num("data-delay", float64(t.Delay.Milliseconds()))
	}
	if e.Tooltip != "" {
		add("data-tooltip", e.Tooltip)
	}
	return b.String()
}

func px(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func pct(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(math.Round(v * 100))
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}
