// Package shape turns point lists into SVG path data.
//
// Curves are interpolation strategies selected by name. Line and Area split
// their input at undefined points so gaps stay visible instead of being
// bridged. Stack computes baseline/top offsets for stacked series.
package shape

import (
	"math"
	"strconv"
	"strings"
)

// Point is a position in plot coordinates.
type Point struct {
	X, Y float64
}

// Valid reports whether both coordinates are finite.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Path accumulates SVG path commands. Any non-finite coordinate marks the
// path invalid and String then returns "", so a bad computation never leaks
// into drawing instructions.
type Path struct {
	b       strings.Builder
	invalid bool
	empty   bool
}

// NewPath returns an empty path.
func NewPath() *Path { return &Path{empty: true} }

func (p *Path) cmd(c byte, vals ...float64) {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			p.invalid = true
		}
	}
	p.b.WriteByte(c)
	for i, v := range vals {
		if i > 0 {
			p.b.WriteByte(',')
		}
		p.b.WriteString(num(v))
	}
	p.empty = false
}

// MoveTo starts a sub-path.
func (p *Path) MoveTo(x, y float64) { p.cmd('M', x, y) }

// LineTo draws a straight segment.
func (p *Path) LineTo(x, y float64) { p.cmd('L', x, y) }

// CurveTo draws a cubic Bézier segment.
func (p *Path) CurveTo(x1, y1, x2, y2, x, y float64) { p.cmd('C', x1, y1, x2, y2, x, y) }

// QuadTo draws a quadratic Bézier segment.
func (p *Path) QuadTo(x1, y1, x, y float64) { p.cmd('Q', x1, y1, x, y) }

// Close closes the current sub-path.
func (p *Path) Close() {
	if !p.empty {
		p.b.WriteByte('Z')
	}
}

// Valid reports whether every coordinate written so far was finite.
func (p *Path) Valid() bool { return !p.invalid }

// String returns the path data, or "" if the path is empty or invalid.
func (p *Path) String() string {
	if p.invalid || p.empty {
		return ""
	}
	return p.b.String()
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Rect returns a closed rectangle path.
func Rect(x, y, w, h float64) string {
	p := NewPath()
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
	return p.String()
}

// Polygon returns a closed path through pts.
func Polygon(pts []Point) string {
	p := NewPath()
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
		} else {
			p.LineTo(pt.X, pt.Y)
		}
	}
	p.Close()
	return p.String()
}
