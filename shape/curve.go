package shape

import (
	"math"
	"strings"
)

// Curve is an interpolation strategy through a run of points.
type Curve interface {
	// Trace appends the curve through pts to p. With join set the first
	// point is reached by a line from the current position instead of
	// starting a new sub-path.
	Trace(p *Path, pts []Point, join bool)
}

// Curve names accepted by CurveByName.
const (
	CurveLinear     = "linear"
	CurveMonotone   = "monotone"
	CurveCardinal   = "cardinal"
	CurveBasis      = "basis"
	CurveStep       = "step"
	CurveStepBefore = "stepBefore"
	CurveStepAfter  = "stepAfter"
	CurveCatmullRom = "catmullRom"
)

// CurveByName returns the named curve. Names are case-insensitive and
// "monotoneX" is accepted for monotone. Unknown names report false.
func CurveByName(name string) (Curve, bool) {
	switch strings.ToLower(name) {
	case "", "linear":
		return Linear{}, true
	case "monotone", "monotonex":
		return MonotoneX{}, true
	case "cardinal":
		return Cardinal{}, true
	case "basis":
		return Basis{}, true
	case "step":
		return Step{T: 0.5}, true
	case "stepbefore":
		return Step{T: 0}, true
	case "stepafter":
		return Step{T: 1}, true
	case "catmullrom", "catmull-rom":
		return CatmullRom{Alpha: 0.5}, true
	}
	return Linear{}, false
}

func begin(p *Path, pt Point, join bool) {
	if join {
		p.LineTo(pt.X, pt.Y)
	} else {
		p.MoveTo(pt.X, pt.Y)
	}
}

// ============================================================================
// LINEAR / STEP
// ============================================================================

// Linear connects points with straight segments.
type Linear struct{}

// Trace implements Curve.
func (Linear) Trace(p *Path, pts []Point, join bool) {
	for i, pt := range pts {
		if i == 0 {
			begin(p, pt, join)
			continue
		}
		p.LineTo(pt.X, pt.Y)
	}
}

// Step draws horizontal-then-vertical steps. T places the vertical riser
// between two points: 0 at the first, 0.5 midway, 1 at the second.
type Step struct {
	T float64
}

// Trace implements Curve.
func (s Step) Trace(p *Path, pts []Point, join bool) {
	for i, pt := range pts {
		if i == 0 {
			begin(p, pt, join)
			continue
		}
		prev := pts[i-1]
		switch {
		case s.T <= 0:
			p.LineTo(prev.X, pt.Y)
			p.LineTo(pt.X, pt.Y)
		case s.T >= 1:
			p.LineTo(pt.X, prev.Y)
			p.LineTo(pt.X, pt.Y)
		default:
			x := prev.X*(1-s.T) + pt.X*s.T
			p.LineTo(x, prev.Y)
			p.LineTo(x, pt.Y)
		}
	}
	if s.T > 0 && s.T < 1 && len(pts) >= 2 {
		last := pts[len(pts)-1]
		p.LineTo(last.X, last.Y)
	}
}

// ============================================================================
// BASIS
// ============================================================================

// Basis is a cubic B-spline through the control points; it touches only the
// first and last points.
type Basis struct{}

// Trace implements Curve.
func (Basis) Trace(p *Path, pts []Point, join bool) {
	if len(pts) == 0 {
		return
	}
	var x0, y0, x1, y1 float64
	bp := func(x, y float64) {
		p.CurveTo(
			(2*x0+x1)/3, (2*y0+y1)/3,
			(x0+2*x1)/3, (y0+2*y1)/3,
			(x0+4*x1+x)/6, (y0+4*y1+y)/6,
		)
	}
	for i, pt := range pts {
		switch i {
		case 0:
			begin(p, pt, join)
		case 1:
		case 2:
			p.LineTo((5*x0+x1)/6, (5*y0+y1)/6)
			bp(pt.X, pt.Y)
		default:
			bp(pt.X, pt.Y)
		}
		x0, x1 = x1, pt.X
		y0, y1 = y1, pt.Y
	}
	switch {
	case len(pts) >= 3:
		bp(x1, y1)
		p.LineTo(x1, y1)
	case len(pts) == 2:
		p.LineTo(x1, y1)
	}
}

// ============================================================================
// CARDINAL
// ============================================================================

// Cardinal is a cardinal spline through every point. Tension 0 is a
// Catmull-Rom spline with uniform parameterization; 1 gives straight lines.
type Cardinal struct {
	Tension float64
}

// Trace implements Curve.
func (c Cardinal) Trace(p *Path, pts []Point, join bool) {
	n := len(pts)
	if n == 0 {
		return
	}
	begin(p, pts[0], join)
	if n == 2 {
		p.LineTo(pts[1].X, pts[1].Y)
		return
	}
	k := (1 - c.Tension) / 6
	for i := 0; i+1 < n; i++ {
		// Missing neighbours are reflected onto the segment's own ends.
		a := pts[max(i-1, 0)]
		b := pts[i]
		d := pts[i+1]
		e := pts[min(i+2, n-1)]
		if i == 0 {
			a = d
		}
		if i+2 > n-1 {
			e = b
		}
		p.CurveTo(
			b.X+k*(d.X-a.X), b.Y+k*(d.Y-a.Y),
			d.X+k*(b.X-e.X), d.Y+k*(b.Y-e.Y),
			d.X, d.Y,
		)
	}
}

// ============================================================================
// CATMULL-ROM
// ============================================================================

// CatmullRom is a Catmull-Rom spline with centripetal (Alpha 0.5), uniform
// (0) or chordal (1) parameterization. It never overshoots into cusps at
// Alpha 0.5, which makes it suitable for silhouettes.
type CatmullRom struct {
	Alpha float64
}

// Trace implements Curve.
func (c CatmullRom) Trace(p *Path, pts []Point, join bool) {
	n := len(pts)
	if n == 0 {
		return
	}
	if c.Alpha == 0 {
		Cardinal{}.Trace(p, pts, join)
		return
	}
	begin(p, pts[0], join)
	if n == 2 {
		p.LineTo(pts[1].X, pts[1].Y)
		return
	}
	const eps = 1e-12
	dist := func(a, b Point) (la, l2a float64) {
		dx, dy := a.X-b.X, a.Y-b.Y
		l2a = math.Pow(dx*dx+dy*dy, c.Alpha)
		return math.Sqrt(l2a), l2a
	}
	for i := 0; i+1 < n; i++ {
		p1, p2 := pts[i], pts[i+1]
		c1, c2 := p1, p2
		l12a, l12_2a := dist(p1, p2)
		if i > 0 {
			p0 := pts[i-1]
			l01a, l01_2a := dist(p0, p1)
			if l01a > eps {
				a := 2*l01_2a + 3*l01a*l12a + l12_2a
				m := 3 * l01a * (l01a + l12a)
				c1.X = (p1.X*a - p0.X*l12_2a + p2.X*l01_2a) / m
				c1.Y = (p1.Y*a - p0.Y*l12_2a + p2.Y*l01_2a) / m
			}
		}
		if i+2 < n {
			p3 := pts[i+2]
			l23a, l23_2a := dist(p2, p3)
			if l23a > eps {
				b := 2*l23_2a + 3*l23a*l12a + l12_2a
				m := 3 * l23a * (l23a + l12a)
				c2.X = (p2.X*b + p1.X*l23_2a - p3.X*l12_2a) / m
				c2.Y = (p2.Y*b + p1.Y*l23_2a - p3.Y*l12_2a) / m
			}
		}
		p.CurveTo(c1.X, c1.Y, c2.X, c2.Y, p2.X, p2.Y)
	}
}

// ============================================================================
// MONOTONE
// ============================================================================

// MonotoneX is a cubic spline that preserves monotonicity in y, assuming
// points are sorted by x. It never overshoots the data.
type MonotoneX struct{}

// Trace implements Curve.
func (MonotoneX) Trace(p *Path, pts []Point, join bool) {
	// Coincident consecutive points are dropped.
	clean := make([]Point, 0, len(pts))
	for i, pt := range pts {
		if i > 0 && pt == clean[len(clean)-1] {
			continue
		}
		clean = append(clean, pt)
	}
	n := len(clean)
	if n == 0 {
		return
	}
	begin(p, clean[0], join)
	if n == 1 {
		return
	}
	if n == 2 {
		p.LineTo(clean[1].X, clean[1].Y)
		return
	}

	// Tangents at interior points.
	t := make([]float64, n)
	for i := 1; i < n-1; i++ {
		t[i] = slope3(clean[i-1], clean[i], clean[i+1])
	}
	t[0] = slope2(clean[0], clean[1], t[1])
	t[n-1] = slope2(clean[n-2], clean[n-1], t[n-2])

	for i := 0; i+1 < n; i++ {
		a, b := clean[i], clean[i+1]
		dx := (b.X - a.X) / 3
		p.CurveTo(a.X+dx, a.Y+dx*t[i], b.X-dx, b.Y-dx*t[i+1], b.X, b.Y)
	}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// slope3 is the Steffen tangent at b.
func slope3(a, b, c Point) float64 {
	h0 := b.X - a.X
	h1 := c.X - b.X
	d0, d1 := h0, h1
	if d0 == 0 {
		d0 = zeroLike(h1)
	}
	if d1 == 0 {
		d1 = zeroLike(h0)
	}
	s0 := (b.Y - a.Y) / d0
	s1 := (c.Y - b.Y) / d1
	pp := (s0*h1 + s1*h0) / (h0 + h1)
	r := (sign(s0) + sign(s1)) * math.Min(math.Min(math.Abs(s0), math.Abs(s1)), 0.5*math.Abs(pp))
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// zeroLike returns a signed zero, negative when h is negative, so the
// division above yields an infinity of the right sign.
func zeroLike(h float64) float64 {
	if h < 0 {
		return math.Copysign(0, -1)
	}
	return 0
}

// slope2 is the one-sided tangent at an end point given the neighbour's
// tangent t.
func slope2(a, b Point, t float64) float64 {
	h := b.X - a.X
	if h == 0 {
		return t
	}
	return (3*(b.Y-a.Y)/h - t) / 2
}
