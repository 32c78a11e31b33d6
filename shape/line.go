package shape

// Runs splits pts into maximal runs of defined points. A point is defined
// when its coordinates are finite and, if defined is non-nil, defined[i] is
// true.
func Runs(pts []Point, defined []bool) [][]Point {
	var runs [][]Point
	var cur []Point
	for i, pt := range pts {
		ok := pt.Valid() && (defined == nil || (i < len(defined) && defined[i]))
		if !ok {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, pt)
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// LinePath interpolates curve through pts. Undefined points break the line
// into disjoint sub-paths; each run starts with its own move command.
func LinePath(curve Curve, pts []Point, defined []bool) string {
	if curve == nil {
		curve = Linear{}
	}
	p := NewPath()
	for _, run := range Runs(pts, defined) {
		curve.Trace(p, run, false)
	}
	return p.String()
}

// AreaPoint is one x position of an area with its baseline Y0 and top Y1,
// both in pixel coordinates.
type AreaPoint struct {
	X, Y0, Y1 float64
}

// AreaPath builds a closed area between the Y1 and Y0 lines. Undefined
// points split the area into separate closed shapes.
func AreaPath(curve Curve, pts []AreaPoint, defined []bool) string {
	if curve == nil {
		curve = Linear{}
	}
	tops := make([]Point, len(pts))
	ok := make([]bool, len(pts))
	for i, a := range pts {
		tops[i] = Point{a.X, a.Y1}
		base := Point{a.X, a.Y0}
		ok[i] = base.Valid() && (defined == nil || (i < len(defined) && defined[i]))
	}
	p := NewPath()
	start := 0
	for start < len(pts) {
		for start < len(pts) && !(ok[start] && tops[start].Valid()) {
			start++
		}
		end := start
		for end < len(pts) && ok[end] && tops[end].Valid() {
			end++
		}
		if end > start {
			top := tops[start:end]
			bottom := make([]Point, 0, end-start)
			for i := end - 1; i >= start; i-- {
				bottom = append(bottom, Point{pts[i].X, pts[i].Y0})
			}
			curve.Trace(p, top, false)
			curve.Trace(p, bottom, true)
			p.Close()
		}
		start = end
	}
	return p.String()
}
