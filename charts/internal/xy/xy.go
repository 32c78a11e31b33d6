// Package xy holds the point, series and scale plumbing shared by the line
// and area chart cores.
package xy

import (
	"math"
	"sort"
	"strconv"

	"github.com/spektr-org/chartcore/colors"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/scale"
	"github.com/spektr-org/chartcore/shape"
)

// DefaultSeries names the single series of data without a category.
const DefaultSeries = "default"

// Default keys consulted when an accessor is unset.
const (
	KeyX        = "x"
	KeyY        = "y"
	KeyCategory = "category"
)

// ============================================================================
// POINTS & SERIES
// ============================================================================

// Point is one processed record.
type Point struct {
	Original engine.Record
	Index    int

	X        any     // raw x value
	XKey     string  // canonical x, shared by points at the same position
	XOrd     float64 // sort key along x
	Y        float64
	Defined  bool // false for null or non-numeric y
	Category string

	// Y0 and Y1 are the stacked baseline and top; unstacked points have
	// Y0 = 0 and Y1 = Y.
	Y0, Y1 float64
}

// Series is the ordered points of one category.
type Series struct {
	Name    string
	Color   string
	Visible bool
	Points  []*Point
}

// Fields are the accessors used to build points.
type Fields struct {
	X, Y, Category engine.Accessor
}

// Resolve builds one point per record. Points keep their input index and a
// reference to the original record.
func Resolve(r *engine.Resolver, f Fields) []*Point {
	points := make([]*Point, r.Len())
	raws := make([]any, r.Len())
	for i := range points {
		x, _ := r.Value(f.X, KeyX, i)
		y, ok := r.Float(f.Y, KeyY, i)
		p := &Point{
			Original: r.Records()[i],
			Index:    i,
			X:        x,
			Y:        y,
			Defined:  ok,
			Category: r.String(f.Category, KeyCategory, i, DefaultSeries),
		}
		if !ok {
			p.Y = math.NaN()
		}
		p.Y1 = p.Y
		points[i] = p
		raws[i] = x
	}
	assignKeys(points, scale.KindOf(raws))
	return points
}

// assignKeys fills XKey and XOrd according to the detected x kind.
func assignKeys(points []*Point, kind scale.Kind) {
	first := make(map[string]int)
	for _, p := range points {
		switch kind {
		case scale.Numeric:
			if f, ok := scale.AsFloat(p.X); ok {
				p.XOrd = f
				p.XKey = strconv.FormatFloat(f, 'g', -1, 64)
				continue
			}
		case scale.Temporal:
			if t, ok := scale.AsTime(p.X); ok {
				p.XOrd = float64(t.UnixNano())
				p.XKey = strconv.FormatInt(t.UnixNano(), 10)
				continue
			}
		}
		key := scale.AsString(p.X)
		if _, ok := first[key]; !ok {
			first[key] = len(first)
		}
		p.XKey = key
		p.XOrd = float64(first[key])
	}
}

// Group splits points into series in first-seen category order, sorts each
// series along x and assigns colors. Names in hidden start invisible.
func Group(points []*Point, palette colors.Ordinal, hidden map[string]bool) []Series {
	order, groups := engine.GroupBy(points, func(p *Point) string { return p.Category })
	series := make([]Series, 0, len(order))
	for i, name := range order {
		pts := groups[name]
		sort.SliceStable(pts, func(a, b int) bool { return pts[a].XOrd < pts[b].XOrd })
		series = append(series, Series{
			Name:    name,
			Color:   palette.At(i),
			Visible: !hidden[name],
			Points:  pts,
		})
	}
	return series
}

// Names returns the series names in order.
func Names(series []Series) []string {
	out := make([]string, len(series))
	for i, s := range series {
		out[i] = s.Name
	}
	return out
}

// Palette builds the series color scale from an explicit list or a scheme.
func Palette(names []string, list []string, scheme string) colors.Ordinal {
	if len(list) == 0 && scheme != "" {
		return colors.NewOrdinalScheme(names, scheme)
	}
	return colors.NewOrdinal(names, list)
}

// ============================================================================
// STACKING
// ============================================================================

// Stack computes Y0/Y1 for the visible series. Series stack in their order,
// so the first visible series sits on the baseline. A series without a point
// at some x contributes zero there.
func Stack(series []Series, mode shape.StackMode) {
	for _, s := range series {
		for _, p := range s.Points {
			p.Y0, p.Y1 = 0, p.Y
		}
	}
	if !mode.Stacking() {
		return
	}

	keys := XKeys(series)
	col := make(map[string]int, len(keys))
	for i, k := range keys {
		col[k] = i
	}

	var visible []Series
	for _, s := range series {
		if s.Visible {
			visible = append(visible, s)
		}
	}
	values := make([][]float64, len(visible))
	for si, s := range visible {
		values[si] = make([]float64, len(keys))
		for x := range values[si] {
			values[si][x] = math.NaN()
		}
		for _, p := range s.Points {
			if !p.Defined {
				continue
			}
			cur := &values[si][col[p.XKey]]
			if math.IsNaN(*cur) {
				*cur = 0
			}
			*cur += p.Y
		}
	}
	st := shape.Stack(mode, values)
	for si, s := range visible {
		for _, p := range s.Points {
			x := col[p.XKey]
			p.Y0, p.Y1 = st.Y0[si][x], st.Y1[si][x]
		}
	}
}

// XKeys returns the distinct x keys of the visible series, ordered along x.
func XKeys(series []Series) []string {
	ord := make(map[string]float64)
	for _, s := range series {
		if !s.Visible {
			continue
		}
		for _, p := range s.Points {
			ord[p.XKey] = p.XOrd
		}
	}
	keys := make([]string, 0, len(ord))
	for k := range ord {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if ord[keys[i]] != ord[keys[j]] {
			return ord[keys[i]] < ord[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
