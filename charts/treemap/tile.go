package treemap

import "math"

// ============================================================================
// TILING — Partition a parent rectangle among its children by value
// ============================================================================
// Every tiler fills [x0,x1]×[y0,y1] exactly, in child order, so the children
// of a parent never overlap it or each other. A parent with a zero value
// collapses its children onto its top-left corner.
// ============================================================================

// Tiling names a tiling algorithm.
type Tiling string

const (
	// Squarify aims for cells close to Ratio (the golden ratio by default).
	Squarify Tiling = "squarify"
	// Binary splits children into two value-balanced halves recursively.
	Binary Tiling = "binary"
	// Dice lays children out left to right.
	Dice Tiling = "dice"
	// Slice lays children out top to bottom.
	Slice Tiling = "slice"
	// SliceDice alternates slice and dice by depth.
	SliceDice Tiling = "sliceDice"
)

// Phi is the golden ratio, the default squarify target.
var Phi = (1 + math.Sqrt(5)) / 2

type rect struct{ x0, y0, x1, y1 float64 }

type tiler func(t *Tree, nodes []int, value float64, depth int, r rect)

func (k Tiling) tiler(ratio float64) tiler {
	switch k {
	case Binary:
		return binary
	case Dice:
		return func(t *Tree, nodes []int, value float64, _ int, r rect) { dice(t, nodes, value, r) }
	case Slice:
		return func(t *Tree, nodes []int, value float64, _ int, r rect) { slice(t, nodes, value, r) }
	case SliceDice:
		return func(t *Tree, nodes []int, value float64, depth int, r rect) {
			if depth%2 == 1 {
				slice(t, nodes, value, r)
			} else {
				dice(t, nodes, value, r)
			}
		}
	default:
		return func(t *Tree, nodes []int, value float64, _ int, r rect) { squarify(t, nodes, value, ratio, r) }
	}
}

func collapse(t *Tree, nodes []int, r rect) {
	for _, i := range nodes {
		n := &t.Nodes[i]
		n.X0, n.Y0, n.X1, n.Y1 = r.x0, r.y0, r.x0, r.y0
	}
}

func dice(t *Tree, nodes []int, value float64, r rect) {
	if value <= 0 {
		collapse(t, nodes, r)
		return
	}
	k := (r.x1 - r.x0) / value
	x := r.x0
	for _, i := range nodes {
		n := &t.Nodes[i]
		n.Y0, n.Y1 = r.y0, r.y1
		n.X0 = x
		x += n.Value * k
		n.X1 = x
	}
}

func slice(t *Tree, nodes []int, value float64, r rect) {
	if value <= 0 {
		collapse(t, nodes, r)
		return
	}
	k := (r.y1 - r.y0) / value
	y := r.y0
	for _, i := range nodes {
		n := &t.Nodes[i]
		n.X0, n.X1 = r.x0, r.x1
		n.Y0 = y
		y += n.Value * k
		n.Y1 = y
	}
}

// squarify lays children out in rows, growing each row while the worst
// aspect ratio in it keeps improving.
func squarify(t *Tree, nodes []int, value, ratio float64, r rect) {
	val := func(k int) float64 { return t.Nodes[nodes[k]].Value }
	n := len(nodes)
	i0, i1 := 0, 0
	for i0 < n {
		if value <= 0 {
			collapse(t, nodes[i0:], r)
			return
		}
		dx, dy := r.x1-r.x0, r.y1-r.y0

		// Start the row at the next non-empty node.
		sum := val(i1)
		i1++
		for sum == 0 && i1 < n {
			sum = val(i1)
			i1++
		}
		minV, maxV := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * ratio)
		beta := sum * sum * alpha
		minRatio := math.Max(maxV/beta, beta/minV)

		for ; i1 < n; i1++ {
			v := val(i1)
			sum += v
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
			beta = sum * sum * alpha
			next := math.Max(maxV/beta, beta/minV)
			if next > minRatio {
				sum -= v
				break
			}
			minRatio = next
		}

		row := nodes[i0:i1]
		if dx < dy {
			y := r.y1
			if dy > 0 {
				y = r.y0 + dy*sum/value
			}
			dice(t, row, sum, rect{r.x0, r.y0, r.x1, y})
			r.y0 = y
		} else {
			x := r.x1
			if dx > 0 {
				x = r.x0 + dx*sum/value
			}
			slice(t, row, sum, rect{r.x0, r.y0, x, r.y1})
			r.x0 = x
		}
		value -= sum
		i0 = i1
	}
}

// binary splits the children at the point that best halves the value,
// cutting along the longer side, and recurses on both halves.
func binary(t *Tree, nodes []int, value float64, _ int, r rect) {
	sums := make([]float64, len(nodes)+1)
	for i, k := range nodes {
		sums[i+1] = sums[i] + t.Nodes[k].Value
	}
	var partition func(i, j int, value float64, r rect)
	partition = func(i, j int, value float64, r rect) {
		if i >= j-1 {
			n := &t.Nodes[nodes[i]]
			n.X0, n.Y0, n.X1, n.Y1 = r.x0, r.y0, r.x1, r.y1
			return
		}
		offset := sums[i]
		target := value/2 + offset
		k, hi := i+1, j-1
		for k < hi {
			mid := int(uint(k+hi) >> 1)
			if sums[mid] < target {
				k = mid + 1
			} else {
				hi = mid
			}
		}
		if target-sums[k-1] < sums[k]-target && i+1 < k {
			k--
		}
		left := sums[k] - offset
		right := value - left
		if r.x1-r.x0 > r.y1-r.y0 {
			xk := r.x1
			if value != 0 {
				xk = (r.x0*right + r.x1*left) / value
			}
			partition(i, k, left, rect{r.x0, r.y0, xk, r.y1})
			partition(k, j, right, rect{xk, r.y0, r.x1, r.y1})
		} else {
			yk := r.y1
			if value != 0 {
				yk = (r.y0*right + r.y1*left) / value
			}
			partition(i, k, left, rect{r.x0, r.y0, r.x1, yk})
			partition(k, j, right, rect{r.x0, yk, r.x1, r.y1})
		}
	}
	if len(nodes) > 0 {
		partition(0, len(nodes), value, r)
	}
}

// ============================================================================
// LAYOUT
// ============================================================================

// Padding is the space around and between tiles. Top, Right, Bottom and
// Left override Outer on that side when positive.
type Padding struct {
	Inner                    float64
	Outer                    float64
	Top, Right, Bottom, Left float64
}

func (p Padding) side(v float64) float64 {
	if v > 0 {
		return v
	}
	return p.Outer
}

// Layout positions every node of t inside a w×h rectangle.
func Layout(t *Tree, w, h float64, kind Tiling, ratio float64, pad Padding) {
	if t.Len() == 0 {
		return
	}
	if ratio <= 1 {
		ratio = Phi
	}
	tile := kind.tiler(ratio)
	root := t.Root()
	root.X0, root.Y0, root.X1, root.Y1 = 0, 0, w, h

	half := pad.Inner / 2
	for i := range t.Nodes {
		n := &t.Nodes[i]
		p := half
		if n.Parent == NoParent {
			p = 0
		}
		r := fit(rect{n.X0 + p, n.Y0 + p, n.X1 - p, n.Y1 - p})
		n.X0, n.Y0, n.X1, n.Y1 = r.x0, r.y0, r.x1, r.y1
		if n.Leaf() {
			continue
		}
		r = fit(rect{
			r.x0 + pad.side(pad.Left) - half,
			r.y0 + pad.side(pad.Top) - half,
			r.x1 - pad.side(pad.Right) + half,
			r.y1 - pad.side(pad.Bottom) + half,
		})
		tile(t, n.Children, n.Value, n.Depth, r)
	}
}

// fit collapses inverted extents onto their midpoint.
func fit(r rect) rect {
	if r.x1 < r.x0 {
		r.x0 = (r.x0 + r.x1) / 2
		r.x1 = r.x0
	}
	if r.y1 < r.y0 {
		r.y0 = (r.y0 + r.y1) / 2
		r.y1 = r.y0
	}
	return r
}
