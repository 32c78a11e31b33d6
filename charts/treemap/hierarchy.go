package treemap

import (
	"math"
	"sort"
	"strconv"

	"github.com/spektr-org/chartcore/engine"
)

// ============================================================================
// HIERARCHY — Flat arena of nodes linked by index
// ============================================================================
// Node 0 is always the root. Parent and Children hold arena indexes, so the
// tree has no pointer cycles and can be walked in either direction.
// ============================================================================

// NoParent is the Parent index of the root.
const NoParent = -1

// Datum is one node of a nested hierarchy. Value is only read on leaves.
type Datum struct {
	Name     string  `json:"name" yaml:"name"`
	Value    float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Children []Datum `json:"children,omitempty" yaml:"children,omitempty"`
}

// Node is one arena entry.
type Node struct {
	ID   string
	Name string
	// Value is the leaf value, or the sum of descendant leaves.
	Value float64
	Depth int

	Parent   int
	Children []int

	// Original is the defining record for stratified input, nil otherwise.
	Original engine.Record

	// X0, Y0, X1, Y1 are the layout bounds in plot coordinates.
	X0, Y0, X1, Y1 float64
	Color          string
}

// Leaf reports whether the node has no children.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// Width returns X1 - X0.
func (n *Node) Width() float64 { return n.X1 - n.X0 }

// Height returns Y1 - Y0.
func (n *Node) Height() float64 { return n.Y1 - n.Y0 }

// Tree is a hierarchy stored as an arena.
type Tree struct {
	Nodes []Node
	index map[string]int
}

func newTree() *Tree {
	return &Tree{index: make(map[string]int)}
}

func (t *Tree) add(n Node) int {
	i := len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
	t.index[n.ID] = i
	if n.Parent != NoParent {
		t.Nodes[n.Parent].Children = append(t.Nodes[n.Parent].Children, i)
	}
	return i
}

// Root returns the root node.
func (t *Tree) Root() *Node { return &t.Nodes[0] }

// Node returns the node at index i.
func (t *Tree) Node(i int) *Node { return &t.Nodes[i] }

// Lookup returns the arena index of id.
func (t *Tree) Lookup(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.Nodes) }

// Depth returns the depth of the deepest node; a lone root has depth 0.
func (t *Tree) Depth() int {
	d := 0
	for i := range t.Nodes {
		d = max(d, t.Nodes[i].Depth)
	}
	return d
}

// Descendants returns i and every node below it, parents before children.
func (t *Tree) Descendants(i int) []int {
	out := []int{i}
	for k := 0; k < len(out); k++ {
		out = append(out, t.Nodes[out[k]].Children...)
	}
	return out
}

// Leaves returns the leaves under i in pre-order.
func (t *Tree) Leaves(i int) []int {
	var out []int
	var walk func(int)
	walk = func(j int) {
		n := &t.Nodes[j]
		if n.Leaf() {
			out = append(out, j)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(i)
	return out
}

// Ancestor returns the ancestor of i at depth d, or i itself when it is
// not deeper than d.
func (t *Tree) Ancestor(i, d int) int {
	for t.Nodes[i].Depth > d {
		i = t.Nodes[i].Parent
	}
	return i
}

// Path returns the names from depth 1 down to i.
func (t *Tree) Path(i int) []string {
	var out []string
	for ; i > 0; i = t.Nodes[i].Parent {
		out = append(out, t.Nodes[i].Name)
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// sum sets every container value to the sum of its children, bottom-up.
// Arena order puts parents before children, so a reverse scan suffices.
func (t *Tree) sum() {
	for i := len(t.Nodes) - 1; i >= 0; i-- {
		n := &t.Nodes[i]
		if n.Leaf() {
			continue
		}
		n.Value = 0
		for _, c := range n.Children {
			n.Value += t.Nodes[c].Value
		}
	}
}

// sortByValue orders every child list by descending value. Ties keep
// input order.
func (t *Tree) sortByValue() {
	for i := range t.Nodes {
		ch := t.Nodes[i].Children
		sort.SliceStable(ch, func(a, b int) bool { return t.Nodes[ch[a]].Value > t.Nodes[ch[b]].Value })
	}
}

// ============================================================================
// BUILDERS
// ============================================================================

// leafValue clamps unusable leaf values to 0 and reports them.
func leafValue(v float64, id string, warn func(error)) float64 {
	if !engine.Finite(v) || v < 0 {
		warn(engine.Errorf(engine.ErrInvalidData, "node %q has invalid value %v, using 0", id, v))
		return 0
	}
	return v
}

// FromNested builds a tree from a nested hierarchy. Node ids are the names
// along the path joined by "/"; duplicate sibling names get a "#n" suffix.
func FromNested(root Datum, warn func(error)) *Tree {
	t := newTree()
	type item struct {
		d      Datum
		parent int
		depth  int
	}
	queue := []item{{d: root, parent: NoParent}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		id := it.d.Name
		if it.parent != NoParent {
			id = t.Nodes[it.parent].ID + "/" + it.d.Name
		}
		if _, dup := t.index[id]; dup {
			base := id
			for k := 2; ; k++ {
				id = base + "#" + strconv.Itoa(k)
				if _, dup := t.index[id]; !dup {
					break
				}
			}
		}
		n := Node{ID: id, Name: it.d.Name, Parent: it.parent, Depth: it.depth}
		if len(it.d.Children) == 0 {
			n.Value = leafValue(it.d.Value, id, warn)
		}
		i := t.add(n)
		for _, c := range it.d.Children {
			queue = append(queue, item{d: c, parent: i, depth: it.depth + 1})
		}
	}
	t.sum()
	return t
}

// Row is one stratified record after accessor resolution.
type Row struct {
	ID, ParentID, Name string
	Value              float64
	Original           engine.Record
}

// Stratify reassembles a flat id/parentId list into a tree. Rows with an
// empty ParentID are roots; several roots hang under a synthetic root with
// an empty id. Duplicate ids, orphans and cycles are reported through warn
// with ErrHierarchyStructure and their subtrees are left out.
func Stratify(rows []Row, warn func(error)) *Tree {
	byID := make(map[string]int, len(rows))
	children := make(map[string][]int)
	var roots []int
	for i, r := range rows {
		if r.ID == "" {
			warn(engine.Errorf(engine.ErrHierarchyStructure, "row %d has no id", i))
			continue
		}
		if _, dup := byID[r.ID]; dup {
			warn(engine.Errorf(engine.ErrHierarchyStructure, "duplicate id %q, row %d ignored", r.ID, i))
			continue
		}
		byID[r.ID] = i
	}
	for i, r := range rows {
		if j, ok := byID[r.ID]; !ok || j != i {
			continue
		}
		_, known := byID[r.ParentID]
		switch {
		case r.ParentID == "":
			roots = append(roots, i)
		case r.ParentID == r.ID:
			warn(engine.Errorf(engine.ErrHierarchyStructure, "node %q is its own parent", r.ID))
		case !known:
			warn(engine.Errorf(engine.ErrHierarchyStructure, "node %q references missing parent %q", r.ID, r.ParentID))
		default:
			children[r.ParentID] = append(children[r.ParentID], i)
		}
	}

	t := newTree()
	type item struct{ row, parent, depth int }
	var queue []item
	if len(roots) == 1 {
		queue = append(queue, item{row: roots[0], parent: NoParent})
	} else {
		t.add(Node{Name: "root", Parent: NoParent})
		for _, r := range roots {
			queue = append(queue, item{row: r, parent: 0, depth: 1})
		}
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		r := rows[it.row]
		name := r.Name
		if name == "" {
			name = r.ID
		}
		n := Node{ID: r.ID, Name: name, Parent: it.parent, Depth: it.depth, Original: r.Original}
		kids := children[r.ID]
		if len(kids) == 0 {
			n.Value = leafValue(r.Value, r.ID, warn)
		}
		i := t.add(n)
		for _, k := range kids {
			queue = append(queue, item{row: k, parent: i, depth: it.depth + 1})
		}
	}

	// Anything unreachable that does not hang below an orphan sits on a
	// cycle.
	var lost []string
	for id := range byID {
		if _, ok := t.index[id]; ok {
			continue
		}
		seen := map[string]bool{}
		for cur := id; ; {
			if seen[cur] {
				lost = append(lost, id)
				break
			}
			seen[cur] = true
			i, ok := byID[cur]
			if !ok {
				break
			}
			p := rows[i].ParentID
			if p == "" || p == cur {
				break
			}
			cur = p
		}
	}
	if len(lost) > 0 {
		sort.Strings(lost)
		warn(engine.Errorf(engine.ErrHierarchyStructure, "cyclic parent references exclude %d nodes: %v", len(lost), lost))
	}
	t.sum()
	return t
}

// area returns the node's rectangle area, 0 for inverted bounds.
func (n *Node) area() float64 {
	return math.Max(0, n.Width()) * math.Max(0, n.Height())
}
