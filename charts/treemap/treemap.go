// Package treemap implements the tree-map chart core: a hierarchy tiled
// into nested rectangles whose areas are proportional to value. Only leaves
// are drawn.
package treemap

import (
	"github.com/spektr-org/chartcore/colors"
	"github.com/spektr-org/chartcore/engine"
)

// ChartType is the tree-map's type name.
const ChartType = "treemap"

// Default keys consulted for stratified records when an accessor is unset.
const (
	KeyID       = "id"
	KeyParentID = "parentId"
	KeyValue    = "value"
	KeyName     = "name"
)

// ColorBy selects how leaves are colored.
type ColorBy string

const (
	// ColorByAncestor gives each top-level branch one ordinal color.
	ColorByAncestor ColorBy = "ancestor"
	// ColorByValue maps leaf values onto a sequential scheme.
	ColorByValue ColorBy = "value"
)

// Anchor positions a tile label.
type Anchor string

const (
	AnchorCenter      Anchor = "center"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTop         Anchor = "top"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottom      Anchor = "bottom"
	AnchorBottomRight Anchor = "bottom-right"
)

const (
	defaultLabelWidth  = 30.0
	defaultLabelHeight = 18.0
)

// Config is the tree-map configuration.
type Config struct {
	engine.Common

	// Root is a nested hierarchy. When nil, Data is read as stratified
	// records through ID, ParentID, Value and Name.
	Root *Datum

	ID, ParentID, Value, Name engine.Accessor

	Tile Tiling
	// Ratio is the squarify target aspect ratio.
	Ratio   float64
	Padding Padding
	// KeepOrder disables sorting children by descending value.
	KeepOrder bool

	ColorBy     ColorBy
	ColorScheme string
	Colors      []string
	StrokeColor string

	HideLabels bool
	// LabelAnchor places labels inside their tile.
	LabelAnchor Anchor
	// Labels are only drawn on tiles wider and taller than these.
	MinLabelWidth, MinLabelHeight float64
	ShowValues                    bool
	ValueFormat                   func(float64) string
}

func withDefaults(cfg Config) Config {
	switch cfg.Tile {
	case Squarify, Binary, Dice, Slice, SliceDice:
	default:
		cfg.Tile = Squarify
	}
	if cfg.Ratio <= 1 {
		cfg.Ratio = Phi
	}
	if cfg.ColorBy != ColorByValue {
		cfg.ColorBy = ColorByAncestor
	}
	if cfg.StrokeColor == "" {
		cfg.StrokeColor = "#ffffff"
	}
	switch cfg.LabelAnchor {
	case AnchorCenter, AnchorTopLeft, AnchorTop, AnchorTopRight, AnchorBottomLeft, AnchorBottom, AnchorBottomRight:
	default:
		cfg.LabelAnchor = AnchorCenter
	}
	if cfg.MinLabelWidth <= 0 {
		cfg.MinLabelWidth = defaultLabelWidth
	}
	if cfg.MinLabelHeight <= 0 {
		cfg.MinLabelHeight = defaultLabelHeight
	}
	if cfg.ValueFormat == nil {
		cfg.ValueFormat = func(v float64) string { return engine.FormatNumber(v, 2) }
	}
	if cfg.Margin == (engine.Margin{}) {
		cfg.Margin = engine.Margin{Top: 4, Right: 4, Bottom: 4, Left: 4}
	}
	return cfg
}

// Chart is the tree-map chart core.
type Chart struct {
	*engine.Base
	cfg Config

	tree *Tree
	// zoomID survives re-runs; zoom is its arena index in the current tree.
	zoomID string
	zoom   int
}

// New builds a tree-map. Nothing is drawn until Initialize.
func New(cfg Config, opts ...engine.Option) *Chart {
	c := &Chart{cfg: withDefaults(cfg)}
	c.Base = engine.NewBase(c, opts...)
	return c
}

// ChartType implements engine.Pipeline.
func (c *Chart) ChartType() string { return ChartType }

// Common implements engine.Pipeline.
func (c *Chart) Common() engine.Common { return c.cfg.Common }

// Config returns the current configuration.
func (c *Chart) Config() Config { return c.cfg }

// UpdateConfig applies fn to a copy of the config, replaces it and re-runs
// the pipeline.
func (c *Chart) UpdateConfig(fn func(*Config)) error {
	next := c.cfg
	fn(&next)
	c.cfg = withDefaults(next)
	return c.Rerun()
}

// SetConfig replaces the whole configuration.
func (c *Chart) SetConfig(cfg Config) error {
	c.cfg = withDefaults(cfg)
	return c.Rerun()
}

// ProcessedData returns the leaves in layout order.
func (c *Chart) ProcessedData() []*Node {
	out := []*Node{}
	if c.tree == nil {
		return out
	}
	for _, i := range c.tree.Leaves(0) {
		out = append(out, c.tree.Node(i))
	}
	return out
}

// Tree returns the laid-out hierarchy, nil before the first run.
func (c *Chart) Tree() *Tree { return c.tree }

// Root returns the root node, nil before the first run.
func (c *Chart) Root() *Node {
	if c.tree == nil {
		return nil
	}
	return c.tree.Root()
}

// Zoomed returns the id of the node currently filling the plot, "" for
// the root.
func (c *Chart) Zoomed() string { return c.zoomID }

// ZoomToNode re-renders with the subtree of id filling the plot. An empty
// id resets to the root. Errors also go to OnError.
func (c *Chart) ZoomToNode(id string) error {
	if id != "" {
		if err := c.Ready(engine.StageZoom); err != nil {
			return err
		}
		if c.tree == nil {
			return c.Fail(engine.StageZoom, engine.Errorf(engine.ErrNotInitialized, "no hierarchy to zoom"))
		}
		if _, ok := c.tree.Lookup(id); !ok {
			return c.Fail(engine.StageZoom, engine.Errorf(engine.ErrNodeNotFound, "%q", id))
		}
	}
	c.zoomID = id
	return c.Rerun()
}

// Validate implements engine.Validator. A nested root needs no records.
func (c *Chart) Validate() error {
	if c.cfg.Root != nil {
		return nil
	}
	return engine.ValidateRecords(c.cfg.Data)
}

// ============================================================================
// PIPELINE
// ============================================================================

// ProcessData implements engine.Pipeline.
func (c *Chart) ProcessData(r *engine.Resolver) error {
	if c.cfg.Root != nil {
		c.tree = FromNested(*c.cfg.Root, c.Warn)
	} else {
		rows := make([]Row, r.Len())
		for i := range rows {
			v, _ := r.Float(c.cfg.Value, KeyValue, i)
			rows[i] = Row{
				ID:       r.String(c.cfg.ID, KeyID, i, ""),
				ParentID: r.String(c.cfg.ParentID, KeyParentID, i, ""),
				Name:     r.String(c.cfg.Name, KeyName, i, ""),
				Value:    v,
				Original: r.Records()[i],
			}
		}
		c.tree = Stratify(rows, c.Warn)
	}
	if !c.cfg.KeepOrder {
		c.tree.sortByValue()
	}

	c.zoom = 0
	if c.zoomID != "" {
		if i, ok := c.tree.Lookup(c.zoomID); ok {
			c.zoom = i
		} else {
			c.zoomID = ""
		}
	}
	return nil
}

// CreateScales implements engine.Pipeline. The layout always tiles the
// whole tree; zoom is applied when drawing.
func (c *Chart) CreateScales(f engine.Frame) error {
	Layout(c.tree, f.InnerWidth, f.InnerHeight, c.cfg.Tile, c.cfg.Ratio, c.cfg.Padding)
	return c.colorize()
}

func (c *Chart) colorize() error {
	leaves := c.tree.Leaves(0)
	if c.cfg.ColorBy == ColorByValue {
		pal, err := colors.Continuous(c.cfg.ColorScheme, c.cfg.Colors, colors.DefaultSequential)
		if err != nil {
			return engine.Errorf(engine.ErrInvalidData, "color scheme: %v", err)
		}
		values := make([]float64, len(leaves))
		for k, i := range leaves {
			values[k] = c.tree.Node(i).Value
		}
		seq := colors.NewSequential([2]float64{engine.Min(values), engine.Max(values)}, pal)
		for _, i := range leaves {
			n := c.tree.Node(i)
			n.Color = colors.Hex(seq.Color(n.Value))
		}
		return nil
	}

	var branches []string
	for _, i := range c.tree.Root().Children {
		branches = append(branches, c.tree.Node(i).ID)
	}
	if len(branches) == 0 {
		branches = []string{c.tree.Root().ID}
	}
	ord := colors.NewOrdinal(branches, c.cfg.Colors)
	if len(c.cfg.Colors) == 0 && c.cfg.ColorScheme != "" {
		ord = colors.NewOrdinalScheme(branches, c.cfg.ColorScheme)
	}
	for i := range c.tree.Nodes {
		n := c.tree.Node(i)
		n.Color = ord.ColorFor(c.tree.Node(c.tree.Ancestor(i, 1)).ID)
	}
	return nil
}

// RenderChart implements engine.Pipeline.
func (c *Chart) RenderChart(cv *engine.Canvas) error {
	if c.tree.Node(c.zoom).Value <= 0 {
		engine.DrawPlaceholder(cv, engine.NoDataText, c.cfg.AxisStyle)
		c.Warn(engine.Errorf(engine.ErrDegenerateGeometry, "hierarchy total is zero"))
		return nil
	}
	c.drawTiles(cv)
	return nil
}

// Reset implements engine.Pipeline.
func (c *Chart) Reset() {
	c.tree = nil
	c.zoom = 0
}
