// Package correlogram implements the correlogram chart core: a square
// matrix of pairwise correlations where the upper triangle, the lower
// triangle and the diagonal each choose whether to draw a shape, a number,
// both or nothing.
//
// Input is one of:
//   - a precomputed matrix plus its variable names,
//   - wide records, one numeric column per variable, correlated pairwise,
//   - long records holding (x, y, value) triples.
package correlogram

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"

	"github.com/spektr-org/chartcore/colors"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/scale"
	"github.com/spektr-org/chartcore/schema"
)

// ChartType is the correlogram's type name.
const ChartType = "correlogram"

// Default keys consulted in long format when an accessor is unset.
const (
	KeyX     = "x"
	KeyY     = "y"
	KeyValue = "value"
)

// Format selects how Data is read.
type Format string

const (
	// FormatAuto uses Matrix when set, long format when the records carry
	// the x/y/value keys (or the accessors are set), wide format otherwise.
	FormatAuto   Format = ""
	FormatMatrix Format = "matrix"
	FormatWide   Format = "wide"
	FormatLong   Format = "long"
)

// Mode is the rendering mode of one triangle.
type Mode string

const (
	ModeVisual Mode = "visual"
	ModeText   Mode = "text"
	ModeBoth   Mode = "both"
	ModeNone   Mode = "none"
)

func (m Mode) visual() bool { return m == ModeVisual || m == ModeBoth }
func (m Mode) text() bool   { return m == ModeText || m == ModeBoth }

// Triangle names the region of the matrix a cell belongs to.
type Triangle string

const (
	Upper    Triangle = "upper"
	Lower    Triangle = "lower"
	Diagonal Triangle = "diagonal"
)

// Shape is the visual encoding.
type Shape string

const (
	Circle Shape = "circle"
	Square Shape = "square"
)

// Config is the correlogram configuration.
type Config struct {
	engine.Common

	// Matrix and Variables describe a precomputed correlation matrix.
	Matrix    [][]float64
	Variables []string

	Format Format
	// Columns picks the wide-format variables. Empty means every numeric
	// column.
	Columns []string
	// X, Y and Value read long-format triples.
	X, Y, Value engine.Accessor

	// Threshold hides cells whose |correlation| is below it.
	Threshold float64

	Upper, Lower, Diagonal Mode

	Shape                Shape
	MinRadius, MaxRadius float64

	// ColorScheme names a diverging scheme; Colors overrides it.
	ColorScheme string
	Colors      []string

	// Precision is the number of decimals in text cells; 0 means 2.
	Precision int

	HideXAxis, HideYAxis bool
}

func withDefaults(cfg Config) Config {
	if cfg.Upper == "" {
		cfg.Upper = ModeVisual
	}
	if cfg.Lower == "" {
		cfg.Lower = ModeText
	}
	if cfg.Diagonal == "" {
		cfg.Diagonal = ModeVisual
	}
	if cfg.Shape != Square {
		cfg.Shape = Circle
	}
	if cfg.MinRadius <= 0 {
		cfg.MinRadius = 2
	}
	if cfg.Precision <= 0 {
		cfg.Precision = 2
	}
	cfg.Threshold = math.Abs(cfg.Threshold)
	if cfg.Margin == (engine.Margin{}) {
		cfg.Margin = engine.Margin{Top: 20, Right: 20, Bottom: 60, Left: 80}
	}
	return cfg
}

// Cell is one drawn matrix entry.
type Cell struct {
	// Original is the record that defined the cell in long format, nil
	// otherwise.
	Original engine.Record

	Row, Col    int
	X, Y        string
	Correlation float64
	Triangle    Triangle
	Mode        Mode

	Color  string
	Radius float64
}

// Chart is the correlogram chart core.
type Chart struct {
	*engine.Base
	cfg Config

	vars   []string
	matrix [][]float64
	source [][]engine.Record
	cells  []*Cell

	xs, ys scale.Band
	color  colors.Diverging
}

// New builds a correlogram. Nothing is drawn until Initialize.
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

// ProcessedData returns the cells that pass the threshold and belong to an
// enabled triangle, row by row.
func (c *Chart) ProcessedData() []*Cell {
	if c.cells == nil {
		return []*Cell{}
	}
	return c.cells
}

// Variables returns the matrix variables in row order.
func (c *Chart) Variables() []string { return c.vars }

// Correlation returns the matrix entry for a pair of variables.
func (c *Chart) Correlation(a, b string) (float64, bool) {
	i, j := c.index(a), c.index(b)
	if i < 0 || j < 0 || math.IsNaN(c.matrix[i][j]) {
		return 0, false
	}
	return c.matrix[i][j], true
}

func (c *Chart) index(name string) int {
	for i, v := range c.vars {
		if v == name {
			return i
		}
	}
	return -1
}

// format resolves FormatAuto against the current input.
func (c *Chart) format() Format {
	if c.cfg.Format != FormatAuto {
		return c.cfg.Format
	}
	if c.cfg.Matrix != nil {
		return FormatMatrix
	}
	if len(c.cfg.Columns) > 0 {
		return FormatWide
	}
	if !c.cfg.X.IsZero() || !c.cfg.Y.IsZero() || !c.cfg.Value.IsZero() {
		return FormatLong
	}
	if len(c.cfg.Data) > 0 {
		r := c.cfg.Data[0]
		_, hasX := r.Get(KeyX)
		_, hasY := r.Get(KeyY)
		_, hasV := r.Get(KeyValue)
		if hasX && hasY && hasV {
			return FormatLong
		}
	}
	return FormatWide
}

// Validate implements engine.Validator. A matrix must be square and match
// its variable list; records are required otherwise.
func (c *Chart) Validate() error {
	if c.format() != FormatMatrix {
		return engine.ValidateRecords(c.cfg.Data)
	}
	n := len(c.cfg.Variables)
	if n == 0 {
		return engine.Errorf(engine.ErrInvalidData, "matrix input needs at least one variable")
	}
	if len(c.cfg.Matrix) != n {
		return engine.Errorf(engine.ErrInvalidData, "matrix has %d rows for %d variables", len(c.cfg.Matrix), n)
	}
	for i, row := range c.cfg.Matrix {
		if len(row) != n {
			return engine.Errorf(engine.ErrInvalidData, "matrix row %d has %d columns, want %d", i, len(row), n)
		}
	}
	return nil
}

// ============================================================================
// PEARSON
// ============================================================================

// Pearson returns the correlation coefficient of xs and ys over their
// common length. A series with zero variance, or fewer than two points,
// yields 0.
func Pearson(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0
	}
	xs, ys = xs[:n], ys[:n]
	mx, my := stats.Mean(xs), stats.Mean(ys)
	var sxy, sxx, syy float64
	for i := range n {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	den := math.Sqrt(sxx * syy)
	if den == 0 || !engine.Finite(den) || !engine.Finite(sxy) {
		return 0
	}
	return math.Max(-1, math.Min(1, sxy/den))
}

// ============================================================================
// PIPELINE
// ============================================================================

// ProcessData implements engine.Pipeline.
func (c *Chart) ProcessData(r *engine.Resolver) error {
	c.source = nil
	var err error
	switch c.format() {
	case FormatMatrix:
		c.fromMatrix()
	case FormatLong:
		c.fromLong(r)
	default:
		err = c.fromWide(r.Records())
	}
	if err != nil {
		return err
	}
	for i := range c.matrix {
		c.matrix[i][i] = 1
	}
	c.buildCells()
	return nil
}

func (c *Chart) fromMatrix() {
	n := len(c.cfg.Variables)
	c.vars = append([]string(nil), c.cfg.Variables...)
	c.matrix = newMatrix(n)
	for i, row := range c.cfg.Matrix {
		for j, v := range row {
			if !engine.Finite(v) {
				c.Warn(engine.Errorf(engine.ErrInvalidData, "matrix[%d][%d] is not a number", i, j))
				continue
			}
			c.matrix[i][j] = math.Max(-1, math.Min(1, v))
		}
	}
}

func (c *Chart) fromWide(records []engine.Record) error {
	cols := c.cfg.Columns
	if len(cols) == 0 {
		cols = schema.NumericKeys(records)
	}
	if len(cols) < 2 {
		return engine.Errorf(engine.ErrInvalidData, "wide data needs at least two numeric columns, found %d", len(cols))
	}
	c.vars = append([]string(nil), cols...)
	c.matrix = newMatrix(len(cols))
	for i := range cols {
		for j := i + 1; j < len(cols); j++ {
			xs, ys := pairs(records, cols[i], cols[j])
			r := Pearson(xs, ys)
			c.matrix[i][j], c.matrix[j][i] = r, r
		}
	}
	return nil
}

// pairs collects the rows where both columns are numeric.
func pairs(records []engine.Record, a, b string) (xs, ys []float64) {
	for _, r := range records {
		x, okx := scale.AsFloat(r[a])
		y, oky := scale.AsFloat(r[b])
		if okx && oky && engine.Finite(x) && engine.Finite(y) {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// fromLong reads triples. Variables keep first-seen order; a pair given in
// one direction only is mirrored to the other.
func (c *Chart) fromLong(r *engine.Resolver) {
	type triple struct {
		x, y string
		v    float64
		rec  engine.Record
	}
	var ts []triple
	var names []string
	for i := 0; i < r.Len(); i++ {
		v, ok := r.Float(c.cfg.Value, KeyValue, i)
		x := r.Label(c.cfg.X, KeyX, i)
		y := r.Label(c.cfg.Y, KeyY, i)
		names = append(names, x, y)
		if !ok {
			continue
		}
		ts = append(ts, triple{x, y, math.Max(-1, math.Min(1, v)), r.Records()[i]})
	}
	c.vars = scale.Unique(names)
	n := len(c.vars)
	c.matrix = newMatrix(n)
	c.source = make([][]engine.Record, n)
	for i := range c.matrix {
		c.source[i] = make([]engine.Record, n)
		for j := range c.matrix[i] {
			c.matrix[i][j] = math.NaN()
		}
	}
	set := make([][]bool, n)
	for i := range set {
		set[i] = make([]bool, n)
	}
	for _, t := range ts {
		i, j := c.index(t.y), c.index(t.x)
		c.matrix[i][j], c.source[i][j], set[i][j] = t.v, t.rec, true
		if !set[j][i] {
			c.matrix[j][i], c.source[j][i] = t.v, t.rec
		}
	}
}

func newMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

func (c *Chart) buildCells() {
	c.cells = nil
	for i, row := range c.matrix {
		for j, v := range row {
			if math.IsNaN(v) {
				continue
			}
			tri, mode := c.triangle(i, j)
			if mode == ModeNone || math.Abs(v) < c.cfg.Threshold {
				continue
			}
			cell := &Cell{
				Row:         i,
				Col:         j,
				X:           c.vars[j],
				Y:           c.vars[i],
				Correlation: v,
				Triangle:    tri,
				Mode:        mode,
			}
			if c.source != nil {
				cell.Original = c.source[i][j]
			}
			c.cells = append(c.cells, cell)
		}
	}
}

func (c *Chart) triangle(i, j int) (Triangle, Mode) {
	switch {
	case i == j:
		return Diagonal, c.cfg.Diagonal
	case j > i:
		return Upper, c.cfg.Upper
	default:
		return Lower, c.cfg.Lower
	}
}

// CreateScales implements engine.Pipeline.
func (c *Chart) CreateScales(f engine.Frame) error {
	c.xs = scale.NewBand(c.vars, [2]float64{0, f.InnerWidth}, scale.BandOptions{})
	c.ys = scale.NewBand(c.vars, [2]float64{0, f.InnerHeight}, scale.BandOptions{})

	pal, err := colors.Continuous(c.cfg.ColorScheme, c.cfg.Colors, colors.DefaultDiverging)
	if err != nil {
		return engine.Errorf(engine.ErrInvalidData, "color scheme: %v", err)
	}
	c.color = colors.NewDiverging(-1, 0, 1, pal)

	maxR := c.cfg.MaxRadius
	if maxR <= 0 {
		maxR = math.Min(c.xs.Bandwidth(), c.ys.Bandwidth()) / 2 * 0.9
	}
	minR := math.Min(c.cfg.MinRadius, maxR)
	for _, cell := range c.cells {
		cell.Color = colors.Hex(c.color.Color(cell.Correlation))
		cell.Radius = minR + math.Abs(cell.Correlation)*(maxR-minR)
	}
	return nil
}

// RenderChart implements engine.Pipeline.
func (c *Chart) RenderChart(cv *engine.Canvas) error {
	c.drawCells(cv)
	c.drawAxes(cv)
	return nil
}

// Reset implements engine.Pipeline.
func (c *Chart) Reset() {
	c.vars = nil
	c.matrix = nil
	c.source = nil
	c.cells = nil
	c.xs = scale.Band{}
	c.ys = scale.Band{}
	c.color = colors.Diverging{}
}

func (c *Chart) label(v float64) string {
	return engine.FormatFixed(v, c.cfg.Precision)
}

func (c *Chart) tooltip(cell *Cell) string {
	return fmt.Sprintf("%s, %s: %s", cell.Y, cell.X, c.label(cell.Correlation))
}
