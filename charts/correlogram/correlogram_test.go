package correlogram

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/internal/logging"
	"github.com/spektr-org/chartcore/surface"
)

type recorder struct {
	errs     []error
	warnings []error
	tips     []string
}

func setup(t *testing.T, cfg Config) (*Chart, *surface.Scene, *recorder) {
	t.Helper()
	rec := &recorder{}
	if cfg.Width == 0 {
		cfg.Width, cfg.Height = 400, 400
	}
	cfg.Animation.Disabled = true
	c := New(cfg,
		engine.WithLogger(logging.Discard()),
		engine.WithCallbacks(engine.Callbacks{
			OnError:       func(err error) { rec.errs = append(rec.errs, err) },
			OnWarning:     func(err error) { rec.warnings = append(rec.warnings, err) },
			OnTooltipShow: func(_, _ float64, s string) { rec.tips = append(rec.tips, s) },
		}),
	)
	scene := surface.NewScene()
	_ = c.Initialize(surface.Box{}, scene)
	return c, scene, rec
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func count(cells []*Cell, tri Triangle) int {
	n := 0
	for _, c := range cells {
		if c.Triangle == tri {
			n++
		}
	}
	return n
}

func TestTwoByTwoMatrix(t *testing.T) {
	t.Parallel()

	c, scene, rec := setup(t, Config{
		Matrix:    [][]float64{{1, 0.75}, {0.75, 1}},
		Variables: []string{"A", "B"},
		Upper:     ModeBoth,
		Lower:     ModeText,
	})
	if len(rec.errs) != 0 {
		t.Fatalf("errors: %v", rec.errs)
	}
	cells := c.ProcessedData()
	if len(cells) != 4 {
		t.Fatalf("cells = %d, want 4", len(cells))
	}
	if count(cells, Diagonal) != 2 || count(cells, Upper) != 1 || count(cells, Lower) != 1 {
		t.Errorf("triangles = %d/%d/%d", count(cells, Diagonal), count(cells, Upper), count(cells, Lower))
	}
	for _, cell := range cells {
		want := 0.75
		if cell.Triangle == Diagonal {
			want = 1
		}
		if cell.Correlation != want {
			t.Errorf("%s,%s = %v, want %v", cell.Y, cell.X, cell.Correlation, want)
		}
	}

	var offDiagonal []string
	for _, l := range surface.Filter(scene.Elements(), surface.KindText, "correlation-label") {
		if l.Text != "1.00" {
			offDiagonal = append(offDiagonal, l.Text)
		}
	}
	if strings.Join(offDiagonal, ",") != "0.75,0.75" {
		t.Errorf("off-diagonal labels = %v", offDiagonal)
	}
	// Upper is both, diagonal is visual.
	if n := len(surface.Filter(scene.Elements(), surface.KindCircle, "correlation")); n != 3 {
		t.Errorf("circles = %d, want 3", n)
	}
	if n := len(surface.Filter(scene.Elements(), surface.KindRect, "grid-cell")); n != 4 {
		t.Errorf("grid cells = %d, want 4", n)
	}
}

func TestDiagonalForcedToOne(t *testing.T) {
	t.Parallel()

	c, _, _ := setup(t, Config{
		Matrix:    [][]float64{{0.2, 0.1, 0.3}, {0.1, 0, -0.5}, {0.3, -0.5, 7}},
		Variables: []string{"a", "b", "c"},
	})
	for _, v := range c.Variables() {
		r, ok := c.Correlation(v, v)
		if !ok || r != 1 {
			t.Errorf("diag %s = %v", v, r)
		}
	}
	for _, cell := range c.ProcessedData() {
		if cell.Triangle == Diagonal && cell.Correlation != 1 {
			t.Errorf("diagonal cell %+v", cell)
		}
	}
}

func TestTriangleModes(t *testing.T) {
	t.Parallel()

	m := [][]float64{{1, 0.5, -0.4}, {0.5, 1, 0.9}, {-0.4, 0.9, 1}}
	vars := []string{"a", "b", "c"}

	tests := []struct {
		name                   string
		upper, lower, diagonal Mode
		cells, circles, texts  int
	}{
		{"defaults", "", "", "", 9, 6, 3},
		{"upper only", ModeVisual, ModeNone, ModeNone, 3, 3, 0},
		{"text everywhere", ModeText, ModeText, ModeText, 9, 0, 9},
		{"both below", ModeNone, ModeBoth, ModeVisual, 6, 6, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, scene, _ := setup(t, Config{
				Matrix: m, Variables: vars,
				Upper: tt.upper, Lower: tt.lower, Diagonal: tt.diagonal,
			})
			if n := len(c.ProcessedData()); n != tt.cells {
				t.Errorf("cells = %d, want %d", n, tt.cells)
			}
			if n := len(surface.Filter(scene.Elements(), surface.KindCircle, "correlation")); n != tt.circles {
				t.Errorf("circles = %d, want %d", n, tt.circles)
			}
			if n := len(surface.Filter(scene.Elements(), surface.KindText, "correlation-label")); n != tt.texts {
				t.Errorf("texts = %d, want %d", n, tt.texts)
			}
		})
	}
}

func TestThreshold(t *testing.T) {
	t.Parallel()

	c, _, _ := setup(t, Config{
		Matrix:    [][]float64{{1, 0.2, -0.8}, {0.2, 1, 0.5}, {-0.8, 0.5, 1}},
		Variables: []string{"a", "b", "c"},
		Threshold: 0.5,
	})
	for _, cell := range c.ProcessedData() {
		if math.Abs(cell.Correlation) < 0.5 {
			t.Errorf("cell below threshold kept: %+v", cell)
		}
	}
	// 3 diagonal + (a,c) and (b,c) in both triangles.
	if n := len(c.ProcessedData()); n != 7 {
		t.Errorf("cells = %d, want 7", n)
	}
}

func TestRadiusAndColor(t *testing.T) {
	t.Parallel()

	c, scene, _ := setup(t, Config{
		Matrix:    [][]float64{{1, -1}, {-1, 1}},
		Variables: []string{"a", "b"},
		MinRadius: 4,
		MaxRadius: 20,
		Shape:     Square,
	})
	for _, cell := range c.ProcessedData() {
		if cell.Radius != 20 {
			t.Errorf("|r| = 1 radius = %v", cell.Radius)
		}
	}
	if n := len(surface.Filter(scene.Elements(), surface.KindRect, "correlation")); n != 3 {
		t.Errorf("squares = %d, want 3", n)
	}
	var pos, neg string
	for _, cell := range c.ProcessedData() {
		if cell.Correlation > 0 {
			pos = cell.Color
		} else {
			neg = cell.Color
		}
	}
	if pos == "" || neg == "" || pos == neg {
		t.Errorf("colors +1 %q, -1 %q", pos, neg)
	}
}

func TestPearson(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		xs, ys []float64
		want   float64
	}{
		{"identical", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{10, 20, 30}, 1},
		{"inverse", []float64{1, 2, 3}, []float64{3, 2, 1}, -1},
		{"constant", []float64{5, 5, 5}, []float64{1, 2, 3}, 0},
		{"too short", []float64{1}, []float64{2}, 0},
		{"uncorrelated", []float64{1, 2, 3, 4}, []float64{1, -1, -1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Pearson(tt.xs, tt.ys)
			if math.IsNaN(got) || !approx(got, tt.want) {
				t.Errorf("Pearson = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWideFormat(t *testing.T) {
	t.Parallel()

	data := []engine.Record{
		{"name": "p1", "height": 150.5, "weight": 50.5, "age": 30.5},
		{"name": "p2", "height": 160.5, "weight": 60.5, "age": 20.5},
		{"name": "p3", "height": 170.5, "weight": 70.5, "age": 40.5},
		{"name": "p4", "height": 180.5, "weight": 80.5, "age": 30.5},
	}
	c, _, rec := setup(t, Config{Common: engine.Common{Data: data}})
	if len(rec.errs) != 0 {
		t.Fatalf("errors: %v", rec.errs)
	}
	if got := strings.Join(c.Variables(), ","); got != "age,height,weight" {
		t.Errorf("variables = %s", got)
	}
	if r, _ := c.Correlation("height", "weight"); !approx(r, 1) {
		t.Errorf("height/weight = %v", r)
	}
	r1, _ := c.Correlation("age", "height")
	r2, _ := c.Correlation("height", "age")
	if r1 != r2 {
		t.Errorf("matrix not symmetric: %v vs %v", r1, r2)
	}

	if err := c.UpdateConfig(func(cfg *Config) { cfg.Columns = []string{"weight", "height"} }); err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(c.Variables(), ","); got != "weight,height" {
		t.Errorf("variables after Columns = %s", got)
	}
}

func TestWideFormatKeepsIntegerColumns(t *testing.T) {
	t.Parallel()

	var data []engine.Record
	for i := 0; i < 20; i++ {
		data = append(data, engine.Record{"id": i + 1, "a": i, "b": i * i, "c": 20 - i})
	}
	c, _, rec := setup(t, Config{Common: engine.Common{Data: data}})
	if len(rec.errs) != 0 {
		t.Fatalf("errors: %v", rec.errs)
	}
	if got := strings.Join(c.Variables(), ","); got != "a,b,c" {
		t.Errorf("variables = %s", got)
	}
	if r, _ := c.Correlation("a", "c"); !approx(r, -1) {
		t.Errorf("a/c = %v, want -1", r)
	}

	data = nil
	for i := 0; i < 12; i++ {
		data = append(data, engine.Record{
			"price":  10.5 + float64(i)*1.25,
			"rating": 4.5 - float64(i%3)*0.5,
			"visits": 100 + 7*i,
		})
	}
	c, _, rec = setup(t, Config{Common: engine.Common{Data: data}})
	if len(rec.errs) != 0 {
		t.Fatalf("errors: %v", rec.errs)
	}
	if got := strings.Join(c.Variables(), ","); got != "price,rating,visits" {
		t.Errorf("variables = %s", got)
	}
	if r, _ := c.Correlation("price", "visits"); !approx(r, 1) {
		t.Errorf("price/visits = %v, want 1", r)
	}
}

func TestColumnsSelectWideFormat(t *testing.T) {
	t.Parallel()

	data := []engine.Record{
		{"x": 1.5, "y": 3.0, "value": 2.0},
		{"x": 2.5, "y": 5.0, "value": 1.0},
		{"x": 3.5, "y": 7.0, "value": 4.0},
	}
	c, _, rec := setup(t, Config{Common: engine.Common{Data: data}, Columns: []string{"x", "y"}})
	if len(rec.errs) != 0 {
		t.Fatalf("errors: %v", rec.errs)
	}
	if got := strings.Join(c.Variables(), ","); got != "x,y" {
		t.Errorf("variables = %s", got)
	}
	if r, _ := c.Correlation("x", "y"); !approx(r, 1) {
		t.Errorf("x/y = %v, want 1", r)
	}
}

func TestWideFormatNeedsTwoColumns(t *testing.T) {
	t.Parallel()

	c, scene, rec := setup(t, Config{Common: engine.Common{Data: []engine.Record{{"name": "a", "v": 1.5}, {"name": "b", "v": 2.5}}}})
	if len(rec.errs) != 1 || !errors.Is(rec.errs[0], engine.ErrInvalidData) {
		t.Errorf("errs = %v", rec.errs)
	}
	if len(c.ProcessedData()) != 0 || scene.Len() != 0 {
		t.Error("failed chart drew something")
	}
}

func TestLongFormatMirrors(t *testing.T) {
	t.Parallel()

	a := engine.Record{"x": "b", "y": "a", "value": 0.4}
	data := []engine.Record{
		a,
		{"x": "c", "y": "a", "value": -0.2},
		{"x": "a", "y": "c", "value": -0.3},
	}
	c, _, _ := setup(t, Config{Common: engine.Common{Data: data}, Upper: ModeText, Lower: ModeText})
	if got := strings.Join(c.Variables(), ","); got != "b,a,c" {
		t.Errorf("variables = %s", got)
	}
	if r, _ := c.Correlation("b", "a"); r != 0.4 {
		t.Errorf("mirrored a/b = %v", r)
	}
	// Both directions given: each keeps its own value.
	if r, _ := c.Correlation("a", "c"); r != -0.2 {
		t.Errorf("a,c = %v", r)
	}
	if r, _ := c.Correlation("c", "a"); r != -0.3 {
		t.Errorf("c,a = %v", r)
	}
	if _, ok := c.Correlation("b", "c"); ok {
		t.Error("b,c was never given")
	}
	found := false
	for _, cell := range c.ProcessedData() {
		if cell.X == "b" && cell.Y == "a" {
			found = true
			if cell.Original["x"] != a["x"] || cell.Original["y"] != a["y"] {
				t.Errorf("cell original = %v", cell.Original)
			}
		}
	}
	if !found {
		t.Error("a,b cell missing")
	}
}

func TestInvalidMatrix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no variables", Config{Matrix: [][]float64{}}},
		{"row count", Config{Matrix: [][]float64{{1}}, Variables: []string{"a", "b"}}},
		{"ragged", Config{Matrix: [][]float64{{1, 0}, {0}}, Variables: []string{"a", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, rec := setup(t, tt.cfg)
			if len(rec.errs) != 1 || !errors.Is(rec.errs[0], engine.ErrInvalidData) {
				t.Errorf("errs = %v", rec.errs)
			}
			if len(c.ProcessedData()) != 0 {
				t.Error("processed data not empty")
			}
		})
	}
}

func TestHoverTextCell(t *testing.T) {
	t.Parallel()

	c, _, rec := setup(t, Config{
		Matrix:    [][]float64{{1, 0.75}, {0.75, 1}},
		Variables: []string{"A", "B"},
	})
	f := c.Frame()
	// Lower-left cell is text only and answers through its hover target.
	if err := c.PointerMove(f.Margin.Left+f.InnerWidth/4, f.Margin.Top+3*f.InnerHeight/4); err != nil {
		t.Fatal(err)
	}
	if len(rec.tips) != 1 || rec.tips[0] != "B, A: 0.75" {
		t.Errorf("tips = %q", rec.tips)
	}
}

func TestEmptyData(t *testing.T) {
	t.Parallel()

	c, scene, rec := setup(t, Config{Common: engine.Common{Data: []engine.Record{}}})
	if len(rec.errs) != 1 || !errors.Is(rec.errs[0], engine.ErrInvalidData) {
		t.Errorf("errs = %v", rec.errs)
	}
	if len(c.ProcessedData()) != 0 || scene.Len() != 0 {
		t.Error("empty correlogram drew something")
	}
	c.Destroy()
	if scene.Len() != 0 {
		t.Error("surface not empty after Destroy")
	}
}
