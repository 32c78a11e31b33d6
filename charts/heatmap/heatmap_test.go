package heatmap

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
}

func setup(t *testing.T, cfg Config) (*Chart, *surface.Scene, *recorder) {
	t.Helper()
	rec := &recorder{}
	if cfg.Width == 0 {
		cfg.Width, cfg.Height = 600, 400
	}
	cfg.Animation.Disabled = true
	c := New(cfg,
		engine.WithLogger(logging.Discard()),
		engine.WithID("hm"),
		engine.WithCallbacks(engine.Callbacks{
			OnError:   func(err error) { rec.errs = append(rec.errs, err) },
			OnWarning: func(err error) { rec.warnings = append(rec.warnings, err) },
		}),
	)
	scene := surface.NewScene()
	if err := c.Initialize(surface.Box{}, scene); err != nil && len(cfg.Data) > 0 {
		t.Fatalf("Initialize: %v", err)
	}
	return c, scene, rec
}

func weekly() []engine.Record {
	return []engine.Record{
		{"x": "Wed", "y": "pm", "value": 10},
		{"x": "Mon", "y": "am", "value": 0},
		{"x": "Tue", "y": "am", "value": 5},
		{"x": "Mon", "y": "pm", "value": 2},
		{"x": "Tue", "y": "pm", "value": 7},
		{"x": "Wed", "y": "am", "value": 4},
	}
}

func TestAxesSortedLexically(t *testing.T) {
	t.Parallel()

	c, scene, _ := setup(t, Config{Common: engine.Common{Data: weekly()}})

	if got := strings.Join(c.XDomain(), ","); got != "Mon,Tue,Wed" {
		t.Errorf("x domain = %s", got)
	}
	if got := strings.Join(c.YDomain(), ","); got != "am,pm" {
		t.Errorf("y domain = %s", got)
	}
	cells := surface.Filter(scene.Elements(), surface.KindRect, "cell")
	if len(cells) != 6 {
		t.Fatalf("cells = %d, want 6", len(cells))
	}
	// Row-major from the top left: Mon/am first.
	if cells[0].Tooltip != "Mon, am: 0" {
		t.Errorf("first cell = %q", cells[0].Tooltip)
	}
	if cells[0].W <= 0 || cells[0].W != c.xs.Bandwidth() || cells[0].H != c.ys.Bandwidth() {
		t.Errorf("cell size = %vx%v", cells[0].W, cells[0].H)
	}
}

func TestNormalizedValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []any
		want   []float64
	}{
		{"range", []any{0, 5, 10}, []float64{0, 0.5, 1}},
		{"negative", []any{-4, 0, 4}, []float64{0, 0.5, 1}},
		{"degenerate", []any{3, 3, 3}, []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var data []engine.Record
			for i, v := range tt.values {
				data = append(data, engine.Record{"x": string(rune('a' + i)), "y": "r", "value": v})
			}
			c, _, _ := setup(t, Config{Common: engine.Common{Data: data}})
			for i, cell := range c.ProcessedData() {
				if math.Abs(cell.Normalized-tt.want[i]) > 1e-9 {
					t.Errorf("cell %d normalized = %v, want %v", i, cell.Normalized, tt.want[i])
				}
			}
		})
	}
}

func TestLastDuplicateWins(t *testing.T) {
	t.Parallel()

	data := []engine.Record{
		{"x": "a", "y": "b", "value": 1},
		{"x": "a", "y": "b", "value": 9},
		{"x": "c", "y": "b", "value": 5},
	}
	c, scene, _ := setup(t, Config{Common: engine.Common{Data: data}})
	if len(c.ProcessedData()) != 3 {
		t.Errorf("processed = %d, want 3", len(c.ProcessedData()))
	}
	cell, ok := c.CellAt("a", "b")
	if !ok || cell.Value != 9 || cell.Index != 1 {
		t.Errorf("CellAt(a,b) = %+v", cell)
	}
	if n := len(surface.Filter(scene.Elements(), surface.KindRect, "cell")); n != 2 {
		t.Errorf("cells = %d, want 2", n)
	}
}

func TestMissingValueSkipsCell(t *testing.T) {
	t.Parallel()

	data := []engine.Record{
		{"x": "a", "y": "r", "value": 1},
		{"x": "b", "y": "r", "value": "n/a"},
		{"x": "c", "y": "r", "value": 3},
	}
	c, scene, rec := setup(t, Config{Common: engine.Common{Data: data}})
	if c.ProcessedData()[1].Defined {
		t.Error("non-numeric value should be undefined")
	}
	if n := len(surface.Filter(scene.Elements(), surface.KindRect, "cell")); n != 2 {
		t.Errorf("cells = %d, want 2", n)
	}
	if len(rec.warnings) != 1 || !errors.Is(rec.warnings[0], engine.ErrAccessorResolution) {
		t.Errorf("warnings = %v", rec.warnings)
	}
	if c.Extent() != [2]float64{1, 3} {
		t.Errorf("extent = %v", c.Extent())
	}
}

func TestValueLabels(t *testing.T) {
	t.Parallel()

	c, scene, _ := setup(t, Config{
		Common:      engine.Common{Data: weekly()},
		ShowValues:  true,
		ValueFormat: func(v float64) string { return engine.FormatNumber(v, 0) + "%" },
	})
	labels := surface.Filter(scene.Elements(), surface.KindText, "cell-label")
	if len(labels) != 6 {
		t.Fatalf("labels = %d, want 6", len(labels))
	}
	byText := map[string]surface.Element{}
	for _, l := range labels {
		byText[l.Text] = l
	}
	// The darkest cell gets light text.
	if byText["10%"].Style.Fill != "#ffffff" || byText["0%"].Style.Fill == "#ffffff" {
		t.Errorf("label contrast: %+v / %+v", byText["10%"].Style, byText["0%"].Style)
	}
	if c.Config().ShowValues != true {
		t.Error("config lost ShowValues")
	}
}

func TestGradientLegend(t *testing.T) {
	t.Parallel()

	for _, pos := range []string{LegendTop, LegendBottom, LegendLeft, LegendRight} {
		t.Run(pos, func(t *testing.T) {
			t.Parallel()
			_, scene, _ := setup(t, Config{
				Common: engine.Common{Data: weekly(), Margin: engine.Margin{Top: 60, Right: 90, Bottom: 90, Left: 120}},
				Legend: Legend{Show: true, Position: pos, TickCount: 3, Title: "load"},
			})
			grads := surface.Filter(scene.Elements(), surface.KindGradient, "")
			if len(grads) != 1 || grads[0].ID != "chart-hm-heatmap-gradient" {
				t.Fatalf("gradients = %+v", grads)
			}
			if len(grads[0].Stops) != legendStops {
				t.Errorf("stops = %d", len(grads[0].Stops))
			}
			bars := surface.Filter(scene.Elements(), surface.KindRect, "legend-gradient")
			if len(bars) != 1 || bars[0].Style.Fill != "url(#chart-hm-heatmap-gradient)" {
				t.Fatalf("bars = %+v", bars)
			}
			horizontal := pos == LegendTop || pos == LegendBottom
			if horizontal != (bars[0].W > bars[0].H) {
				t.Errorf("%s bar is %vx%v", pos, bars[0].W, bars[0].H)
			}
			var ticks int
			for _, e := range scene.Elements() {
				if e.Layer == "legend-axis" && e.Class == "tick-label" {
					ticks++
				}
			}
			if ticks == 0 {
				t.Error("legend has no tick labels")
			}
			if len(surface.Filter(scene.Elements(), surface.KindText, "legend-title")) != 1 {
				t.Error("legend title missing")
			}
		})
	}
}

func TestEmptyAndDestroy(t *testing.T) {
	t.Parallel()

	c, scene, rec := setup(t, Config{})
	if len(rec.errs) != 1 || len(c.ProcessedData()) != 0 || scene.Len() != 0 {
		t.Fatalf("errs=%d processed=%d drawn=%d", len(rec.errs), len(c.ProcessedData()), scene.Len())
	}

	c, scene, _ = setup(t, Config{Common: engine.Common{Data: weekly()}})
	if scene.Len() == 0 {
		t.Fatal("nothing drawn")
	}
	c.Destroy()
	if scene.Len() != 0 {
		t.Errorf("drawn after destroy = %d", scene.Len())
	}
}

func TestHoverCell(t *testing.T) {
	t.Parallel()

	var shown []string
	cfg := Config{Common: engine.Common{Data: weekly(), Width: 600, Height: 400}}
	cfg.Animation.Disabled = true
	c := New(cfg, engine.WithLogger(logging.Discard()), engine.WithCallbacks(engine.Callbacks{
		OnTooltipShow: func(_, _ float64, s string) { shown = append(shown, s) },
	}))
	if err := c.Initialize(surface.Box{}, surface.NewScene()); err != nil {
		t.Fatal(err)
	}
	x, _ := c.xs.Center("Tue")
	y, _ := c.ys.Center("pm")
	m := c.Frame().Margin
	if err := c.PointerMove(x+m.Left, y+m.Top); err != nil {
		t.Fatal(err)
	}
	if len(shown) != 1 || shown[0] != "Tue, pm: 7" {
		t.Errorf("tooltips = %v", shown)
	}
}
