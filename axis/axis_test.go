package axis

import (
	"math"
	"testing"

	"github.com/spektr-org/chartcore/scale"
	"github.com/spektr-org/chartcore/surface"
)

func TestRenderBottomBand(t *testing.T) {
	t.Parallel()

	s := surface.NewScene()
	sc := scale.NewBand([]string{"a", "b", "c"}, [2]float64{0, 300}, scale.BandOptions{})
	ticks := Render(s, sc, Options{
		Orientation: Bottom,
		Name:        "x-axis",
		Position:    200,
		DX:          40,
		DY:          10,
		Title:       "Category",
		TitleOffset: 35,
	})
	if len(ticks) != 3 {
		t.Fatalf("ticks = %d, want 3", len(ticks))
	}

	elems := s.Elements()
	if got := len(surface.Filter(elems, surface.KindLine, "tick")); got != 3 {
		t.Errorf("tick marks = %d, want 3", got)
	}
	labels := surface.Filter(elems, surface.KindText, "tick-label")
	if len(labels) != 3 {
		t.Fatalf("labels = %d, want 3", len(labels))
	}
	if labels[1].Text != "b" || labels[1].X != 150 {
		t.Errorf("label[1] = %q at %v, want b at 150", labels[1].Text, labels[1].X)
	}
	if labels[0].Y <= 200 {
		t.Errorf("bottom labels should sit below the axis line, y = %v", labels[0].Y)
	}
	domain := surface.Filter(elems, surface.KindLine, "domain")
	if len(domain) != 1 || domain[0].X != 0 || domain[0].X2 != 300 || domain[0].Y != 200 {
		t.Errorf("domain line = %+v", domain)
	}
	title := surface.Filter(elems, surface.KindText, "axis-title")
	if len(title) != 1 || title[0].Y != 235 || title[0].X != 150 {
		t.Errorf("title = %+v", title)
	}
	for _, e := range elems {
		if e.DX != 40 || e.DY != 10 || e.Layer != "x-axis" {
			t.Fatalf("element not translated/tagged: %+v", e)
		}
	}
}

func TestRenderLeftWithGrid(t *testing.T) {
	t.Parallel()

	s := surface.NewScene()
	sc := scale.NewLinear([]float64{0, 100}, [2]float64{200, 0}, scale.LinearOptions{Nice: true})
	ticks := Render(s, sc, Options{
		Orientation: Left,
		Grid:        true,
		GridLength:  300,
		Title:       "Value",
		TitleOffset: 40,
	})
	elems := s.Elements()
	grid := surface.Filter(elems, surface.KindLine, "grid")
	if len(grid) != len(ticks) {
		t.Fatalf("gridlines = %d, want %d", len(grid), len(ticks))
	}
	for _, g := range grid {
		if g.X != 0 || g.X2 != 300 || g.Y != g.Y2 {
			t.Errorf("gridline should span the plot horizontally: %+v", g)
		}
	}
	for _, l := range surface.Filter(elems, surface.KindText, "tick-label") {
		if l.X >= 0 || l.Style.Anchor != "end" {
			t.Errorf("left labels should sit left of the axis, end-anchored: %+v", l)
		}
	}
	title := surface.Filter(elems, surface.KindText, "axis-title")[0]
	if title.Style.Rotate != -90 || title.X != -40 {
		t.Errorf("left title = %+v", title)
	}
	// Gridlines are painted first so they sit beneath the axis.
	if elems[0].Class != "grid" {
		t.Errorf("first element = %s, want grid", elems[0].Class)
	}
}

func TestRenderExplicitTicksAndFormat(t *testing.T) {
	t.Parallel()

	s := surface.NewScene()
	sc := scale.NewLinear([]float64{0, 10}, [2]float64{0, 100}, scale.LinearOptions{})
	ticks := Render(s, sc, Options{
		Orientation: Top,
		TickValues:  []any{0.0, 5.0, 10.0, "junk"},
		Format:      func(v any) string { return "v" + scale.AsString(v) },
	})
	if len(ticks) != 3 {
		t.Fatalf("ticks = %d, want 3 (non-numeric skipped)", len(ticks))
	}
	if ticks[1].Label != "v5" || math.Abs(ticks[1].Pos-50) > 1e-9 {
		t.Errorf("tick[1] = %+v", ticks[1])
	}
	for _, l := range surface.Filter(s.Elements(), surface.KindText, "tick-label") {
		if l.Y >= 0 {
			t.Errorf("top labels should sit above the axis, y = %v", l.Y)
		}
	}
}

func TestRenderTruncatesAndSkipsLabels(t *testing.T) {
	t.Parallel()

	s := surface.NewScene()
	sc := scale.NewBand([]string{"a very long category label", "b"}, [2]float64{0, 100}, scale.BandOptions{})
	Render(s, sc, Options{Orientation: Bottom, MaxLabelWidth: 30})
	labels := surface.Filter(s.Elements(), surface.KindText, "tick-label")
	if len(labels) != 2 {
		t.Fatalf("labels = %d, want 2", len(labels))
	}
	if labels[0].Text == "a very long category label" {
		t.Error("long label should be truncated")
	}
}

func TestStyleMerge(t *testing.T) {
	t.Parallel()

	st := DefaultStyle().Merge(Style{FontSize: 9, GridColor: "#000"})
	if st.FontSize != 9 || st.GridColor != "#000" {
		t.Errorf("overrides not applied: %+v", st)
	}
	if st.TickLength != DefaultStyle().TickLength {
		t.Errorf("unset fields should keep defaults: %+v", st)
	}
}

func TestGridOnly(t *testing.T) {
	t.Parallel()

	s := surface.NewScene()
	sc := scale.NewLinear([]float64{0, 1}, [2]float64{0, 100}, scale.LinearOptions{})
	Grid(s, sc, Options{Orientation: Bottom, Position: 80, GridLength: 80})
	elems := s.Elements()
	if len(elems) == 0 {
		t.Fatal("no gridlines drawn")
	}
	for _, e := range elems {
		if e.Class != "grid" || e.Y != 80 || e.Y2 != 0 {
			t.Errorf("unexpected element %+v", e)
		}
	}
}
