package scale

import (
	"math"
	"sort"
	"testing"
	"time"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExtent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		want   [2]float64
	}{
		{"empty", nil, [2]float64{0, 0}},
		{"single", []float64{4}, [2]float64{4, 4}},
		{"mixed", []float64{3, -2, 8, 1}, [2]float64{-2, 8}},
		{"ignores NaN", []float64{math.NaN(), 5, 1}, [2]float64{1, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Extent(tt.values); got != tt.want {
				t.Errorf("Extent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLinearMapAndInvert(t *testing.T) {
	t.Parallel()

	s := NewLinear([]float64{0, 50, 100}, [2]float64{0, 500}, LinearOptions{})
	if got := s.Map(50); !approx(got, 250) {
		t.Errorf("Map(50) = %v, want 250", got)
	}
	if got := s.Invert(100); !approx(got, 20) {
		t.Errorf("Invert(100) = %v, want 20", got)
	}

	// Vertical scales are inverted.
	v := NewLinear([]float64{0, 10}, [2]float64{200, 0}, LinearOptions{})
	if got := v.Map(0); !approx(got, 200) {
		t.Errorf("vertical Map(0) = %v, want 200", got)
	}
	if got := v.Map(10); !approx(got, 0) {
		t.Errorf("vertical Map(10) = %v, want 0", got)
	}
}

func TestLinearDegenerateCollapses(t *testing.T) {
	t.Parallel()

	for _, values := range [][]float64{nil, {7, 7, 7}} {
		s := NewLinear(values, [2]float64{0, 300}, LinearOptions{Nice: true})
		for _, v := range []float64{-1, 0, 7, 100} {
			got := s.Map(v)
			if math.IsNaN(got) || !approx(got, 150) {
				t.Errorf("Map(%v) on %v = %v, want 150", v, values, got)
			}
		}
		if got := s.Invert(10); math.IsNaN(got) {
			t.Errorf("Invert on degenerate domain = NaN")
		}
		if ticks := s.Ticks(5, nil); len(ticks) != 1 {
			t.Errorf("degenerate Ticks len = %d, want 1", len(ticks))
		}
	}
}

func TestNice(t *testing.T) {
	t.Parallel()

	got := Nice([2]float64{0.3, 9.7}, 10)
	if got != [2]float64{0, 10} {
		t.Errorf("Nice([0.3,9.7]) = %v, want [0 10]", got)
	}
	if got := Nice([2]float64{5, 5}, 10); got != [2]float64{5, 5} {
		t.Errorf("Nice degenerate = %v, want unchanged", got)
	}
}

func TestLinearFixedDomain(t *testing.T) {
	t.Parallel()

	fixed := [2]float64{0, 100}
	s := NewLinear([]float64{3, 1000}, [2]float64{0, 100}, LinearOptions{Fixed: &fixed, Nice: true})
	if s.Domain() != fixed {
		t.Errorf("Domain() = %v, want %v", s.Domain(), fixed)
	}
}

func TestLinearTicks(t *testing.T) {
	t.Parallel()

	s := NewLinear([]float64{0, 100}, [2]float64{0, 400}, LinearOptions{})
	ticks := s.Ticks(10, nil)
	if len(ticks) == 0 || len(ticks) > 10 {
		t.Fatalf("Ticks len = %d, want 1..10", len(ticks))
	}
	if !sort.SliceIsSorted(ticks, func(i, j int) bool { return ticks[i].Pos < ticks[j].Pos }) {
		t.Error("ticks should be increasing")
	}
	for _, tk := range ticks {
		v := tk.Value.(float64)
		if v < 0 || v > 100 {
			t.Errorf("tick %v outside domain", v)
		}
		if tk.Label == "" {
			t.Error("tick label should not be empty")
		}
	}

	custom := s.Ticks(10, func(v any) string { return "x" })
	if custom[0].Label != "x" {
		t.Errorf("custom formatter label = %q, want x", custom[0].Label)
	}
}

func TestFormatStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v, step float64
		want    string
	}{
		{20, 10, "20"},
		{0.5, 0.5, "0.5"},
		{0.25, 0.25, "0.25"},
		{1.2, 0.2, "1.2"},
		{-0.0, 1, "0"},
	}
	for _, tt := range tests {
		if got := FormatStep(tt.v, tt.step); got != tt.want {
			t.Errorf("FormatStep(%v, %v) = %q, want %q", tt.v, tt.step, got, tt.want)
		}
	}
}

func TestBand(t *testing.T) {
	t.Parallel()

	b := NewBand([]string{"b", "a", "b", "c"}, [2]float64{0, 300}, BandOptions{})
	if got := b.Domain(); len(got) != 3 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("Domain() = %v, want first-seen [b a c]", got)
	}
	if !approx(b.Bandwidth(), 100) || !approx(b.Step(), 100) {
		t.Errorf("Bandwidth/Step = %v/%v, want 100/100", b.Bandwidth(), b.Step())
	}
	if p, ok := b.Map("a"); !ok || !approx(p, 100) {
		t.Errorf("Map(a) = %v,%v want 100,true", p, ok)
	}
	if c, _ := b.Center("c"); !approx(c, 250) {
		t.Errorf("Center(c) = %v, want 250", c)
	}
	if _, ok := b.Map("zzz"); ok {
		t.Error("unknown category should report false")
	}
}

func TestBandPadding(t *testing.T) {
	t.Parallel()

	b := NewBand([]string{"a", "b"}, [2]float64{0, 100}, BandOptions{PaddingInner: 0.5})
	// step = 100 / (2 - 0.5) = 66.67, bandwidth = 33.33
	if !approx(b.Step(), 100/1.5) {
		t.Errorf("Step() = %v", b.Step())
	}
	if !approx(b.Bandwidth(), 100/3.0) {
		t.Errorf("Bandwidth() = %v", b.Bandwidth())
	}
	last, _ := b.Map("b")
	if !approx(last+b.Bandwidth(), 100) {
		t.Errorf("last band should end at range end, ends at %v", last+b.Bandwidth())
	}
}

func TestBandReversed(t *testing.T) {
	t.Parallel()

	b := NewBand([]string{"a", "b"}, [2]float64{100, 0}, BandOptions{})
	a, _ := b.Map("a")
	bb, _ := b.Map("b")
	if !approx(a, 50) || !approx(bb, 0) {
		t.Errorf("reversed Map = %v,%v want 50,0", a, bb)
	}
}

func TestBandEmpty(t *testing.T) {
	t.Parallel()

	b := NewBand(nil, [2]float64{0, 100}, BandOptions{})
	if b.Bandwidth() != 0 {
		t.Errorf("empty Bandwidth = %v, want 0", b.Bandwidth())
	}
	if p, _ := b.Map("x"); math.IsNaN(p) {
		t.Error("empty band should not map to NaN")
	}
}

func TestTimeScale(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	s := NewTime([]time.Time{t1, t0}, [2]float64{0, 1000})

	if got := s.Map(t0); !approx(got, 0) {
		t.Errorf("Map(t0) = %v, want 0", got)
	}
	if got := s.Map(t1); !approx(got, 1000) {
		t.Errorf("Map(t1) = %v, want 1000", got)
	}
	if got := s.Invert(1000); !got.Equal(t1) {
		t.Errorf("Invert(1000) = %v, want %v", got, t1)
	}

	ticks := s.Ticks(6, nil)
	if len(ticks) == 0 || len(ticks) > 6 {
		t.Fatalf("Ticks len = %d, want 1..6", len(ticks))
	}
	for _, tk := range ticks {
		ts := tk.Value.(time.Time)
		if ts.Before(t0) || ts.After(t1) {
			t.Errorf("tick %v outside domain", ts)
		}
	}
}

func TestTimeScaleDegenerate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s := NewTime([]time.Time{ts, ts}, [2]float64{0, 100})
	if got := s.Map(ts); !approx(got, 50) {
		t.Errorf("degenerate time Map = %v, want 50", got)
	}
	if ticks := s.Ticks(5, nil); len(ticks) != 1 {
		t.Errorf("degenerate time ticks = %d, want 1", len(ticks))
	}

	empty := NewTime(nil, [2]float64{0, 100})
	if ticks := empty.Ticks(5, nil); len(ticks) != 0 {
		t.Errorf("empty time ticks = %d, want 0", len(ticks))
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []any
		want   Kind
	}{
		{"empty", nil, Numeric},
		{"numbers", []any{1, 2.5, "3"}, Numeric},
		{"times", []any{time.Now(), time.Now()}, Temporal},
		{"date strings", []any{"2024-01-01", "2024-02-01"}, Temporal},
		{"year strings are numbers", []any{"2023", "2024"}, Numeric},
		{"labels", []any{"a", 1}, Categorical},
		{"nil ignored", []any{nil, 4}, Numeric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := KindOf(tt.values); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestAsFloat(t *testing.T) {
	t.Parallel()

	if v, ok := AsFloat(" 2.5 "); !ok || v != 2.5 {
		t.Errorf("AsFloat(string) = %v,%v", v, ok)
	}
	if _, ok := AsFloat(math.NaN()); ok {
		t.Error("NaN should not convert")
	}
	if _, ok := AsFloat(nil); ok {
		t.Error("nil should not convert")
	}
	if v, ok := AsFloat(int64(7)); !ok || v != 7 {
		t.Errorf("AsFloat(int64) = %v,%v", v, ok)
	}
}
