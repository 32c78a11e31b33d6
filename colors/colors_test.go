package colors

import (
	"image/color"
	"strings"
	"testing"
)

func TestParseHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}, false},
		{"00ff00", color.RGBA{0, 255, 0, 255}, false},
		{"#abc", color.RGBA{0xaa, 0xbb, 0xcc, 255}, false},
		{"#000000ff", color.RGBA{0, 0, 0, 255}, false},
		{"#12", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	t.Parallel()

	for _, h := range []string{"#4f46e5", "#000000", "#ffffff"} {
		c, err := ParseHex(h)
		if err != nil {
			t.Fatal(err)
		}
		if got := Hex(c); got != h {
			t.Errorf("Hex(ParseHex(%q)) = %q", h, got)
		}
	}
}

func TestSequential(t *testing.T) {
	t.Parallel()

	pal, err := Continuous("", []string{"#000000", "#ffffff"}, DefaultSequential)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSequential([2]float64{10, 20}, pal)

	if got := s.ColorFor(10); got != "#000000" {
		t.Errorf("ColorFor(min) = %s, want #000000", got)
	}
	if got := s.ColorFor(20); got != "#ffffff" {
		t.Errorf("ColorFor(max) = %s, want #ffffff", got)
	}
	if got := s.ColorFor(99); got != "#ffffff" {
		t.Errorf("values above the domain clamp, got %s", got)
	}
	if s.ColorFor(15) != s.ColorFor(15.0) {
		t.Error("ColorFor should be deterministic")
	}
	if got := s.Normalize(15); got != 0.5 {
		t.Errorf("Normalize(15) = %v, want 0.5", got)
	}
}

func TestSequentialDegenerate(t *testing.T) {
	t.Parallel()

	pal, _ := Continuous("", []string{"#000000", "#ffffff"}, DefaultSequential)
	s := NewSequential([2]float64{5, 5}, pal)
	if got := s.ColorFor(5); got != "#000000" {
		t.Errorf("degenerate domain = %s, want low end", got)
	}
}

func TestDivergingMidpoint(t *testing.T) {
	t.Parallel()

	pal, _ := Continuous("", []string{"#ff0000", "#ffffff", "#0000ff"}, DefaultDiverging)
	d := NewDiverging(-1, 0, 1, pal)

	tests := []struct {
		v    float64
		want string
	}{
		{-1, "#ff0000"},
		{1, "#0000ff"},
		{-5, "#ff0000"},
	}
	for _, tt := range tests {
		if got := d.ColorFor(tt.v); got != tt.want {
			t.Errorf("ColorFor(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
	if got := d.Normalize(0); got != 0.5 {
		t.Errorf("Normalize(0) = %v, want 0.5", got)
	}
	if got := d.Normalize(-0.5); got != 0.25 {
		t.Errorf("Normalize(-0.5) = %v, want 0.25", got)
	}
}

func TestOrdinalCycles(t *testing.T) {
	t.Parallel()

	o := NewOrdinal([]string{"a", "b", "c", "a"}, []string{"#111111", "#222222"})
	if len(o.Domain()) != 3 {
		t.Fatalf("Domain() = %v, want 3 unique", o.Domain())
	}
	want := map[string]string{"a": "#111111", "b": "#222222", "c": "#111111"}
	for k, w := range want {
		if got := o.ColorFor(k); got != w {
			t.Errorf("ColorFor(%s) = %s, want %s", k, got, w)
		}
	}
	if o.ColorFor("zzz") != o.ColorFor("zzz") {
		t.Error("unknown categories should be deterministic")
	}
}

func TestOrdinalDefaultPalette(t *testing.T) {
	t.Parallel()

	o := NewOrdinal([]string{"x"}, nil)
	if got := o.ColorFor("x"); got != DefaultPalette[0] {
		t.Errorf("ColorFor = %s, want %s", got, DefaultPalette[0])
	}
}

func TestNamedSchemes(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Blues", "rdbu", Viridis} {
		pal, err := Continuous(name, nil, DefaultSequential)
		if err != nil {
			t.Fatalf("Continuous(%q): %v", name, err)
		}
		lo := Hex(pal.Map(0))
		hi := Hex(pal.Map(1))
		if lo == hi {
			t.Errorf("%s: ends should differ, both %s", name, lo)
		}
	}

	// Unknown names fall back.
	pal, err := Continuous("no-such-scheme", nil, DefaultSequential)
	if err != nil || pal == nil {
		t.Fatalf("fallback failed: %v", err)
	}

	if _, ok := Scheme("Set2"); !ok {
		t.Error("Set2 should be a known scheme")
	}
	names := strings.Join(SchemeNames(), ",")
	if !strings.Contains(names, Viridis) {
		t.Errorf("SchemeNames() missing viridis: %s", names)
	}
}

func TestReverse(t *testing.T) {
	t.Parallel()

	pal, _ := Continuous("", []string{"#000000", "#ffffff"}, DefaultSequential)
	r := Reverse(pal)
	if got := Hex(r.Map(0)); got != "#ffffff" {
		t.Errorf("reversed low end = %s, want #ffffff", got)
	}
	if got := Hex(Reverse(r).Map(0)); got != "#000000" {
		t.Errorf("double reverse low end = %s, want #000000", got)
	}
}

func TestStops(t *testing.T) {
	t.Parallel()

	pal, _ := Continuous("", []string{"#000000", "#ffffff"}, DefaultSequential)
	stops := NewSequential([2]float64{0, 1}, pal).Stops(5)
	if len(stops) != 5 || stops[0] != "#000000" || stops[4] != "#ffffff" {
		t.Errorf("Stops(5) = %v", stops)
	}
}
