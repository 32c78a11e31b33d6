package settings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/chartcore/engine"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "render.yaml", `
width: 640
height: 360
margin:
  top: 10
  right: 10
  bottom: 30
  left: 40
axis:
  fontSize: 11
  textColor: "#111827"
colorScheme: Set2
log:
  level: debug
`)
	s, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if s.Width != 640 || s.Height != 360 {
		t.Errorf("size = %vx%v", s.Width, s.Height)
	}
	if s.Margin == nil || *s.Margin != (engine.Margin{Top: 10, Right: 10, Bottom: 30, Left: 40}) {
		t.Errorf("margin = %+v", s.Margin)
	}
	if s.Axis.FontSize != 11 || s.Axis.TextColor != "#111827" {
		t.Errorf("axis = %+v", s.Axis)
	}
	if s.ColorScheme != "Set2" {
		t.Errorf("ColorScheme = %s", s.ColorScheme)
	}
	if s.Log.Level != "debug" || s.Log.Format != "console" {
		t.Errorf("log = %+v, format should keep its default", s.Log)
	}
}

func TestLoadFileJSON(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "render.json", `{"width": 300, "colors": ["#ff0000", "#00ff00"], "log": {"format": "json"}}`)
	s, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if s.Width != 300 || s.Height != 0 || s.Margin != nil {
		t.Errorf("settings = %+v", s)
	}
	if strings.Join(s.Colors, ",") != "#ff0000,#00ff00" || s.Log.Format != "json" {
		t.Errorf("settings = %+v", s)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "none.yaml") }, ErrNotFound},
		{"extension", func(t *testing.T) string { return writeFile(t, "render.toml", "width = 1") }, ErrUnsupportedFormat},
		{"bad yaml", func(t *testing.T) string { return writeFile(t, "render.yaml", "width: [1, 2") }, ErrInvalidFormat},
		{"bad json", func(t *testing.T) string { return writeFile(t, "render.json", `{"width": "wide"}`) }, ErrInvalidFormat},
		{"negative size", func(t *testing.T) string { return writeFile(t, "render.yaml", "width: -5") }, ErrValidation},
		{"negative margin", func(t *testing.T) string { return writeFile(t, "render.yaml", "margin: {left: -1}") }, ErrValidation},
		{"log level", func(t *testing.T) string { return writeFile(t, "render.yaml", "log: {level: loud}") }, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewLoader().LoadFile(tt.path(t))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEnvExpansion(t *testing.T) {
	t.Setenv("CHART_WIDTH", "720")
	t.Setenv("CHART_EMPTY", "")

	s, err := NewLoader().Load(strings.NewReader("width: ${CHART_WIDTH}\nheight: ${CHART_HEIGHT:-240}\ncolorScheme: \"${CHART_EMPTY:-Blues}\"\n"), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != 720 || s.Height != 240 || s.ColorScheme != "Blues" {
		t.Errorf("settings = %+v", s)
	}

	_, err = NewLoader(WithStrictEnv(true)).Load(strings.NewReader("width: ${CHART_UNSET_WIDTH}\n"), FormatYAML)
	if !errors.Is(err, ErrMissingEnvVar) {
		t.Errorf("strict err = %v", err)
	}

	s, err = NewLoader(WithEnvExpansion(false)).Load(strings.NewReader(`{"colorScheme": "${CHART_WIDTH}"}`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if s.ColorScheme != "${CHART_WIDTH}" {
		t.Errorf("expansion disabled, got %q", s.ColorScheme)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	common := engine.Common{Width: 100, Height: 50}
	Default().Apply(&common)
	if common.Width != 100 || common.Height != 50 || common.Margin != (engine.Margin{}) {
		t.Errorf("defaults changed common: %+v", common)
	}
	if !common.Animation.Disabled {
		t.Error("host output should not animate")
	}

	m := engine.Margin{Top: 1, Right: 2, Bottom: 3, Left: 4}
	Settings{Width: 640, Margin: &m}.Apply(&common)
	if common.Width != 640 || common.Height != 50 || common.Margin != m {
		t.Errorf("common = %+v", common)
	}

	Settings{Margin: &engine.Margin{}}.Apply(&common)
	if common.Margin != engine.NoMargin {
		t.Errorf("explicit zero margin = %+v, want NoMargin", common.Margin)
	}
}
