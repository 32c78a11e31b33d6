// Package settings loads the reference host's render settings from YAML or
// JSON files.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/chartcore/axis"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/internal/logging"
)

// Settings errors.
var (
	ErrNotFound          = errors.New("settings file not found")
	ErrUnsupportedFormat = errors.New("unsupported settings format")
	ErrInvalidFormat     = errors.New("invalid settings format")
	ErrMissingEnvVar     = errors.New("missing environment variable")
	ErrValidation        = errors.New("settings validation failed")
)

// Settings are the host-level overrides applied to every chart the host
// renders. Zero values leave the chart's own defaults in place.
type Settings struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	// Margin replaces the chart's default margin when present.
	Margin *engine.Margin `json:"margin,omitempty" yaml:"margin,omitempty"`
	Axis   axis.Style     `json:"axis" yaml:"axis"`

	ColorScheme string   `json:"colorScheme,omitempty" yaml:"colorScheme,omitempty"`
	Colors      []string `json:"colors,omitempty" yaml:"colors,omitempty"`

	Log Log `json:"log" yaml:"log"`
}

// Log selects the host's log output.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Default returns the settings used without a file.
func Default() Settings {
	d := logging.DefaultConfig()
	return Settings{Log: Log{Level: d.Level, Format: d.Format}}
}

// Apply copies the size, margin and axis style into a chart's common
// config. Animation is disabled since the host writes static output.
func (s Settings) Apply(c *engine.Common) {
	if s.Width > 0 {
		c.Width = s.Width
	}
	if s.Height > 0 {
		c.Height = s.Height
	}
	switch {
	case s.Margin == nil:
	case *s.Margin == (engine.Margin{}):
		c.Margin = engine.NoMargin
	default:
		c.Margin = *s.Margin
	}
	c.AxisStyle = s.Axis
	c.Animation.Disabled = true
}

// Logging returns the logger configuration for these settings.
func (s Settings) Logging(out io.Writer) logging.Config {
	return logging.Config{Level: s.Log.Level, Format: s.Log.Format, Output: out}
}

// Validate reports the first problem with s.
func (s Settings) Validate() error {
	switch {
	case s.Width < 0 || s.Height < 0:
		return fmt.Errorf("%w: negative size %vx%v", ErrValidation, s.Width, s.Height)
	case s.Margin != nil && (s.Margin.Top < 0 || s.Margin.Right < 0 || s.Margin.Bottom < 0 || s.Margin.Left < 0):
		return fmt.Errorf("%w: negative margin %+v", ErrValidation, *s.Margin)
	}
	switch s.Log.Level {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrValidation, s.Log.Level)
	}
	switch s.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrValidation, s.Log.Format)
	}
	return nil
}

// ============================================================================
// LOADER
// ============================================================================

// Format is a settings file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Loader reads settings files.
type Loader struct {
	// ExpandEnv replaces ${VAR} and ${VAR:-default} references before
	// parsing.
	ExpandEnv bool
	// StrictEnv fails on unset variables without a default.
	StrictEnv bool
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithEnvExpansion enables or disables environment expansion.
func WithEnvExpansion(enabled bool) LoaderOption {
	return func(l *Loader) { l.ExpandEnv = enabled }
}

// WithStrictEnv makes unset variables an error.
func WithStrictEnv(enabled bool) LoaderOption {
	return func(l *Loader) { l.StrictEnv = enabled }
}

// NewLoader returns a loader with environment expansion on.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{ExpandEnv: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFile loads settings from path, picking the format by extension.
func (l *Loader) LoadFile(path string) (Settings, error) {
	var format Format
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return Settings{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Settings{}, fmt.Errorf("failed to open settings file: %w", err)
	}
	defer f.Close()
	return l.Load(f, format)
}

// Load parses settings from r. Values absent from the input keep their
// Default.
func (l *Loader) Load(r io.Reader, format Format) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if l.ExpandEnv {
		expanded, err := expandEnv(string(data), l.StrictEnv)
		if err != nil {
			return Settings{}, err
		}
		data = []byte(expanded)
	}

	s := Default()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return Settings{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
