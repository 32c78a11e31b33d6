package engine

import (
	"time"

	"github.com/spektr-org/chartcore/axis"
)

// ============================================================================
// ENGINE TYPES — Records, dimensions and the shared config block
// ============================================================================
// Every chart core embeds Common in its own Config. Config values are plain
// structs: a chart copies, mutates and replaces them wholesale, so nested
// values such as Margin never lose unspecified fields.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is one raw input row. No shape is assumed beyond "keyed values".
// The engine never mutates a Record; processed points hold it by reference.
type Record map[string]any

// Get returns the value stored under key and whether the key was present.
func (r Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r[key]
	return v, ok
}

// ============================================================================
// DIMENSIONS
// ============================================================================

// Margin is the space between the container edge and the plot area.
type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// NoMargin requests a plot area filling the whole frame. A zero Margin
// cannot, because it selects the chart's default; negative sides resolve
// to zero.
var NoMargin = Margin{Top: -1, Right: -1, Bottom: -1, Left: -1}

// DefaultMargin leaves room for a left and a bottom axis.
var DefaultMargin = Margin{Top: 20, Right: 30, Bottom: 40, Left: 50}

// Default outer size used when neither the config nor the container has one.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 400.0
)

// Frame is the resolved geometry of one render pass.
type Frame struct {
	Width, Height           float64
	Margin                  Margin
	InnerWidth, InnerHeight float64
}

// Animation is a declarative transition request. The engine hands it to the
// surface and never waits for it.
type Animation struct {
	Duration time.Duration `json:"duration" yaml:"duration"`
	Delay    time.Duration `json:"delay" yaml:"delay"` // per element
	Disabled bool          `json:"disabled" yaml:"disabled"`
}

// DefaultAnimation matches the stock 750ms entry transition.
var DefaultAnimation = Animation{Duration: 750 * time.Millisecond}

// ============================================================================
// COMMON CONFIG
// ============================================================================

// Common is the part of every chart configuration the engine itself reads.
type Common struct {
	Data []Record

	// Width and Height are the outer size. Zero means "use the container".
	Width  float64
	Height float64

	// Margin is used as-is when set; a zero Margin selects the chart's
	// default. Use NoMargin for an explicit zero margin.
	Margin Margin

	Animation Animation

	// AxisStyle overrides the shared axis style field by field.
	AxisStyle axis.Style
}

// resolveFrame computes the frame for c inside a container of the given
// bounds. Inner dimensions never go negative.
func resolveFrame(c Common, fallback Margin, cw, ch float64) Frame {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = cw
	}
	if h <= 0 {
		h = ch
	}
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	m := c.Margin
	if m == (Margin{}) {
		m = fallback
	}
	m = Margin{Top: max(0, m.Top), Right: max(0, m.Right), Bottom: max(0, m.Bottom), Left: max(0, m.Left)}
	return Frame{
		Width:       w,
		Height:      h,
		Margin:      m,
		InnerWidth:  max(0, w-m.Left-m.Right),
		InnerHeight: max(0, h-m.Top-m.Bottom),
	}
}
