package engine

import (
	"time"

	"github.com/spektr-org/chartcore/surface"
)

// Canvas is the surface handed to RenderChart. Elements are drawn in plot
// coordinates: the origin is the top-left corner of the plot area and the
// margin offset is applied on Draw.
type Canvas struct {
	s     surface.Surface
	frame Frame
	anim  Animation
	id    string
}

// NewCanvas wraps s for one render pass. Chart tests use it to drive
// RenderChart without a full lifecycle.
func NewCanvas(s surface.Surface, frame Frame, anim Animation, chartID string) *Canvas {
	return &Canvas{s: s, frame: frame, anim: anim, id: chartID}
}

// Draw implements surface.Surface.
func (c *Canvas) Draw(e surface.Element) {
	e.DX += c.frame.Margin.Left
	e.DY += c.frame.Margin.Top
	c.s.Draw(e)
}

// DrawAbsolute draws e in surface coordinates, ignoring the margin.
func (c *Canvas) DrawAbsolute(e surface.Element) {
	c.s.Draw(e)
}

// Clear implements surface.Surface.
func (c *Canvas) Clear() { c.s.Clear() }

// Len implements surface.Surface.
func (c *Canvas) Len() int { return c.s.Len() }

// Elements implements surface.Surface.
func (c *Canvas) Elements() []surface.Element { return c.s.Elements() }

// Frame returns the geometry of this pass.
func (c *Canvas) Frame() Frame { return c.frame }

// Width is the plot-area width.
func (c *Canvas) Width() float64 { return c.frame.InnerWidth }

// Height is the plot-area height.
func (c *Canvas) Height() float64 { return c.frame.InnerHeight }

// Transition returns the entry transition for the i-th element of a series,
// or nil when animation is disabled.
func (c *Canvas) Transition(i int) *surface.Transition {
	if c.anim.Disabled || (c.anim.Duration <= 0 && c.anim.Delay <= 0) {
		return nil
	}
	return &surface.Transition{
		Duration: c.anim.Duration,
		Delay:    c.anim.Delay * time.Duration(i),
	}
}

// UID derives an element id from the chart id, so gradients and clip paths
// of two charts on one page never collide.
func (c *Canvas) UID(name string) string {
	return "chart-" + c.id + "-" + name
}
