// Package surface defines the drawing surface chart cores render into.
//
// A chart core never talks to a UI toolkit. It appends Elements to a Surface
// supplied by its host; the host decides how those elements reach a screen.
// Scene is the in-memory implementation used by tests and by the SVG writer.
package surface

import "time"

// Kind identifies the primitive an Element draws.
type Kind string

const (
	KindRect     Kind = "rect"
	KindCircle   Kind = "circle"
	KindLine     Kind = "line"
	KindPath     Kind = "path"
	KindText     Kind = "text"
	KindGradient Kind = "gradient"
)

// Style holds presentation attributes. Zero values are omitted on output.
type Style struct {
	Fill        string
	FillOpacity float64
	Stroke      string
	StrokeWidth float64
	Opacity     float64
	Dash        string

	FontSize   float64
	FontFamily string
	FontWeight string
	Anchor     string // start, middle, end
	Baseline   string // dominant-baseline
	Rotate     float64
}

// Transition is a declarative animation request. The surface's own transition
// mechanism runs it; the engine never waits for it.
type Transition struct {
	Duration time.Duration
	Delay    time.Duration
}

// Stop is one color stop of a gradient.
type Stop struct {
	Offset float64 // 0..1
	Color  string
}

// Element is a single drawn primitive.
type Element struct {
	Kind  Kind
	ID    string
	Class string
	Layer string

	// Geometry. Which fields are meaningful depends on Kind:
	// rect uses X, Y, W, H with R as its corner radius; circle uses X, Y, R;
	// line uses X, Y, X2, Y2; text uses X, Y; gradient uses X, Y, X2, Y2 as
	// its vector on [0,1].
	X, Y, X2, Y2 float64
	W, H, R      float64
	D            string
	Text         string
	Stops        []Stop

	// DX and DY translate the element; charts draw in plot-area coordinates
	// and offset by the margin.
	DX, DY float64

	Style      Style
	Transition *Transition

	// Tooltip is the hover content. Elements with a tooltip take part in
	// hit testing.
	Tooltip string
}

// Surface is a drawable target owned by the host.
type Surface interface {
	// Draw appends an element.
	Draw(e Element)
	// Clear removes every drawn element.
	Clear()
	// Len reports how many elements are drawn.
	Len() int
	// Elements returns the drawn elements in paint order.
	Elements() []Element
}

// Container is the host element a chart is mounted in.
type Container interface {
	// Bounds returns the container's content size in pixels.
	Bounds() (width, height float64)
}

// Box is a fixed-size Container.
type Box struct {
	Width, Height float64
}

// Bounds implements Container.
func (b Box) Bounds() (float64, float64) { return b.Width, b.Height }
