// Package chartcore provides framework-independent 2-D chart cores.
//
// Usage:
//
//	import "github.com/spektr-org/chartcore/charts/line"
//
//	c := line.New(line.Config{
//	    Common: engine.Common{Data: records, Width: 640, Height: 320},
//	    X:      engine.Key("month"),
//	    Y:      engine.Key("revenue"),
//	})
//	err := c.Initialize(container, surface.NewScene())
//
// Every chart runs the same lifecycle: validate, process data, build
// scales, render. Data arrives as generic records read through accessors,
// and drawing goes through the surface package, so a host can render to
// SVG, a canvas or anything else that accepts elements.
//
// The helpers package loads CSV, JSON and XLSX files into records, and
// cmd/chartcore renders charts from the command line.
package chartcore
