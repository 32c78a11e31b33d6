package engine

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a chart core reports wraps exactly one of these,
// so hosts can branch with errors.Is.
var (
	// ErrInvalidData indicates empty or malformed input records.
	ErrInvalidData = errors.New("invalid data")

	// ErrAccessorResolution indicates a missing key or a failing accessor.
	// It is only ever reported as a warning.
	ErrAccessorResolution = errors.New("accessor resolution failed")

	// ErrDegenerateGeometry indicates a computation that produced no
	// drawable geometry (zero totals, NaN widths).
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrHierarchyStructure indicates orphaned or cyclic parent references.
	ErrHierarchyStructure = errors.New("hierarchy structure error")

	// ErrNotInitialized indicates a call that needs a bound surface.
	ErrNotInitialized = errors.New("chart not initialized")

	// ErrDestroyed indicates a call on a destroyed chart.
	ErrDestroyed = errors.New("chart destroyed")

	// ErrAlreadyInitialized indicates a second Initialize call.
	ErrAlreadyInitialized = errors.New("chart already initialized")

	// ErrNodeNotFound indicates an unknown hierarchy node id.
	ErrNodeNotFound = errors.New("node not found")
)

var kinds = []error{
	ErrInvalidData,
	ErrAccessorResolution,
	ErrDegenerateGeometry,
	ErrHierarchyStructure,
	ErrNotInitialized,
	ErrDestroyed,
	ErrAlreadyInitialized,
	ErrNodeNotFound,
}

// ChartError records which chart and lifecycle stage produced an error.
type ChartError struct {
	Chart string
	Stage string
	Err   error
}

// NewChartError wraps err with its chart type and stage.
func NewChartError(chart, stage string, err error) *ChartError {
	return &ChartError{Chart: chart, Stage: stage, Err: err}
}

func (e *ChartError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("%s: %v", e.Chart, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Chart, e.Stage, e.Err)
}

func (e *ChartError) Unwrap() error {
	return e.Err
}

// Kind returns the sentinel error kind wrapped by e, or nil.
func (e *ChartError) Kind() error {
	for _, k := range kinds {
		if errors.Is(e.Err, k) {
			return k
		}
	}
	return nil
}

// Errorf returns an error of the given kind with a formatted detail message.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
