package engine

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/felixgeelhaar/statekit"

	"github.com/spektr-org/chartcore/internal/logging"
	"github.com/spektr-org/chartcore/surface"
)

// ============================================================================
// LIFECYCLE — Shared chart core state machine
// ============================================================================
// Entry points: Initialize, Rerun (behind each chart's UpdateConfig),
// Destroy, PointerMove/PointerLeave.
//
// Pipeline, run synchronously to completion:
//   1. Validate input (non-empty record list unless the chart says otherwise)
//   2. ProcessData: resolve accessors into fresh processed points
//   3. CreateScales: build immutable scales for the frame
//   4. RenderChart: draw into a Canvas; animations are only scheduled
//
// Every stage is guarded: an error or panic resets the chart's caches, clears
// the surface and is reported through OnError. Nothing escapes as a panic.
// ============================================================================

// Stage names used in errors and logs.
const (
	StageValidate     = "validate"
	StageProcessData  = "processData"
	StageCreateScales = "createScales"
	StageRenderChart  = "renderChart"
	StageInitialize   = "initialize"
	StageUpdate       = "updateConfig"
	StagePointer      = "pointer"
	StageZoom         = "zoom"
)

// Pipeline is what a concrete chart core supplies to Base.
type Pipeline interface {
	// ChartType names the chart family, e.g. "heatmap".
	ChartType() string
	// Common returns the engine-visible part of the current config.
	Common() Common
	// ProcessData rebuilds the processed points from scratch.
	ProcessData(r *Resolver) error
	// CreateScales rebuilds scales for the frame.
	CreateScales(f Frame) error
	// RenderChart draws the chart. It must not block on animations.
	RenderChart(c *Canvas) error
	// Reset drops processed data and scales.
	Reset()
}

// Validator may be implemented by a Pipeline whose input is not a plain
// record list, such as a nested hierarchy.
type Validator interface {
	Validate() error
}

// Base implements the lifecycle for a Pipeline. Chart cores embed it.
type Base struct {
	p         Pipeline
	opts      *options
	log       *bolt.Logger
	machine   *lifecycle
	container surface.Container
	surf      surface.Surface
	frame     Frame
	tooltip   string
}

// NewBase binds p to a fresh lifecycle in the created state.
func NewBase(p Pipeline, opts ...Option) *Base {
	o := applyOptions(opts)
	return &Base{
		p:       p,
		opts:    o,
		log:     o.logger,
		machine: newLifecycle(),
	}
}

// ID returns the chart instance id.
func (b *Base) ID() string { return b.opts.id }

// State returns the lifecycle state.
func (b *Base) State() State { return b.machine.state() }

// Frame returns the geometry of the last render pass.
func (b *Base) Frame() Frame { return b.frame }

// Bound reports whether a surface is attached.
func (b *Base) Bound() bool { return b.surf != nil }

// Initialize binds the container and surface and runs the pipeline. Errors
// are reported through OnError and also returned. After a pipeline failure
// the chart stays initialized and can be updated or destroyed.
func (b *Base) Initialize(container surface.Container, s surface.Surface) error {
	switch b.State() {
	case StateDestroyed:
		return b.Fail(StageInitialize, ErrDestroyed)
	case StateCreated:
	default:
		return b.Fail(StageInitialize, ErrAlreadyInitialized)
	}
	if s == nil {
		return b.Fail(StageInitialize, Errorf(ErrNotInitialized, "nil surface"))
	}
	b.container = container
	b.surf = s
	b.transition(eventInit)

	if err := b.run(); err != nil {
		return err
	}
	b.transition(eventRender)
	return nil
}

// Rerun re-executes the pipeline after a config change. Before Initialize it
// is a no-op; after Destroy it reports ErrDestroyed.
func (b *Base) Rerun() error {
	switch b.State() {
	case StateDestroyed:
		return b.Fail(StageUpdate, ErrDestroyed)
	case StateCreated:
		return nil
	}
	if err := b.run(); err != nil {
		return err
	}
	if b.State() == StateInitialized {
		b.transition(eventRender)
	} else {
		b.transition(eventUpdate)
	}
	return nil
}

// Destroy removes every drawn element and releases the container and
// surface. It is safe to call more than once.
func (b *Base) Destroy() {
	if b.State() == StateDestroyed {
		return
	}
	if b.surf != nil {
		b.surf.Clear()
	}
	b.p.Reset()
	b.surf = nil
	b.container = nil
	b.tooltip = ""
	b.transition(eventDestroy)
}

// PointerMove hit-tests the drawn elements at (x, y), in surface
// coordinates, and shows or hides the tooltip.
func (b *Base) PointerMove(x, y float64) error {
	if err := b.Ready(StagePointer); err != nil {
		return err
	}
	e, ok := surface.HitTest(b.surf.Elements(), x, y)
	if !ok {
		b.hideTooltip()
		return nil
	}
	b.tooltip = e.Tooltip
	if cb := b.opts.callbacks.OnTooltipShow; cb != nil {
		cb(x, y, e.Tooltip)
	}
	return nil
}

// PointerLeave hides a visible tooltip.
func (b *Base) PointerLeave() error {
	if err := b.Ready(StagePointer); err != nil {
		return err
	}
	b.hideTooltip()
	return nil
}

// Warn reports a recoverable data-quality issue.
func (b *Base) Warn(err error) {
	if err == nil {
		return
	}
	logging.With(b.log.Warn()).
		Add(logging.ChartType(b.p.ChartType()), logging.ChartID(b.ID()), logging.ErrorField(err)).
		Msg("chart warning")
	if cb := b.opts.callbacks.OnWarning; cb != nil {
		cb(err)
	}
}

// Ready reports, through Fail, a call made before Initialize or after
// Destroy. Chart methods outside the pipeline call it first.
func (b *Base) Ready(stage string) error {
	switch {
	case b.State() == StateDestroyed:
		return b.Fail(stage, ErrDestroyed)
	case b.surf == nil:
		return b.Fail(stage, ErrNotInitialized)
	}
	return nil
}

// Fail logs err, wraps it in a ChartError for stage and delivers it to
// OnError. The ChartError is returned as well.
func (b *Base) Fail(stage string, err error) error {
	ce := NewChartError(b.p.ChartType(), stage, err)
	logging.With(b.log.Error()).
		Add(logging.ChartType(ce.Chart), logging.ChartID(b.ID()), logging.Stage(stage), logging.ErrorField(err)).
		Msg("chart error")
	if cb := b.opts.callbacks.OnError; cb != nil {
		cb(ce)
	}
	return ce
}

// ============================================================================
// INTERNAL
// ============================================================================

func (b *Base) hideTooltip() {
	if b.tooltip == "" {
		return
	}
	b.tooltip = ""
	if cb := b.opts.callbacks.OnTooltipHide; cb != nil {
		cb()
	}
}

func (b *Base) transition(ev statekit.EventType) {
	from := b.State()
	if !b.machine.send(ev) {
		return
	}
	logging.With(b.log.Debug()).
		Add(logging.ChartType(b.p.ChartType()), logging.ChartID(b.ID()), logging.State(string(b.State()))).
		Msg("lifecycle " + string(from) + " -> " + string(b.State()))
}

func (b *Base) loading(on bool) {
	if cb := b.opts.callbacks.OnLoadingChange; cb != nil {
		cb(on)
	}
}

// run executes validate → processData → createScales → renderChart.
func (b *Base) run() error {
	b.loading(true)
	defer b.loading(false)

	b.surf.Clear()
	b.tooltip = ""
	common := b.p.Common()

	var cw, ch float64
	if b.container != nil {
		cw, ch = b.container.Bounds()
	}
	b.frame = resolveFrame(common, DefaultMargin, cw, ch)

	if err := b.stage(StageValidate, func() error { return b.validate(common) }); err != nil {
		return b.abort(StageValidate, err)
	}

	res := NewResolver(common.Data)
	err := b.stage(StageProcessData, func() error { return b.p.ProcessData(res) })
	for _, w := range res.Flush() {
		b.Warn(w)
	}
	if err != nil {
		return b.abort(StageProcessData, err)
	}

	if err := b.stage(StageCreateScales, func() error { return b.p.CreateScales(b.frame) }); err != nil {
		return b.abort(StageCreateScales, err)
	}

	canvas := NewCanvas(b.surf, b.frame, common.Animation, b.ID())
	if err := b.stage(StageRenderChart, func() error { return b.p.RenderChart(canvas) }); err != nil {
		return b.abort(StageRenderChart, err)
	}
	return nil
}

func (b *Base) validate(c Common) error {
	if v, ok := b.p.(Validator); ok {
		return v.Validate()
	}
	return ValidateRecords(c.Data)
}

// ValidateRecords requires a non-empty list of non-nil records.
func ValidateRecords(data []Record) error {
	if len(data) == 0 {
		return Errorf(ErrInvalidData, "data must be a non-empty list of records")
	}
	for i, r := range data {
		if r == nil {
			return Errorf(ErrInvalidData, "record %d is not an object", i)
		}
	}
	return nil
}

// stage runs fn, converting a panic into an error, and logs its duration.
func (b *Base) stage(name string, fn func() error) (err error) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
		logging.With(b.log.Debug()).
			Add(
				logging.ChartType(b.p.ChartType()),
				logging.ChartID(b.ID()),
				logging.Stage(name),
				logging.Duration(time.Since(start)),
				logging.ErrorField(err),
			).
			Msg("stage complete")
	}()
	return fn()
}

// abort resets caches, clears the surface and reports err.
func (b *Base) abort(stage string, err error) error {
	b.p.Reset()
	if b.surf != nil {
		b.surf.Clear()
	}
	return b.Fail(stage, err)
}
