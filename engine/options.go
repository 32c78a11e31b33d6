package engine

import (
	"github.com/felixgeelhaar/bolt/v3"
	"github.com/google/uuid"

	"github.com/spektr-org/chartcore/internal/logging"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for NewBase()
// ============================================================================

// Callbacks are the side channel from a chart core to its host. The engine
// never owns tooltip or loading UI; it only calls these. Nil callbacks are
// skipped.
type Callbacks struct {
	OnError         func(err error)
	OnWarning       func(err error)
	OnLoadingChange func(loading bool)
	OnTooltipShow   func(x, y float64, content string)
	OnTooltipHide   func()
}

// Option configures engine behavior via functional options pattern.
type Option func(*options)

type options struct {
	callbacks Callbacks
	logger    *bolt.Logger
	id        string
}

// WithCallbacks registers the host callbacks.
func WithCallbacks(cb Callbacks) Option {
	return func(o *options) {
		o.callbacks = cb
	}
}

// WithLogger sets the logger used for lifecycle logs.
// Default: the package-level logger from internal/logging.
func WithLogger(l *bolt.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithID fixes the chart instance id. Element ids derived from it (gradients,
// clip paths) are then stable across processes.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// applyOptions creates options from functional options.
func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.Get()
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	return o
}
