package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// ChartType adds the chart type field.
func ChartType(t string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("chart", t)
	}
}

// ChartID adds the chart instance id.
func ChartID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("chart_id", id)
	}
}

// Stage adds the pipeline stage name.
func Stage(s string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("stage", s)
	}
}

// State adds a lifecycle state.
func State(s string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("state", s)
	}
}

// Count adds a count field under the given key.
func Count(key string, n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, n)
	}
}

// Value adds a float field.
func Value(key string, v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64(key, v)
	}
}

// Duration adds a duration field in microseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_us", d.Microseconds())
	}
}

// ErrorField adds an error field. A nil error leaves the event unchanged.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}
