package engine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spektr-org/chartcore/scale"
)

// ============================================================================
// ACCESSOR RESOLVER — Key or function field references
// ============================================================================
// Resolution order, identical for every chart core:
//   1. accessor function, if set
//   2. accessor key, if set and present in the record
//   3. the chart's default key for the field ("x", "y", "value", ...)
//   4. a documented default (0 for numbers, "Item {i+1}" for labels)
//
// Falling back to step 4 is a data-quality warning, never an error, so one
// bad record cannot stop the rest of the chart from rendering.
// ============================================================================

// AccessorFunc computes a field from a record. It must be pure: the engine
// may call it several times per record across stages.
type AccessorFunc func(r Record, i int, all []Record) any

// Accessor is either a key into the record or an AccessorFunc. The zero
// Accessor is unset and resolves through the default key.
type Accessor struct {
	key string
	fn  AccessorFunc
}

// Key returns an accessor that indexes records by name.
func Key(name string) Accessor {
	return Accessor{key: name}
}

// Func returns an accessor backed by fn.
func Func(fn AccessorFunc) Accessor {
	return Accessor{fn: fn}
}

// IsZero reports whether the accessor is unset.
func (a Accessor) IsZero() bool {
	return a.key == "" && a.fn == nil
}

// KeyName returns the key of a key accessor, or "".
func (a Accessor) KeyName() string {
	return a.key
}

func (a Accessor) String() string {
	switch {
	case a.fn != nil:
		return "func"
	case a.key != "":
		return a.key
	}
	return ""
}

// Resolve applies the resolution chain to one record. A nil result from an
// accessor function counts as absent. A panicking accessor function is
// recovered and reported as ErrAccessorResolution.
func Resolve(a Accessor, defaultKey string, r Record, i int, all []Record) (v any, err error) {
	if a.fn != nil {
		v, err = call(a.fn, r, i, all)
		if err != nil || v != nil {
			return v, err
		}
	}
	if a.key != "" {
		if v, ok := r.Get(a.key); ok && v != nil {
			return v, nil
		}
	}
	if defaultKey != "" {
		if v, ok := r.Get(defaultKey); ok && v != nil {
			return v, nil
		}
	}
	name := a.String()
	if name == "" || name == "func" {
		name = defaultKey
	}
	return nil, Errorf(ErrAccessorResolution, "missing key %q", name)
}

var errAccessorPanic = errors.New("accessor panicked")

func call(fn AccessorFunc, r Record, i int, all []Record) (v any, err error) {
	defer func() {
		if p := recover(); p != nil {
			v = nil
			err = fmt.Errorf("%w: %w at record %d: %v", ErrAccessorResolution, errAccessorPanic, i, p)
		}
	}()
	return fn(r, i, all), nil
}

// ============================================================================
// RESOLVER — Per-pass resolution with aggregated warnings
// ============================================================================

type issueKey struct {
	field   string
	problem string
}

type issue struct {
	count int
	first int
	cause error
}

// Resolver resolves accessors against one record set during ProcessData.
// Fallbacks are collected and reported once per field and problem by Flush.
type Resolver struct {
	records []Record
	issues  map[issueKey]*issue
}

// NewResolver returns a resolver over records.
func NewResolver(records []Record) *Resolver {
	return &Resolver{records: records, issues: make(map[issueKey]*issue)}
}

// Records returns the record set being resolved.
func (r *Resolver) Records() []Record {
	return r.records
}

// Len returns the number of records.
func (r *Resolver) Len() int {
	return len(r.records)
}

func (r *Resolver) note(a Accessor, def, problem string, i int, cause error) {
	field := a.String()
	if field == "" || field == "func" {
		field = def
	}
	k := issueKey{field: field, problem: problem}
	is, ok := r.issues[k]
	if !ok {
		is = &issue{first: i, cause: cause}
		r.issues[k] = is
	}
	is.count++
}

// Lookup resolves a field without recording a warning when it is absent.
func (r *Resolver) Lookup(a Accessor, def string, i int) (any, bool) {
	v, err := Resolve(a, def, r.records[i], i, r.records)
	if err != nil {
		if errors.Is(err, errAccessorPanic) {
			r.note(a, def, "accessor failed", i, err)
		}
		return nil, false
	}
	return v, true
}

// Value resolves a field, warning "Missing key" when it cannot be found.
func (r *Resolver) Value(a Accessor, def string, i int) (any, bool) {
	v, err := Resolve(a, def, r.records[i], i, r.records)
	if err != nil {
		problem := "missing key"
		if errors.Is(err, errAccessorPanic) {
			problem = "accessor failed"
		}
		r.note(a, def, problem, i, err)
		return nil, false
	}
	return v, true
}

// Number resolves a numeric field. Absent or non-numeric values fall back
// to 0 with a warning.
func (r *Resolver) Number(a Accessor, def string, i int) float64 {
	v, ok := r.Value(a, def, i)
	if !ok {
		return 0
	}
	f, ok := scale.AsFloat(v)
	if !ok {
		r.note(a, def, "invalid value", i, nil)
		return 0
	}
	return f
}

// Float resolves an optional numeric field. Absent and nil values report
// false silently so callers can treat them as gaps; values that are present
// but not numeric are warned about.
func (r *Resolver) Float(a Accessor, def string, i int) (float64, bool) {
	v, ok := r.Lookup(a, def, i)
	if !ok {
		return 0, false
	}
	f, ok := scale.AsFloat(v)
	if !ok {
		r.note(a, def, "invalid value", i, nil)
		return 0, false
	}
	return f, true
}

// Label resolves a label field, falling back to "Item {i+1}".
func (r *Resolver) Label(a Accessor, def string, i int) string {
	v, ok := r.Value(a, def, i)
	if !ok {
		return "Item " + strconv.Itoa(i+1)
	}
	return scale.AsString(v)
}

// String resolves an optional text field, returning fallback when absent.
func (r *Resolver) String(a Accessor, def string, i int, fallback string) string {
	v, ok := r.Lookup(a, def, i)
	if !ok {
		return fallback
	}
	return scale.AsString(v)
}

// Time resolves a temporal field. Values that are present but do not parse
// as an instant are warned about.
func (r *Resolver) Time(a Accessor, def string, i int) (time.Time, bool) {
	v, ok := r.Value(a, def, i)
	if !ok {
		return time.Time{}, false
	}
	t, ok := scale.AsTime(v)
	if !ok {
		r.note(a, def, "invalid value", i, nil)
	}
	return t, ok
}

// Flush returns one warning per field and problem recorded since the last
// call, in a stable order, and resets the resolver's issue list.
func (r *Resolver) Flush() []error {
	keys := make([]issueKey, 0, len(r.issues))
	for k := range r.issues {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].field != keys[j].field {
			return keys[i].field < keys[j].field
		}
		return keys[i].problem < keys[j].problem
	})
	out := make([]error, 0, len(keys))
	for _, k := range keys {
		is := r.issues[k]
		msg := fmt.Sprintf("%s %q in %d record(s), first at index %d", k.problem, k.field, is.count, is.first)
		if k.problem == "accessor failed" {
			out = append(out, fmt.Errorf("%s: %w", msg, is.cause))
			continue
		}
		out = append(out, Errorf(ErrAccessorResolution, "%s", msg))
	}
	r.issues = make(map[issueKey]*issue)
	return out
}
