// Package scale builds coordinate mappings from data domains to pixel ranges.
//
// Scales are immutable values: every pipeline run builds fresh ones. Three
// kinds exist: Linear for numbers, Time for instants and Band for categories.
// Degenerate domains never produce NaN coordinates; they collapse onto the
// middle of the range.
package scale

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind classifies a set of domain values.
type Kind string

const (
	Numeric     Kind = "numeric"
	Temporal    Kind = "temporal"
	Categorical Kind = "categorical"
)

// timeLayouts are tried in order when a string is parsed as an instant.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"Jan-2006",
}

// AsFloat converts a raw value to a float. Strings are parsed; booleans,
// nil and anything else report false. NaN reports false as well.
func AsFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsTime converts a raw value to an instant.
func AsTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// AsString formats a raw value as a category label.
func AsString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case interface{ String() string }:
		return x.String()
	}
	if f, ok := AsFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// KindOf classifies values: Temporal if every non-nil value is a time.Time
// (or all are strings that parse as dates), Numeric if every non-nil value
// converts to a number, Categorical otherwise. An empty set is Numeric.
func KindOf(values []any) Kind {
	allNum, allTime, seen := true, true, false
	for _, v := range values {
		if v == nil {
			continue
		}
		seen = true
		if _, ok := v.(time.Time); ok {
			allNum = false
			continue
		}
		if s, ok := v.(string); ok {
			if _, ok := AsTime(s); !ok {
				allTime = false
			}
			if _, ok := AsFloat(s); !ok {
				allNum = false
			} else {
				// Bare numbers such as "2024" parse as numbers first.
				allTime = false
			}
			continue
		}
		allTime = false
		if _, ok := AsFloat(v); !ok {
			allNum = false
		}
	}
	switch {
	case !seen:
		return Numeric
	case allTime:
		return Temporal
	case allNum:
		return Numeric
	default:
		return Categorical
	}
}

// Unique returns the distinct values in first-seen order.
func Unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
