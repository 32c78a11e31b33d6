package engine

import (
	"strings"

	"github.com/spektr-org/chartcore/scale"
)

// ============================================================================
// FILTERS — Field-based record filtering ahead of a chart
// ============================================================================
// Single pass: every record is checked against all field constraints at once.
// The returned slice shares the records; nothing is copied.
// ============================================================================

// Filters restricts records by field value. Fields are AND-combined; the
// values listed for one field are OR-combined. Matching is
// case-insensitive on the string form of the value.
type Filters map[string][]string

// IsEmpty reports whether f restricts nothing.
func (f Filters) IsEmpty() bool {
	for _, allowed := range f {
		if len(allowed) > 0 {
			return false
		}
	}
	return true
}

// FilterRecords returns the records matching every constraint in f, in
// their original order. An empty filter returns records unchanged.
func FilterRecords(records []Record, f Filters) []Record {
	if f.IsEmpty() {
		return records
	}

	sets := make(map[string]map[string]bool, len(f))
	for field, allowed := range f {
		if len(allowed) > 0 {
			sets[field] = toLowerSet(allowed)
		}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		pass := true
		for field, set := range sets {
			if !set[strings.ToLower(scale.AsString(r[field]))] {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, r)
		}
	}
	return out
}

// ParseFilter parses "field=a,b" into a field name and its allowed values.
func ParseFilter(s string) (field string, values []string, ok bool) {
	field, list, found := strings.Cut(s, "=")
	field = strings.TrimSpace(field)
	if !found || field == "" {
		return "", nil, false
	}
	for _, v := range strings.Split(list, ",") {
		values = append(values, strings.TrimSpace(v))
	}
	return field, values, true
}

func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
