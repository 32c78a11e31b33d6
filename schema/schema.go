package schema

import "slices"

// ============================================================================
// SCHEMA — Describes the columns of a record set as chart fields
// ============================================================================
// Auto-discovered from CSV bytes or in-memory records. Hosts use it to pick
// default accessors; the correlogram uses it to find numeric columns in wide
// data.
// ============================================================================

// Kind is the value type detected for a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindTemporal    Kind = "temporal"
	KindCategorical Kind = "categorical"
	KindBoolean     Kind = "boolean"
)

// Role is how a column is best used in a chart.
type Role string

const (
	// RoleMeasure columns are plotted as values.
	RoleMeasure Role = "measure"
	// RoleDimension columns position or group values.
	RoleDimension Role = "dimension"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name   string  `json:"name" yaml:"name"`
	Rows   int     `json:"rows" yaml:"rows"`
	Fields []Field `json:"fields" yaml:"fields"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty" yaml:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty" yaml:"discoveredAt,omitempty"`

	// Columns skipped during auto-discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty" yaml:"skippedColumns,omitempty"`
}

// Field describes one usable column.
type Field struct {
	// Key is the column name exactly as it appears in the records, so it can
	// be used directly as an accessor key.
	Key             string   `json:"key" yaml:"key"`
	DisplayName     string   `json:"displayName" yaml:"displayName"`
	Kind            Kind     `json:"kind" yaml:"kind"`
	Role            Role     `json:"role" yaml:"role"`
	SampleValues    []string `json:"sampleValues,omitempty" yaml:"sampleValues,omitempty"`
	Unique          int      `json:"unique" yaml:"unique"`
	Nulls           int      `json:"nulls,omitempty" yaml:"nulls,omitempty"`
	Parent          string   `json:"parent,omitempty" yaml:"parent,omitempty"` // Parent dimension key for hierarchies
	TemporalFormat  string   `json:"temporalFormat,omitempty" yaml:"temporalFormat,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty" yaml:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// SkippedColumn records why a column was excluded during auto-discovery.
type SkippedColumn struct {
	Column      string `json:"column" yaml:"column"`
	Reason      string `json:"reason" yaml:"reason"`
	Recoverable bool   `json:"recoverable" yaml:"recoverable"` // Can be restored with RecoverColumns
}

// Field returns the field with the given key.
func (c Config) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Keys returns the keys of every field, in column order.
func (c Config) Keys() []string {
	return c.keys(func(Field) bool { return true })
}

// KeysOf returns the keys of fields of the given kind, in column order.
func (c Config) KeysOf(kind Kind) []string {
	return c.keys(func(f Field) bool { return f.Kind == kind })
}

// Measures returns the measure keys.
func (c Config) Measures() []string {
	return c.keys(func(f Field) bool { return f.Role == RoleMeasure })
}

// Dimensions returns the dimension keys.
func (c Config) Dimensions() []string {
	return c.keys(func(f Field) bool { return f.Role == RoleDimension })
}

func (c Config) keys(keep func(Field) bool) []string {
	var out []string
	for _, f := range c.Fields {
		if keep(f) {
			out = append(out, f.Key)
		}
	}
	return out
}

// ============================================================================
// SUGGESTIONS — Default accessors per chart type
// ============================================================================

// Suggestion names default fields for a chart. Empty names mean "no
// suitable column".
type Suggestion struct {
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Suggest picks default fields for a chart type. X prefers a temporal
// dimension, Category the lowest-cardinality categorical dimension.
func (c Config) Suggest(chartType string) Suggestion {
	measures := c.Measures()
	var temporal, categorical []Field
	for _, f := range c.Fields {
		if f.Role != RoleDimension {
			continue
		}
		switch f.Kind {
		case KindTemporal:
			temporal = append(temporal, f)
		case KindCategorical, KindBoolean:
			categorical = append(categorical, f)
		}
	}
	slices.SortStableFunc(categorical, func(a, b Field) int { return a.Unique - b.Unique })

	var s Suggestion
	first := func(keys []string) string {
		if len(keys) == 0 {
			return ""
		}
		return keys[0]
	}
	switch chartType {
	case "heatmap":
		if len(categorical) > 1 {
			s.X, s.Y = categorical[1].Key, categorical[0].Key
		} else if len(categorical) == 1 && len(temporal) > 0 {
			s.X, s.Y = temporal[0].Key, categorical[0].Key
		}
		s.Value = first(measures)
	case "funnel", "exact-funnel":
		if len(categorical) > 0 {
			s.Label = categorical[len(categorical)-1].Key
		}
		s.Value = first(measures)
	default:
		switch {
		case len(temporal) > 0:
			s.X = temporal[0].Key
		case len(categorical) > 0:
			s.X = categorical[len(categorical)-1].Key
		}
		s.Y = first(measures)
		for _, f := range categorical {
			if f.Key != s.X {
				s.Category = f.Key
				break
			}
		}
	}
	return s
}
