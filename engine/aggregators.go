package engine

import (
	"sort"
	"strings"

	"github.com/spektr-org/chartcore/scale"
)

// ============================================================================
// AGGREGATORS — Collapse raw records to one record per group
// ============================================================================
// Pipeline: group → aggregate → sort. Hosts use it to feed event-level data
// to charts that expect one record per category (funnels, heat-maps).
// ============================================================================

// Aggregation names how a group's measure values are combined.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggAvg   Aggregation = "avg"
	AggCount Aggregation = "count"
	AggMin   Aggregation = "min"
	AggMax   Aggregation = "max"
)

// SortOrder orders aggregated groups. The zero value keeps first-seen order.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortValueDesc SortOrder = "value_desc"
	SortValueAsc  SortOrder = "value_asc"
	SortLabelAsc  SortOrder = "label_asc"
	SortLabelDesc SortOrder = "label_desc"
)

// Aggregate groups records by the values of groupBy and combines the
// numeric values of measure with agg. Each output record carries the
// group's field values, taken from its first record, and the aggregate
// under measure ("count" when measure is empty). Non-numeric measure values
// are ignored; a group without any reports 0.
func Aggregate(records []Record, groupBy []string, measure string, agg Aggregation, order SortOrder) ([]Record, error) {
	switch agg {
	case AggSum, AggAvg, AggCount, AggMin, AggMax:
	case "":
		agg = AggSum
	default:
		return nil, Errorf(ErrInvalidData, "unknown aggregation %q", agg)
	}
	if measure == "" {
		if agg != AggCount {
			return nil, Errorf(ErrInvalidData, "%s needs a measure field", agg)
		}
		measure = "count"
	}

	keys, groups := GroupBy(records, func(r Record) string {
		parts := make([]string, len(groupBy))
		for i, f := range groupBy {
			parts[i] = scale.AsString(r[f])
		}
		return strings.Join(parts, "\x1f")
	})

	out := make([]Record, 0, len(keys))
	for _, k := range keys {
		members := groups[k]
		rec := make(Record, len(groupBy)+1)
		for _, f := range groupBy {
			rec[f] = members[0][f]
		}
		rec[measure] = aggregate(members, measure, agg)
		out = append(out, rec)
	}

	if err := sortRecords(out, groupBy, measure, order); err != nil {
		return nil, err
	}
	return out, nil
}

func aggregate(members []Record, measure string, agg Aggregation) float64 {
	if agg == AggCount {
		return float64(len(members))
	}
	values := make([]float64, 0, len(members))
	for _, r := range members {
		if v, ok := scale.AsFloat(r[measure]); ok && finite(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0
	}
	switch agg {
	case AggAvg:
		return Sum(values) / float64(len(values))
	case AggMin:
		return Min(values)
	case AggMax:
		return Max(values)
	default:
		return Sum(values)
	}
}

func sortRecords(out []Record, groupBy []string, measure string, order SortOrder) error {
	value := func(i int) float64 {
		f, _ := scale.AsFloat(out[i][measure])
		return f
	}
	label := func(i int) string {
		parts := make([]string, len(groupBy))
		for k, f := range groupBy {
			parts[k] = strings.ToLower(scale.AsString(out[i][f]))
		}
		return strings.Join(parts, "/")
	}

	switch order {
	case SortNone:
	case SortValueDesc:
		sort.SliceStable(out, func(i, j int) bool { return value(i) > value(j) })
	case SortValueAsc:
		sort.SliceStable(out, func(i, j int) bool { return value(i) < value(j) })
	case SortLabelAsc:
		sort.SliceStable(out, func(i, j int) bool { return label(i) < label(j) })
	case SortLabelDesc:
		sort.SliceStable(out, func(i, j int) bool { return label(i) > label(j) })
	default:
		return Errorf(ErrInvalidData, "unknown sort order %q", order)
	}
	return nil
}
