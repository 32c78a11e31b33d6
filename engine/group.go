package engine

import "math"

// ============================================================================
// GROUPING
// ============================================================================

// GroupBy partitions items by key. Keys are returned in first-seen order;
// each group keeps its items in input order.
func GroupBy[T any](items []T, key func(T) string) (order []string, groups map[string][]T) {
	groups = make(map[string][]T)
	order = make([]string, 0)

	for _, it := range items {
		k := key(it)
		if _, exists := groups[k]; !exists {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}
	return order, groups
}

// ============================================================================
// AGGREGATION
// ============================================================================

// Sum adds the finite values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		if finite(v) {
			total += v
		}
	}
	return total
}

// Max returns the largest finite value, or 0 if there is none.
func Max(values []float64) float64 {
	best, seen := 0.0, false
	for _, v := range values {
		if finite(v) && (!seen || v > best) {
			best, seen = v, true
		}
	}
	return best
}

// Min returns the smallest finite value, or 0 if there is none.
func Min(values []float64) float64 {
	best, seen := 0.0, false
	for _, v := range values {
		if finite(v) && (!seen || v < best) {
			best, seen = v, true
		}
	}
	return best
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool { return finite(v) }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
