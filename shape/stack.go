package shape

import "math"

// StackMode selects how series are stacked.
type StackMode string

const (
	StackNone    StackMode = "none"
	StackNormal  StackMode = "normal"
	StackPercent StackMode = "percent"
)

// Stacked holds the baseline and top of every series at every x index.
type Stacked struct {
	Y0 [][]float64
	Y1 [][]float64
}

// Stack computes stacking offsets for values[series][x]. Series are stacked
// in the given order, so the first series sits on the zero baseline.
// NaN values count as zero. In percent mode each x column is normalized so
// the tops reach 100; a column whose total is zero leaves every series with
// Y1 == Y0. StackNone returns Y0 = 0 and Y1 = value.
func Stack(mode StackMode, values [][]float64) Stacked {
	out := Stacked{
		Y0: make([][]float64, len(values)),
		Y1: make([][]float64, len(values)),
	}
	width := 0
	for s, row := range values {
		out.Y0[s] = make([]float64, len(row))
		out.Y1[s] = make([]float64, len(row))
		width = max(width, len(row))
	}

	for x := 0; x < width; x++ {
		total := 0.0
		for _, row := range values {
			total += at(row, x)
		}
		running := 0.0
		for s, row := range values {
			if x >= len(row) {
				continue
			}
			v := at(row, x)
			switch mode {
			case StackNormal:
				out.Y0[s][x] = running
				running += v
				out.Y1[s][x] = running
			case StackPercent:
				out.Y0[s][x] = running
				if total != 0 {
					running += v / total * 100
				}
				out.Y1[s][x] = running
			default:
				out.Y0[s][x] = 0
				out.Y1[s][x] = v
			}
		}
	}
	return out
}

func at(row []float64, i int) float64 {
	if i >= len(row) || math.IsNaN(row[i]) || math.IsInf(row[i], 0) {
		return 0
	}
	return row[i]
}

// Stacking reports whether mode stacks series at all.
func (m StackMode) Stacking() bool {
	return m == StackNormal || m == StackPercent
}
