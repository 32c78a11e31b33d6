// Package helpers loads chart records from CSV, JSON and XLSX files.
package helpers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/schema"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported data format")

// ============================================================================
// TABLE — Header row plus data rows, as read from CSV or a spreadsheet
// ============================================================================

// Table is raw tabular input. Rows may be shorter than Headers.
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string
}

func newTable(source string, raw [][]string) (Table, error) {
	if len(raw) == 0 {
		return Table{}, fmt.Errorf("%s: missing header row", source)
	}
	headers := make([]string, len(raw[0]))
	seen := make(map[string]int, len(headers))
	for i, h := range raw[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n+1)
		} else {
			seen[h] = 1
		}
		headers[i] = h
	}
	var rows [][]string
	for _, r := range raw[1:] {
		if blank(r) {
			continue
		}
		rows = append(rows, r)
	}
	return Table{Source: source, Headers: headers, Rows: rows}, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Discover classifies the table's columns.
func (t Table) Discover(opts ...schema.DiscoverOptions) (*schema.Config, error) {
	return schema.DiscoverFromRows(t.Headers, t.Rows, t.Source, opts...)
}

// Records converts every row into a record keyed by header. With a schema,
// numeric fields become float64 and boolean fields bool; every other column
// is kept as a string, including columns discovery skipped. Without a
// schema each cell that parses as a number becomes float64. Empty cells are
// left out so accessors report them as missing.
func (t Table) Records(sch *schema.Config) []engine.Record {
	kinds := make(map[string]schema.Kind)
	if sch != nil {
		for _, f := range sch.Fields {
			kinds[f.Key] = f.Kind
		}
	}

	records := make([]engine.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(engine.Record, len(t.Headers))
		for i, h := range t.Headers {
			if i >= len(row) {
				break
			}
			val := strings.TrimSpace(row[i])
			if val == "" {
				continue
			}
			rec[h] = convert(val, kinds[h], sch != nil)
		}
		records = append(records, rec)
	}
	return records
}

func convert(val string, kind schema.Kind, typed bool) any {
	switch {
	case !typed:
		if f, ok := ParseNumber(val); ok {
			return f
		}
	case kind == schema.KindNumeric:
		if f, ok := ParseNumber(val); ok {
			return f
		}
	case kind == schema.KindBoolean:
		switch strings.ToLower(val) {
		case "true", "yes":
			return true
		case "false", "no":
			return false
		}
	}
	return val
}

// ParseNumber parses plain, thousands-separated and currency-prefixed
// numbers: "1,234.5", "-$20", "€3".
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	for _, sym := range []string{"$", "€", "£"} {
		s = strings.TrimPrefix(s, sym)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}
