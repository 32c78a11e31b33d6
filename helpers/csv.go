package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into []engine.Record
// ============================================================================
// Consumers read the CSV from wherever it lives and hand over the bytes.
// Malformed rows are skipped; short rows simply miss their trailing keys.
// ============================================================================

// ReadCSV reads a CSV table with a header row.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var raw [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(raw) == 0 {
				return Table{}, fmt.Errorf("failed to read CSV headers: %w", err)
			}
			continue
		}
		raw = append(raw, row)
	}
	return newTable("CSV", raw)
}

// ParseCSV discovers the columns of CSV bytes and returns typed records
// along with the discovered schema.
func ParseCSV(data []byte) ([]engine.Record, *schema.Config, error) {
	t, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	sch, err := t.Discover()
	if err != nil {
		return nil, nil, err
	}
	return t.Records(sch), sch, nil
}

// ParseCSVAuto parses CSV without a schema. Numeric-looking cells become
// float64. It returns the column keys in header order.
func ParseCSVAuto(data []byte) ([]engine.Record, []string, error) {
	t, err := ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, nil, err
	}
	return t.Records(nil), t.Headers, nil
}
