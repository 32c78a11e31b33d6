package helpers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ============================================================================
// XLSX HELPER — Reads one worksheet as a Table
// ============================================================================
// The first row of the sheet is the header. Cells are read as formatted
// text, so numbers follow the sheet's number format.
// ============================================================================

// LoadXLSX reads sheet from the workbook at path. An empty sheet name
// selects the first sheet.
func LoadXLSX(path, sheet string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("XLSX: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

// ReadXLSX is LoadXLSX for an open stream.
func ReadXLSX(r io.Reader, sheet string) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, fmt.Errorf("XLSX: %w", err)
	}
	defer f.Close()
	return readSheet(f, sheet)
}

func readSheet(f *excelize.File, sheet string) (Table, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return Table{}, fmt.Errorf("XLSX: sheet %q not found", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, fmt.Errorf("XLSX: sheet %q: %w", sheet, err)
	}
	return newTable("XLSX "+sheet, rows)
}
