package helpers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/chartcore/schema"
)

const salesCSV = `Region,Sales,Active
North,"1,200.50",yes
South,800,no
East,950.25,yes
West,,no
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParseCSVTyped(t *testing.T) {
	t.Parallel()

	records, sch, err := ParseCSV([]byte(salesCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}
	if f, _ := sch.Field("Sales"); f.Kind != schema.KindNumeric {
		t.Errorf("Sales kind = %s", f.Kind)
	}
	if got := records[0]["Sales"]; got != 1200.5 {
		t.Errorf("Sales = %#v, want 1200.5", got)
	}
	if got := records[0]["Active"]; got != true {
		t.Errorf("Active = %#v, want true", got)
	}
	if got := records[1]["Region"]; got != "South" {
		t.Errorf("Region = %#v", got)
	}
	if _, ok := records[3]["Sales"]; ok {
		t.Error("empty cell should be left out")
	}
}

func TestParseCSVAuto(t *testing.T) {
	t.Parallel()

	records, keys, err := ParseCSVAuto([]byte(salesCSV))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(keys, ","); got != "Region,Sales,Active" {
		t.Errorf("keys = %s", got)
	}
	if got := records[1]["Sales"]; got != 800.0 {
		t.Errorf("Sales = %#v", got)
	}
	if got := records[0]["Active"]; got != "yes" {
		t.Errorf("untyped Active = %#v, want the raw string", got)
	}
}

func TestSkippedColumnsStayInRecords(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	b.WriteString("id,parentId,value\n")
	b.WriteString("root,,\n")
	for i := range 11 {
		fmt.Fprintf(&b, "node-%d,root,%d.5\n", i, i)
	}
	records, sch, err := ParseCSV([]byte(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := sch.Field("id"); ok {
		t.Fatal("expected id to be skipped by discovery")
	}
	if got := records[3]["id"]; got != "node-2" {
		t.Errorf("id = %#v, skipped columns must still load", got)
	}
	if got := records[3]["value"]; got != 2.5 {
		t.Errorf("value = %#v", got)
	}
}

func TestHeaders(t *testing.T) {
	t.Parallel()

	tbl, err := ReadCSV(strings.NewReader("a, a ,,b\n1,2,3,4\n,,,\n5\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(tbl.Headers, ","); got != "a,a_2,column_3,b" {
		t.Errorf("headers = %s", got)
	}
	if len(tbl.Rows) != 2 {
		t.Errorf("rows = %d, blank rows should be dropped", len(tbl.Rows))
	}
	recs := tbl.Records(nil)
	if len(recs[1]) != 1 || recs[1]["a"] != 5.0 {
		t.Errorf("short row = %v", recs[1])
	}
}

func TestParseNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 1,234.5 ", 1234.5, true},
		{"-$20", -20, true},
		{"€3", 3, true},
		{"1e3", 1000, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"array", `[{"x":"a","y":1},{"x":"b","y":2}]`, 2, false},
		{"wrapped", `{"data":[{"x":"a","y":1}]}`, 1, false},
		{"null element", `[{"x":1},null]`, 0, true},
		{"no data key", `{"rows":[]}`, 0, true},
		{"scalar", `42`, 0, true},
		{"empty", `  `, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			recs, err := ParseJSON([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(recs) != tt.want {
				t.Errorf("records = %d, want %d", len(recs), tt.want)
			}
		})
	}
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	rows := [][]any{
		{"Stage", "Visitors"},
		{"Visit", 1000},
		{"Signup", 420},
		{"Purchase", 96},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "funnel.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func TestLoadXLSX(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t)
	tbl, err := LoadXLSX(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(tbl.Headers, ","); got != "Stage,Visitors" {
		t.Errorf("headers = %s", got)
	}
	recs := tbl.Records(nil)
	if len(recs) != 3 || recs[2]["Visitors"] != 96.0 || recs[2]["Stage"] != "Purchase" {
		t.Errorf("records = %v", recs)
	}

	if _, err := LoadXLSX(path, "Missing"); err == nil {
		t.Error("expected an error for a missing sheet")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	streamed, err := ReadXLSX(f, "Sheet1")
	if err != nil {
		t.Fatal(err)
	}
	if len(streamed.Rows) != 3 {
		t.Errorf("streamed rows = %d", len(streamed.Rows))
	}
}

func TestLoadByExtension(t *testing.T) {
	t.Parallel()

	csvPath := writeFile(t, "sales.csv", salesCSV)
	recs, sch, err := Load(csvPath, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 || sch.DiscoveredFrom != "CSV" {
		t.Errorf("csv: %d records from %s", len(recs), sch.DiscoveredFrom)
	}

	jsonPath := writeFile(t, "sales.json", `[{"region":"N","sales":3.5},{"region":"S","sales":1.25}]`)
	recs, sch, err = Load(jsonPath, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || sch.DiscoveredFrom != "records" {
		t.Errorf("json: %d records from %s", len(recs), sch.DiscoveredFrom)
	}

	recs, sch, err = Load(writeWorkbook(t), LoadOptions{Sheet: "Sheet1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || sch.DiscoveredFrom != "XLSX Sheet1" {
		t.Errorf("xlsx: %d records from %s", len(recs), sch.DiscoveredFrom)
	}

	_, _, err = Load(writeFile(t, "notes.txt", "hello"), LoadOptions{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("txt err = %v", err)
	}
}
