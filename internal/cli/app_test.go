package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const salesCSV = `month,region,revenue
2024-01-01,North,120.5
2024-02-01,North,98.25
2024-03-01,North,143.75
2024-01-01,South,80.5
2024-02-01,South,91.25
2024-03-01,South,110.5
`

const orgJSON = `{"name": "org", "children": [
  {"name": "eng", "children": [{"name": "web", "value": 12}, {"name": "infra", "value": 7}]},
  {"name": "sales", "value": 9}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "chartcore version") {
		t.Errorf("version output = %s", out)
	}
}

func TestHelp(t *testing.T) {
	out, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"render", "discover", "treemap"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestDiscover(t *testing.T) {
	path := writeFile(t, "sales.csv", salesCSV)

	out, _, err := run(t, "discover", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"key": "revenue"`) || !strings.Contains(out, `"kind": "temporal"`) {
		t.Errorf("json output = %s", out)
	}

	out, _, err = run(t, "discover", path, "--format", "yaml", "--suggest", "line")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"fields:", "suggestion:", "x: month", "y: revenue"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}

	if _, _, err := run(t, "discover", path, "--format", "toml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestRenderLineFromSuggestions(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)
	out := filepath.Join(t.TempDir(), "sales.svg")

	stdout, _, err := run(t, "render", "line", "-d", data, "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "wrote "+out) || !strings.Contains(stdout, "0 warnings") {
		t.Errorf("stdout = %s", stdout)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(svg)
	if !strings.Contains(doc, `<svg width="800" height="400"`) {
		t.Errorf("unexpected document size: %.200s", doc)
	}
	if strings.Count(doc, `class="line"`) != 2 {
		t.Errorf("expected one line per region")
	}
}

func TestRenderWithSettings(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)
	cfg := writeFile(t, "render.yaml", "width: 320\nheight: 200\ncolors: [\"#123456\", \"#abcdef\"]\n")

	stdout, _, err := run(t, "render", "area", "-d", data, "-s", cfg, "--stack", "normal")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `<svg width="320" height="200"`) {
		t.Errorf("settings size not applied: %.200s", stdout)
	}
	if !strings.Contains(stdout, "#123456") {
		t.Error("settings palette not applied")
	}
}

func TestRenderNestedTreemap(t *testing.T) {
	data := writeFile(t, "org.json", orgJSON)

	stdout, _, err := run(t, "render", "treemap", "-d", data, "--tile", "binary")
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(stdout, `class="tile"`); n != 3 {
		t.Errorf("tiles = %d, want 3", n)
	}
	if !strings.Contains(stdout, `data-tooltip="eng / web: 12"`) {
		t.Error("leaf tooltip missing")
	}
}

func TestRenderFunnelFromXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{{"stage", "users"}, {"Visit", 1000}, {"Signup", 400}, {"Buy", 90}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "funnel.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := run(t, "render", "funnel", "-d", path, "--label", "stage", "--value", "users")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, `data-tooltip="Signup`) || !strings.Contains(stdout, ">Visit") {
		t.Errorf("funnel labels missing: %.300s", stdout)
	}
}

func TestRenderFunnelFromEvents(t *testing.T) {
	data := writeFile(t, "events.csv", "user,stage\nu1,Visit\nu2,Visit\nu1,Signup\nu3,Visit\nu2,Signup\nu1,Buy\nu4,Bot\n")

	stdout, _, err := run(t, "render", "funnel", "-d", data, "--label", "stage",
		"--where", "stage=visit,signup,buy", "--aggregate", "count", "--sort", "value_desc")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`data-tooltip="Visit: 3 (`, `data-tooltip="Signup: 2 (`, `data-tooltip="Buy: 1 (`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %s", want)
		}
	}
	if strings.Contains(stdout, "Bot") {
		t.Error("filtered stage rendered")
	}
	if strings.Index(stdout, `data-tooltip="Visit`) > strings.Index(stdout, `data-tooltip="Buy`) {
		t.Error("stages not in descending order")
	}
}

func TestRenderErrors(t *testing.T) {
	data := writeFile(t, "sales.csv", salesCSV)
	gappy := writeFile(t, "gaps.csv", "day,slot,load\nMon,am,3.5\nMon,,2.5\nTue,am,1.5\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown chart", []string{"render", "pie", "-d", data}, "unknown chart type"},
		{"missing data flag", []string{"render", "line"}, "data"},
		{"unsupported data file", []string{"render", "line", "-d", writeFile(t, "notes.txt", "x")}, "unsupported data format"},
		{"missing settings", []string{"render", "line", "-d", data, "-s", filepath.Join(t.TempDir(), "none.yaml")}, "settings file not found"},
		{"bad where", []string{"render", "line", "-d", data, "--where", "region"}, "invalid --where"},
		{"aggregate treemap", []string{"render", "treemap", "-d", data, "--aggregate", "sum"}, "not supported"},
		{"unknown aggregation", []string{"render", "line", "-d", data, "--aggregate", "median"}, "unknown aggregation"},
		{"strict warnings", []string{"render", "heatmap", "-d", gappy, "-x", "day", "-y", "slot", "--value", "load", "--strict"}, "data warnings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
