package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/chartcore/charts/area"
	"github.com/spektr-org/chartcore/charts/correlogram"
	"github.com/spektr-org/chartcore/charts/exactfunnel"
	"github.com/spektr-org/chartcore/charts/funnel"
	"github.com/spektr-org/chartcore/charts/heatmap"
	"github.com/spektr-org/chartcore/charts/line"
	"github.com/spektr-org/chartcore/charts/treemap"
	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/helpers"
	"github.com/spektr-org/chartcore/internal/logging"
	"github.com/spektr-org/chartcore/internal/settings"
	"github.com/spektr-org/chartcore/schema"
	"github.com/spektr-org/chartcore/shape"
	"github.com/spektr-org/chartcore/surface"
)

// renderOptions holds the render command's flags.
type renderOptions struct {
	data     string
	out      string
	settings string
	sheet    string
	strict   bool

	x, y, category, value, label string
	id, parent, name             string
	columns                      []string

	stack, curve, mode, tile string

	where     []string
	aggregate string
	groupBy   []string
	sortOrder string
}

// chart is what the render command needs from every chart core.
type chart interface {
	Initialize(container surface.Container, s surface.Surface) error
	Frame() engine.Frame
}

type builder func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart

// input is the loaded data: records, or a nested hierarchy for tree-maps.
type input struct {
	records []engine.Record
	schema  *schema.Config
	root    *treemap.Datum
}

var builders = map[string]builder{
	area.ChartType: func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart {
		return area.New(area.Config{
			Common:      in.common(s),
			X:           engine.Key(o.x),
			Y:           engine.Key(o.y),
			Category:    engine.Key(o.category),
			StackMode:   shape.StackMode(o.stack),
			Curve:       o.curve,
			Colors:      s.Colors,
			ColorScheme: s.ColorScheme,
		}, opts...)
	},
	line.ChartType: func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart {
		return line.New(line.Config{
			Common:      in.common(s),
			X:           engine.Key(o.x),
			Y:           engine.Key(o.y),
			Category:    engine.Key(o.category),
			StackMode:   shape.StackMode(o.stack),
			Curve:       o.curve,
			Colors:      s.Colors,
			ColorScheme: s.ColorScheme,
		}, opts...)
	},
	heatmap.ChartType: func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart {
		return heatmap.New(heatmap.Config{
			Common:      in.common(s),
			X:           engine.Key(o.x),
			Y:           engine.Key(o.y),
			Value:       engine.Key(o.value),
			Colors:      s.Colors,
			ColorScheme: s.ColorScheme,
		}, opts...)
	},
	funnel.ChartType: func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart {
		return funnel.New(funnel.Config{
			Common:      in.common(s),
			Label:       engine.Key(o.label),
			Value:       engine.Key(o.value),
			Mode:        funnel.Mode(o.mode),
			Colors:      s.Colors,
			ColorScheme: s.ColorScheme,
		}, opts...)
	},
	exactfunnel.ChartType: func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart {
		cfg := exactfunnel.Config{
			Common: in.common(s),
			Step:   engine.Key(o.label),
			Value:  engine.Key(o.value),
		}
		if len(s.Colors) > 0 {
			cfg.Color = s.Colors[0]
		}
		return exactfunnel.New(cfg, opts...)
	},
	correlogram.ChartType: func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart {
		return correlogram.New(correlogram.Config{
			Common:      in.common(s),
			Columns:     o.columns,
			X:           engine.Key(o.x),
			Y:           engine.Key(o.y),
			Value:       engine.Key(o.value),
			Colors:      s.Colors,
			ColorScheme: s.ColorScheme,
		}, opts...)
	},
	treemap.ChartType: func(o *renderOptions, in input, s settings.Settings, opts []engine.Option) chart {
		return treemap.New(treemap.Config{
			Common:      in.common(s),
			Root:        in.root,
			ID:          engine.Key(o.id),
			ParentID:    engine.Key(o.parent),
			Value:       engine.Key(o.value),
			Name:        engine.Key(o.name),
			Tile:        treemap.Tiling(o.tile),
			Colors:      s.Colors,
			ColorScheme: s.ColorScheme,
		}, opts...)
	},
}

// suggested lists the chart types whose unset field flags are filled from
// schema suggestions.
var suggested = map[string]bool{
	area.ChartType:        true,
	line.ChartType:        true,
	heatmap.ChartType:     true,
	funnel.ChartType:      true,
	exactfunnel.ChartType: true,
}

func chartTypes() []string {
	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (a *App) newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <chart-type>",
		Short: "Render a chart to SVG",
		Long: `Render a chart from a data file and write it as SVG.

Chart types: ` + strings.Join(chartTypes(), ", ") + `

Field flags default to the columns discovery suggests for the chart type.
A tree-map also accepts a JSON file holding one nested {name, value,
children} object.

Examples:
  chartcore render line -d sales.csv -x month -y revenue --category region -o sales.svg
  chartcore render heatmap -d usage.xlsx --sheet weekly -o usage.svg
  chartcore render treemap -d org.json -s render.yaml -o org.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.data, "data", "d", "", "Data file (.csv, .json, .xlsx)")
	f.StringVarP(&opts.out, "out", "o", "", "Output SVG file (default: stdout)")
	f.StringVarP(&opts.settings, "settings", "s", "", "Settings file (.yaml, .yml, .json)")
	f.StringVar(&opts.sheet, "sheet", "", "XLSX worksheet (default: first sheet)")
	f.BoolVar(&opts.strict, "strict", false, "Fail when the chart reports data warnings")
	f.StringVarP(&opts.x, "x", "x", "", "X field")
	f.StringVarP(&opts.y, "y", "y", "", "Y field")
	f.StringVar(&opts.category, "category", "", "Series field (area, line)")
	f.StringVar(&opts.value, "value", "", "Value field")
	f.StringVar(&opts.label, "label", "", "Stage label field (funnel, exact-funnel)")
	f.StringVar(&opts.id, "id", "", "Node id field (treemap)")
	f.StringVar(&opts.parent, "parent", "", "Parent id field (treemap)")
	f.StringVar(&opts.name, "name", "", "Node name field (treemap)")
	f.StringSliceVar(&opts.columns, "columns", nil, "Numeric columns to correlate (correlogram, wide data)")
	f.StringVar(&opts.stack, "stack", "", "Stack mode: none, normal, percent (area, line)")
	f.StringVar(&opts.curve, "curve", "", "Curve interpolation (area, line)")
	f.StringVar(&opts.mode, "mode", "", "Funnel mode: traditional or equal")
	f.StringVar(&opts.tile, "tile", "", "Tiling: squarify, binary, dice, slice, sliceDice")
	f.StringArrayVar(&opts.where, "where", nil, "Keep records where field=a,b (repeatable)")
	f.StringVar(&opts.aggregate, "aggregate", "", "Collapse records per group: sum, avg, count, min, max")
	f.StringSliceVar(&opts.groupBy, "group-by", nil, "Group fields for --aggregate (default: the chart's dimension fields)")
	f.StringVar(&opts.sortOrder, "sort", "", "Order of aggregated groups: value_desc, value_asc, label_asc, label_desc")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func (a *App) render(chartType string, opts *renderOptions) error {
	build, ok := builders[chartType]
	if !ok {
		return fmt.Errorf("unknown chart type %q (want one of %s)", chartType, strings.Join(chartTypes(), ", "))
	}

	s := settings.Default()
	if opts.settings != "" {
		var err error
		if s, err = settings.NewLoader().LoadFile(opts.settings); err != nil {
			return err
		}
	}
	logger := logging.New(s.Logging(a.stderr))

	in, err := load(chartType, opts)
	if err != nil {
		return err
	}
	if in.schema != nil && suggested[chartType] {
		applySuggestion(opts, in.schema.Suggest(chartType))
	}
	if err := prepare(chartType, opts, &in); err != nil {
		return err
	}
	logging.With(logger.Debug()).
		Add(logging.ChartType(chartType), logging.Count("records", len(in.records))).
		Msg("data loaded from " + opts.data)

	var warnings []error
	c := build(opts, in, s, []engine.Option{
		engine.WithLogger(logger),
		engine.WithCallbacks(engine.Callbacks{
			OnWarning: func(err error) { warnings = append(warnings, err) },
		}),
	})

	scene := surface.NewScene()
	if err := c.Initialize(surface.Box{}, scene); err != nil {
		return err
	}
	if opts.strict && len(warnings) > 0 {
		return fmt.Errorf("%d data warnings, first: %w", len(warnings), warnings[0])
	}

	frame := c.Frame()
	w := a.stdout
	if opts.out != "" {
		file, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}
	if err := surface.WriteSVG(w, scene.Elements(), frame.Width, frame.Height); err != nil {
		return fmt.Errorf("write SVG: %w", err)
	}
	if opts.out != "" {
		fmt.Fprintf(a.stdout, "wrote %s: %s, %s elements, %d warnings\n", opts.out, chartType, engine.FormatInt(scene.Len()), len(warnings))
	}
	return nil
}

// load reads the data file. A tree-map JSON file holding a single object
// with children is read as a nested hierarchy.
func load(chartType string, opts *renderOptions) (input, error) {
	if chartType == treemap.ChartType && strings.EqualFold(filepath.Ext(opts.data), ".json") {
		data, err := os.ReadFile(opts.data)
		if err != nil {
			return input{}, err
		}
		if root, ok := nestedRoot(data); ok {
			return input{root: root}, nil
		}
	}
	records, sch, err := helpers.Load(opts.data, helpers.LoadOptions{Sheet: opts.sheet})
	if err != nil {
		return input{}, fmt.Errorf("load %s: %w", opts.data, err)
	}
	return input{records: records, schema: sch}, nil
}

func nestedRoot(data []byte) (*treemap.Datum, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, false
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false
	}
	if _, ok := probe["children"]; !ok {
		return nil, false
	}
	var root treemap.Datum
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, false
	}
	return &root, true
}

// prepare applies the --where filters and the --aggregate step to the
// loaded records.
func prepare(chartType string, opts *renderOptions, in *input) error {
	if len(opts.where) > 0 {
		filters := engine.Filters{}
		for _, w := range opts.where {
			field, values, ok := engine.ParseFilter(w)
			if !ok {
				return fmt.Errorf("invalid --where %q (want field=a,b)", w)
			}
			filters[field] = append(filters[field], values...)
		}
		in.records = engine.FilterRecords(in.records, filters)
	}
	if opts.aggregate == "" {
		return nil
	}

	groupBy, measure := opts.groupBy, ""
	switch chartType {
	case area.ChartType, line.ChartType:
		if len(groupBy) == 0 {
			groupBy = nonEmpty(opts.x, opts.category)
		}
		measure = opts.y
	case heatmap.ChartType:
		if len(groupBy) == 0 {
			groupBy = nonEmpty(opts.x, opts.y)
		}
		measure = opts.value
	case funnel.ChartType, exactfunnel.ChartType:
		if len(groupBy) == 0 {
			groupBy = nonEmpty(opts.label)
		}
		measure = opts.value
	default:
		return fmt.Errorf("--aggregate is not supported for %s", chartType)
	}
	if len(groupBy) == 0 {
		return fmt.Errorf("--aggregate needs --group-by or the chart's field flags")
	}

	agg := engine.Aggregation(opts.aggregate)
	if agg == engine.AggCount && measure == "" {
		measure = "count"
		switch chartType {
		case area.ChartType, line.ChartType:
			opts.y = measure
		default:
			opts.value = measure
		}
	}
	records, err := engine.Aggregate(in.records, groupBy, measure, agg, engine.SortOrder(opts.sortOrder))
	if err != nil {
		return err
	}
	in.records = records
	return nil
}

func nonEmpty(fields ...string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (in input) common(s settings.Settings) engine.Common {
	c := engine.Common{Data: in.records}
	s.Apply(&c)
	return c
}

func applySuggestion(o *renderOptions, s schema.Suggestion) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&o.x, s.X)
	fill(&o.y, s.Y)
	fill(&o.category, s.Category)
	fill(&o.value, s.Value)
	fill(&o.label, s.Label)
}
