package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/chartcore/helpers"
	"github.com/spektr-org/chartcore/schema"
)

type discoverOptions struct {
	sheet   string
	format  string
	recover []string
	chart   string
}

func (a *App) newDiscoverCmd() *cobra.Command {
	opts := &discoverOptions{}

	cmd := &cobra.Command{
		Use:   "discover <data-file>",
		Short: "Print the detected columns of a data file",
		Long: `Classify every column of a CSV, JSON or XLSX file as numeric, temporal,
categorical or boolean, and as a measure or a dimension.

Examples:
  chartcore discover sales.csv
  chartcore discover sales.xlsx --sheet Q1 --format yaml
  chartcore discover tickets.csv --recover ticket --suggest line`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.discover(args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "XLSX worksheet (default: first sheet)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringSliceVar(&opts.recover, "recover", nil, "Columns to keep even if detected as identifiers")
	cmd.Flags().StringVar(&opts.chart, "suggest", "", "Also print default fields for this chart type")
	return cmd
}

func (a *App) discover(path string, opts *discoverOptions) error {
	disc := schema.DefaultDiscoverOptions()
	disc.RecoverColumns = opts.recover
	_, sch, err := helpers.Load(path, helpers.LoadOptions{Sheet: opts.sheet, Discover: &disc})
	if err != nil {
		return fmt.Errorf("discover %s: %w", path, err)
	}

	out := struct {
		schema.Config `yaml:",inline"`
		Suggestion    *schema.Suggestion `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	}{Config: *sch}
	if opts.chart != "" {
		s := sch.Suggest(opts.chart)
		out.Suggestion = &s
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(a.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", opts.format)
	}
}
