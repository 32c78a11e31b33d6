package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/chartcore/engine"
	"github.com/spektr-org/chartcore/schema"
)

// LoadOptions controls Load.
type LoadOptions struct {
	// Sheet selects the XLSX worksheet; empty means the first.
	Sheet string
	// Discover overrides schema.DefaultDiscoverOptions.
	Discover *schema.DiscoverOptions
}

// Load reads records from a .csv, .json or .xlsx file, chosen by
// extension, and classifies their columns.
func Load(path string, opts LoadOptions) ([]engine.Record, *schema.Config, error) {
	disc := schema.DefaultDiscoverOptions()
	if opts.Discover != nil {
		disc = *opts.Discover
	}

	var t Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		if t, err = ReadCSV(f); err != nil {
			return nil, nil, err
		}
	case ".xlsx", ".xlsm":
		var err error
		if t, err = LoadXLSX(path, opts.Sheet); err != nil {
			return nil, nil, err
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		records, err := ParseJSON(data)
		if err != nil {
			return nil, nil, err
		}
		sch, err := schema.DiscoverFromRecords(records, disc)
		if err != nil {
			return nil, nil, err
		}
		return records, sch, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	sch, err := t.Discover(disc)
	if err != nil {
		return nil, nil, err
	}
	return t.Records(sch), sch, nil
}
