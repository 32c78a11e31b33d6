// Command chartcore renders charts from data files to SVG.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spektr-org/chartcore/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "0.3.0"

func main() {
	cli.Version = version
	app := cli.New()

	if err := app.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
