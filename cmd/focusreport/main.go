package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/achauhan/focusreport/internal/cli"
	"github.com/achauhan/focusreport/internal/config"
)

const quickStart = `focusreport - activity monitoring and session audit reports

Quick start:
  focusreport track --demo -i 2s -d 30s   Run a scripted demo session
  focusreport ui --demo                   Interactive control surface
  focusreport sessions                    List stored sessions
  focusreport report                      Re-render the latest session

For help:
  focusreport --help
`

func main() {
	if len(os.Args) == 1 {
		fmt.Print(quickStart)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	// config-derived defaults, overridden by CLI flags when specified
	vars := kong.Vars{
		"config_format": cfg.Format,
	}

	ctx := kong.Parse(&c,
		kong.Name("focusreport"),
		kong.Description("focusreport: sample activity, flag bot-like patterns, emit audit reports"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)
	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
