package cli

import (
	"encoding/json"
	"fmt"

	"github.com/achauhan/focusreport/internal/config"
)

// ConfigCmd groups configuration subcommands
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" help:"Show the effective configuration"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which config file is in use"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample configuration file"`
}

// ConfigShowCmd prints the effective configuration
type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]interface{}{
			"type":    "config",
			"format":  cfg.Format,
			"quiet":   cfg.Quiet,
			"verbose": cfg.Verbose,
			"tracking": map[string]string{
				"interval":        cfg.Tracking.Interval,
				"idle_threshold":  cfg.Tracking.IdleThreshold,
				"resolve_timeout": cfg.Tracking.ResolveTimeout,
			},
			"report": map[string]string{
				"target":     cfg.Report.Target,
				"output_dir": cfg.Report.OutputDir,
			},
		})
	}

	fmt.Fprintln(globals.Stdout, "Current Configuration:")
	fmt.Fprintf(globals.Stdout, "  format: %s\n", cfg.Format)
	fmt.Fprintf(globals.Stdout, "  quiet: %v\n", cfg.Quiet)
	fmt.Fprintf(globals.Stdout, "  verbose: %v\n", cfg.Verbose)
	fmt.Fprintln(globals.Stdout, "Tracking:")
	fmt.Fprintf(globals.Stdout, "  interval: %s\n", cfg.Tracking.Interval)
	fmt.Fprintf(globals.Stdout, "  idle_threshold: %s\n", cfg.Tracking.IdleThreshold)
	fmt.Fprintf(globals.Stdout, "  resolve_timeout: %s\n", cfg.Tracking.ResolveTimeout)
	fmt.Fprintln(globals.Stdout, "Report:")
	fmt.Fprintf(globals.Stdout, "  target: %s\n", cfg.Report.Target)
	fmt.Fprintf(globals.Stdout, "  output_dir: %s\n", cfg.Report.OutputDir)
	return nil
}

// ConfigPathCmd shows the config file in use
type ConfigPathCmd struct{}

func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return json.NewEncoder(globals.Stdout).Encode(map[string]string{
			"type": "config_path",
			"path": path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found; defaults in effect.")
		return nil
	}
	fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	return nil
}

// ConfigGenerateCmd prints a sample config file
type ConfigGenerateCmd struct{}

func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	fmt.Fprint(globals.Stdout, `# focusreport configuration file
# Place at ~/.focusreport.yaml or ./focusreport.yaml

format: text
quiet: false
verbose: false

tracking:
  interval: 10s
  idle_threshold: 60s
  resolve_timeout: 2s

report:
  # target: "workstation-01"
  # password: "change-me"
  # output_dir: "~/reports"
`)
	return nil
}
