// Package cli implements the focusreport command surface. Every command is a
// kong struct with a Run(globals) method; Globals carries output streams and
// loaded configuration so tests can capture everything.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/achauhan/focusreport/internal/config"
)

// CLI is the root kong command tree
type CLI struct {
	Format  string `help:"Output format: text or ndjson" enum:"text,ndjson" default:"${config_format}"`
	Quiet   bool   `short:"q" help:"Suppress informational output"`
	Verbose bool   `short:"v" help:"Enable verbose debug logging"`

	Track    TrackCmd    `cmd:"" help:"Run a monitoring session and generate its report"`
	Report   ReportCmd   `cmd:"" help:"Re-render a stored session's report"`
	Sessions SessionsCmd `cmd:"" help:"List stored sessions"`
	UI       UICmd       `cmd:"" name:"ui" help:"Interactive session control surface"`
	Config   ConfigCmd   `cmd:"" help:"Inspect or generate configuration"`
}

// Globals is shared command state
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config

	logger *debugLogger
}

// NewGlobalsWithConfig builds Globals from parsed flags with config fallbacks
func NewGlobalsWithConfig(c *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Format:  c.Format,
		Quiet:   c.Quiet || cfg.Quiet,
		Verbose: c.Verbose || cfg.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	g.logger = newDebugLogger(g)
	return g
}

// Debug logs a verbose diagnostic line when --verbose is set
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Debug(format, args...)
	}
}

// trackingInterval resolves the configured sampling interval
func (g *Globals) trackingInterval() time.Duration {
	return parseDurationOr(g.Config.Tracking.Interval, 10*time.Second)
}

// idleThreshold resolves the configured idle cutoff
func (g *Globals) idleThreshold() time.Duration {
	return parseDurationOr(g.Config.Tracking.IdleThreshold, 60*time.Second)
}

// resolveTimeout resolves the configured provider call bound
func (g *Globals) resolveTimeout() time.Duration {
	return parseDurationOr(g.Config.Tracking.ResolveTimeout, 2*time.Second)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
