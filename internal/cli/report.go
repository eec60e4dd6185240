package cli

import (
	"fmt"

	"github.com/achauhan/focusreport/internal/store"
)

// ReportCmd re-renders a stored session without re-running it
type ReportCmd struct {
	ID           string `arg:"" optional:"" help:"Session id (defaults to the most recent)"`
	ReportFormat string `name:"report-format" enum:"pdf,text,ndjson" default:"text" help:"Report artifact format"`
	Output       string `short:"o" help:"Report output path (pdf format only)"`
	Password     string `help:"Password for the PDF artifact (overrides config)"`
	Target       string `help:"Audit target named in the report header (overrides config)"`
}

// Run executes the report command
func (c *ReportCmd) Run(globals *Globals) error {
	dir, err := store.DefaultDir()
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}
	st, err := store.New(dir)
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}

	id := c.ID
	if id == "" {
		metas, err := st.List()
		if err != nil {
			return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
		}
		if len(metas) == 0 {
			return outputErrorCommon(globals, "NO_SESSIONS", "no stored sessions",
				"run 'focusreport track' first")
		}
		id = metas[0].ID
	}

	sess, err := st.Load(id)
	if err != nil {
		return outputErrorCommon(globals, "SESSION_NOT_FOUND", fmt.Sprintf("load session %s: %s", id, err))
	}

	password := c.Password
	if password == "" {
		password = globals.Config.Report.Password
	}
	target := c.Target
	if target == "" {
		target = globals.Config.Report.Target
	}

	path, err := renderSession(globals, sess, c.ReportFormat, c.Output, password, target, globals.trackingInterval())
	if err != nil {
		return outputErrorCommon(globals, "REPORT_FAILED", err.Error())
	}
	if path != "" && !globals.Quiet {
		fmt.Fprintf(globals.Stderr, "Report written: %s\n", path)
	}
	return nil
}
