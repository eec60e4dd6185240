package cli

import (
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/achauhan/focusreport/internal/output"
	"github.com/achauhan/focusreport/internal/store"
)

// SessionsCmd lists stored sessions
type SessionsCmd struct {
	Dir string `help:"Session store directory (defaults to ~/.focusreport/sessions)"`
}

// Run executes the sessions command
func (c *SessionsCmd) Run(globals *Globals) error {
	dir := c.Dir
	if dir == "" {
		var err error
		dir, err = store.DefaultDir()
		if err != nil {
			return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
		}
	}
	st, err := store.New(dir)
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}
	metas, err := st.List()
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}

	if globals.Format == "ndjson" {
		w := output.NewNDJSONWriter(globals.Stdout)
		for _, m := range metas {
			end := ""
			if m.EndTime != nil {
				end = m.EndTime.UTC().Format(time.RFC3339)
			}
			if err := w.WriteListing(m.ID, m.StartTime.UTC().Format(time.RFC3339), end, m.Apps, m.Records); err != nil {
				return err
			}
		}
		return nil
	}

	if len(metas) == 0 {
		fmt.Fprintln(globals.Stdout, "No stored sessions.")
		return nil
	}

	tbl := tablewriter.NewTable(globals.Stdout)
	tbl.Header([]string{"ID", "Started", "Ended", "Apps", "Records"})
	for _, m := range metas {
		end := "-"
		if m.EndTime != nil {
			end = m.EndTime.Format("2006-01-02 15:04:05")
		}
		if err := tbl.Append([]string{
			m.ID,
			m.StartTime.Format("2006-01-02 15:04:05"),
			end,
			fmt.Sprintf("%d", m.Apps),
			fmt.Sprintf("%d", m.Records),
		}); err != nil {
			return err
		}
	}
	return tbl.Render()
}
