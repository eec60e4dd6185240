package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/achauhan/focusreport/internal/domain"
	signals "github.com/achauhan/focusreport/internal/signal"
	"github.com/achauhan/focusreport/internal/store"
	"github.com/achauhan/focusreport/internal/tracker"
	"github.com/achauhan/focusreport/internal/tui"
)

// UICmd launches the interactive control surface
type UICmd struct {
	Interval     time.Duration `short:"i" help:"Sampling interval (overrides config)"`
	ReportFormat string        `name:"report-format" enum:"pdf,text,ndjson" default:"pdf" help:"Report artifact format on stop"`
	Demo         bool          `help:"Drive the session from the scripted demo providers"`
}

// Run executes the ui command
func (c *UICmd) Run(globals *Globals) error {
	interval := c.Interval
	if interval <= 0 {
		interval = globals.trackingInterval()
	}

	dir, err := store.DefaultDir()
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}
	st, err := store.New(dir)
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}

	var providers signals.Providers
	var demo *demoDriver
	if c.Demo {
		demo = newDemoDriver()
		providers = demo.playback.Providers()
		defer demo.close()
	} else {
		providers = signals.Noop()
	}

	sink := tracker.SinkFunc(func(sess *domain.Session) error {
		if _, err := st.Save(sess); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
		// stream formats would fight the TUI for the terminal, so artifacts
		// only: pdf goes to the default path
		if c.ReportFormat == "pdf" {
			_, err := renderSession(globals, sess, "pdf", "",
				globals.Config.Report.Password, globals.Config.Report.Target, interval)
			return err
		}
		return nil
	})

	tr := tracker.New(providers, sink, tracker.Options{
		PollingInterval: interval,
		IdleThreshold:   globals.idleThreshold(),
		ResolveTimeout:  globals.resolveTimeout(),
		Logger:          globals.logger.Sugared(),
	})

	p := tea.NewProgram(tui.New(tr), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	// a session must not outlive the surface controlling it
	return tr.Stop()
}
