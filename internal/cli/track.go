package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/achauhan/focusreport/internal/domain"
	signals "github.com/achauhan/focusreport/internal/signal"
	"github.com/achauhan/focusreport/internal/store"
	"github.com/achauhan/focusreport/internal/tracker"
)

// TrackCmd runs a live monitoring session until stopped
type TrackCmd struct {
	Interval      time.Duration `short:"i" help:"Sampling interval (overrides config)"`
	IdleThreshold time.Duration `help:"Idle classification threshold (overrides config)"`
	Duration      time.Duration `short:"d" help:"Stop automatically after this long (0 = run until signal)"`
	Output        string        `short:"o" help:"Report output path (pdf format only)"`
	ReportFormat  string        `name:"report-format" enum:"pdf,text,ndjson" default:"pdf" help:"Report artifact format"`
	Password      string        `help:"Password for the PDF artifact (overrides config)"`
	Target        string        `help:"Audit target named in the report header (overrides config)"`
	Demo          bool          `help:"Drive the session from the scripted demo providers"`
}

// Run executes the track command. SIGINT/SIGTERM stop the session, SIGUSR1
// pauses it, SIGUSR2 resumes it.
func (c *TrackCmd) Run(globals *Globals) error {
	interval := c.Interval
	if interval <= 0 {
		interval = globals.trackingInterval()
	}
	idleThreshold := c.IdleThreshold
	if idleThreshold <= 0 {
		idleThreshold = globals.idleThreshold()
	}
	password := c.Password
	if password == "" {
		password = globals.Config.Report.Password
	}
	target := c.Target
	if target == "" {
		target = globals.Config.Report.Target
	}

	dir, err := store.DefaultDir()
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}
	st, err := store.New(dir)
	if err != nil {
		return outputErrorCommon(globals, "STORE_UNAVAILABLE", err.Error())
	}

	providers, demo := c.providers()
	if demo != nil {
		defer demo.close()
	}

	sink := tracker.SinkFunc(func(sess *domain.Session) error {
		if _, err := st.Save(sess); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}
		path, err := renderSession(globals, sess, c.ReportFormat, c.Output, password, target, interval)
		if err != nil {
			return err
		}
		if path != "" && !globals.Quiet {
			fmt.Fprintf(globals.Stderr, "Report written: %s\n", path)
		}
		return nil
	})

	tr := tracker.New(providers, sink, tracker.Options{
		PollingInterval: interval,
		IdleThreshold:   idleThreshold,
		ResolveTimeout:  globals.resolveTimeout(),
		Logger:          globals.logger.Sugared(),
	})

	tr.Start()
	if !globals.Quiet {
		fmt.Fprintf(globals.Stderr, "Tracking started (interval %s). Ctrl+C stops, SIGUSR1 pauses, SIGUSR2 resumes.\n", interval)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	var deadline <-chan time.Time
	if c.Duration > 0 {
		deadline = time.After(c.Duration)
	}

	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGUSR1:
				tr.Pause()
				if !globals.Quiet {
					fmt.Fprintln(globals.Stderr, "Tracking paused")
				}
			case syscall.SIGUSR2:
				tr.Resume()
				if !globals.Quiet {
					fmt.Fprintln(globals.Stderr, "Tracking resumed")
				}
			default:
				return c.stop(globals, tr)
			}
		case <-deadline:
			return c.stop(globals, tr)
		}
	}
}

func (c *TrackCmd) stop(globals *Globals, tr *tracker.Tracker) error {
	if err := tr.Stop(); err != nil {
		return outputErrorCommon(globals, "REPORT_FAILED", err.Error(),
			"the session is stored; retry with 'focusreport report'")
	}
	return nil
}

// providers picks the demo playback or the no-op bundle. Real OS providers
// plug in here when a platform build supplies them.
func (c *TrackCmd) providers() (signals.Providers, *demoDriver) {
	if c.Demo {
		d := newDemoDriver()
		return d.playback.Providers(), d
	}
	return signals.Noop(), nil
}
