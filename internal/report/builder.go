package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/achauhan/focusreport/internal/domain"
)

// DocumentTitle is the fixed report header
const DocumentTitle = "FOCUSREPORT: SESSION LOG"

const timestampLayout = "Jan 2, 2006 15:04:05"

// BuildOptions configures document assembly
type BuildOptions struct {
	Target      string        // audit target shown in the header
	GeneratedAt time.Time     // report generation time
	Tick        time.Duration // sampling interval the detailed log was taken at
}

// Build assembles the full content model for a finished session: header,
// timing, event timeline, usage breakdown, and the compacted forensic
// timeline.
func Build(sess *domain.Session, opts BuildOptions) *Document {
	if opts.Tick <= 0 {
		opts.Tick = 10 * time.Second
	}
	doc := &Document{
		Title:       DocumentTitle,
		Target:      opts.Target,
		GeneratedAt: opts.GeneratedAt,
	}

	doc.Sections = append(doc.Sections,
		headerSection(opts),
		timingSection(sess, opts.GeneratedAt),
		eventSection(sess),
		usageSection(sess),
		forensicSection(sess, opts.Tick),
	)
	return doc
}

func headerSection(opts BuildOptions) Section {
	lines := []Line{
		{Text: DocumentTitle, Bold: true, Size: 22},
		{Text: "Generated: " + opts.GeneratedAt.Format(timestampLayout), Size: 10},
	}
	if opts.Target != "" {
		lines = append(lines, Line{Text: "Audit target: " + opts.Target, Size: 10})
	}
	return Section{Lines: lines}
}

func timingSection(sess *domain.Session, now time.Time) Section {
	stopped := "Unknown"
	if sess.EndTime != nil {
		stopped = sess.EndTime.Format(timestampLayout)
	}
	duration := sess.Duration(now)
	return Section{
		Lines: []Line{
			{Text: "Started: " + sess.StartTime.Format(timestampLayout), Size: 12},
			{Text: "Stopped: " + stopped, Size: 12},
			{Text: "Total Duration: " + formatDuration(duration), Size: 12, Bold: true},
			{Text: fmt.Sprintf("Total Idle Time: %d seconds", int(sess.TotalIdleSeconds)), Size: 12},
		},
	}
}

func eventSection(sess *domain.Session) Section {
	sec := Section{Title: "SESSION EVENTS"}
	for _, ev := range sess.Events {
		sec.Lines = append(sec.Lines, Line{
			Text: fmt.Sprintf("%s  %s", ev.Timestamp.Format(timestampLayout), ev.Type),
			Size: 11,
			Tag:  EventTag(ev.Type),
		})
	}
	return sec
}

func usageSection(sess *domain.Session) Section {
	sec := Section{Title: "APPLICATION USAGE BREAKDOWN"}
	if len(sess.AppUsage) == 0 {
		sec.Lines = []Line{{Text: "No significant activity recorded.", Size: 11}}
		return sec
	}

	// descending by accumulated time; stable over first-seen order for ties
	apps := append([]string(nil), sess.AppOrder...)
	sort.SliceStable(apps, func(i, j int) bool {
		return sess.AppUsage[apps[i]] > sess.AppUsage[apps[j]]
	})

	table := &Table{Header: []string{"Application", "Time"}}
	for _, app := range apps {
		table.Rows = append(table.Rows, []string{app, formatSeconds(sess.AppUsage[app])})
	}
	sec.Table = table
	return sec
}

func forensicSection(sess *domain.Session, tick time.Duration) Section {
	sec := Section{Title: "ACTIVITY TIMELINE"}
	groups := Compact(sess.DetailedLog, tick)
	if len(groups) == 0 {
		sec.Lines = []Line{{Text: "No activity recorded.", Size: 11}}
		return sec
	}
	for _, g := range groups {
		sec.Lines = append(sec.Lines, Line{
			Text: formatGroup(g),
			Size: 10,
			Tag:  groupTag(g.Record),
		})
	}
	return sec
}

func formatGroup(g Group) string {
	line := fmt.Sprintf("%s (%s)  %s",
		g.Start.Format("15:04:05"), formatDuration(g.Duration), g.Record.AppName)
	if ctx := g.Record.Context(); ctx != "" {
		line += "  " + TruncateContext(ctx)
	}
	return fmt.Sprintf("%s  [%d keys]  %s", line, g.TotalKeys, StatusFor(g.Record))
}

func groupTag(rec domain.ActivityRecord) Tag {
	switch {
	case rec.Flagged():
		return TagFlagged
	case rec.IsHuman:
		return TagPositive
	default:
		return TagNeutral
	}
}

// TotalGroupDuration sums compacted group durations; it equals the detailed
// log's tick total since compaction is lossless on duration.
func TotalGroupDuration(groups []Group) time.Duration {
	return lo.SumBy(groups, func(g Group) time.Duration { return g.Duration })
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func formatSeconds(secs float64) string {
	return formatDuration(time.Duration(secs * float64(time.Second)))
}
