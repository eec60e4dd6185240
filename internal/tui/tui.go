// Package tui provides a Bubble Tea control surface for the tracker:
// start/pause/resume/stop keybindings and a live session status view.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/achauhan/focusreport/internal/domain"
	"github.com/achauhan/focusreport/internal/tracker"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type refreshMsg time.Time

// Model is the root Bubble Tea model for the control surface
type Model struct {
	tracker   *tracker.Tracker
	stopwatch stopwatch.Model
	snapshot  *domain.Session
	lastErr   error
	width     int
	quitting  bool
}

// New creates a control surface over the given tracker
func New(tr *tracker.Tracker) Model {
	return Model{
		tracker:   tr,
		stopwatch: stopwatch.NewWithInterval(time.Second),
	}
}

func (m Model) Init() tea.Cmd {
	return refreshTick()
}

func refreshTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshMsg:
		m.snapshot = m.tracker.Snapshot()
		return m, refreshTick()

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			m.tracker.Start()
			m.lastErr = nil
			return m, m.stopwatch.Start()
		case "p":
			m.tracker.Pause()
			return m, m.stopwatch.Stop()
		case "r":
			m.tracker.Resume()
			return m, m.stopwatch.Start()
		case "x":
			m.lastErr = m.tracker.Stop()
			cmds := []tea.Cmd{m.stopwatch.Stop(), m.stopwatch.Reset()}
			return m, tea.Batch(cmds...)
		case "q", "ctrl+c":
			if m.tracker.IsTracking() {
				m.lastErr = m.tracker.Stop()
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.stopwatch, cmd = m.stopwatch.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("focusreport") + "\n\n")

	state := m.tracker.State()
	b.WriteString(labelStyle.Render("Status: ") + stateBadge(state) + "\n")
	b.WriteString(labelStyle.Render("Elapsed: ") + m.stopwatch.View() + "\n")

	if snap := m.snapshot; snap != nil {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Session: ") + snap.ID + "\n")
		b.WriteString(labelStyle.Render("Started: ") + snap.StartTime.Format("15:04:05") + "\n")
		b.WriteString(labelStyle.Render("Apps: ") + fmt.Sprintf("%d", len(snap.AppUsage)) + "  ")
		b.WriteString(labelStyle.Render("Records: ") + fmt.Sprintf("%d", len(snap.DetailedLog)) + "  ")
		b.WriteString(labelStyle.Render("Idle: ") + fmt.Sprintf("%ds", int(snap.TotalIdleSeconds)) + "\n")
		if n := len(snap.Events); n > 0 {
			last := snap.Events[n-1]
			b.WriteString(dimStyle.Render(fmt.Sprintf("Last event: %s at %s",
				last.Type, last.Timestamp.Format("15:04:05"))) + "\n")
		}
	}

	if m.lastErr != nil {
		b.WriteString("\n" + errStyle.Render("Error: "+m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n" + hintStyle.Render("s start · p pause · r resume · x stop · q quit") + "\n")
	return b.String()
}

func stateBadge(s tracker.State) string {
	switch s {
	case tracker.StateActive:
		return activeStyle.Render("TRACKING")
	case tracker.StatePaused:
		return pausedStyle.Render("PAUSED")
	default:
		return idleStyle.Render("IDLE")
	}
}
