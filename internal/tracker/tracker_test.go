package tracker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achauhan/focusreport/internal/domain"
	"github.com/achauhan/focusreport/internal/heuristics"
	"github.com/achauhan/focusreport/internal/report"
	"github.com/achauhan/focusreport/internal/signal"
)

const tick = 10 * time.Second

// captureSink records the session handed over on stop
type captureSink struct {
	mu      sync.Mutex
	session *domain.Session
	err     error
}

func (c *captureSink) HandleSession(s *domain.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
	return c.err
}

func (c *captureSink) captured() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func newTestTracker(frames []signal.Frame, sink Sink) (*Tracker, *clock.Mock, *signal.Playback) {
	mock := clock.NewMock()
	p := signal.NewPlayback(frames)
	tr := New(p.Providers(), sink, Options{
		PollingInterval: tick,
		IdleThreshold:   60 * time.Second,
		ResolveTimeout:  time.Second,
		Clock:           mock,
	})
	return tr, mock, p
}

// advance fires one tick on the mock clock and waits for the run loop to
// fold it into the session
func advance(t *testing.T, tr *Tracker, mock *clock.Mock, want func(*domain.Session) bool) {
	t.Helper()
	mock.Add(tick)
	require.Eventually(t, func() bool {
		snap := tr.Snapshot()
		return snap != nil && want(snap)
	}, 2*time.Second, 2*time.Millisecond)
}

// settle gives the run loop a moment to arm its ticker and drain channels
func settle() { time.Sleep(20 * time.Millisecond) }

func editorFrame(title string) signal.Frame {
	return signal.Frame{IdleSeconds: 1, App: domain.AppInfo{Name: "Editor", WindowTitle: title}}
}

func TestInvalidTransitionsAreIgnored(t *testing.T) {
	tr, _, _ := newTestTracker(nil, nil)

	// all of these are no-ops from Idle
	tr.Pause()
	tr.Resume()
	require.NoError(t, tr.Stop())
	assert.False(t, tr.IsTracking())
	assert.Nil(t, tr.Snapshot())

	tr.Start()
	defer tr.Stop()
	settle()
	first := tr.Snapshot()
	require.NotNil(t, first)

	// second Start is ignored, the live session survives
	tr.Start()
	assert.Equal(t, first.ID, tr.Snapshot().ID)

	// Resume while Active is ignored
	tr.Resume()
	assert.Len(t, tr.Snapshot().Events, 1)
}

func TestEndToEndScenario(t *testing.T) {
	frames := []signal.Frame{
		editorFrame("main.go"),
		editorFrame("main.go"),
		editorFrame("main.go"),
		{IdleSeconds: 1, App: domain.AppInfo{Name: "Browser"}},
	}
	sink := &captureSink{}
	tr, mock, p := newTestTracker(frames, sink)

	tr.Start()
	settle()

	for i := 0; i < 4; i++ {
		if i < 3 {
			p.EmitKey(4)
			p.EmitKey(5)
		}
		n := i + 1
		advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == n })
	}

	require.NoError(t, tr.Stop())
	sess := sink.captured()
	require.NotNil(t, sess)

	assert.Equal(t, 30.0, sess.AppUsage["Editor"])
	assert.Equal(t, 10.0, sess.AppUsage["Browser"])
	assert.Equal(t, 0.0, sess.TotalIdleSeconds)

	groups := report.Compact(sess.DetailedLog, tick)
	require.Len(t, groups, 2)
	assert.Equal(t, 30*time.Second, groups[0].Duration)
	assert.Equal(t, 6, groups[0].TotalKeys)
	assert.Equal(t, "main.go", groups[0].Record.WindowTitle)

	// tracker is back to Idle and retains nothing
	assert.False(t, tr.IsTracking())
	assert.Nil(t, tr.Snapshot())
}

func TestIdleTickAccruesIdleNotUsage(t *testing.T) {
	frames := []signal.Frame{
		{IdleSeconds: 90, App: domain.AppInfo{Name: "Editor"}},
	}
	tr, mock, _ := newTestTracker(frames, nil)

	tr.Start()
	defer tr.Stop()
	settle()

	advance(t, tr, mock, func(s *domain.Session) bool { return s.TotalIdleSeconds == 10 })

	snap := tr.Snapshot()
	assert.Empty(t, snap.DetailedLog)
	assert.Empty(t, snap.AppUsage)
}

func TestAccountingInvariant(t *testing.T) {
	frames := []signal.Frame{
		editorFrame("a"),
		{IdleSeconds: 75, App: domain.AppInfo{Name: "Editor"}},
		{IdleSeconds: 2, App: domain.AppInfo{Name: "Browser"}},
		{IdleSeconds: 61, App: domain.AppInfo{Name: "Browser"}},
		editorFrame("b"),
	}
	sink := &captureSink{}
	tr, mock, _ := newTestTracker(frames, sink)

	tr.Start()
	settle()

	ticks := len(frames)
	done := 0
	for i := 0; i < ticks; i++ {
		done = i + 1
		n := done
		advance(t, tr, mock, func(s *domain.Session) bool {
			return len(s.DetailedLog)+int(s.TotalIdleSeconds/tick.Seconds()) == n
		})
	}

	require.NoError(t, tr.Stop())
	sess := sink.captured()
	require.NotNil(t, sess)

	total := sess.TotalIdleSeconds + sess.ActiveSeconds()
	assert.Equal(t, float64(ticks)*tick.Seconds(), total)
}

func TestPauseHaltsSamplingAndResumeRestarts(t *testing.T) {
	frames := []signal.Frame{
		editorFrame("a"), editorFrame("a"), editorFrame("a"), editorFrame("a"),
	}
	tr, mock, _ := newTestTracker(frames, nil)

	tr.Start()
	defer tr.Stop()
	settle()
	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 1 })

	tr.Pause()
	assert.True(t, tr.IsPaused())
	assert.True(t, tr.IsTracking())

	// no ticks while paused
	mock.Add(3 * tick)
	settle()
	snap := tr.Snapshot()
	assert.Len(t, snap.DetailedLog, 1)
	assert.Equal(t, domain.EventPause, snap.Events[len(snap.Events)-1].Type)

	tr.Resume()
	assert.False(t, tr.IsPaused())
	settle()
	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 2 })

	snap = tr.Snapshot()
	types := []domain.EventType{}
	for _, ev := range snap.Events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []domain.EventType{domain.EventStart, domain.EventPause, domain.EventResume}, types)
}

func TestCountersSurvivePauseResume(t *testing.T) {
	frames := []signal.Frame{editorFrame("a")}
	tr, mock, p := newTestTracker(frames, nil)

	tr.Start()
	defer tr.Stop()
	settle()

	p.EmitKey(1)
	p.EmitKey(2)
	p.EmitKey(3)
	settle() // let the run loop consume the events

	tr.Pause()
	tr.Resume()
	settle()

	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 1 })

	rec := tr.Snapshot().DetailedLog[0]
	assert.Equal(t, 3, rec.KeystrokeCount)
	assert.Equal(t, []int{1, 2, 3}, rec.UniqueKeys)
}

func TestLowVarianceTypingGetsFlagged(t *testing.T) {
	frames := []signal.Frame{editorFrame("a")}
	tr, mock, p := newTestTracker(frames, nil)

	tr.Start()
	defer tr.Stop()
	settle()

	for i := 0; i < 12; i++ {
		p.EmitKey(7) // same key over and over
	}
	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 1 })

	rec := tr.Snapshot().DetailedLog[0]
	assert.Equal(t, 12, rec.KeystrokeCount)
	assert.Contains(t, rec.FlagReason, heuristics.ReasonLowVariance)
}

func TestMouseOnlyStreakFlagsThirdTick(t *testing.T) {
	frames := []signal.Frame{
		editorFrame("a"), editorFrame("a"), editorFrame("a"),
	}
	tr, mock, _ := newTestTracker(frames, nil)

	tr.Start()
	defer tr.Stop()
	settle()

	for i := 0; i < 3; i++ {
		n := i + 1
		advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == n })
	}

	log := tr.Snapshot().DetailedLog
	assert.Empty(t, log[0].FlagReason)
	assert.Empty(t, log[1].FlagReason)
	assert.Contains(t, log[2].FlagReason, heuristics.ReasonLowEngagement)
}

func TestWindowSwitchesCountedPerTick(t *testing.T) {
	frames := []signal.Frame{editorFrame("a"), editorFrame("a")}
	tr, mock, p := newTestTracker(frames, nil)

	tr.Start()
	defer tr.Stop()
	settle()

	for i := 0; i < 7; i++ {
		p.EmitSwitch()
	}
	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 1 })

	rec := tr.Snapshot().DetailedLog[0]
	assert.Equal(t, 7, rec.WindowSwitches)
	assert.Contains(t, rec.FlagReason, heuristics.ReasonWindowSwitching)

	// counter resets at the tick boundary
	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 2 })
	assert.Equal(t, 0, tr.Snapshot().DetailedLog[1].WindowSwitches)
}

func TestStopClosesSessionAndHandsOff(t *testing.T) {
	frames := []signal.Frame{editorFrame("a")}
	sink := &captureSink{}
	tr, mock, _ := newTestTracker(frames, sink)

	tr.Start()
	settle()
	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 1 })

	require.NoError(t, tr.Stop())

	sess := sink.captured()
	require.NotNil(t, sess)
	require.NotNil(t, sess.EndTime)
	assert.False(t, sess.EndTime.Before(sess.StartTime))
	assert.Equal(t, domain.EventStop, sess.Events[len(sess.Events)-1].Type)
	assert.Equal(t, StateIdle, tr.State())
}

func TestStopFromPaused(t *testing.T) {
	sink := &captureSink{}
	tr, _, _ := newTestTracker([]signal.Frame{editorFrame("a")}, sink)

	tr.Start()
	settle()
	tr.Pause()
	require.NoError(t, tr.Stop())

	sess := sink.captured()
	require.NotNil(t, sess)
	require.NotNil(t, sess.EndTime)
	assert.False(t, tr.IsTracking())
}

func TestSinkFailureSurfacesButTrackerResets(t *testing.T) {
	sink := &captureSink{err: errors.New("disk full")}
	tr, _, _ := newTestTracker([]signal.Frame{editorFrame("a")}, sink)

	tr.Start()
	settle()

	err := tr.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, tr.IsTracking())
}

func TestProviderFailureDegradesToUnknown(t *testing.T) {
	// no frames at all: playback falls back to the Unknown bucket
	tr, mock, _ := newTestTracker(nil, nil)

	tr.Start()
	defer tr.Stop()
	settle()

	advance(t, tr, mock, func(s *domain.Session) bool { return len(s.DetailedLog) == 1 })
	rec := tr.Snapshot().DetailedLog[0]
	assert.Equal(t, signal.UnknownApp, rec.AppName)
}
