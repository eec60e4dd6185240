// Package tracker owns the monitoring lifecycle: it samples signal providers
// on a fixed cadence, folds keystroke and app-activation events into rolling
// counters, scores each tick, and accumulates everything into a Session.
package tracker

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/achauhan/focusreport/internal/domain"
	"github.com/achauhan/focusreport/internal/heuristics"
	"github.com/achauhan/focusreport/internal/signal"
)

// State is the tracker lifecycle state
type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// Defaults used when an option is zero
const (
	DefaultPollingInterval = 10 * time.Second
	DefaultIdleThreshold   = 60 * time.Second
)

// Sink receives the finished session when tracking stops. The tracker hands
// the session over read-only and retains no reference to it.
type Sink interface {
	HandleSession(*domain.Session) error
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(*domain.Session) error

func (f SinkFunc) HandleSession(s *domain.Session) error { return f(s) }

// Options configures a Tracker
type Options struct {
	PollingInterval time.Duration
	IdleThreshold   time.Duration
	ResolveTimeout  time.Duration
	Clock           clock.Clock
	Logger          *zap.SugaredLogger
}

// Tracker is the session aggregator. All Session and counter mutation happens
// either in the run loop goroutine or in a lifecycle method, serialized by mu.
// Invalid lifecycle calls are ignored rather than failed: the surrounding
// surface gates them, but the engine must stay consistent regardless.
type Tracker struct {
	mu sync.Mutex

	providers signal.Providers
	sink      Sink
	clk       clock.Clock
	log       *zap.SugaredLogger

	interval       time.Duration
	idleThreshold  time.Duration
	resolveTimeout time.Duration

	state   State
	session *domain.Session
	eval    *heuristics.Evaluator

	// rolling per-interval counters, reset at tick boundaries
	keystrokes     int
	uniqueKeys     map[int]struct{}
	windowSwitches int

	stopLoop chan struct{}
	loopDone sync.WaitGroup
}

// New creates a tracker in the Idle state
func New(providers signal.Providers, sink Sink, opts Options) *Tracker {
	if opts.PollingInterval <= 0 {
		opts.PollingInterval = DefaultPollingInterval
	}
	if opts.IdleThreshold <= 0 {
		opts.IdleThreshold = DefaultIdleThreshold
	}
	if opts.ResolveTimeout <= 0 {
		opts.ResolveTimeout = signal.DefaultResolveTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Tracker{
		providers:      providers,
		sink:           sink,
		clk:            opts.Clock,
		log:            opts.Logger,
		interval:       opts.PollingInterval,
		idleThreshold:  opts.IdleThreshold,
		resolveTimeout: opts.ResolveTimeout,
		uniqueKeys:     make(map[int]struct{}),
	}
}

// Start begins a new session. Ignored unless the tracker is Idle.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.state != StateIdle {
		t.mu.Unlock()
		return
	}
	now := t.clk.Now()
	t.session = domain.NewSession(uuid.NewString(), now)
	t.state = StateActive
	t.eval = heuristics.NewEvaluator(t.interval)
	t.resetCountersLocked()
	id := t.session.ID
	t.mu.Unlock()

	t.log.Debugw("session started", "session_id", id, "interval", t.interval)
	t.subscribe()
	t.startLoop()
}

// Pause halts sampling and event delivery, preserving all counters. Ignored
// unless Active. No tick or event callback fires after Pause returns.
func (t *Tracker) Pause() {
	t.mu.Lock()
	if t.state != StateActive {
		t.mu.Unlock()
		return
	}
	t.state = StatePaused
	t.session.AppendEvent(domain.EventPause, t.clk.Now())
	stop := t.stopLoop
	t.stopLoop = nil
	t.mu.Unlock()

	t.haltLoop(stop)
	t.log.Debugw("session paused")
}

// Resume restarts sampling after a pause. Rolling counters carry over
// untouched; only tick boundaries reset them. Ignored unless Paused.
func (t *Tracker) Resume() {
	t.mu.Lock()
	if t.state != StatePaused {
		t.mu.Unlock()
		return
	}
	t.state = StateActive
	t.session.AppendEvent(domain.EventResume, t.clk.Now())
	t.mu.Unlock()

	t.log.Debugw("session resumed")
	t.subscribe()
	t.startLoop()
}

// Stop terminates the session, hands it to the sink, and returns the tracker
// to Idle. The sink's error (report pipeline failure) is returned to the
// caller; the tracker is back in Idle either way. Ignored when already Idle.
func (t *Tracker) Stop() error {
	t.mu.Lock()
	if t.state == StateIdle || t.session == nil {
		t.mu.Unlock()
		return nil
	}
	wasActive := t.state == StateActive
	t.state = StateIdle
	sess := t.session
	t.session = nil
	stop := t.stopLoop
	t.stopLoop = nil
	now := t.clk.Now()
	t.mu.Unlock()

	if wasActive {
		t.haltLoop(stop)
	}
	sess.Close(now)
	t.log.Debugw("session stopped", "session_id", sess.ID,
		"apps", len(sess.AppUsage), "records", len(sess.DetailedLog))

	if t.sink != nil {
		if err := t.sink.HandleSession(sess); err != nil {
			return fmt.Errorf("report pipeline: %w", err)
		}
	}
	return nil
}

// IsTracking reports whether a session is live (active or paused)
func (t *Tracker) IsTracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != StateIdle
}

// IsPaused reports whether the live session is paused
func (t *Tracker) IsPaused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StatePaused
}

// State returns the current lifecycle state
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Snapshot returns a read-only copy of the live session, or nil when Idle
func (t *Tracker) Snapshot() *domain.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.session.Clone()
}

func (t *Tracker) subscribe() {
	if err := t.providers.Keys.Start(); err != nil {
		t.log.Debugw("keystroke stream unavailable", "error", err)
	}
	if err := t.providers.Switches.Start(); err != nil {
		t.log.Debugw("activation stream unavailable", "error", err)
	}
}

func (t *Tracker) unsubscribe() {
	t.providers.Keys.Stop()
	t.providers.Switches.Stop()
}

func (t *Tracker) startLoop() {
	stop := make(chan struct{})
	t.mu.Lock()
	t.stopLoop = stop
	t.mu.Unlock()
	t.loopDone.Add(1)
	go t.run(stop)
}

// haltLoop stops the run loop and waits for it to drain before unsubscribing,
// so no callback can touch the session after a lifecycle call returns.
func (t *Tracker) haltLoop(stop chan struct{}) {
	if stop != nil {
		close(stop)
		t.loopDone.Wait()
	}
	t.unsubscribe()
}

// run is the single execution context for ticks and signal events
func (t *Tracker) run(stop chan struct{}) {
	defer t.loopDone.Done()
	ticker := t.clk.Ticker(t.interval)
	defer ticker.Stop()

	keys := t.providers.Keys.Keys()
	acts := t.providers.Switches.Activations()

	for {
		select {
		case <-stop:
			return
		case ev := <-keys:
			t.noteKey(ev)
		case <-acts:
			t.noteSwitch()
		case <-ticker.C:
			// events already delivered belong to this interval
			t.drainEvents(keys, acts)
			t.tick()
		}
	}
}

func (t *Tracker) drainEvents(keys <-chan signal.KeyEvent, acts <-chan struct{}) {
	for {
		select {
		case ev := <-keys:
			t.noteKey(ev)
		case <-acts:
			t.noteSwitch()
		default:
			return
		}
	}
}

func (t *Tracker) noteKey(ev signal.KeyEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateActive {
		return
	}
	t.keystrokes++
	t.uniqueKeys[ev.KeyCode] = struct{}{}
}

func (t *Tracker) noteSwitch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateActive {
		return
	}
	t.windowSwitches++
}

// tick samples the providers and folds one interval into the session
func (t *Tracker) tick() {
	// provider calls are bounded and happen outside the lock
	idle := signal.ResolveIdle(t.providers.Idle, t.resolveTimeout)
	app := signal.ResolveApp(t.providers.App, t.resolveTimeout)
	media := signal.ResolveMedia(t.providers.Media, t.resolveTimeout)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateActive || t.session == nil {
		return
	}

	seconds := t.interval.Seconds()
	if idle >= t.idleThreshold.Seconds() {
		t.session.AddIdleTime(seconds)
		t.eval.ResetStreak()
		t.resetCountersLocked()
		return
	}

	snap := domain.Snapshot{
		Timestamp:      t.clk.Now(),
		IdleSeconds:    idle,
		App:            app,
		Keystrokes:     t.keystrokes,
		UniqueKeys:     sortedKeys(t.uniqueKeys),
		WindowSwitches: t.windowSwitches,
		MediaPlaying:   media,
	}
	verdict := t.eval.Evaluate(snap)

	t.session.AppendRecord(domain.ActivityRecord{
		Timestamp:      snap.Timestamp,
		AppName:        app.Name,
		WindowTitle:    app.WindowTitle,
		ProjectFolder:  app.ProjectFolder,
		ActiveURL:      app.URL,
		KeystrokeCount: snap.Keystrokes,
		UniqueKeys:     snap.UniqueKeys,
		IsHuman:        verdict.IsHuman,
		MediaPlaying:   media,
		WindowSwitches: snap.WindowSwitches,
		FlagReason:     verdict.FlagReason,
	})
	t.session.LogActivity(app.Name, seconds)
	t.resetCountersLocked()
}

func (t *Tracker) resetCountersLocked() {
	t.keystrokes = 0
	t.uniqueKeys = make(map[int]struct{})
	t.windowSwitches = 0
}

func sortedKeys(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	keys := lo.Keys(set)
	sort.Ints(keys)
	return keys
}
