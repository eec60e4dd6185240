// Package heuristics scores each sampled tick for authenticity. The rules are
// deterministic thresholds, evaluated independently; any rule that fires
// appends its reason code to the verdict.
package heuristics

import (
	"strings"
	"time"

	"github.com/achauhan/focusreport/internal/domain"
)

// Reason codes attached to flagged ticks
const (
	ReasonLowVariance     = "LOW_VARIANCE_INPUT"
	ReasonWindowSwitching = "EXCESSIVE_WINDOW_SWITCHING"
	ReasonLowEngagement   = "LOW_ENGAGEMENT (Mouse Only)"
)

// ReasonSeparator joins simultaneous reasons
const ReasonSeparator = "; "

// Rule thresholds
const (
	lowVarianceMinKeys   = 10 // more than this many keystrokes...
	lowVarianceMaxUnique = 3  // ...from fewer than this many distinct keys
	maxWindowSwitches    = 5
	mouseOnlyStreakLimit = 3
)

// Verdict is the evaluator's output for one tick
type Verdict struct {
	IsHuman    bool
	FlagReason string
}

// Evaluator holds the one piece of cross-tick state the rules need: the count
// of consecutive mouse-only ticks. It must only be driven from the tracker's
// run loop.
type Evaluator struct {
	pollingInterval time.Duration
	mouseOnlyStreak int
}

// NewEvaluator creates an evaluator for the given sampling cadence
func NewEvaluator(pollingInterval time.Duration) *Evaluator {
	return &Evaluator{pollingInterval: pollingInterval}
}

// Evaluate scores one non-idle tick. Missing signals never fire a rule: an
// absent key set or switch count simply reads as zero.
func (e *Evaluator) Evaluate(snap domain.Snapshot) Verdict {
	var reasons []string

	if snap.Keystrokes > lowVarianceMinKeys && len(snap.UniqueKeys) < lowVarianceMaxUnique {
		reasons = append(reasons, ReasonLowVariance)
	}

	if snap.WindowSwitches > maxWindowSwitches {
		reasons = append(reasons, ReasonWindowSwitching)
	}

	mouseActive := snap.IdleSeconds < e.pollingInterval.Seconds()
	if snap.Keystrokes == 0 && mouseActive {
		e.mouseOnlyStreak++
		if e.mouseOnlyStreak >= mouseOnlyStreakLimit {
			reasons = append(reasons, ReasonLowEngagement)
		}
	}
	if snap.Keystrokes > 0 {
		e.mouseOnlyStreak = 0
	}

	flag := strings.Join(reasons, ReasonSeparator)
	return Verdict{
		IsHuman:    (snap.Keystrokes > 0 && flag == "") || mouseActive,
		FlagReason: flag,
	}
}

// ResetStreak clears the mouse-only streak. Called by the tracker on idle
// ticks: idleness breaks a low-engagement pattern.
func (e *Evaluator) ResetStreak() {
	e.mouseOnlyStreak = 0
}

// Streak exposes the current mouse-only streak for observability
func (e *Evaluator) Streak() int {
	return e.mouseOnlyStreak
}
