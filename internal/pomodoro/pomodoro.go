// Package pomodoro runs a work/break focus timer. When a phase ends the
// timer notifies, switches to the other phase and waits to be started again.
package pomodoro

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/dmitrijs2005/rerange/internal/notify"
	"github.com/dmitrijs2005/rerange/internal/timex"
)

type Phase string

const (
	PhaseWork  Phase = "work"
	PhaseBreak Phase = "break"
)

const (
	NotifyTitle   = "Pomodoro"
	WorkOverBody  = "Work session over"
	BreakOverBody = "Break is over"
)

type stopper interface {
	Stop() bool
}

// afterFunc is replaced in tests.
var afterFunc = func(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// Status is a point-in-time view of the timer.
type Status struct {
	Phase     Phase
	Remaining time.Duration
	Running   bool
}

type Timer struct {
	mu sync.Mutex

	work, brk time.Duration
	phase     Phase
	remaining time.Duration
	running   bool
	startedAt time.Time
	timer     stopper
	gen       uint64

	notifier notify.Notifier
	clock    timex.Clock
	logger   logging.Logger
}

// New returns a stopped timer at the start of a work phase. Durations are
// in minutes; values below one are raised to one.
func New(n notify.Notifier, clock timex.Clock, logger logging.Logger, workMin, breakMin int) *Timer {
	t := &Timer{notifier: n, clock: clock, logger: logger, phase: PhaseWork}
	t.work, t.brk = minutes(workMin), minutes(breakMin)
	t.remaining = t.work
	return t
}

func minutes(m int) time.Duration {
	return time.Duration(max(m, 1)) * time.Minute
}

func (t *Timer) phaseLength(p Phase) time.Duration {
	if p == PhaseWork {
		return t.work
	}
	return t.brk
}

func (t *Timer) disarmLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

func (t *Timer) remainingLocked() time.Duration {
	if !t.running {
		return t.remaining
	}
	return max(t.remaining-t.clock.Now().Sub(t.startedAt), 0)
}

// SetDurations changes the phase lengths. The timer stops and the current
// phase restarts from its new full length.
func (t *Timer) SetDurations(workMin, breakMin int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.disarmLocked()
	t.work, t.brk = minutes(workMin), minutes(breakMin)
	t.running = false
	t.remaining = t.phaseLength(t.phase)
}

// Start runs the current phase from where it was paused. Starting a running
// timer does nothing.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return
	}
	t.running = true
	t.startedAt = t.clock.Now()
	gen := t.gen
	t.timer = afterFunc(t.remaining, func() { t.finish(gen) })
}

func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.remaining = t.remainingLocked()
	t.running = false
	t.disarmLocked()
}

// Reset stops the timer and goes back to a full work phase.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.disarmLocked()
	t.running = false
	t.phase = PhaseWork
	t.remaining = t.work
}

// Skip stops the timer and moves to the other phase without notifying.
func (t *Timer) Skip() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.disarmLocked()
	t.running = false
	t.phase = other(t.phase)
	t.remaining = t.phaseLength(t.phase)
}

func (t *Timer) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{Phase: t.phase, Remaining: t.remainingLocked(), Running: t.running}
}

// Stop disarms the timer for shutdown.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.disarmLocked()
	t.running = false
}

func (t *Timer) finish(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || !t.running {
		t.mu.Unlock()
		return
	}
	ended := t.phase
	t.timer = nil
	t.running = false
	t.phase = other(ended)
	t.remaining = t.phaseLength(t.phase)
	t.mu.Unlock()

	body := WorkOverBody
	if ended == PhaseBreak {
		body = BreakOverBody
	}
	t.logger.Info(context.Background(), "pomodoro phase finished", "phase", string(ended))
	t.notifier.Notify(NotifyTitle, body)
}

func other(p Phase) Phase {
	if p == PhaseWork {
		return PhaseBreak
	}
	return PhaseWork
}
