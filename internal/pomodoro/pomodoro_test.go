package pomodoro

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/dmitrijs2005/rerange/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu     sync.Mutex
	bodies []string
}

func (f *fakeNotifier) RequestPermission(context.Context) bool { return true }

func (f *fakeNotifier) Notify(_, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body)
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func withFakeTimers(t *testing.T) *[]*fakeTimer {
	t.Helper()
	var timers []*fakeTimer
	orig := afterFunc
	afterFunc = func(d time.Duration, f func()) stopper {
		ft := &fakeTimer{delay: d, fn: f}
		timers = append(timers, ft)
		return ft
	}
	t.Cleanup(func() { afterFunc = orig })
	return &timers
}

var start = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTimer(t *testing.T) (*Timer, *fakeNotifier, *timex.FixedClock, *[]*fakeTimer) {
	timers := withFakeTimers(t)
	n := &fakeNotifier{}
	clock := timex.NewFixedClock(start)
	return New(n, clock, logging.Nop(), 25, 5), n, clock, timers
}

func TestNew_Defaults(t *testing.T) {
	tm, _, _, _ := newTimer(t)
	assert.Equal(t, Status{Phase: PhaseWork, Remaining: 25 * time.Minute}, tm.Status())

	tiny := New(&fakeNotifier{}, timex.NewFixedClock(start), logging.Nop(), 0, -3)
	assert.Equal(t, time.Minute, tiny.Status().Remaining)
}

func TestStartPauseResume(t *testing.T) {
	tm, _, clock, timers := newTimer(t)

	tm.Start()
	tm.Start()
	require.Len(t, *timers, 1)
	assert.Equal(t, 25*time.Minute, (*timers)[0].delay)

	clock.Advance(10 * time.Minute)
	st := tm.Status()
	assert.True(t, st.Running)
	assert.Equal(t, 15*time.Minute, st.Remaining)

	tm.Pause()
	assert.True(t, (*timers)[0].stopped)
	clock.Advance(time.Hour)
	assert.Equal(t, Status{Phase: PhaseWork, Remaining: 15 * time.Minute}, tm.Status())

	tm.Start()
	require.Len(t, *timers, 2)
	assert.Equal(t, 15*time.Minute, (*timers)[1].delay)
}

func TestPhaseEnd_NotifiesAndFlips(t *testing.T) {
	tm, n, clock, timers := newTimer(t)

	tm.Start()
	clock.Advance(25 * time.Minute)
	(*timers)[0].fn()

	assert.Equal(t, []string{WorkOverBody}, n.bodies)
	assert.Equal(t, Status{Phase: PhaseBreak, Remaining: 5 * time.Minute}, tm.Status())

	tm.Start()
	clock.Advance(5 * time.Minute)
	(*timers)[1].fn()
	assert.Equal(t, []string{WorkOverBody, BreakOverBody}, n.bodies)
	assert.Equal(t, PhaseWork, tm.Status().Phase)
	assert.False(t, tm.Status().Running)
}

func TestStaleTimerIgnored(t *testing.T) {
	tm, n, _, timers := newTimer(t)

	tm.Start()
	tm.Reset()
	(*timers)[0].fn()

	assert.Empty(t, n.bodies)
	assert.Equal(t, Status{Phase: PhaseWork, Remaining: 25 * time.Minute}, tm.Status())
}

func TestSkipAndReset(t *testing.T) {
	tm, n, _, _ := newTimer(t)

	tm.Skip()
	assert.Equal(t, Status{Phase: PhaseBreak, Remaining: 5 * time.Minute}, tm.Status())
	tm.Skip()
	assert.Equal(t, PhaseWork, tm.Status().Phase)
	assert.Empty(t, n.bodies)

	tm.Skip()
	tm.Start()
	tm.Reset()
	assert.Equal(t, Status{Phase: PhaseWork, Remaining: 25 * time.Minute}, tm.Status())
}

func TestSetDurations(t *testing.T) {
	tm, _, _, timers := newTimer(t)

	tm.Start()
	tm.SetDurations(50, 10)
	assert.True(t, (*timers)[0].stopped)
	assert.Equal(t, Status{Phase: PhaseWork, Remaining: 50 * time.Minute}, tm.Status())

	tm.Skip()
	assert.Equal(t, 10*time.Minute, tm.Status().Remaining)
}
