// Package reminders arms one-shot notifications for tasks that have a due
// date and a reminder offset.
//
// Handles live only in the Scheduler's table, keyed by a reminder id derived
// from the task id. A task therefore has at most one pending reminder:
// scheduling it again replaces the previous one.
package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/dmitrijs2005/rerange/internal/models"
	"github.com/dmitrijs2005/rerange/internal/notify"
	"github.com/dmitrijs2005/rerange/internal/timex"
)

// Timer is the part of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// TimerFunc arms f to run once after d.
type TimerFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type pending struct {
	taskID string
	title  string
	fireAt time.Time
	timer  Timer
	gen    uint64
}

type Scheduler struct {
	mu      sync.Mutex
	table   map[string]*pending
	gen     uint64
	stopped bool

	clock     timex.Clock
	notifier  notify.Notifier
	logger    logging.Logger
	afterFunc TimerFunc
}

type Option func(*Scheduler)

// WithTimerFunc replaces time.AfterFunc, mostly for tests.
func WithTimerFunc(f TimerFunc) Option {
	return func(s *Scheduler) { s.afterFunc = f }
}

func WithClock(c timex.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func New(n notify.Notifier, logger logging.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		table:     make(map[string]*pending),
		clock:     timex.SystemClock{},
		notifier:  n,
		logger:    logger,
		afterFunc: realAfterFunc,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ReminderID is the table key for a task's reminder.
func ReminderID(taskID string) string {
	return "reminder-" + taskID
}

// Schedule arms a reminder for task and returns its id. It returns ok=false
// and arms nothing when the task has no due date, has no or a negative
// offset, or its fire time is not in the future. Any reminder already armed
// for the task is stopped first.
func (s *Scheduler) Schedule(ctx context.Context, task models.Task) (id string, ok bool) {
	id = ReminderID(task.ID)

	fireAt, ok := task.FireAt()
	if !ok {
		s.Cancel(ctx, id)
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(id)

	if s.stopped {
		return "", false
	}

	delay := fireAt.Sub(s.clock.Now())
	if delay <= 0 {
		s.logger.Debug(ctx, "reminder not armed, fire time passed", "task_id", task.ID, "fire_at", fireAt)
		return "", false
	}

	s.gen++
	gen := s.gen
	p := &pending{taskID: task.ID, title: task.Title, fireAt: fireAt, gen: gen}
	p.timer = s.afterFunc(delay, func() { s.fire(id, gen) })
	s.table[id] = p

	remindersScheduled.Inc()
	remindersPending.Inc()
	s.logger.Debug(ctx, "reminder armed", "reminder_id", id, "fire_at", fireAt)

	return id, true
}

// Cancel disarms the reminder with the given id. Unknown ids are ignored.
func (s *Scheduler) Cancel(ctx context.Context, id string) {
	s.mu.Lock()
	cancelled := s.cancelLocked(id)
	s.mu.Unlock()

	if cancelled {
		s.logger.Debug(ctx, "reminder cancelled", "reminder_id", id)
	}
}

// CancelTask disarms the reminder of a task, if any.
func (s *Scheduler) CancelTask(ctx context.Context, taskID string) {
	s.Cancel(ctx, ReminderID(taskID))
}

func (s *Scheduler) cancelLocked(id string) bool {
	p, ok := s.table[id]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(s.table, id)
	remindersCancelled.Inc()
	remindersPending.Dec()
	return true
}

// fire runs on the timer goroutine. gen guards against a timer that was
// replaced or cancelled after it had already started. Removal and Notify
// happen under one lock hold, so a Cancel either wins entirely or sees
// the reminder already gone.
func (s *Scheduler) fire(id string, gen uint64) {
	s.mu.Lock()
	p, ok := s.table[id]
	if !ok || p.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.table, id)
	remindersFired.Inc()
	remindersPending.Dec()
	s.notifier.Notify(common.ReminderTitle, p.title)
	s.mu.Unlock()

	s.logger.Info(context.Background(), "reminder fired", "reminder_id", id, "task_id", p.taskID)
}

// Pending reports whether a reminder with this id is armed.
func (s *Scheduler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.table[id]
	return ok
}

// FireAt returns when the reminder with this id will fire.
func (s *Scheduler) FireAt(id string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.table[id]
	if !ok {
		return time.Time{}, false
	}
	return p.fireAt, true
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.table)
}

// Stop disarms every reminder. Later Schedule calls arm nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.table {
		s.cancelLocked(id)
	}
	s.stopped = true
}
