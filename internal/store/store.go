// Package store is the session/partition manager: it holds the account
// directory, the working copy of the signed-in account's data, and wires
// task mutations to the reminder scheduler and every change to persistence.
//
// # State
//
// A Store is either anonymous or has exactly one active account. While an
// account is active its partition is edited through a private working copy;
// the copy is written back into the directory on logout, before another
// account is activated, and on Close. Reminders stay armed across logout.
//
// All methods are safe for concurrent use; they serialize on one mutex.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/rerange/internal/accounts"
	"github.com/dmitrijs2005/rerange/internal/ai"
	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/dmitrijs2005/rerange/internal/models"
	"github.com/dmitrijs2005/rerange/internal/notify"
	"github.com/dmitrijs2005/rerange/internal/persistence"
	"github.com/dmitrijs2005/rerange/internal/timex"
	"github.com/google/uuid"
)

// ReminderScheduler arms and disarms task reminders.
type ReminderScheduler interface {
	Schedule(ctx context.Context, task models.Task) (string, bool)
	CancelTask(ctx context.Context, taskID string)
	FireAt(id string) (time.Time, bool)
	Stop()
}

// Persister saves and restores snapshots.
type Persister interface {
	Save(ctx context.Context, snap persistence.Snapshot) error
	Load(ctx context.Context) (persistence.Snapshot, bool, error)
}

type Store struct {
	mu sync.Mutex

	dir          *accounts.Directory
	active       *models.Account
	work         models.Partition
	justSignedUp bool

	reminders ReminderScheduler
	persister Persister
	assistant ai.Collaborator
	notifier  notify.Notifier
	clock     timex.Clock
	logger    logging.Logger
	newID     func() string
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func WithAssistant(a ai.Collaborator) Option {
	return func(s *Store) { s.assistant = a }
}

// WithNotifier sets the notifier whose permission is requested at the start
// of each session.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithClock(c timex.Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

func New(dir *accounts.Directory, reminders ReminderScheduler, opts ...Option) *Store {
	s := &Store{
		dir:       dir,
		reminders: reminders,
		clock:     timex.SystemClock{},
		logger:    logging.Nop(),
		newID:     uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	s.resetWorkLocked()
	return s
}

func (s *Store) resetWorkLocked() {
	s.active = nil
	s.justSignedUp = false
	s.work = models.Partition{
		Settings: models.DefaultSettings(),
		Lists:    []models.TaskList{},
		Notes:    []models.Note{},
		Habits:   []models.Habit{},
	}
}

func (s *Store) requireActiveLocked() error {
	if s.active == nil {
		return common.ErrNotAuthenticated
	}
	return nil
}

// IsActive reports whether an account is signed in.
func (s *Store) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// CurrentAccount returns the signed-in account, if any.
func (s *Store) CurrentAccount() (models.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return models.Account{}, false
	}
	return *s.active, true
}

// Accounts lists the registered emails in sorted order.
func (s *Store) Accounts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir.Emails()
}

// Directory exposes the account directory, mostly for diagnostics.
// Callers must not mutate it while the Store is in use.
func (s *Store) Directory() *accounts.Directory {
	return s.dir
}
