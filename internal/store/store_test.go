package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/rerange/internal/accounts"
	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/logging"
	"github.com/dmitrijs2005/rerange/internal/models"
	"github.com/dmitrijs2005/rerange/internal/persistence"
	"github.com/dmitrijs2005/rerange/internal/reminders"
	"github.com/dmitrijs2005/rerange/internal/repositories/kv"
	"github.com/dmitrijs2005/rerange/internal/timex"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plainHasher struct{}

func (plainHasher) Hash(pw string) (string, error) { return "plain:" + pw, nil }

func (plainHasher) Verify(pw, encoded string) (bool, error) { return encoded == "plain:"+pw, nil }

type sent struct{ title, body string }

type fakeNotifier struct {
	mu        sync.Mutex
	sent      []sent
	requested int
}

func (f *fakeNotifier) RequestPermission(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requested++
	return true
}

func (f *fakeNotifier) Notify(title, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{title, body})
}

func (f *fakeNotifier) all() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.sent...)
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

type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (f *fakeTimers) afterFunc(d time.Duration, fn func()) reminders.Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// fireDue runs every live timer whose delay has elapsed.
func (f *fakeTimers) fireDue(elapsed time.Duration) {
	f.mu.Lock()
	var due []*fakeTimer
	for _, t := range f.timers {
		if !t.stopped && t.delay <= elapsed {
			due = append(due, t)
			t.stopped = true
		}
	}
	f.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

type failingPersister struct{ err error }

func (f failingPersister) Save(context.Context, persistence.Snapshot) error { return f.err }

func (f failingPersister) Load(context.Context) (persistence.Snapshot, bool, error) {
	return persistence.Snapshot{}, false, f.err
}

type fakeCollaborator struct {
	steps   []string
	summary string
	err     error
	gotText string
}

func (f *fakeCollaborator) Breakdown(_ context.Context, title string) ([]string, error) {
	f.gotText = title
	return f.steps, f.err
}

func (f *fakeCollaborator) Summarize(_ context.Context, text string) (string, error) {
	f.gotText = text
	return f.summary, f.err
}

var baseNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)

type fixture struct {
	store    *Store
	sched    *reminders.Scheduler
	notifier *fakeNotifier
	timers   *fakeTimers
	clock    *timex.FixedClock
	kv       *kv.MemoryStore
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newFixture(t *testing.T, clock *timex.FixedClock, mem *kv.MemoryStore, opts ...Option) *fixture {
	t.Helper()

	if clock == nil {
		clock = timex.NewFixedClock(baseNow)
	}
	if mem == nil {
		mem = kv.NewMemoryStore()
	}

	n := &fakeNotifier{}
	ft := &fakeTimers{}
	sched := reminders.New(n, logging.Nop(), reminders.WithTimerFunc(ft.afterFunc), reminders.WithClock(clock))
	ids := seqIDs()
	dir := accounts.New(
		accounts.WithClock(clock),
		accounts.WithHasher(plainHasher{}),
		accounts.WithCodes([]string{"YL10", "ZX20", "QQ30"}),
		accounts.WithIDFunc(ids),
	)
	p := persistence.New(mem, []byte("test-secret"), logging.Nop(), persistence.WithClock(clock))

	base := []Option{
		WithPersister(p),
		WithNotifier(n),
		WithClock(clock),
		WithIDFunc(ids),
	}
	s := New(dir, sched, append(base, opts...)...)

	return &fixture{store: s, sched: sched, notifier: n, timers: ft, clock: clock, kv: mem}
}

func signup(t *testing.T, f *fixture, email, code string) {
	t.Helper()
	err := f.store.Signup(context.Background(), models.Profile{Email: email, Name: "User"}, "pw", code)
	require.NoError(t, err)
}

func firstListID(t *testing.T, s *Store) string {
	t.Helper()
	lists := s.Lists()
	require.NotEmpty(t, lists)
	return lists[0].ID
}

func dueTask(title string, due time.Time, offset int) models.Task {
	return models.Task{Title: title, DueDate: &due, ReminderOffsetMinutes: &offset}
}

func TestMutations_RequireActiveAccount(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	_, err := f.store.AddList(ctx, "x")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	_, err = f.store.AddTask(ctx, "l", models.Task{Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	_, err = f.store.AddNote(ctx, "x", "")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	_, err = f.store.AddHabit(ctx, "x")
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	_, err = f.store.UpdateSettings(ctx, models.SettingsPatch{})
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)
	_, err = f.store.UpdateProfile(ctx, models.ProfilePatch{})
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	assert.False(t, f.store.IsActive())
	assert.Empty(t, f.store.Lists())
	assert.Equal(t, models.DefaultSettings(), f.store.Settings())
}

func TestSignup_ActivatesWithWelcome(t *testing.T) {
	f := newFixture(t, nil, nil)

	signup(t, f, "A@Example.com", "YL10")

	acc, ok := f.store.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, "a@example.com", acc.Email)
	assert.True(t, f.store.JustSignedUp())
	assert.Equal(t, 1, f.notifier.requested)

	lists := f.store.Lists()
	require.Len(t, lists, 1)
	assert.Equal(t, models.StarterListTitle, lists[0].Title)

	assert.True(t, f.store.ConsumeWelcome())
	assert.False(t, f.store.ConsumeWelcome())
}

func TestSignup_CodeSingleUse(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	signup(t, f, "a@example.com", "YL10")
	require.NoError(t, f.store.Logout(ctx))

	err := f.store.Signup(ctx, models.Profile{Email: "b@example.com", Name: "B"}, "pw", "YL10")
	assert.ErrorIs(t, err, common.ErrCodeAlreadyUsed)
	assert.False(t, f.store.IsActive())

	// a consumed code cannot reactivate either
	_, err = f.store.Directory().Reactivate("a@example.com", "pw", "YL10")
	assert.ErrorIs(t, err, common.ErrCodeAlreadyUsed)
}

func TestLogoutLogin_RoundTripPreservesEdits(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	task, err := f.store.AddTask(ctx, listID, models.Task{Title: "Buy milk", Priority: models.PriorityHigh})
	require.NoError(t, err)
	_, err = f.store.AddNote(ctx, "Idea", "write it down")
	require.NoError(t, err)
	habit, err := f.store.AddHabit(ctx, "Run")
	require.NoError(t, err)
	dark := models.ThemeLight
	_, err = f.store.UpdateSettings(ctx, models.SettingsPatch{Theme: &dark})
	require.NoError(t, err)

	beforeLists, beforeNotes, beforeHabits := f.store.Lists(), f.store.Notes(), f.store.Habits()

	require.NoError(t, f.store.Logout(ctx))
	assert.False(t, f.store.IsActive())
	assert.Empty(t, f.store.Lists())
	assert.Equal(t, models.DefaultSettings(), f.store.Settings())

	require.NoError(t, f.store.Login(ctx, "a@example.com", "pw"))
	assert.False(t, f.store.JustSignedUp())

	if diff := cmp.Diff(beforeLists, f.store.Lists()); diff != "" {
		t.Errorf("lists mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeNotes, f.store.Notes()); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(beforeHabits, f.store.Habits()); diff != "" {
		t.Errorf("habits mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, models.ThemeLight, f.store.Settings().Theme)
	assert.Equal(t, "Buy milk", f.store.Lists()[0].Tasks[0].Title)
	assert.Equal(t, task.ID, f.store.Lists()[0].Tasks[0].ID)
	assert.Equal(t, habit.ID, f.store.Habits()[0].ID)
}

func TestLogout_WhenAnonymousIsNoop(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, f.store.Logout(context.Background()))

	data, err := f.kv.Get(context.Background(), common.SnapshotKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestLogin_SwitchAccountsKeepsPartitionsApart(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	signup(t, f, "a@example.com", "YL10")
	_, err := f.store.AddNote(ctx, "A's note", "")
	require.NoError(t, err)
	require.NoError(t, f.store.Logout(ctx))

	signup(t, f, "b@example.com", "ZX20")
	assert.Empty(t, f.store.Notes())
	_, err = f.store.AddNote(ctx, "B's note", "")
	require.NoError(t, err)

	// login while active writes B back first
	require.NoError(t, f.store.Login(ctx, "a@example.com", "pw"))
	notes := f.store.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "A's note", notes[0].Title)

	b, ok := f.store.Directory().Get("b@example.com")
	require.True(t, ok)
	require.Len(t, b.Data.Notes, 1)
	assert.Equal(t, "B's note", b.Data.Notes[0].Title)
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	signup(t, f, "a@example.com", "YL10")
	_, err := f.store.AddNote(ctx, "keep me", "")
	require.NoError(t, err)
	require.NoError(t, f.store.Logout(ctx))
	signup(t, f, "b@example.com", "ZX20")

	tests := []struct {
		name    string
		email   string
		pw      string
		advance time.Duration
		wantErr error
	}{
		{name: "unknown", email: "nobody@example.com", pw: "pw", wantErr: common.ErrNotFound},
		{name: "wrong password", email: "a@example.com", pw: "nope", wantErr: common.ErrInvalidPassword},
		{name: "expired", email: "a@example.com", pw: "pw", advance: 31 * 24 * time.Hour, wantErr: common.ErrSubscriptionExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.clock.Advance(tt.advance)

			err := f.store.Login(ctx, tt.email, tt.pw)
			assert.ErrorIs(t, err, tt.wantErr)

			// the current session is untouched
			acc, ok := f.store.CurrentAccount()
			require.True(t, ok)
			assert.Equal(t, "b@example.com", acc.Email)
			assert.Empty(t, f.store.Notes())
		})
	}
}

func TestReactivate(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()

	signup(t, f, "a@example.com", "YL10")
	require.NoError(t, f.store.Logout(ctx))
	f.clock.Advance(31 * 24 * time.Hour)

	require.ErrorIs(t, f.store.Login(ctx, "a@example.com", "pw"), common.ErrSubscriptionExpired)

	err := f.store.Reactivate(ctx, "a@example.com", "wrong", "ZX20")
	assert.ErrorIs(t, err, common.ErrInvalidPassword)
	assert.False(t, f.store.IsActive())

	err = f.store.Reactivate(ctx, "a@example.com", "pw", "BAD")
	assert.ErrorIs(t, err, common.ErrInvalidCode)

	require.NoError(t, f.store.Reactivate(ctx, "a@example.com", "pw", "ZX20"))
	assert.True(t, f.store.IsActive())

	entry, ok := f.store.Directory().Get("a@example.com")
	require.True(t, ok)
	assert.Equal(t, f.clock.Now().Add(accounts.DefaultSubscriptionPeriod), entry.Data.SubscriptionExpiry)
	assert.Equal(t, "ZX20", entry.Data.UsedActivationCode)
	assert.Equal(t, "a@example.com", f.store.Directory().Ledger()["ZX20"])
}

func TestLists_CRUD(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	l, err := f.store.AddList(ctx, "  Work ")
	require.NoError(t, err)
	assert.Equal(t, "Work", l.Title)

	_, err = f.store.AddList(ctx, "   ")
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, f.store.UpdateList(ctx, l.ID, "Office"))
	assert.Equal(t, "Office", f.store.Lists()[1].Title)

	assert.ErrorIs(t, f.store.UpdateList(ctx, l.ID, ""), common.ErrValidation)
	assert.ErrorIs(t, f.store.UpdateList(ctx, "missing", "x"), common.ErrNotFound)

	require.NoError(t, f.store.DeleteList(ctx, l.ID))
	assert.Len(t, f.store.Lists(), 1)
	assert.ErrorIs(t, f.store.DeleteList(ctx, l.ID), common.ErrNotFound)
}

func TestTasks_CRUD(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	_, err := f.store.AddTask(ctx, listID, models.Task{Title: ""})
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.store.AddTask(ctx, "missing", models.Task{Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	task, err := f.store.AddTask(ctx, listID, models.Task{
		Title:    "Plan trip",
		Subtasks: []models.Subtask{{Title: "Book flight"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)
	require.Len(t, task.Subtasks, 1)
	require.NotEmpty(t, task.Subtasks[0].ID)

	done, err := f.store.ToggleTask(ctx, listID, task.ID)
	require.NoError(t, err)
	assert.True(t, done)

	subDone, err := f.store.ToggleSubtask(ctx, listID, task.ID, task.Subtasks[0].ID)
	require.NoError(t, err)
	assert.True(t, subDone)
	_, err = f.store.ToggleSubtask(ctx, listID, task.ID, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	task.Title = "Plan summer trip"
	updated, err := f.store.UpdateTask(ctx, listID, task)
	require.NoError(t, err)
	assert.Equal(t, "Plan summer trip", updated.Title)

	_, err = f.store.UpdateTask(ctx, listID, models.Task{ID: "missing", Title: "x"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	// returned copies do not alias the working copy
	lists := f.store.Lists()
	lists[0].Tasks[0].Title = "mutated"
	assert.Equal(t, "Plan summer trip", f.store.Lists()[0].Tasks[0].Title)

	require.NoError(t, f.store.DeleteTask(ctx, listID, task.ID))
	assert.Empty(t, f.store.Lists()[0].Tasks)
	assert.ErrorIs(t, f.store.DeleteTask(ctx, listID, task.ID), common.ErrNotFound)
}

func TestReminder_FiresAtOffsetBeforeDue(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	task, err := f.store.AddTask(ctx, listID, dueTask("Call mom", baseNow.Add(2*time.Hour), 60))
	require.NoError(t, err)

	at, ok := f.store.ReminderFor(task.ID)
	require.True(t, ok)
	assert.Equal(t, baseNow.Add(time.Hour), at)
	assert.Equal(t, 1, f.sched.Len())

	f.timers.fireDue(59 * time.Minute)
	assert.Empty(t, f.notifier.all())

	f.timers.fireDue(time.Hour)
	assert.Equal(t, []sent{{common.ReminderTitle, "Call mom"}}, f.notifier.all())
	assert.Equal(t, 0, f.sched.Len())
}

func TestReminder_DeleteBeforeFire(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	task, err := f.store.AddTask(ctx, listID, dueTask("Call mom", baseNow.Add(2*time.Hour), 60))
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteTask(ctx, listID, task.ID))

	assert.Equal(t, 0, f.sched.Len())
	f.timers.fireDue(3 * time.Hour)
	assert.Empty(t, f.notifier.all())
}

func TestReminder_UpdateReplacesHandle(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	task, err := f.store.AddTask(ctx, listID, dueTask("Report", baseNow.Add(2*time.Hour), 60))
	require.NoError(t, err)

	offset := 30
	task.ReminderOffsetMinutes = &offset
	_, err = f.store.UpdateTask(ctx, listID, task)
	require.NoError(t, err)

	assert.Equal(t, 1, f.sched.Len())
	at, ok := f.store.ReminderFor(task.ID)
	require.True(t, ok)
	assert.Equal(t, baseNow.Add(90*time.Minute), at)

	// removing the due date disarms
	task.DueDate = nil
	_, err = f.store.UpdateTask(ctx, listID, task)
	require.NoError(t, err)
	assert.Equal(t, 0, f.sched.Len())
}

func TestReminder_DeleteListCancelsAll(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	l, err := f.store.AddList(ctx, "Errands")
	require.NoError(t, err)
	for i := range 3 {
		_, err := f.store.AddTask(ctx, l.ID, dueTask(fmt.Sprintf("t%d", i), baseNow.Add(5*time.Hour), 10))
		require.NoError(t, err)
	}
	require.Equal(t, 3, f.sched.Len())

	require.NoError(t, f.store.DeleteList(ctx, l.ID))
	assert.Equal(t, 0, f.sched.Len())
}

func TestReminder_SurvivesLogout(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	_, err := f.store.AddTask(ctx, listID, dueTask("Stretch", baseNow.Add(2*time.Hour), 0))
	require.NoError(t, err)
	require.NoError(t, f.store.Logout(ctx))
	assert.Equal(t, 1, f.sched.Len())

	// logging back in re-arms by replacement, never doubling
	require.NoError(t, f.store.Login(ctx, "a@example.com", "pw"))
	assert.Equal(t, 1, f.sched.Len())
}

func TestNotes(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	first, err := f.store.AddNote(ctx, "First", "one")
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.store.AddNote(ctx, "", "content only")
	require.NoError(t, err)

	_, err = f.store.AddNote(ctx, "", "")
	assert.ErrorIs(t, err, common.ErrValidation)

	notes := f.store.Notes()
	require.Len(t, notes, 2)
	assert.Equal(t, second.ID, notes[0].ID, "newest first")
	assert.Equal(t, baseNow.UTC(), first.CreatedAt)

	f.clock.Advance(time.Hour)
	updated, err := f.store.UpdateNote(ctx, first.ID, "First!", "changed")
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, first.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "changed", updated.Content)

	_, err = f.store.UpdateNote(ctx, "missing", "x", "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, f.store.DeleteNote(ctx, second.ID))
	assert.Len(t, f.store.Notes(), 1)
	assert.ErrorIs(t, f.store.DeleteNote(ctx, second.ID), common.ErrNotFound)
}

func TestHabits(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	h, err := f.store.AddHabit(ctx, "Read")
	require.NoError(t, err)
	assert.Equal(t, 0, h.Streak)

	today := baseNow.Format("2006-01-02")
	yesterday := baseNow.AddDate(0, 0, -1).Format("2006-01-02")

	h, err = f.store.ToggleHabit(ctx, h.ID, yesterday)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Streak)

	h, err = f.store.ToggleHabit(ctx, h.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Streak)

	h, err = f.store.ToggleHabit(ctx, h.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Streak)
	assert.False(t, h.Log[today])

	_, err = f.store.ToggleHabit(ctx, h.ID, "June 1st")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.store.ToggleHabit(ctx, "missing", today)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, f.store.DeleteHabit(ctx, h.ID))
	assert.Empty(t, f.store.Habits())
}

func TestSettingsAndProfile(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	work := 50
	got, err := f.store.UpdateSettings(ctx, models.SettingsPatch{PomodoroWork: &work})
	require.NoError(t, err)
	assert.Equal(t, 50, got.PomodoroWork)
	assert.Equal(t, models.DefaultSettings().PomodoroBreak, got.PomodoroBreak)

	bad := "not-a-color"
	_, err = f.store.UpdateSettings(ctx, models.SettingsPatch{PrimaryColor: &bad})
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "#00bfff", f.store.Settings().PrimaryColor)

	name := "Alice"
	acc, err := f.store.UpdateProfile(ctx, models.ProfilePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", acc.Name)
	cur, _ := f.store.CurrentAccount()
	assert.Equal(t, "Alice", cur.Name)
}

func TestTasksOn(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	tomorrow := baseNow.AddDate(0, 0, 1)
	_, err := f.store.AddTask(ctx, listID, models.Task{Title: "today", DueDate: &baseNow})
	require.NoError(t, err)
	_, err = f.store.AddTask(ctx, listID, models.Task{Title: "tomorrow", DueDate: &tomorrow})
	require.NoError(t, err)
	_, err = f.store.AddTask(ctx, listID, models.Task{Title: "undated"})
	require.NoError(t, err)

	day, err := f.store.TasksOn(tomorrow.Format("2006-01-02"))
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "tomorrow", day[0].Task.Title)
	assert.Equal(t, listID, day[0].ListID)
	assert.Equal(t, models.StarterListTitle, day[0].ListTitle)

	_, err = f.store.TasksOn("tomorrow")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestBreakdownTask(t *testing.T) {
	collab := &fakeCollaborator{steps: []string{"Pick dates", " ", "Book hotel"}}
	f := newFixture(t, nil, nil, WithAssistant(collab))
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)

	task, err := f.store.AddTask(ctx, listID, models.Task{Title: "Plan trip"})
	require.NoError(t, err)

	added, err := f.store.BreakdownTask(ctx, listID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plan trip", collab.gotText)
	require.Len(t, added, 2)
	assert.Equal(t, "Book hotel", added[1].Title)
	assert.Len(t, f.store.Lists()[0].Tasks[0].Subtasks, 2)

	collab.err = fmt.Errorf("%w: boom", common.ErrExternalService)
	_, err = f.store.BreakdownTask(ctx, listID, task.ID)
	assert.ErrorIs(t, err, common.ErrExternalService)
	assert.Len(t, f.store.Lists()[0].Tasks[0].Subtasks, 2)
}

func TestSummarizeNote(t *testing.T) {
	collab := &fakeCollaborator{summary: "short"}
	f := newFixture(t, nil, nil, WithAssistant(collab))
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	n, err := f.store.AddNote(ctx, "Meeting", "long meeting notes")
	require.NoError(t, err)

	sum, err := f.store.SummarizeNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "short", sum)
	assert.Equal(t, "long meeting notes", collab.gotText)

	_, err = f.store.SummarizeNote(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAssistant_NotConfigured(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	_, err := f.store.SummarizeNote(ctx, "any")
	assert.ErrorIs(t, err, common.ErrExternalService)
	_, err = f.store.BreakdownTask(ctx, "l", "t")
	assert.ErrorIs(t, err, common.ErrExternalService)
}

func TestRestore_ResumesSessionAndRearmsReminders(t *testing.T) {
	clock := timex.NewFixedClock(baseNow)
	mem := kv.NewMemoryStore()
	ctx := context.Background()

	f := newFixture(t, clock, mem)
	signup(t, f, "a@example.com", "YL10")
	listID := firstListID(t, f.store)
	task, err := f.store.AddTask(ctx, listID, dueTask("Dentist", baseNow.Add(3*time.Hour), 60))
	require.NoError(t, err)
	require.NoError(t, f.store.Close(ctx))
	assert.Equal(t, 0, f.sched.Len())

	clock.Advance(30 * time.Minute)
	g := newFixture(t, clock, mem)
	require.NoError(t, g.store.Restore(ctx))

	acc, ok := g.store.CurrentAccount()
	require.True(t, ok)
	assert.Equal(t, "a@example.com", acc.Email)
	assert.Equal(t, 1, g.sched.Len())
	at, ok := g.store.ReminderFor(task.ID)
	require.True(t, ok)
	assert.True(t, baseNow.Add(2*time.Hour).Equal(at), "fire time %s", at)

	// the ledger came back too
	err = g.store.Signup(ctx, models.Profile{Email: "c@example.com", Name: "C"}, "pw", "YL10")
	assert.ErrorIs(t, err, common.ErrCodeAlreadyUsed)
}

func TestRestore_DropsExpiredSession(t *testing.T) {
	clock := timex.NewFixedClock(baseNow)
	mem := kv.NewMemoryStore()
	ctx := context.Background()

	f := newFixture(t, clock, mem)
	signup(t, f, "a@example.com", "YL10")
	_, err := f.store.AddNote(ctx, "kept", "")
	require.NoError(t, err)
	require.NoError(t, f.store.Close(ctx))

	clock.Advance(31 * 24 * time.Hour)
	g := newFixture(t, clock, mem)
	require.NoError(t, g.store.Restore(ctx))

	assert.False(t, g.store.IsActive())
	assert.Empty(t, g.store.Notes())

	// the account data itself is still there
	entry, ok := g.store.Directory().Get("a@example.com")
	require.True(t, ok)
	require.Len(t, entry.Data.Notes, 1)

	p := persistence.New(mem, []byte("test-secret"), logging.Nop(), persistence.WithClock(clock))
	snap, found, err := p.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, snap.ActiveEmail)
}

func TestRestore_DropsSessionWithBadTicket(t *testing.T) {
	clock := timex.NewFixedClock(baseNow)
	mem := kv.NewMemoryStore()
	ctx := context.Background()

	f := newFixture(t, clock, mem)
	signup(t, f, "a@example.com", "YL10")
	require.NoError(t, f.store.Close(ctx))

	rotated := persistence.New(mem, []byte("rotated-secret"), logging.Nop(), persistence.WithClock(clock))
	g := newFixture(t, clock, mem, WithPersister(rotated))
	require.NoError(t, g.store.Restore(ctx))
	assert.False(t, g.store.IsActive())

	// the stale reference is gone from storage, not just from memory
	raw, err := mem.Get(ctx, common.SnapshotKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"currentUser"`)
	assert.Contains(t, string(raw), "a@example.com")
}

func TestAccounts(t *testing.T) {
	f := newFixture(t, nil, nil)
	assert.Empty(t, f.store.Accounts())

	signup(t, f, "b@example.com", "YL10")
	require.NoError(t, f.store.Logout(context.Background()))
	signup(t, f, "a@example.com", "ZX20")

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, f.store.Accounts())
}

func TestRestore_NothingSaved(t *testing.T) {
	f := newFixture(t, nil, nil)
	require.NoError(t, f.store.Restore(context.Background()))
	assert.False(t, f.store.IsActive())
}

func TestSave_ErrorSurfaces(t *testing.T) {
	boom := errors.New("disk full")
	f := newFixture(t, nil, nil, WithPersister(failingPersister{err: boom}))
	ctx := context.Background()

	err := f.store.Signup(ctx, models.Profile{Email: "a@example.com", Name: "A"}, "pw", "YL10")
	assert.ErrorIs(t, err, boom)
	// in-memory state still changed; only durability failed
	assert.True(t, f.store.IsActive())

	assert.ErrorIs(t, f.store.Restore(ctx), boom)
}

func TestSave_WritesWorkingCopy(t *testing.T) {
	f := newFixture(t, nil, nil)
	ctx := context.Background()
	signup(t, f, "a@example.com", "YL10")

	_, err := f.store.AddHabit(ctx, "Meditate")
	require.NoError(t, err)

	p := persistence.New(f.kv, []byte("test-secret"), logging.Nop(), persistence.WithClock(f.clock))
	snap, found, err := p.Load(ctx)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a@example.com", snap.ActiveEmail)
	require.Len(t, snap.Accounts["a@example.com"].Data.Habits, 1)
	assert.Equal(t, "Meditate", snap.Accounts["a@example.com"].Data.Habits[0].Name)
}
