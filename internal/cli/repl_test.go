package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	failWith error

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.failWith
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Signup(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.record("signup", a)
}
func (f *fakeExec) Login(_ context.Context, a []string) error {
	f.loggedIn = true
	return f.record("login", a)
}
func (f *fakeExec) Reactivate(_ context.Context, a []string) error { return f.record("reactivate", a) }
func (f *fakeExec) Logout(_ context.Context, a []string) error {
	f.loggedIn = false
	return f.record("logout", a)
}
func (f *fakeExec) Profile(_ context.Context, a []string) error { return f.record("profile", a) }
func (f *fakeExec) ShowLists(_ context.Context, a []string) error { return f.record("lists", a) }
func (f *fakeExec) List(_ context.Context, a []string) error { return f.record("list", a) }
func (f *fakeExec) Task(_ context.Context, a []string) error { return f.record("task", a) }
func (f *fakeExec) ShowNotes(_ context.Context, a []string) error { return f.record("notes", a) }
func (f *fakeExec) Note(_ context.Context, a []string) error { return f.record("note", a) }
func (f *fakeExec) ShowHabits(_ context.Context, a []string) error { return f.record("habits", a) }
func (f *fakeExec) Habit(_ context.Context, a []string) error { return f.record("habit", a) }
func (f *fakeExec) Calendar(_ context.Context, a []string) error { return f.record("calendar", a) }
func (f *fakeExec) Pomodoro(_ context.Context, a []string) error { return f.record("pomodoro", a) }
func (f *fakeExec) Settings(_ context.Context, a []string) error { return f.record("settings", a) }
func (f *fakeExec) Status(_ context.Context, a []string) error { return f.record("status", a) }

func capturePrintln(t *testing.T) *strings.Builder {
	t.Helper()
	var out strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&out, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func lines(s ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(s, "\n") + "\n"))
}

func TestRunREPL_Dispatch(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, lines(
		"help",
		"login a@example.com",
		"help",
		"",
		"l",
		"list add Groceries",
		"task done 1.2",
		"notes",
		"note show 1",
		"habits",
		"habit toggle 1",
		"cal 2025-01-01",
		"pomo start",
		"settings",
		"profile",
		"reactivate",
		"status",
		"foobar",
		"logout",
		"exit",
		"lists",
	))

	assert.Equal(t, []string{
		"login", "lists", "list", "task", "notes", "note", "habits", "habit",
		"calendar", "pomodoro", "settings", "profile", "reactivate", "status", "logout",
	}, exec.calls)
	assert.Equal(t, []string{"a@example.com"}, exec.args[0])
	assert.Equal(t, []string{"add", "Groceries"}, exec.args[2])
	assert.Equal(t, []string{"done", "1.2"}, exec.args[3])

	text := out.String()
	assert.Contains(t, text, helpAnonymous)
	assert.Contains(t, text, "task add|edit|done|del|show")
	assert.Contains(t, text, "Unknown command: foobar")
	assert.Contains(t, text, "Bye!")
	assert.Contains(t, text, "rerange status> ")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{failWith: common.ErrNotAuthenticated}
	runREPL(context.Background(), exec, func() string { return "" }, lines("lists", "notes"))

	assert.Equal(t, []string{"lists", "notes"}, exec.calls)
	assert.Equal(t, 2, strings.Count(out.String(), "Please login first."))
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("signup")))
	require.Equal(t, []string{"signup"}, exec.calls, "last line without newline still runs")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	exec = &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, lines("signup"))
	assert.Empty(t, exec.calls)
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{common.ErrNotAuthenticated, "Please login first."},
		{&authFailed{op: "login", err: common.ErrNotFound}, "No account with this email."},
		{&authFailed{op: "login", err: common.ErrInvalidPassword}, "Invalid password."},
		{&authFailed{op: "signup", err: common.ErrEmailTaken}, "User with this email already exists."},
		{&authFailed{op: "signup", err: common.ErrInvalidCode}, "Invalid activation code."},
		{&authFailed{op: "reactivate", err: common.ErrCodeAlreadyUsed}, "This activation code has already been used."},
		{common.ErrSubscriptionExpired, "Subscription expired. Use 'reactivate' with a new activation code."},
		{fmt.Errorf("%w: boom", common.ErrExternalService), "AI assistant unavailable: external service error: boom"},
		{fmt.Errorf("%w: title", common.ErrValidation), "Invalid input: validation error: title"},
		{fmt.Errorf("list x: %w", common.ErrNotFound), "Not found: list x: not found"},
		{errors.New("disk full"), "Error: disk full"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeError(tt.err))
	}
}
