// Package cli provides the interactive rerange command-line front end.
//
// It wires configuration, the storage backend, the session store, reminder
// scheduling and the pomodoro timer, then runs a read–eval–print loop over
// stdin. Typical flow: restore the last session, accept commands until the
// user exits or a signal arrives, then flush state and disarm timers.
//
// Key features:
//   - Signup / Login / Reactivate / Logout
//   - Task lists with due dates, reminders, subtasks and AI breakdown
//   - Notes with AI summaries
//   - Habits with streaks
//   - Calendar day view, pomodoro timer, settings and profile
//
// The loop is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
