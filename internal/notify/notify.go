// Package notify delivers user-facing notifications (reminders, pomodoro
// phase changes). Delivery is fire-and-forget.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Notifier emits a notification. Implementations must be safe for
// concurrent use because timers call Notify from their own goroutines.
// The reminder scheduler calls Notify with its lock held, so Notify must
// return promptly and must not call back into the scheduler.
type Notifier interface {
	// RequestPermission asks the platform for permission to notify and
	// reports the outcome. It is called once per session start.
	RequestPermission(ctx context.Context) bool
	Notify(title, body string)
}

// Console prints notifications to a writer, typically the terminal.
// Until permission is granted every Notify call is dropped silently.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	allow   bool
	granted bool
	now     func() time.Time
}

// NewConsole returns a Console writing to w. allow decides how permission
// requests are answered; false models a user who declined notifications.
func NewConsole(w io.Writer, allow bool) *Console {
	return &Console{w: w, allow: allow, now: time.Now}
}

func (c *Console) RequestPermission(_ context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.granted = c.allow
	return c.granted
}

func (c *Console) Notify(title, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.granted {
		return
	}
	_, _ = fmt.Fprintf(c.w, "\n[%s] %s: %s\n", c.now().Format("15:04"), title, body)
}
