package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/rerange/internal/common"
)

// Pomodoro handles: pomodoro start|pause|reset|skip|status.
func (a *App) Pomodoro(_ context.Context, args []string) error {
	if !a.store.IsActive() {
		return common.ErrNotAuthenticated
	}
	a.syncPomodoro()

	cmd := "status"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "start":
		a.timer.Start()
	case "pause":
		a.timer.Pause()
	case "reset":
		a.timer.Reset()
	case "skip":
		a.timer.Skip()
	case "status":
	default:
		return usage("pomodoro start|pause|reset|skip|status")
	}

	st := a.timer.Status()
	state := "paused"
	if st.Running {
		state = "running"
	}
	printlnFn(fmt.Sprintf("%s %s (%s)", st.Phase, formatClock(st.Remaining), state))
	return nil
}
