package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/datex"
)

// Calendar prints the tasks due on a day, today by default.
func (a *App) Calendar(_ context.Context, args []string) error {
	if !a.store.IsActive() {
		return common.ErrNotAuthenticated
	}

	day := datex.DateKey(nowFn())
	if len(args) > 0 {
		day = args[0]
	}

	tasks, err := a.store.TasksOn(day)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		printlnFn("Nothing due on", day)
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Due on %s:\n", day)
	for _, dt := range tasks {
		fmt.Fprintf(&b, "  %s %s %s (%s)\n", dt.Task.DueDate.Local().Format("15:04"), checkbox(dt.Task.Completed), dt.Task.Title, dt.ListTitle)
	}
	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}
