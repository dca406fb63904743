package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/datex"
	"github.com/dmitrijs2005/rerange/internal/models"
)

// habitWeek is how many recent days the habits view shows.
const habitWeek = 7

// nowFn is a test seam for the current time in views.
var nowFn = time.Now

func (a *App) ShowHabits(_ context.Context, _ []string) error {
	if !a.store.IsActive() {
		return common.ErrNotAuthenticated
	}

	habits := a.store.Habits()
	if len(habits) == 0 {
		printlnFn("No habits yet. Create one with: habit add <name>")
		return nil
	}

	now := nowFn()
	var b strings.Builder
	for i, h := range habits {
		fmt.Fprintf(&b, "%d. %-20s ", i+1, h.Name)
		for d := habitWeek - 1; d >= 0; d-- {
			if h.Log[datex.DateKey(now.AddDate(0, 0, -d))] {
				b.WriteString("#")
			} else {
				b.WriteString(".")
			}
		}
		fmt.Fprintf(&b, "  streak %d\n", h.Streak)
	}
	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}

func (a *App) habitAt(ref string) (models.Habit, error) {
	idx, err := parseRef(ref, 1)
	if err != nil {
		return models.Habit{}, err
	}
	habits := a.store.Habits()
	if idx[0] >= len(habits) {
		return models.Habit{}, outOfRange("habit", idx[0])
	}
	return habits[idx[0]], nil
}

// Habit handles: habit add <name> | habit toggle <n> [YYYY-MM-DD] | habit del <n>.
func (a *App) Habit(ctx context.Context, args []string) error {
	const help = "habit add <name> | habit toggle <n> [YYYY-MM-DD] | habit del <n>"
	if len(args) < 2 {
		return usage(help)
	}

	switch args[0] {
	case "add":
		h, err := a.store.AddHabit(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printlnFn("Tracking", h.Name)

	case "toggle", "t":
		h, err := a.habitAt(args[1])
		if err != nil {
			return err
		}
		day := datex.DateKey(nowFn())
		if len(args) > 2 {
			day = args[2]
		}
		h, err = a.store.ToggleHabit(ctx, h.ID, day)
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("%s %s on %s, streak %d", checkbox(h.Log[day]), h.Name, day, h.Streak))

	case "del", "delete":
		h, err := a.habitAt(args[1])
		if err != nil {
			return err
		}
		if err := a.store.DeleteHabit(ctx, h.ID); err != nil {
			return err
		}
		printlnFn("Deleted habit", h.Name)

	default:
		return usage(help)
	}
	return nil
}
