package store

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/datex"
	"github.com/dmitrijs2005/rerange/internal/models"
	"github.com/dmitrijs2005/rerange/internal/reminders"
)

// DayTask is a task due on a given day together with the list it is in.
type DayTask struct {
	ListID    string
	ListTitle string
	Task      models.Task
}

// TasksOn returns every task whose due date falls on dateKey (local time),
// in list order.
func (s *Store) TasksOn(dateKey string) ([]DayTask, error) {
	if _, err := datex.ParseKey(dateKey); err != nil {
		return nil, fmt.Errorf("%w: date %q: %v", common.ErrValidation, dateKey, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []DayTask
	for _, l := range s.work.Lists {
		for _, t := range l.Tasks {
			if t.DueDate == nil || datex.DateKey(*t.DueDate) != dateKey {
				continue
			}
			out = append(out, DayTask{ListID: l.ID, ListTitle: l.Title, Task: t.Clone()})
		}
	}
	return out, nil
}

// ReminderFor reports when the reminder for taskID will fire, if one is armed.
func (s *Store) ReminderFor(taskID string) (time.Time, bool) {
	return s.reminders.FireAt(reminders.ReminderID(taskID))
}
