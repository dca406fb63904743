package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

func (s *Store) listIndexLocked(listID string) (int, error) {
	for i := range s.work.Lists {
		if s.work.Lists[i].ID == listID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("list %s: %w", listID, common.ErrNotFound)
}

func (s *Store) taskIndexLocked(listID, taskID string) (int, int, error) {
	li, err := s.listIndexLocked(listID)
	if err != nil {
		return -1, -1, err
	}
	for ti := range s.work.Lists[li].Tasks {
		if s.work.Lists[li].Tasks[ti].ID == taskID {
			return li, ti, nil
		}
	}
	return -1, -1, fmt.Errorf("task %s: %w", taskID, common.ErrNotFound)
}

// Lists returns a copy of the active account's task lists.
func (s *Store) Lists() []models.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TaskList, len(s.work.Lists))
	for i, l := range s.work.Lists {
		out[i] = l.Clone()
	}
	return out
}

func (s *Store) AddList(ctx context.Context, title string) (models.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.TaskList{}, err
	}

	l := models.TaskList{ID: s.newID(), Title: strings.TrimSpace(title), Tasks: []models.Task{}}
	if err := models.Validate(l); err != nil {
		return models.TaskList{}, err
	}
	s.work.Lists = append(s.work.Lists, l)

	return l.Clone(), s.saveLocked(ctx)
}

// UpdateList renames a list.
func (s *Store) UpdateList(ctx context.Context, listID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return err
	}
	li, err := s.listIndexLocked(listID)
	if err != nil {
		return err
	}

	updated := s.work.Lists[li]
	updated.Title = strings.TrimSpace(title)
	if err := models.Validate(updated); err != nil {
		return err
	}
	s.work.Lists[li].Title = updated.Title

	return s.saveLocked(ctx)
}

// DeleteList removes a list and disarms every reminder of its tasks.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return err
	}
	li, err := s.listIndexLocked(listID)
	if err != nil {
		return err
	}

	for _, t := range s.work.Lists[li].Tasks {
		s.reminders.CancelTask(ctx, t.ID)
	}
	s.work.Lists = append(s.work.Lists[:li], s.work.Lists[li+1:]...)

	return s.saveLocked(ctx)
}

// prepareTask trims, fills in missing subtask ids and validates.
func (s *Store) prepareTask(t models.Task) (models.Task, error) {
	t = t.Clone()
	t.Title = strings.TrimSpace(t.Title)
	for i := range t.Subtasks {
		t.Subtasks[i].Title = strings.TrimSpace(t.Subtasks[i].Title)
		if t.Subtasks[i].ID == "" {
			t.Subtasks[i].ID = s.newID()
		}
	}
	if err := models.Validate(t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// AddTask appends a task to a list under a fresh id and arms its reminder.
func (s *Store) AddTask(ctx context.Context, listID string, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Task{}, err
	}
	li, err := s.listIndexLocked(listID)
	if err != nil {
		return models.Task{}, err
	}

	task.ID = s.newID()
	t, err := s.prepareTask(task)
	if err != nil {
		return models.Task{}, err
	}

	s.work.Lists[li].Tasks = append(s.work.Lists[li].Tasks, t)
	s.reminders.Schedule(ctx, t)

	return t.Clone(), s.saveLocked(ctx)
}

// UpdateTask replaces the task with the same id. The old reminder is
// cancelled and a new one armed from the updated task.
func (s *Store) UpdateTask(ctx context.Context, listID string, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Task{}, err
	}
	li, ti, err := s.taskIndexLocked(listID, task.ID)
	if err != nil {
		return models.Task{}, err
	}

	t, err := s.prepareTask(task)
	if err != nil {
		return models.Task{}, err
	}

	s.reminders.CancelTask(ctx, t.ID)
	s.work.Lists[li].Tasks[ti] = t
	s.reminders.Schedule(ctx, t)

	return t.Clone(), s.saveLocked(ctx)
}

func (s *Store) DeleteTask(ctx context.Context, listID, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return err
	}
	li, ti, err := s.taskIndexLocked(listID, taskID)
	if err != nil {
		return err
	}

	s.reminders.CancelTask(ctx, taskID)
	tasks := s.work.Lists[li].Tasks
	s.work.Lists[li].Tasks = append(tasks[:ti], tasks[ti+1:]...)

	return s.saveLocked(ctx)
}

// ToggleTask flips a task's completed flag. Reminders are not affected.
func (s *Store) ToggleTask(ctx context.Context, listID, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return false, err
	}
	li, ti, err := s.taskIndexLocked(listID, taskID)
	if err != nil {
		return false, err
	}

	t := &s.work.Lists[li].Tasks[ti]
	t.Completed = !t.Completed

	return t.Completed, s.saveLocked(ctx)
}

func (s *Store) ToggleSubtask(ctx context.Context, listID, taskID, subtaskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return false, err
	}
	li, ti, err := s.taskIndexLocked(listID, taskID)
	if err != nil {
		return false, err
	}

	subs := s.work.Lists[li].Tasks[ti].Subtasks
	for i := range subs {
		if subs[i].ID == subtaskID {
			subs[i].Completed = !subs[i].Completed
			return subs[i].Completed, s.saveLocked(ctx)
		}
	}
	return false, fmt.Errorf("subtask %s: %w", subtaskID, common.ErrNotFound)
}
