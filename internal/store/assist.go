package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/ai"
	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

func (s *Store) collaborator() (ai.Collaborator, error) {
	if s.assistant == nil {
		return nil, fmt.Errorf("%w: %w", common.ErrExternalService, ai.ErrNotConfigured)
	}
	return s.assistant, nil
}

// BreakdownTask asks the AI collaborator to split a task into steps and
// appends them as subtasks. The call runs without holding the store lock;
// if the task is removed meanwhile the result is discarded.
func (s *Store) BreakdownTask(ctx context.Context, listID, taskID string) ([]models.Subtask, error) {
	collab, err := s.collaborator()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	li, ti, err := s.taskIndexLocked(listID, taskID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	title := s.work.Lists[li].Tasks[ti].Title
	s.mu.Unlock()

	steps, err := collab.Breakdown(ctx, title)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// the session may have changed while the request was in flight
	if err := s.requireActiveLocked(); err != nil {
		return nil, err
	}
	li, ti, err = s.taskIndexLocked(listID, taskID)
	if err != nil {
		return nil, err
	}

	added := make([]models.Subtask, 0, len(steps))
	for _, step := range steps {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		added = append(added, models.Subtask{ID: s.newID(), Title: step})
	}
	t := &s.work.Lists[li].Tasks[ti]
	t.Subtasks = append(t.Subtasks, added...)

	return added, s.saveLocked(ctx)
}

// SummarizeNote returns an AI summary of a note's content. The note is not
// modified.
func (s *Store) SummarizeNote(ctx context.Context, noteID string) (string, error) {
	collab, err := s.collaborator()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if err := s.requireActiveLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	i, err := s.noteIndexLocked(noteID)
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	n := s.work.Notes[i]
	s.mu.Unlock()

	text := n.Content
	if strings.TrimSpace(text) == "" {
		text = n.Title
	}
	return collab.Summarize(ctx, text)
}
