package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/datex"
	"github.com/dmitrijs2005/rerange/internal/models"
)

func (s *Store) habitIndexLocked(habitID string) (int, error) {
	for i := range s.work.Habits {
		if s.work.Habits[i].ID == habitID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("habit %s: %w", habitID, common.ErrNotFound)
}

func (s *Store) Habits() []models.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Habit, len(s.work.Habits))
	for i, h := range s.work.Habits {
		out[i] = h.Clone()
	}
	return out
}

func (s *Store) AddHabit(ctx context.Context, name string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Habit{}, err
	}

	h := models.Habit{ID: s.newID(), Name: strings.TrimSpace(name), Log: map[string]bool{}}
	if err := models.Validate(h); err != nil {
		return models.Habit{}, err
	}
	s.work.Habits = append(s.work.Habits, h)

	return h.Clone(), s.saveLocked(ctx)
}

func (s *Store) DeleteHabit(ctx context.Context, habitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return err
	}
	i, err := s.habitIndexLocked(habitID)
	if err != nil {
		return err
	}
	s.work.Habits = slices.Delete(s.work.Habits, i, i+1)

	return s.saveLocked(ctx)
}

// ToggleHabit flips the log entry for dateKey and recomputes the streak.
func (s *Store) ToggleHabit(ctx context.Context, habitID, dateKey string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Habit{}, err
	}
	if _, err := datex.ParseKey(dateKey); err != nil {
		return models.Habit{}, fmt.Errorf("%w: date %q: %v", common.ErrValidation, dateKey, err)
	}
	i, err := s.habitIndexLocked(habitID)
	if err != nil {
		return models.Habit{}, err
	}

	h := &s.work.Habits[i]
	if h.Log == nil {
		h.Log = map[string]bool{}
	}
	h.Log[dateKey] = !h.Log[dateKey]
	h.Streak = datex.CalculateStreak(h.Log, s.clock.Now())

	return h.Clone(), s.saveLocked(ctx)
}
