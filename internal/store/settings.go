package store

import (
	"context"

	"github.com/dmitrijs2005/rerange/internal/models"
)

// Settings returns the working settings; defaults when anonymous.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.work.Settings
}

// UpdateSettings merges patch into the active settings. Nothing changes if
// the merged result is invalid.
func (s *Store) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Settings{}, err
	}

	merged := s.work.Settings.Apply(patch)
	if err := models.Validate(merged); err != nil {
		return models.Settings{}, err
	}
	s.work.Settings = merged

	return merged, s.saveLocked(ctx)
}
