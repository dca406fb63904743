package store

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

// activateLocked makes entry the active account. Signup, login, reactivation
// and restore all go through here. Reminders for the account's tasks are
// (re)armed; arming replaces, so reminders still pending from an earlier
// session are not doubled.
func (s *Store) activateLocked(ctx context.Context, entry models.Entry, welcome bool) {
	acc := entry.Account
	s.active = &acc
	s.work = entry.Data.Clone()
	s.justSignedUp = welcome

	if s.notifier != nil && !s.notifier.RequestPermission(ctx) {
		s.logger.Info(ctx, "notification permission denied, reminders will be silent")
	}

	armed := 0
	for _, l := range s.work.Lists {
		for _, t := range l.Tasks {
			if _, ok := s.reminders.Schedule(ctx, t); ok {
				armed++
			}
		}
	}
	s.logger.Info(ctx, "session started", "email", acc.Email, "reminders", armed)
}

// writeBackLocked copies the working lists, notes, habits and settings into
// the directory. Subscription fields are owned by the directory and are not
// overwritten.
func (s *Store) writeBackLocked() error {
	if s.active == nil {
		return nil
	}
	entry, ok := s.dir.Get(s.active.Email)
	if !ok {
		return fmt.Errorf("write back %s: %w", s.active.Email, common.ErrNotFound)
	}
	entry.Data.Settings = s.work.Settings
	entry.Data.Lists = s.work.Lists
	entry.Data.Notes = s.work.Notes
	entry.Data.Habits = s.work.Habits
	return s.dir.StorePartition(s.active.Email, entry.Data)
}

// Signup registers an account with a one-time activation code and signs it
// in with the welcome flag raised.
func (s *Store) Signup(ctx context.Context, profile models.Profile, password, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.dir.Signup(profile, password, code)
	if err != nil {
		return err
	}

	if err := s.writeBackLocked(); err != nil {
		return err
	}
	s.activateLocked(ctx, entry, true)

	return s.saveLocked(ctx)
}

// Login verifies credentials and subscription, then swaps in the account's
// partition. On any error the current session is left untouched.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.dir.Authenticate(email, password); err != nil {
		return err
	}

	if err := s.writeBackLocked(); err != nil {
		return err
	}

	// re-read after write-back: re-login of the active account must see its
	// latest edits
	entry, ok := s.dir.Get(email)
	if !ok {
		return common.ErrNotFound
	}
	s.activateLocked(ctx, entry, false)

	return s.saveLocked(ctx)
}

// Reactivate extends an expired account with a fresh activation code and
// signs it in. The account password is required.
func (s *Store) Reactivate(ctx context.Context, email, password, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeBackLocked(); err != nil {
		return err
	}

	entry, err := s.dir.Reactivate(email, password, code)
	if err != nil {
		return err
	}
	s.activateLocked(ctx, entry, false)

	return s.saveLocked(ctx)
}

// Logout writes the working copy back and returns to the anonymous state.
// Pending reminders keep running. Logging out while anonymous is a no-op.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil
	}
	if err := s.writeBackLocked(); err != nil {
		return err
	}

	s.logger.Info(ctx, "session ended", "email", s.active.Email)
	s.resetWorkLocked()

	return s.saveLocked(ctx)
}

// UpdateProfile changes the active account's display name or picture.
func (s *Store) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Account{}, err
	}

	acc, err := s.dir.UpdateProfile(s.active.Email, patch)
	if err != nil {
		return models.Account{}, err
	}
	s.active = &acc

	return acc, s.saveLocked(ctx)
}

// JustSignedUp reports the one-shot welcome flag.
func (s *Store) JustSignedUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.justSignedUp
}

// ConsumeWelcome clears the welcome flag and reports whether it was set.
func (s *Store) ConsumeWelcome() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.justSignedUp
	s.justSignedUp = false
	return was
}
