package store

import (
	"context"

	"github.com/dmitrijs2005/rerange/internal/persistence"
)

// snapshotLocked merges the working copy into a copy of the directory.
func (s *Store) snapshotLocked() persistence.Snapshot {
	snap := persistence.Snapshot{
		Accounts: s.dir.Entries(),
		Ledger:   s.dir.Ledger(),
	}
	if s.active != nil {
		email := s.active.Email
		if entry, ok := snap.Accounts[email]; ok {
			w := s.work.Clone()
			entry.Data.Settings = w.Settings
			entry.Data.Lists = w.Lists
			entry.Data.Notes = w.Notes
			entry.Data.Habits = w.Habits
			snap.Accounts[email] = entry
			snap.ActiveEmail = email
		}
	}
	return snap
}

func (s *Store) saveLocked(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Error(ctx, "failed to save snapshot", "error", err)
		return err
	}
	return nil
}

// Restore loads the last snapshot into the directory and resumes the stored
// session. A session whose account is gone or whose subscription has
// lapsed is dropped without writing anything back.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persister == nil {
		return nil
	}

	snap, found, err := s.persister.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		s.logger.Info(ctx, "no saved state, starting fresh")
		return nil
	}

	s.dir.Load(snap.Accounts, snap.Ledger)
	s.resetWorkLocked()

	if snap.ActiveEmail == "" {
		if snap.SessionDropped {
			return s.saveLocked(ctx)
		}
		return nil
	}

	entry, ok := s.dir.Get(snap.ActiveEmail)
	if !ok || entry.Data.Expired(s.clock.Now()) {
		s.logger.Info(ctx, "stored session dropped", "email", snap.ActiveEmail)
		return s.saveLocked(ctx)
	}

	s.activateLocked(ctx, entry, false)
	return nil
}

// Close writes the working copy back, flushes, and disarms all reminders.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer s.reminders.Stop()

	if err := s.writeBackLocked(); err != nil {
		return err
	}
	return s.saveLocked(ctx)
}
