package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

func (s *Store) noteIndexLocked(noteID string) (int, error) {
	for i := range s.work.Notes {
		if s.work.Notes[i].ID == noteID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("note %s: %w", noteID, common.ErrNotFound)
}

// Notes returns the active account's notes, newest first.
func (s *Store) Notes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.work.Notes)
}

// AddNote stores a note under a fresh id and creation time and puts it at
// the front.
func (s *Store) AddNote(ctx context.Context, title, content string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Note{}, err
	}

	n := models.Note{
		ID:        s.newID(),
		Title:     strings.TrimSpace(title),
		Content:   content,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := models.Validate(n); err != nil {
		return models.Note{}, err
	}
	s.work.Notes = slices.Insert(s.work.Notes, 0, n)

	return n, s.saveLocked(ctx)
}

// UpdateNote changes title and content; id and creation time are kept.
func (s *Store) UpdateNote(ctx context.Context, noteID, title, content string) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return models.Note{}, err
	}
	i, err := s.noteIndexLocked(noteID)
	if err != nil {
		return models.Note{}, err
	}

	n := s.work.Notes[i]
	n.Title = strings.TrimSpace(title)
	n.Content = content
	if err := models.Validate(n); err != nil {
		return models.Note{}, err
	}
	s.work.Notes[i] = n

	return n, s.saveLocked(ctx)
}

func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireActiveLocked(); err != nil {
		return err
	}
	i, err := s.noteIndexLocked(noteID)
	if err != nil {
		return err
	}
	s.work.Notes = slices.Delete(s.work.Notes, i, i+1)

	return s.saveLocked(ctx)
}
