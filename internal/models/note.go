package models

import "time"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title" validate:"required_without=Content,max=300"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Habit tracks a daily yes/no activity. Log is keyed by YYYY-MM-DD and
// Streak is always derived from it.
type Habit struct {
	ID     string          `json:"id"`
	Name   string          `json:"name" validate:"required,max=200"`
	Log    map[string]bool `json:"log"`
	Streak int             `json:"streak"`
}

func (h Habit) Clone() Habit {
	c := h
	c.Log = make(map[string]bool, len(h.Log))
	for k, v := range h.Log {
		c.Log[k] = v
	}
	return c
}
