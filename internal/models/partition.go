package models

import (
	"slices"
	"time"
)

// StarterListTitle is the title of the list every new account starts with.
const StarterListTitle = "My First List"

// Partition is everything one account owns besides its credentials.
type Partition struct {
	Settings           Settings   `json:"settings"`
	Lists              []TaskList `json:"todos"`
	Notes              []Note     `json:"notes"`
	Habits             []Habit    `json:"habits"`
	SubscriptionExpiry time.Time  `json:"subscriptionExpiry"`
	UsedActivationCode string     `json:"usedActivationCode"`
}

// NewPartition returns the data a freshly signed-up account gets.
func NewPartition(starterListID, code string, expiry time.Time) Partition {
	return Partition{
		Settings: DefaultSettings(),
		Lists: []TaskList{{
			ID:    starterListID,
			Title: StarterListTitle,
			Tasks: []Task{},
		}},
		Notes:              []Note{},
		Habits:             []Habit{},
		SubscriptionExpiry: expiry,
		UsedActivationCode: code,
	}
}

// Expired reports whether the subscription has lapsed at now.
func (p Partition) Expired(now time.Time) bool {
	return now.After(p.SubscriptionExpiry)
}

func (p Partition) Clone() Partition {
	c := p
	c.Lists = make([]TaskList, len(p.Lists))
	for i, l := range p.Lists {
		c.Lists[i] = l.Clone()
	}
	c.Notes = slices.Clone(p.Notes)
	if c.Notes == nil {
		c.Notes = []Note{}
	}
	c.Habits = make([]Habit, len(p.Habits))
	for i, h := range p.Habits {
		c.Habits[i] = h.Clone()
	}
	return c
}

// Entry pairs an account with its partition, as stored in the directory.
type Entry struct {
	Account Account   `json:"user"`
	Data    Partition `json:"data"`
}

func (e Entry) Clone() Entry {
	return Entry{Account: e.Account, Data: e.Data.Clone()}
}
