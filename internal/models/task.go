package models

import (
	"slices"
	"time"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

// Task is one to-do item. A reminder is armed for it when DueDate and a
// non-negative ReminderOffsetMinutes are both set and the fire time is in
// the future; the reminder handle itself is not part of the task.
type Task struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title" validate:"required,max=500"`
	Completed             bool       `json:"completed"`
	Priority              Priority   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	DueDate               *time.Time `json:"dueDate,omitempty"`
	Tags                  []string   `json:"tags,omitempty" validate:"dive,required"`
	Recurring             bool       `json:"recurring,omitempty"`
	ImageBase64           string     `json:"imageBase64,omitempty" validate:"omitempty,base64"`
	Subtasks              []Subtask  `json:"subtasks" validate:"dive"`
	ReminderOffsetMinutes *int       `json:"reminderOffset,omitempty"`
}

// FireAt returns DueDate minus the reminder offset. ok is false when either
// is unset or the offset is negative.
func (t Task) FireAt() (at time.Time, ok bool) {
	if t.DueDate == nil || t.ReminderOffsetMinutes == nil || *t.ReminderOffsetMinutes < 0 {
		return time.Time{}, false
	}
	return t.DueDate.Add(-time.Duration(*t.ReminderOffsetMinutes) * time.Minute), true
}

func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.ReminderOffsetMinutes != nil {
		o := *t.ReminderOffsetMinutes
		c.ReminderOffsetMinutes = &o
	}
	c.Tags = slices.Clone(t.Tags)
	c.Subtasks = slices.Clone(t.Subtasks)
	if c.Subtasks == nil {
		c.Subtasks = []Subtask{}
	}
	return c
}

// TaskList groups tasks under a title.
type TaskList struct {
	ID     string `json:"id"`
	Title  string `json:"title" validate:"required,max=200"`
	Tasks  []Task `json:"tasks"`
	Streak int    `json:"streak" validate:"min=0"`
}

func (l TaskList) Clone() TaskList {
	c := l
	c.Tasks = make([]Task, len(l.Tasks))
	for i, t := range l.Tasks {
		c.Tasks[i] = t.Clone()
	}
	return c
}
