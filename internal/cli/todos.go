package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

// ShowLists prints every list with its tasks, numbered for use in refs.
func (a *App) ShowLists(_ context.Context, _ []string) error {
	if !a.store.IsActive() {
		return common.ErrNotAuthenticated
	}

	lists := a.store.Lists()
	if len(lists) == 0 {
		printlnFn("No lists yet. Create one with: list add <title>")
		return nil
	}

	var b strings.Builder
	for i, l := range lists {
		fmt.Fprintf(&b, "%d. %s\n", i+1, l.Title)
		for j, t := range l.Tasks {
			fmt.Fprintf(&b, "   %d.%d %s %s%s\n", i+1, j+1, checkbox(t.Completed), t.Title, a.taskSuffix(t))
		}
	}
	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}

func (a *App) taskSuffix(t models.Task) string {
	var extra []string
	if t.Priority != "" {
		extra = append(extra, string(t.Priority))
	}
	if t.DueDate != nil {
		extra = append(extra, "due "+t.DueDate.Local().Format(dueLayout))
	}
	if at, ok := a.store.ReminderFor(t.ID); ok {
		extra = append(extra, "reminder "+at.Local().Format(dueLayout))
	}
	if t.Recurring {
		extra = append(extra, "recurring")
	}
	if len(t.Subtasks) > 0 {
		done := 0
		for _, s := range t.Subtasks {
			if s.Completed {
				done++
			}
		}
		extra = append(extra, fmt.Sprintf("%d/%d subtasks", done, len(t.Subtasks)))
	}
	if len(extra) == 0 {
		return ""
	}
	return " (" + strings.Join(extra, ", ") + ")"
}

func (a *App) listAt(ref string) (models.TaskList, error) {
	idx, err := parseRef(ref, 1)
	if err != nil {
		return models.TaskList{}, err
	}
	lists := a.store.Lists()
	if idx[0] >= len(lists) {
		return models.TaskList{}, outOfRange("list", idx[0])
	}
	return lists[idx[0]], nil
}

func (a *App) taskAt(ref string) (models.TaskList, models.Task, error) {
	idx, err := parseRef(ref, 2)
	if err != nil {
		return models.TaskList{}, models.Task{}, err
	}
	lists := a.store.Lists()
	if idx[0] >= len(lists) {
		return models.TaskList{}, models.Task{}, outOfRange("list", idx[0])
	}
	l := lists[idx[0]]
	if idx[1] >= len(l.Tasks) {
		return models.TaskList{}, models.Task{}, outOfRange("task", idx[1])
	}
	return l, l.Tasks[idx[1]], nil
}

// List handles: list add <title> | list rename <n> <title> | list del <n>.
func (a *App) List(ctx context.Context, args []string) error {
	const help = "list add <title> | list rename <n> <title> | list del <n>"
	if len(args) == 0 {
		return usage(help)
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return usage(help)
		}
		l, err := a.store.AddList(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		printlnFn("Created list", l.Title)

	case "rename":
		if len(args) < 3 {
			return usage(help)
		}
		l, err := a.listAt(args[1])
		if err != nil {
			return err
		}
		if err := a.store.UpdateList(ctx, l.ID, strings.Join(args[2:], " ")); err != nil {
			return err
		}
		printlnFn("Renamed")

	case "del", "delete":
		if len(args) != 2 {
			return usage(help)
		}
		l, err := a.listAt(args[1])
		if err != nil {
			return err
		}
		if err := a.store.DeleteList(ctx, l.ID); err != nil {
			return err
		}
		printlnFn("Deleted list", l.Title)

	default:
		return usage(help)
	}
	return nil
}

// Task handles task subcommands; refs are list.task (and list.task.sub).
func (a *App) Task(ctx context.Context, args []string) error {
	const help = "task add <list> <title> | task edit|done|del|show|breakdown <list.task> | " +
		"task sub <list.task> <title> | task subdone <list.task.sub>"
	if len(args) < 2 {
		return usage(help)
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			return usage(help)
		}
		l, err := a.listAt(args[1])
		if err != nil {
			return err
		}
		t, err := a.store.AddTask(ctx, l.ID, models.Task{Title: strings.Join(args[2:], " ")})
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Added %q to %s", t.Title, l.Title))

	case "edit":
		return a.editTask(ctx, args[1])

	case "done":
		l, t, err := a.taskAt(args[1])
		if err != nil {
			return err
		}
		done, err := a.store.ToggleTask(ctx, l.ID, t.ID)
		if err != nil {
			return err
		}
		printlnFn(checkbox(done), t.Title)

	case "del", "delete":
		l, t, err := a.taskAt(args[1])
		if err != nil {
			return err
		}
		if err := a.store.DeleteTask(ctx, l.ID, t.ID); err != nil {
			return err
		}
		printlnFn("Deleted task", t.Title)

	case "show":
		_, t, err := a.taskAt(args[1])
		if err != nil {
			return err
		}
		printlnFn(a.formatTask(t))

	case "sub":
		if len(args) < 3 {
			return usage(help)
		}
		l, t, err := a.taskAt(args[1])
		if err != nil {
			return err
		}
		t.Subtasks = append(t.Subtasks, models.Subtask{Title: strings.Join(args[2:], " ")})
		if _, err := a.store.UpdateTask(ctx, l.ID, t); err != nil {
			return err
		}
		printlnFn("Subtask added")

	case "subdone":
		idx, err := parseRef(args[1], 3)
		if err != nil {
			return err
		}
		l, t, err := a.taskAt(fmt.Sprintf("%d.%d", idx[0]+1, idx[1]+1))
		if err != nil {
			return err
		}
		if idx[2] >= len(t.Subtasks) {
			return outOfRange("subtask", idx[2])
		}
		sub := t.Subtasks[idx[2]]
		done, err := a.store.ToggleSubtask(ctx, l.ID, t.ID, sub.ID)
		if err != nil {
			return err
		}
		printlnFn(checkbox(done), sub.Title)

	case "breakdown":
		l, t, err := a.taskAt(args[1])
		if err != nil {
			return err
		}
		printlnFn("Asking the AI assistant...")
		added, err := a.store.BreakdownTask(ctx, l.ID, t.ID)
		if err != nil {
			return err
		}
		for _, s := range added {
			printlnFn("  +", s.Title)
		}

	default:
		return usage(help)
	}
	return nil
}

func (a *App) formatTask(t models.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s%s", checkbox(t.Completed), t.Title, a.taskSuffix(t))
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "\n  tags: %s", strings.Join(t.Tags, ", "))
	}
	if t.ReminderOffsetMinutes != nil {
		fmt.Fprintf(&b, "\n  remind %d min before due", *t.ReminderOffsetMinutes)
	}
	for i, s := range t.Subtasks {
		fmt.Fprintf(&b, "\n  %d. %s %s", i+1, checkbox(s.Completed), s.Title)
	}
	return b.String()
}

// editTask walks through the editable fields. An empty answer keeps the
// current value and "-" clears an optional one.
func (a *App) editTask(ctx context.Context, ref string) error {
	l, t, err := a.taskAt(ref)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", t.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		t.Title = title
	}

	prio, err := getSimpleText(a.reader, fmt.Sprintf("Priority low|medium|high|critical [%s]", t.Priority), a.out)
	if err != nil {
		return err
	}
	switch prio {
	case "":
	case "-":
		t.Priority = ""
	default:
		t.Priority = models.Priority(prio)
	}

	current := ""
	if t.DueDate != nil {
		current = t.DueDate.Local().Format(dueLayout)
	}
	due, err := getSimpleText(a.reader, fmt.Sprintf("Due date %s [%s]", dueLayout, current), a.out)
	if err != nil {
		return err
	}
	switch due {
	case "":
	case "-":
		t.DueDate = nil
	default:
		d, err := parseDue(due)
		if err != nil {
			return err
		}
		t.DueDate = &d
	}

	currentOffset := ""
	if t.ReminderOffsetMinutes != nil {
		currentOffset = strconv.Itoa(*t.ReminderOffsetMinutes)
	}
	offset, err := getSimpleText(a.reader, fmt.Sprintf("Remind minutes before due [%s]", currentOffset), a.out)
	if err != nil {
		return err
	}
	switch offset {
	case "":
	case "-":
		t.ReminderOffsetMinutes = nil
	default:
		m, err := strconv.Atoi(offset)
		if err != nil {
			return fmt.Errorf("%w: reminder offset must be a number of minutes", common.ErrValidation)
		}
		t.ReminderOffsetMinutes = &m
	}

	tags, err := GetList(a.reader, fmt.Sprintf("Tags, comma separated [%s]", strings.Join(t.Tags, ", ")), a.out)
	if err != nil {
		return err
	}
	if len(tags) == 1 && tags[0] == "-" {
		t.Tags = nil
	} else if len(tags) > 0 {
		t.Tags = tags
	}

	recurring, err := getSimpleText(a.reader, fmt.Sprintf("Recurring y/n [%t]", t.Recurring), a.out)
	if err != nil {
		return err
	}
	switch strings.ToLower(recurring) {
	case "y", "yes":
		t.Recurring = true
	case "n", "no":
		t.Recurring = false
	}

	updated, err := a.store.UpdateTask(ctx, l.ID, t)
	if err != nil {
		return err
	}
	printlnFn(a.formatTask(updated))
	return nil
}
