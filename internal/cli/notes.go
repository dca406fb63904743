package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

const notePreview = 60

func (a *App) ShowNotes(_ context.Context, _ []string) error {
	if !a.store.IsActive() {
		return common.ErrNotAuthenticated
	}

	notes := a.store.Notes()
	if len(notes) == 0 {
		printlnFn("No notes yet. Create one with: note add")
		return nil
	}

	var b strings.Builder
	for i, n := range notes {
		preview := strings.ReplaceAll(n.Content, "\n", " ")
		if r := []rune(preview); len(r) > notePreview {
			preview = string(r[:notePreview]) + "..."
		}
		fmt.Fprintf(&b, "%d. %s [%s] %s\n", i+1, n.Title, n.CreatedAt.Local().Format("2006-01-02"), preview)
	}
	printlnFn(strings.TrimRight(b.String(), "\n"))
	return nil
}

func (a *App) noteAt(ref string) (models.Note, error) {
	idx, err := parseRef(ref, 1)
	if err != nil {
		return models.Note{}, err
	}
	notes := a.store.Notes()
	if idx[0] >= len(notes) {
		return models.Note{}, outOfRange("note", idx[0])
	}
	return notes[idx[0]], nil
}

// Note handles: note add | note edit|del|show|summarize <n>.
func (a *App) Note(ctx context.Context, args []string) error {
	const help = "note add | note edit|del|show|summarize <n>"
	if len(args) == 0 {
		return usage(help)
	}

	if args[0] == "add" {
		title, err := getSimpleText(a.reader, "Enter note title", a.out)
		if err != nil {
			return err
		}
		content, err := GetMultiline(a.reader, "Enter note text", a.out)
		if err != nil {
			return err
		}
		if _, err := a.store.AddNote(ctx, title, content); err != nil {
			return err
		}
		printlnFn("Note saved")
		return nil
	}

	if len(args) != 2 {
		return usage(help)
	}
	n, err := a.noteAt(args[1])
	if err != nil {
		return err
	}

	switch args[0] {
	case "show":
		printlnFn(fmt.Sprintf("%s (%s)\n\n%s", n.Title, n.CreatedAt.Local().Format(dueLayout), n.Content))

	case "edit":
		title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", n.Title), a.out)
		if err != nil {
			return err
		}
		if title == "" {
			title = n.Title
		}
		content, err := GetMultiline(a.reader, "Enter new text (empty keeps the current text)", a.out)
		if err != nil {
			return err
		}
		if content == "" {
			content = n.Content
		}
		if _, err := a.store.UpdateNote(ctx, n.ID, title, content); err != nil {
			return err
		}
		printlnFn("Note updated")

	case "del", "delete":
		if err := a.store.DeleteNote(ctx, n.ID); err != nil {
			return err
		}
		printlnFn("Deleted note", n.Title)

	case "summarize", "sum":
		printlnFn("Asking the AI assistant...")
		summary, err := a.store.SummarizeNote(ctx, n.ID)
		if err != nil {
			return err
		}
		printlnFn("Summary:", summary)

	default:
		return usage(help)
	}
	return nil
}
