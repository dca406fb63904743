package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/persistence"
)

// metaLoader reads the record written alongside every snapshot.
type metaLoader interface {
	LoadMeta(ctx context.Context) (*persistence.Meta, error)
}

// Status prints where state is kept, when it was last saved and who is
// registered. It works without a session.
func (a *App) Status(ctx context.Context, _ []string) error {
	var b strings.Builder

	if a.config != nil {
		fmt.Fprintf(&b, "Storage:    %s\n", a.config.StorageBackend)
	}

	if a.meta == nil {
		b.WriteString("Last saved: not persisted\n")
	} else {
		m, err := a.meta.LoadMeta(ctx)
		if err != nil {
			return fmt.Errorf("failed to read snapshot meta: %w", err)
		}
		if m == nil {
			b.WriteString("Last saved: never\n")
		} else {
			sealed := ""
			if m.Sealed {
				sealed = " (sealed)"
			}
			fmt.Fprintf(&b, "Last saved: %s%s\n", m.SavedAt.Local().Format(dueLayout), sealed)
		}
	}

	emails := a.store.Accounts()
	fmt.Fprintf(&b, "Accounts:   %d", len(emails))
	if len(emails) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(emails, ", "))
	}
	b.WriteString("\n")

	if acc, ok := a.store.CurrentAccount(); ok {
		fmt.Fprintf(&b, "Signed in:  %s", acc.Email)
	} else {
		b.WriteString("Signed in:  nobody")
	}

	printlnFn(b.String())
	return nil
}
