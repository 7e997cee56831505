package menu

import (
	"context"
	"strings"

	"github.com/atomicstack/term-list-popup/internal/terminal"
	tea "github.com/charmbracelet/bubbletea"
)

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
}

// Context carries runtime data needed by actions.
type Context struct {
	// Ctx bounds remote calls made by actions; nil means no deadline.
	Ctx       context.Context
	Terminals *terminal.Client
	// Timestamp is the activation token sent to the provider.
	Timestamp uint32
}

// Action runs against one item and reports back through a tea.Msg.
type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a menu action.
type ActionResult struct {
	ID   string
	Info string
	Err  error
}

// ItemsFromMetas converts terminal metadata into menu items, preserving
// order. Metas without a visible title get no item.
func ItemsFromMetas(metas []terminal.Meta) []Item {
	items := make([]Item, 0, len(metas))
	for _, meta := range metas {
		if strings.TrimSpace(meta.Title) == "" {
			continue
		}
		items = append(items, Item{ID: meta.ID, Label: meta.Title})
	}
	return items
}
