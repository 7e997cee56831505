package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

var clipboardWriteFn = clipboard.WriteAll

// ActivateError reports a failed activation of the named terminal.
type ActivateError struct {
	Label string
	Err   error
}

func (e *ActivateError) Error() string {
	return fmt.Sprintf("activate %s: %v", e.Label, e.Err)
}

func (e *ActivateError) Unwrap() error {
	return e.Err
}

// ActivateAction raises the terminal behind item.
func ActivateAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		if ctx.Terminals == nil {
			return ActionResult{ID: item.ID, Err: errors.New("no terminal provider configured")}
		}
		callCtx := ctx.Ctx
		if callCtx == nil {
			callCtx = context.Background()
		}
		if err := ctx.Terminals.Activate(callCtx, item.ID, ctx.Timestamp); err != nil {
			return ActionResult{ID: item.ID, Err: &ActivateError{Label: item.Label, Err: err}}
		}
		return ActionResult{ID: item.ID, Info: fmt.Sprintf("Switched to %s", item.Label)}
	}
}

// CopyTitleAction places the item's title on the system clipboard.
func CopyTitleAction(ctx Context, item Item) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWriteFn(item.Label); err != nil {
			return ActionResult{ID: item.ID, Err: fmt.Errorf("copy title: %w", err)}
		}
		return ActionResult{ID: item.ID, Info: fmt.Sprintf("Copied %q", item.Label)}
	}
}
