package ui

import (
	"errors"
	"fmt"

	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/atomicstack/term-list-popup/internal/menu"
	"github.com/atomicstack/term-list-popup/internal/terminal"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	if result.Err != nil {
		if terminal.IsCancelled(result.Err) {
			events.Action.Cancelled(result.ID)
			return nil
		}
		logging.Error(result.Err)
		events.Action.Error(result.Err)
		text := result.Err.Error()
		var activateErr *menu.ActivateError
		if errors.As(result.Err, &activateErr) {
			text = fmt.Sprintf("Error activating terminal: %v", activateErr.Err)
		}
		return m.notify(text)
	}
	events.Action.Success(result.Info)
	m.errMsg = ""
	if result.Info != "" && (m.verbose || m.open) {
		m.setInfo(result.Info)
	}
	if m.popup && !m.open && !m.pending {
		return tea.Quit
	}
	return nil
}
