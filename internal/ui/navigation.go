package ui

import (
	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/atomicstack/term-list-popup/internal/menu"
	"github.com/atomicstack/term-list-popup/internal/ui/command"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Toggle):
		return m.toggle(sourceKey)
	}
	if !m.open {
		return m.handleClosedKey(keyMsg)
	}
	if key.Matches(keyMsg, m.keys.Close) {
		return m.toggle(sourceEscape)
	}
	if key.Matches(keyMsg, m.keys.Clear) {
		m.clearFilter()
		return nil
	}
	if m.menu.FilterFocused() {
		return m.handleFilterFocusedKey(keyMsg)
	}
	return m.handleEntryFocusedKey(keyMsg)
}

func (m *Model) handleClosedKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.QuitIdle):
		if m.pending {
			return nil
		}
		return tea.Quit
	case key.Matches(msg, m.keys.Close):
		if m.pending {
			return m.toggle(sourceEscape)
		}
		if m.popup {
			return tea.Quit
		}
		m.errMsg = ""
		return nil
	case msg.Type == tea.KeyEnter:
		if m.pending {
			return nil
		}
		return m.toggle(sourceKey)
	}
	return nil
}

// handleFilterFocusedKey moves into the list on navigation keys and edits
// the filter text otherwise.
func (m *Model) handleFilterFocusedKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Next), msg.Type == tea.KeyEnter:
		m.moveFocus(m.menu.FocusFirstVisible)
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(m.menu.FocusLastVisible)
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveFocus(func() bool { return m.menu.FocusPageDown(m.maxVisibleItems()) })
		return nil
	case key.Matches(msg, m.keys.PageUp):
		return nil
	}
	return m.handleFilterInput(msg)
}

func (m *Model) handleEntryFocusedKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(m.menu.FocusNext)
		return nil
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(m.menu.FocusPrev)
		return nil
	case key.Matches(msg, m.keys.PageDown):
		m.moveFocus(func() bool { return m.menu.FocusPageDown(m.maxVisibleItems()) })
		return nil
	case key.Matches(msg, m.keys.PageUp):
		m.moveFocus(func() bool { return m.menu.FocusPageUp(m.maxVisibleItems()) })
		return nil
	case key.Matches(msg, m.keys.Home):
		m.moveFocus(m.menu.FocusFirstVisible)
		return nil
	case key.Matches(msg, m.keys.End):
		m.moveFocus(m.menu.FocusLastVisible)
		return nil
	case key.Matches(msg, m.keys.Activate):
		return m.activateFocused()
	case key.Matches(msg, m.keys.Copy):
		return m.copyFocused()
	}
	if editsFilter(msg) {
		m.moveFocus(m.menu.FocusFilterField)
		return m.handleFilterInput(msg)
	}
	return nil
}

func (m *Model) moveFocus(move func() bool) {
	if !move() {
		return
	}
	m.syncFilterFocus()
	m.syncViewport()
	if m.menu.FilterFocused() {
		events.Focus.Filter()
		return
	}
	if item, ok := m.menu.Focused(); ok {
		events.Focus.Entry(m.menu.Focus, item.ID)
	}
}

// activateFocused closes the menu and raises the focused terminal in the
// background.
func (m *Model) activateFocused() tea.Cmd {
	item, ok := m.menu.Focused()
	if !ok {
		return nil
	}
	return m.activate(item)
}

func (m *Model) activate(item menu.Item) tea.Cmd {
	ctx := m.menuContext()
	m.closeMenu("activate")
	m.forceClearInfo()
	return m.bus.Execute(ctx, command.Request{
		Kind:    "activate",
		ID:      item.ID,
		Label:   item.Label,
		Handler: menu.ActivateAction,
		Item:    item,
	})
}

func (m *Model) copyFocused() tea.Cmd {
	item, ok := m.menu.Focused()
	if !ok {
		return nil
	}
	events.Action.Copy(item.ID)
	return m.bus.Execute(m.menuContext(), command.Request{
		Kind:    "copy",
		ID:      item.ID,
		Label:   item.Label,
		Handler: menu.CopyTitleAction,
		Item:    item,
	})
}
