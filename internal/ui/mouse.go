package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleMouseMsg routes clicks on the panel button and entries. Hovering
// an entry focuses it only while entries are focusable.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch ev.Action {
	case tea.MouseActionPress:
		switch ev.Button {
		case tea.MouseButtonLeft:
			return m.handleClick(ev.X, ev.Y)
		case tea.MouseButtonWheelUp:
			if m.open && m.menu.Focusable() {
				m.moveFocus(m.menu.FocusPrev)
			}
		case tea.MouseButtonWheelDown:
			if m.open && m.menu.Focusable() {
				m.moveFocus(m.menu.FocusNext)
			}
		}
	case tea.MouseActionMotion:
		if !m.open || !m.menu.Focusable() {
			return nil
		}
		if idx, ok := m.entryAt(ev.Y); ok {
			m.moveFocus(func() bool { return m.menu.FocusEntry(idx) })
		}
	}
	return nil
}

func (m *Model) handleClick(x, y int) tea.Cmd {
	if y == 0 {
		if _, start, end := m.panelBar(); x >= start && x < end {
			return m.toggle(sourceMouse)
		}
		return nil
	}
	if !m.open {
		return nil
	}
	if y == entriesTop-1 {
		m.moveFocus(m.menu.FocusFilterField)
		return nil
	}
	idx, ok := m.entryAt(y)
	if !ok {
		return nil
	}
	return m.activate(m.menu.Entries[idx].Item)
}

// entryAt maps a screen row to an entry index.
func (m *Model) entryAt(y int) (int, bool) {
	row := y - entriesTop
	if row < 0 {
		return -1, false
	}
	visible := m.menu.VisibleIndexes()
	start, end := m.visibleWindow(len(visible))
	pos := start + row
	if pos >= end {
		return -1, false
	}
	return visible[pos], true
}
