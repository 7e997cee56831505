package ui

import (
	"unicode"

	"github.com/atomicstack/term-list-popup/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// editsFilter reports whether msg types into the filter field rather than
// navigating the list.
func editsFilter(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return true
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false
			}
		}
		return true
	}
	return false
}

// handleFilterInput feeds msg to the filter field and re-applies the filter
// when the text changed.
func (m *Model) handleFilterInput(msg tea.KeyMsg) tea.Cmd {
	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.applyFilter(m.filter.Value())
	}
	return cmd
}

func (m *Model) applyFilter(pattern string) {
	visible := m.menu.SetFilter(pattern)
	m.syncFilterFocus()
	m.syncViewport()
	m.errMsg = ""
	m.forceClearInfo()
	events.Filter.Change(pattern, visible)
}

func (m *Model) clearFilter() bool {
	if m.filter.Value() == "" {
		return false
	}
	m.filter.SetValue("")
	m.applyFilter("")
	events.Filter.Cleared()
	return true
}

func (m *Model) resetFilterInput() {
	m.filter.SetValue("")
	m.filter.Blur()
}

// syncFilterFocus gives the text field keyboard focus exactly when the menu
// focus is on the filter field.
func (m *Model) syncFilterFocus() {
	if m.open && m.menu.FilterFocused() {
		if !m.filter.Focused() {
			m.filter.Focus()
		}
		return
	}
	if m.filter.Focused() {
		m.filter.Blur()
	}
}
