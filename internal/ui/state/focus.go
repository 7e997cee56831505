package state

import "github.com/atomicstack/term-list-popup/internal/menu"

// FilterFocused reports whether the filter field holds focus.
func (m *Menu) FilterFocused() bool {
	return m.Focus == FocusFilter
}

// Focusable reports whether entries may take focus from the pointer. They
// cannot while the filter field is focused.
func (m *Menu) Focusable() bool {
	return !m.FilterFocused()
}

// Focused returns the focused entry's item.
func (m *Menu) Focused() (menu.Item, bool) {
	if !m.isVisible(m.Focus) {
		return menu.Item{}, false
	}
	return m.Entries[m.Focus].Item, true
}

// FocusFilterField moves focus to the filter field.
func (m *Menu) FocusFilterField() bool {
	old := m.Focus
	m.Focus = FocusFilter
	return old != m.Focus
}

// FocusFirstVisible focuses the first visible entry. It is a no-op when
// nothing is visible.
func (m *Menu) FocusFirstVisible() bool {
	for i, e := range m.Entries {
		if e.Visible {
			return m.setFocus(i)
		}
	}
	return false
}

// FocusLastVisible focuses the last visible entry. It is a no-op when
// nothing is visible.
func (m *Menu) FocusLastVisible() bool {
	for i := len(m.Entries) - 1; i >= 0; i-- {
		if m.Entries[i].Visible {
			return m.setFocus(i)
		}
	}
	return false
}

// FocusNext moves to the next visible entry, staying on the last one.
func (m *Menu) FocusNext() bool {
	if m.FilterFocused() {
		return m.FocusFirstVisible()
	}
	for i := m.Focus + 1; i < len(m.Entries); i++ {
		if m.Entries[i].Visible {
			return m.setFocus(i)
		}
	}
	return false
}

// FocusPrev moves to the previous visible entry. From the first visible
// entry focus returns to the filter field.
func (m *Menu) FocusPrev() bool {
	if m.FilterFocused() {
		return m.FocusLastVisible()
	}
	for i := m.Focus - 1; i >= 0; i-- {
		if m.Entries[i].Visible {
			return m.setFocus(i)
		}
	}
	return m.FocusFilterField()
}

// FocusEntry focuses idx if it is visible.
func (m *Menu) FocusEntry(idx int) bool {
	if !m.isVisible(idx) {
		return false
	}
	return m.setFocus(idx)
}

// FocusPageDown moves focus forward by a page of visible entries.
func (m *Menu) FocusPageDown(maxVisible int) bool {
	return m.moveFocusBy(m.pageSize(maxVisible))
}

// FocusPageUp moves focus back by a page of visible entries, stopping on the
// first visible entry.
func (m *Menu) FocusPageUp(maxVisible int) bool {
	return m.moveFocusBy(-m.pageSize(maxVisible))
}

func (m *Menu) moveFocusBy(delta int) bool {
	visible := m.VisibleIndexes()
	if len(visible) == 0 {
		return false
	}
	pos := m.VisiblePosition(m.Focus)
	if pos < 0 {
		pos = 0
		if delta > 0 {
			delta--
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(visible) {
		pos = len(visible) - 1
	}
	return m.setFocus(visible[pos])
}

func (m *Menu) pageSize(maxVisible int) int {
	total := m.VisibleCount()
	if total == 0 {
		return 0
	}
	size := maxVisible
	if size <= 0 || size > total {
		size = total
	}
	if size < 1 {
		size = 1
	}
	return size
}

// VisiblePosition returns the row of entry idx among visible entries, or -1.
func (m *Menu) VisiblePosition(idx int) int {
	if !m.isVisible(idx) {
		return -1
	}
	pos := 0
	for i := 0; i < idx; i++ {
		if m.Entries[i].Visible {
			pos++
		}
	}
	return pos
}

// EnsureFocusVisible adjusts the viewport offset, counted in visible rows,
// so the focused entry stays on screen.
func (m *Menu) EnsureFocusVisible(maxVisible int) {
	total := m.VisibleCount()
	if total == 0 || maxVisible <= 0 {
		m.ViewportOffset = 0
		return
	}
	maxOffset := total - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.ViewportOffset > maxOffset {
		m.ViewportOffset = maxOffset
	}
	if m.ViewportOffset < 0 {
		m.ViewportOffset = 0
	}
	pos := m.VisiblePosition(m.Focus)
	if pos < 0 {
		return
	}
	if pos < m.ViewportOffset {
		m.ViewportOffset = pos
	}
	upper := m.ViewportOffset + maxVisible - 1
	if pos > upper {
		m.ViewportOffset = pos - maxVisible + 1
		if m.ViewportOffset > maxOffset {
			m.ViewportOffset = maxOffset
		}
	}
}

func (m *Menu) setFocus(idx int) bool {
	old := m.Focus
	m.Focus = idx
	return old != idx
}
