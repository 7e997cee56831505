package state

import "github.com/atomicstack/term-list-popup/internal/menu"

// FocusFilter is the Focus value when the filter field holds focus.
const FocusFilter = -1

// Entry is one row of the terminal list. Hidden entries stay in the
// collection so clearing the filter restores them in place.
type Entry struct {
	Item    menu.Item
	Visible bool
}

// Menu tracks the populated entries, the active filter, focus and viewport.
type Menu struct {
	Entries        []Entry
	Filter         string
	Focus          int
	ViewportOffset int
}

// NewMenu returns an empty menu with the filter field focused.
func NewMenu() *Menu {
	return &Menu{Focus: FocusFilter}
}

// Populate replaces all entries with items in order, clears the filter and
// focuses the filter field.
func (m *Menu) Populate(items []menu.Item) {
	m.Entries = make([]Entry, 0, len(items))
	for _, item := range items {
		m.Entries = append(m.Entries, Entry{Item: item, Visible: true})
	}
	m.Filter = ""
	m.Focus = FocusFilter
	m.ViewportOffset = 0
}

// Clear discards all entries and filter state.
func (m *Menu) Clear() {
	m.Entries = nil
	m.Filter = ""
	m.Focus = FocusFilter
	m.ViewportOffset = 0
}

// Len returns the number of entries, visible or not.
func (m *Menu) Len() int {
	return len(m.Entries)
}

// Items returns a copy of every entry's item in list order.
func (m *Menu) Items() []menu.Item {
	items := make([]menu.Item, len(m.Entries))
	for i, e := range m.Entries {
		items[i] = e.Item
	}
	return items
}

// IndexOf returns the entry index for id, or -1.
func (m *Menu) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, e := range m.Entries {
		if e.Item.ID == id {
			return i
		}
	}
	return -1
}
