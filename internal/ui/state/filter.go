package state

import "github.com/atomicstack/term-list-popup/internal/glob"

// SetFilter applies pattern to every entry's title and returns the number of
// visible entries. If the focused entry becomes hidden, focus returns to the
// filter field.
func (m *Menu) SetFilter(pattern string) int {
	m.Filter = pattern
	matcher := glob.Compile(pattern)
	visible := 0
	for i := range m.Entries {
		m.Entries[i].Visible = matcher.Match(m.Entries[i].Item.Label)
		if m.Entries[i].Visible {
			visible++
		}
	}
	if m.Focus != FocusFilter && !m.isVisible(m.Focus) {
		m.Focus = FocusFilter
	}
	if m.ViewportOffset > visible-1 {
		m.ViewportOffset = 0
	}
	return visible
}

// VisibleIndexes returns the entry indexes that pass the filter, in order.
func (m *Menu) VisibleIndexes() []int {
	out := make([]int, 0, len(m.Entries))
	for i, e := range m.Entries {
		if e.Visible {
			out = append(out, i)
		}
	}
	return out
}

// VisibleCount returns the number of entries passing the filter.
func (m *Menu) VisibleCount() int {
	n := 0
	for _, e := range m.Entries {
		if e.Visible {
			n++
		}
	}
	return n
}

func (m *Menu) isVisible(idx int) bool {
	return idx >= 0 && idx < len(m.Entries) && m.Entries[idx].Visible
}
