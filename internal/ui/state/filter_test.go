package state

import (
	"reflect"
	"testing"
)

func TestSetFilterHidesWithoutRemoving(t *testing.T) {
	m := newTestMenu("vim main.go", "htop", "VIM notes")
	visible := m.SetFilter("vim")
	if visible != 2 {
		t.Fatalf("expected 2 visible, got %d", visible)
	}
	if m.Len() != 3 {
		t.Fatalf("expected entries kept, got %d", m.Len())
	}
	if got := m.VisibleIndexes(); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Fatalf("unexpected visible indexes %v", got)
	}
	if m.SetFilter("") != 3 {
		t.Fatalf("expected empty filter to show everything")
	}
}

func TestSetFilterGlob(t *testing.T) {
	m := newTestMenu("abcdefxyz", "abxyz", "a*b")
	m.SetFilter("abc*xyz")
	if got := m.VisibleIndexes(); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("unexpected visible indexes %v", got)
	}
	m.SetFilter(`a\*b`)
	if got := m.VisibleIndexes(); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("unexpected visible indexes %v", got)
	}
}

func TestSetFilterIsIdempotent(t *testing.T) {
	m := newTestMenu("one", "two", "three", "four")
	m.SetFilter("o")
	first := m.VisibleIndexes()
	m.SetFilter("o")
	second := m.VisibleIndexes()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical visible sets, got %v and %v", first, second)
	}
}

func TestSetFilterReturnsFocusWhenFocusedEntryHidden(t *testing.T) {
	m := newTestMenu("alpha", "beta")
	m.FocusEntry(1)
	m.SetFilter("alp")
	if !m.FilterFocused() {
		t.Fatalf("expected focus back on filter when focused entry is hidden")
	}

	m.SetFilter("")
	m.FocusEntry(0)
	m.SetFilter("alp")
	if m.Focus != 0 {
		t.Fatalf("expected focus kept on visible entry, got %d", m.Focus)
	}
}
