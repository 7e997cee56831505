package ui

import (
	"context"
	"fmt"

	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/atomicstack/term-list-popup/internal/menu"
	"github.com/atomicstack/term-list-popup/internal/terminal"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	sourceKey     = "key"
	sourceMouse   = "mouse"
	sourceEscape  = "escape"
	sourceStartup = "startup"
)

type toggleMsg struct {
	source string
}

type idsLoadedMsg struct {
	gen uint64
	ids []string
	err error
}

type metasLoadedMsg struct {
	gen   uint64
	metas []terminal.Meta
	err   error
}

func listAllCmd(ctx context.Context, terminals *terminal.Client, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ids, err := terminals.ListAll(ctx)
		return idsLoadedMsg{gen: gen, ids: ids, err: err}
	}
}

func fetchMetaCmd(ctx context.Context, terminals *terminal.Client, gen uint64, ids []string) tea.Cmd {
	return func() tea.Msg {
		metas, err := terminals.FetchMeta(ctx, ids)
		return metasLoadedMsg{gen: gen, metas: metas, err: err}
	}
}

func (m *Model) handleToggleMsg(msg tea.Msg) tea.Cmd {
	toggle, ok := msg.(toggleMsg)
	if !ok {
		return nil
	}
	return m.toggle(toggle.source)
}

// toggle opens a closed menu, and closes one that is open or still loading.
func (m *Model) toggle(source string) tea.Cmd {
	events.Panel.Toggle(source, m.open, m.pending)
	opening := !m.open && !m.pending
	m.metrics.RecordToggle(m.ctx, source, opening)
	if !opening {
		m.closeMenu("toggle:" + source)
		return m.quitIfPopup()
	}
	return m.beginOpen()
}

func (m *Model) beginOpen() tea.Cmd {
	if m.terminals == nil {
		return nil
	}
	m.generation++
	m.pending = true
	m.errMsg = ""
	m.menu.Clear()
	m.resetFilterInput()
	events.Panel.Fetch(m.generation)
	return listAllCmd(m.ctx, m.terminals, m.generation)
}

// closeMenu hides the menu and discards its entries and filter. Bumping the
// generation makes any response still in flight stale.
func (m *Model) closeMenu(reason string) {
	m.generation++
	m.open = false
	m.pending = false
	m.menu.Clear()
	m.resetFilterInput()
	events.Panel.Close(reason)
}

func (m *Model) quitIfPopup() tea.Cmd {
	if m.popup {
		return tea.Quit
	}
	return nil
}

func (m *Model) current(gen uint64) bool {
	return m.pending && gen == m.generation
}

func (m *Model) handleIDsLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(idsLoadedMsg)
	if !ok {
		return nil
	}
	if !m.current(loaded.gen) {
		events.Panel.Stale("ids", loaded.gen, m.generation)
		return nil
	}
	if loaded.err != nil {
		return m.failLoad(loaded.err)
	}
	if len(loaded.ids) == 0 {
		m.showMenu(nil)
		return nil
	}
	return fetchMetaCmd(m.ctx, m.terminals, loaded.gen, loaded.ids)
}

func (m *Model) handleMetasLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(metasLoadedMsg)
	if !ok {
		return nil
	}
	if !m.current(loaded.gen) {
		events.Panel.Stale("metas", loaded.gen, m.generation)
		return nil
	}
	if loaded.err != nil {
		return m.failLoad(loaded.err)
	}
	m.showMenu(menu.ItemsFromMetas(loaded.metas))
	return nil
}

// showMenu populates entries and opens the menu with the filter focused.
func (m *Model) showMenu(items []menu.Item) {
	m.menu.Populate(items)
	m.pending = false
	m.open = true
	m.resetFilterInput()
	m.syncFilterFocus()
	events.Panel.Open(m.generation, len(items))
}

// failLoad leaves the menu closed and empty. Cancellations are silent.
func (m *Model) failLoad(err error) tea.Cmd {
	m.pending = false
	m.open = false
	m.menu.Clear()
	if terminal.IsCancelled(err) {
		events.Panel.Close("cancelled")
		return nil
	}
	logging.Error(err)
	events.Action.Error(err)
	return m.notify(fmt.Sprintf("Error getting Terminal List: %v", err))
}
