package ui

import (
	"github.com/atomicstack/term-list-popup/internal/backend"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForServiceEvent(s *backend.Service) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-s.Events()
		if !ok {
			return serviceDoneMsg{}
		}
		return serviceEventMsg{event: evt}
	}
}

type serviceEventMsg struct {
	event backend.Event
}

type serviceDoneMsg struct{}

// handleServiceEventMsg toggles the menu for an external request and keeps
// listening for the next one.
func (m *Model) handleServiceEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(serviceEventMsg)
	if !ok {
		return nil
	}
	cmd := m.toggle(eventMsg.event.Source)
	if m.service != nil {
		waitCmd := waitForServiceEvent(m.service)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleServiceDoneMsg(msg tea.Msg) tea.Cmd {
	m.service = nil
	return nil
}
