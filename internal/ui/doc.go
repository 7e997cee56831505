// Package ui contains the Bubble Tea program behind the terminal list panel.
// The Model type focuses on message orchestration, while dedicated helpers
// own the toggle lifecycle, navigation, filter input and rendering.
//
// Message flow:
//   - Bubble Tea invokes Model.Update, which routes each message through a
//     typed handler registry so every tea.Msg is handled by one function.
//   - Toggling (panel button, toggle key, esc, or the exported D-Bus Toggle
//     method relayed by backend.Service) either starts a fetch or closes the
//     menu. A fetch is two commands in sequence: ListAll, then FetchMeta for
//     exactly the ids ListAll returned.
//   - Every open bumps a generation counter. Load results carry the
//     generation they were issued for and are dropped when it no longer
//     matches or the menu stopped waiting for them.
//
// State ownership:
//   - Entries, the filter pattern and focus live in internal/ui/state.Menu.
//   - Activation and clipboard copy run through the internal/ui/command bus
//     so the remote call never blocks the event loop.
package ui
