package tmux

import (
	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

// Window is one tmux window as offered to the search provider.
type Window struct {
	ID         string
	InternalID string
	Session    string
	Index      int
	Name       string
	Label      string
	Active     bool
}

var (
	defaultWindowFormat = "#{window_name}"

	newTmux = func(socketPath string) (tmuxClient, error) {
		if socketPath != "" {
			return gotmux.NewTmux(socketPath)
		}
		return gotmux.DefaultTmux()
	}
)

type tmuxClient interface {
	ListAllWindows() ([]*gotmux.Window, error)
	ListWindowsFormat(target, filter, format string) ([]string, error)
	SelectWindow(target string) error
	SwitchClient(*gotmux.SwitchClientOptions) error
	DisplayMessage(target, format string) (string, error)
	Close() error
}
