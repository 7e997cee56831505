package app

import (
	"fmt"

	"github.com/atomicstack/term-list-popup/internal/config"
	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/atomicstack/term-list-popup/internal/tmux"
	"github.com/godbus/dbus/v5"
)

// Session holds the search provider chosen by the config and the session bus
// connection behind it.
type Session struct {
	// Conn is nil when the bus is unreachable and the backend does not
	// need it.
	Conn     *dbus.Conn
	Provider searchprovider.Provider

	closers []func() error
}

var (
	sessionBus    = searchprovider.SessionBus
	tmuxProvider  = func(socket string, opts ...tmux.Option) searchprovider.Provider { return tmux.NewProvider(socket, opts...) }
	currentClient = tmux.CurrentClientID
)

// Open connects to the configured backend. cfg must have passed
// config.Validate.
func Open(cfg *config.Config) (*Session, error) {
	s := &Session{}
	conn, busErr := sessionBus()
	if busErr == nil {
		s.Conn = conn
		s.closers = append(s.closers, conn.Close)
	}

	switch cfg.Backend {
	case config.BackendTmux:
		if busErr != nil {
			logging.Error(fmt.Errorf("session bus unavailable, toggle service disabled: %w", busErr))
		}
		socket, err := tmux.ResolveSocketPath(cfg.TmuxSocket)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("resolve socket path: %w", err)
		}
		opts := []tmux.Option{}
		if client := currentClient(socket); client != "" {
			opts = append(opts, tmux.WithClient(client))
		}
		provider := tmuxProvider(socket, opts...)
		if closer, ok := provider.(interface{ Close() error }); ok {
			s.closers = append(s.closers, closer.Close)
		}
		s.Provider = provider
	default:
		if busErr != nil {
			return nil, busErr
		}
		s.Provider = searchprovider.NewClient(conn, cfg.BusName, dbus.ObjectPath(cfg.ObjectPath), cfg.CallTimeoutDuration)
	}
	return s, nil
}

// Close releases the provider and the bus connection, newest first.
func (s *Session) Close() {
	if s == nil {
		return
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logging.Error(err)
		}
	}
	s.closers = nil
}
