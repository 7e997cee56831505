// Package command runs menu actions off the update loop.
package command

import (
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/atomicstack/term-list-popup/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// Request describes one action against one terminal.
type Request struct {
	// Kind names the action, e.g. "activate". Requests of the same kind for
	// the same ID do not overlap.
	Kind    string
	ID      string
	Label   string
	Handler menu.Action
	Item    menu.Item
}

func (r Request) key() string { return r.Kind + "\x00" + r.ID }

// Bus turns menu actions into Bubble Tea commands and drops a request while
// an identical one is still running.
type Bus struct {
	mu       sync.Mutex
	inflight map[string]struct{}
	now      func() time.Time
}

// New initialises a command bus instance.
func New() *Bus {
	return &Bus{inflight: make(map[string]struct{}), now: time.Now}
}

// Execute wraps req into a command. It returns nil when req has no handler
// or an identical request is in flight.
func (b *Bus) Execute(ctx menu.Context, req Request) tea.Cmd {
	if req.Handler == nil {
		events.Command.Skip(req.ID, req.Label)
		return nil
	}
	if !b.acquire(req.key()) {
		events.Command.Busy(req.Kind, req.ID)
		return nil
	}
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		defer b.release(req.key())
		start := b.now()
		cmd := req.Handler(ctx, req.Item)
		if cmd == nil {
			events.Command.NoOp(req.ID, req.Label)
			return nil
		}
		msg := cmd()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg), b.now().Sub(start))
		return msg
	}
}

// InFlight reports how many requests are running.
func (b *Bus) InFlight() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inflight)
}

func (b *Bus) acquire(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, busy := b.inflight[key]; busy {
		return false
	}
	b.inflight[key] = struct{}{}
	return true
}

func (b *Bus) release(key string) {
	b.mu.Lock()
	delete(b.inflight, key)
	b.mu.Unlock()
}
