package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// BusName is the well-known name a running panel claims.
	BusName = "io.github.atomicstack.TermList"
	// ObjectPath is where the panel object is exported.
	ObjectPath dbus.ObjectPath = "/io/github/atomicstack/TermList"
	// Interface carries the Toggle method.
	Interface = "io.github.atomicstack.TermList.Panel"

	// DefaultRepeatInterval suppresses key auto-repeat on the global shortcut.
	DefaultRepeatInterval = 250 * time.Millisecond
)

const introspectXML = `<node>
  <interface name="io.github.atomicstack.TermList.Panel">
    <method name="Toggle"/>
  </interface>` + introspect.IntrospectDeclarationString + `
</node>`

// ErrNotRunning is returned by RequestToggle when no panel owns BusName.
var ErrNotRunning = errors.New("no running term-list panel")

// Event is a toggle request from outside the UI.
type Event struct {
	Source string
	At     time.Time
}

type busConn interface {
	Export(v interface{}, path dbus.ObjectPath, iface string) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

// Service receives toggle requests and publishes them as events.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc

	throttle *throttle
	events   chan Event

	mu       sync.Mutex
	stopped  bool
	conn     busConn
	busName  string
	stopOnce sync.Once
}

// NewService creates a service that accepts at most one toggle per
// repeatInterval.
func NewService(repeatInterval time.Duration) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		ctx:      ctx,
		cancel:   cancel,
		throttle: newThrottle(repeatInterval),
		events:   make(chan Event, 4),
	}
}

// Events returns a channel of toggle requests. It is closed by Stop.
func (s *Service) Events() <-chan Event {
	return s.events
}

// Trigger queues a toggle request. Requests arriving inside the repeat
// interval, after Stop, or while the queue is full are dropped.
func (s *Service) Trigger(source string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if !s.throttle.allow() {
		events.Service.Throttled(source)
		return false
	}
	select {
	case s.events <- Event{Source: source, At: time.Now()}:
		events.Service.Request(source)
		return true
	default:
		events.Service.Throttled(source)
		return false
	}
}

// Export publishes the Toggle method on conn and claims BusName.
func (s *Service) Export(conn *dbus.Conn) error {
	return s.export(conn, BusName)
}

func (s *Service) export(conn busConn, name string) error {
	if err := conn.Export(panelObject{svc: s}, ObjectPath, Interface); err != nil {
		return fmt.Errorf("export %s: %w", ObjectPath, err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), ObjectPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspection: %w", err)
	}
	reply, err := conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request name %s: %w", name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		_ = conn.Export(nil, ObjectPath, Interface)
		return fmt.Errorf("request name %s: another panel is already running", name)
	}
	s.mu.Lock()
	s.conn = conn
	s.busName = name
	s.mu.Unlock()
	events.Service.Exported(name, string(ObjectPath))
	return nil
}

// Stop releases the bus name and closes Events.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.mu.Lock()
		s.stopped = true
		conn, name := s.conn, s.busName
		close(s.events)
		s.mu.Unlock()
		if conn != nil {
			_ = conn.Export(nil, ObjectPath, Interface)
			_, _ = conn.ReleaseName(name)
		}
		events.Service.Stopped()
	})
}

// Done is closed once Stop has been called.
func (s *Service) Done() <-chan struct{} {
	return s.ctx.Done()
}

type panelObject struct {
	svc *Service
}

func (p panelObject) Toggle() *dbus.Error {
	p.svc.Trigger("dbus")
	return nil
}

type objectCaller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// RequestToggle asks the running panel on conn to toggle its menu.
func RequestToggle(ctx context.Context, conn *dbus.Conn) error {
	return requestToggle(ctx, conn.Object(BusName, ObjectPath))
}

func requestToggle(ctx context.Context, obj objectCaller) error {
	call := obj.CallWithContext(ctx, Interface+".Toggle", 0)
	if call == nil || call.Err == nil {
		return nil
	}
	if searchprovider.IsUnavailable(call.Err) {
		return fmt.Errorf("%w: %v", ErrNotRunning, call.Err)
	}
	return fmt.Errorf("toggle: %w", call.Err)
}
