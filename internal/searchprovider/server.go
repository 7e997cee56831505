package searchprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const introspectableInterface = "org.freedesktop.DBus.Introspectable"

type busExporter interface {
	Export(v interface{}, path dbus.ObjectPath, iface string) error
	RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error)
	ReleaseName(name string) (dbus.ReleaseNameReply, error)
}

// Server exports a Provider on a bus connection.
type Server struct {
	bus  busExporter
	name string
	path dbus.ObjectPath
}

// Serve exports provider at path and, when name is non-empty, claims the
// well-known name. A name already owned elsewhere is an error.
func Serve(conn *dbus.Conn, name string, path dbus.ObjectPath, provider Provider, timeout time.Duration) (*Server, error) {
	return serve(conn, name, path, provider, timeout)
}

func serve(bus busExporter, name string, path dbus.ObjectPath, provider Provider, timeout time.Duration) (*Server, error) {
	if provider == nil {
		return nil, fmt.Errorf("serve %s: nil provider", path)
	}
	obj := &exportedProvider{provider: provider, timeout: timeout}
	if err := bus.Export(obj, path, Interface); err != nil {
		return nil, fmt.Errorf("export %s: %w", path, err)
	}
	if err := bus.Export(introspect.Introspectable(IntrospectXML), path, introspectableInterface); err != nil {
		_ = bus.Export(nil, path, Interface)
		return nil, fmt.Errorf("export introspection %s: %w", path, err)
	}
	s := &Server{bus: bus, name: name, path: path}
	if name != "" {
		reply, err := bus.RequestName(name, dbus.NameFlagDoNotQueue)
		if err != nil {
			s.unexport()
			return nil, fmt.Errorf("request name %s: %w", name, err)
		}
		if reply != dbus.RequestNameReplyPrimaryOwner {
			s.unexport()
			return nil, fmt.Errorf("request name %s: already owned", name)
		}
	}
	events.Service.Exported(name, string(path))
	return s, nil
}

// Close releases the bus name and removes the exported objects.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.unexport()
	if s.name == "" {
		return nil
	}
	if _, err := s.bus.ReleaseName(s.name); err != nil {
		return fmt.Errorf("release name %s: %w", s.name, err)
	}
	return nil
}

func (s *Server) unexport() {
	_ = s.bus.Export(nil, s.path, Interface)
	_ = s.bus.Export(nil, s.path, introspectableInterface)
}

type exportedProvider struct {
	provider Provider
	timeout  time.Duration
}

func (e *exportedProvider) context() (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(context.Background(), e.timeout)
	}
	return context.WithCancel(context.Background())
}

func failed(method string, err error) *dbus.Error {
	logging.Error(fmt.Errorf("%s: %w", method, err))
	return dbus.MakeFailedError(err)
}

func (e *exportedProvider) GetInitialResultSet(terms []string) ([]string, *dbus.Error) {
	ctx, cancel := e.context()
	defer cancel()
	ids, err := e.provider.GetInitialResultSet(ctx, terms)
	if err != nil {
		return nil, failed(MethodGetInitialResultSet, err)
	}
	if ids == nil {
		ids = []string{}
	}
	events.Remote.Served(MethodGetInitialResultSet, len(ids))
	return ids, nil
}

func (e *exportedProvider) GetSubsearchResultSet(previous, terms []string) ([]string, *dbus.Error) {
	ctx, cancel := e.context()
	defer cancel()
	ids, err := e.provider.GetSubsearchResultSet(ctx, previous, terms)
	if err != nil {
		return nil, failed(MethodGetSubsearchResultSet, err)
	}
	if ids == nil {
		ids = []string{}
	}
	events.Remote.Served(MethodGetSubsearchResultSet, len(ids))
	return ids, nil
}

func (e *exportedProvider) GetResultMetas(ids []string) ([]map[string]dbus.Variant, *dbus.Error) {
	ctx, cancel := e.context()
	defer cancel()
	metas, err := e.provider.GetResultMetas(ctx, ids)
	if err != nil {
		return nil, failed(MethodGetResultMetas, err)
	}
	out := make([]map[string]dbus.Variant, 0, len(metas))
	for _, meta := range metas {
		out = append(out, EncodeMeta(meta))
	}
	events.Remote.Served(MethodGetResultMetas, len(out))
	return out, nil
}

func (e *exportedProvider) ActivateResult(id string, terms []string, timestamp uint32) *dbus.Error {
	ctx, cancel := e.context()
	defer cancel()
	if err := e.provider.ActivateResult(ctx, id, terms, timestamp); err != nil {
		return failed(MethodActivateResult, err)
	}
	events.Remote.Served(MethodActivateResult, 1)
	return nil
}

func (e *exportedProvider) LaunchSearch(terms []string, timestamp uint32) *dbus.Error {
	ctx, cancel := e.context()
	defer cancel()
	if err := e.provider.LaunchSearch(ctx, terms, timestamp); err != nil {
		return failed(MethodLaunchSearch, err)
	}
	events.Remote.Served(MethodLaunchSearch, 0)
	return nil
}
