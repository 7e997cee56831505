// Package searchprovider speaks the org.gnome.Shell.SearchProvider2 D-Bus
// interface. It offers a client for consuming a provider such as GNOME
// Terminal, and a server that exports any Provider implementation on the
// session bus.
package searchprovider

import (
	"context"

	"github.com/godbus/dbus/v5"
)

const (
	// Interface is the D-Bus interface name for search providers.
	Interface = "org.gnome.Shell.SearchProvider2"

	// DefaultBusName is the well-known name owned by GNOME Terminal.
	DefaultBusName = "org.gnome.Terminal"

	// DefaultObjectPath is the object GNOME Terminal exports the provider on.
	DefaultObjectPath dbus.ObjectPath = "/org/gnome/Terminal/SearchProvider"
)

const (
	MethodGetInitialResultSet   = "GetInitialResultSet"
	MethodGetSubsearchResultSet = "GetSubsearchResultSet"
	MethodGetResultMetas        = "GetResultMetas"
	MethodActivateResult        = "ActivateResult"
	MethodLaunchSearch          = "LaunchSearch"
)

// ResultMeta describes one result returned by GetResultMetas.
type ResultMeta struct {
	ID          string
	Name        string
	Description string
}

// Provider is the search provider contract. Implementations must be safe for
// concurrent use.
type Provider interface {
	GetInitialResultSet(ctx context.Context, terms []string) ([]string, error)
	GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error)
	GetResultMetas(ctx context.Context, ids []string) ([]ResultMeta, error)
	ActivateResult(ctx context.Context, id string, terms []string, timestamp uint32) error
	LaunchSearch(ctx context.Context, terms []string, timestamp uint32) error
}

// IntrospectXML documents the exported interface for introspection clients.
const IntrospectXML = `<node>
  <interface name="org.gnome.Shell.SearchProvider2">
    <method name="GetInitialResultSet">
      <arg type="as" name="terms" direction="in"/>
      <arg type="as" name="results" direction="out"/>
    </method>
    <method name="GetSubsearchResultSet">
      <arg type="as" name="previous_results" direction="in"/>
      <arg type="as" name="terms" direction="in"/>
      <arg type="as" name="results" direction="out"/>
    </method>
    <method name="GetResultMetas">
      <arg type="as" name="identifiers" direction="in"/>
      <arg type="aa{sv}" name="metas" direction="out"/>
    </method>
    <method name="ActivateResult">
      <arg type="s" name="identifier" direction="in"/>
      <arg type="as" name="terms" direction="in"/>
      <arg type="u" name="timestamp" direction="in"/>
    </method>
    <method name="LaunchSearch">
      <arg type="as" name="terms" direction="in"/>
      <arg type="u" name="timestamp" direction="in"/>
    </method>
  </interface>
  <interface name="org.freedesktop.DBus.Introspectable">
    <method name="Introspect">
      <arg name="out" direction="out" type="s"/>
    </method>
  </interface>
</node>`
