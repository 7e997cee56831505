package searchprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

var (
	// ErrUnavailable reports that the provider could not be reached.
	ErrUnavailable = errors.New("search provider unavailable")
	// ErrCancelled reports a call aborted by the caller or the platform.
	ErrCancelled = errors.New("search provider call cancelled")
	// ErrRemote reports a fault raised by the provider itself.
	ErrRemote = errors.New("search provider error")
)

// gioCancelled is the name GDBus gives G_IO_ERROR_CANCELLED when the error
// domain is not registered with a D-Bus name.
const gioCancelled = "org.gtk.GDBus.UnmappedGError.Quark._g_2dio_2derror_2dquark.Code19"

var unavailableNames = map[string]struct{}{
	"org.freedesktop.DBus.Error.ServiceUnknown":   {},
	"org.freedesktop.DBus.Error.NameHasNoOwner":   {},
	"org.freedesktop.DBus.Error.NoReply":          {},
	"org.freedesktop.DBus.Error.Disconnected":     {},
	"org.freedesktop.DBus.Error.NoServer":         {},
	"org.freedesktop.DBus.Error.Timeout":          {},
	"org.freedesktop.DBus.Error.TimedOut":         {},
	"org.freedesktop.DBus.Error.UnknownObject":    {},
	"org.freedesktop.DBus.Error.UnknownInterface": {},
}

// CallError wraps a failed method call with its classification.
type CallError struct {
	Method string
	Kind   error
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *CallError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Classify maps err onto one of ErrUnavailable, ErrCancelled or ErrRemote.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return ErrCancelled
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded), errors.Is(err, dbus.ErrClosed):
		return ErrUnavailable
	case errors.Is(err, ErrRemote):
		return ErrRemote
	}
	name := errorName(err)
	if name == gioCancelled {
		return ErrCancelled
	}
	if _, ok := unavailableNames[name]; ok {
		return ErrUnavailable
	}
	if strings.HasPrefix(name, "org.freedesktop.DBus.Error.Spawn.") {
		return ErrUnavailable
	}
	return ErrRemote
}

func wrapCall(method string, err error) error {
	if err == nil {
		return nil
	}
	var callErr *CallError
	if errors.As(err, &callErr) {
		return err
	}
	return &CallError{Method: method, Kind: Classify(err), Err: err}
}

func errorName(err error) string {
	var ptr *dbus.Error
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Name
	}
	var val dbus.Error
	if errors.As(err, &val) {
		return val.Name
	}
	return ""
}

// IsCancelled reports whether err is a cancellation.
func IsCancelled(err error) bool {
	return err != nil && Classify(err) == ErrCancelled
}

// IsUnavailable reports whether err means the provider could not be reached.
func IsUnavailable(err error) bool {
	return err != nil && Classify(err) == ErrUnavailable
}
