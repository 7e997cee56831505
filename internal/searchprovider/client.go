package searchprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/godbus/dbus/v5"
)

type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Client calls a remote search provider. A zero timeout leaves calls bounded
// only by the caller's context.
type Client struct {
	obj     caller
	timeout time.Duration
}

var _ Provider = (*Client)(nil)

// NewClient binds a client to the provider exported by busName at path.
func NewClient(conn *dbus.Conn, busName string, path dbus.ObjectPath, timeout time.Duration) *Client {
	return &Client{obj: conn.Object(busName, path), timeout: timeout}
}

func newClient(obj caller, timeout time.Duration) *Client {
	return &Client{obj: obj, timeout: timeout}
}

// SessionBus opens a shared connection to the session bus.
func SessionBus() (*dbus.Conn, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, &CallError{Method: "ConnectSessionBus", Kind: ErrUnavailable, Err: err}
	}
	return conn, nil
}

func (c *Client) call(ctx context.Context, method string, out []interface{}, args ...interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	call := c.obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
	if call == nil {
		return wrapCall(method, fmt.Errorf("no reply"))
	}
	if call.Err != nil {
		return wrapCall(method, call.Err)
	}
	if len(out) == 0 {
		return nil
	}
	if err := call.Store(out...); err != nil {
		return &CallError{Method: method, Kind: ErrRemote, Err: err}
	}
	return nil
}

// GetInitialResultSet returns the ids matching terms. An empty term list
// matches every result the provider knows about.
func (c *Client) GetInitialResultSet(ctx context.Context, terms []string) ([]string, error) {
	if terms == nil {
		terms = []string{}
	}
	start := time.Now()
	events.Remote.Call(MethodGetInitialResultSet, len(terms))
	var results []string
	if err := c.call(ctx, MethodGetInitialResultSet, []interface{}{&results}, terms); err != nil {
		events.Remote.Error(MethodGetInitialResultSet, err)
		return nil, err
	}
	events.Remote.Result(MethodGetInitialResultSet, len(results), time.Since(start))
	return results, nil
}

// GetSubsearchResultSet narrows a previous result set.
func (c *Client) GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error) {
	if previous == nil {
		previous = []string{}
	}
	if terms == nil {
		terms = []string{}
	}
	start := time.Now()
	events.Remote.Call(MethodGetSubsearchResultSet, len(previous))
	var results []string
	if err := c.call(ctx, MethodGetSubsearchResultSet, []interface{}{&results}, previous, terms); err != nil {
		events.Remote.Error(MethodGetSubsearchResultSet, err)
		return nil, err
	}
	events.Remote.Result(MethodGetSubsearchResultSet, len(results), time.Since(start))
	return results, nil
}

// GetResultMetas fetches display metadata for ids. Metas whose id cannot be
// decoded are skipped. The provider's ordering is returned untouched.
func (c *Client) GetResultMetas(ctx context.Context, ids []string) ([]ResultMeta, error) {
	if ids == nil {
		ids = []string{}
	}
	start := time.Now()
	events.Remote.Call(MethodGetResultMetas, len(ids))
	var raw []map[string]dbus.Variant
	if err := c.call(ctx, MethodGetResultMetas, []interface{}{&raw}, ids); err != nil {
		events.Remote.Error(MethodGetResultMetas, err)
		return nil, err
	}
	metas := DecodeMetas(raw)
	events.Remote.Result(MethodGetResultMetas, len(metas), time.Since(start))
	return metas, nil
}

// ActivateResult asks the provider to raise the result identified by id.
func (c *Client) ActivateResult(ctx context.Context, id string, terms []string, timestamp uint32) error {
	if terms == nil {
		terms = []string{}
	}
	start := time.Now()
	events.Remote.Call(MethodActivateResult, 1)
	if err := c.call(ctx, MethodActivateResult, nil, id, terms, timestamp); err != nil {
		events.Remote.Error(MethodActivateResult, err)
		return err
	}
	events.Remote.Result(MethodActivateResult, 0, time.Since(start))
	return nil
}

// LaunchSearch asks the provider to open its own search UI for terms.
func (c *Client) LaunchSearch(ctx context.Context, terms []string, timestamp uint32) error {
	if terms == nil {
		terms = []string{}
	}
	events.Remote.Call(MethodLaunchSearch, len(terms))
	if err := c.call(ctx, MethodLaunchSearch, nil, terms, timestamp); err != nil {
		events.Remote.Error(MethodLaunchSearch, err)
		return err
	}
	return nil
}
