package searchprovider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method string
	args   []interface{}
	ctx    context.Context
}

type fakeCaller struct {
	calls   []recordedCall
	replies map[string]*dbus.Call
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{replies: map[string]*dbus.Call{}}
}

func (f *fakeCaller) reply(method string, body ...interface{}) {
	f.replies[Interface+"."+method] = &dbus.Call{Body: body}
}

func (f *fakeCaller) fail(method string, err error) {
	f.replies[Interface+"."+method] = &dbus.Call{Err: err}
}

func (f *fakeCaller) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args, ctx: ctx})
	if call, ok := f.replies[method]; ok {
		return call
	}
	return &dbus.Call{}
}

func TestGetInitialResultSetSendsEmptyTerms(t *testing.T) {
	fc := newFakeCaller()
	fc.reply(MethodGetInitialResultSet, []string{"a", "b"})
	client := newClient(fc, 0)

	ids, err := client.GetInitialResultSet(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.Len(t, fc.calls, 1)
	assert.Equal(t, Interface+".GetInitialResultSet", fc.calls[0].method)
	require.Len(t, fc.calls[0].args, 1)
	terms, ok := fc.calls[0].args[0].([]string)
	require.True(t, ok)
	assert.NotNil(t, terms)
	assert.Empty(t, terms)
}

func TestGetResultMetasDecodesFieldsIndependently(t *testing.T) {
	fc := newFakeCaller()
	fc.reply(MethodGetResultMetas, []map[string]dbus.Variant{
		{"id": dbus.MakeVariant("b"), "name": dbus.MakeVariant("beta"), "description": dbus.MakeVariant("second")},
		{"id": dbus.MakeVariant(uint32(7)), "name": dbus.MakeVariant("bad id")},
		{"name": dbus.MakeVariant("no id")},
		{"id": dbus.MakeVariant("a"), "name": dbus.MakeVariant(42)},
		{"id": dbus.MakeVariant("c")},
	})
	client := newClient(fc, 0)

	metas, err := client.GetResultMetas(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []ResultMeta{
		{ID: "b", Name: "beta", Description: "second"},
		{ID: "a"},
		{ID: "c"},
	}, metas)
	assert.Equal(t, []string{"a", "b", "c"}, fc.calls[0].args[0])
}

func TestActivateResultPassesTimestamp(t *testing.T) {
	fc := newFakeCaller()
	client := newClient(fc, 0)

	require.NoError(t, client.ActivateResult(context.Background(), "term-1", nil, 4242))
	require.Len(t, fc.calls, 1)
	args := fc.calls[0].args
	require.Len(t, args, 3)
	assert.Equal(t, "term-1", args[0])
	assert.Equal(t, []string{}, args[1])
	assert.Equal(t, uint32(4242), args[2])
}

func TestSubsearchAndLaunchSearch(t *testing.T) {
	fc := newFakeCaller()
	fc.reply(MethodGetSubsearchResultSet, []string{"x"})
	client := newClient(fc, 0)

	ids, err := client.GetSubsearchResultSet(context.Background(), []string{"x", "y"}, []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids)
	require.NoError(t, client.LaunchSearch(context.Background(), []string{"vim"}, 1))
	assert.Equal(t, Interface+".LaunchSearch", fc.calls[1].method)
}

func TestCallTimeoutAppliesDeadline(t *testing.T) {
	fc := newFakeCaller()
	fc.reply(MethodGetInitialResultSet, []string{})
	client := newClient(fc, time.Second)
	_, err := client.GetInitialResultSet(context.Background(), nil)
	require.NoError(t, err)
	_, ok := fc.calls[0].ctx.Deadline()
	assert.True(t, ok, "expected deadline when timeout configured")

	noTimeout := newClient(fc, 0)
	_, err = noTimeout.GetInitialResultSet(context.Background(), nil)
	require.NoError(t, err)
	_, ok = fc.calls[1].ctx.Deadline()
	assert.False(t, ok, "expected no deadline without timeout")
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind error
	}{
		{"service unknown", dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown", Body: []interface{}{"gone"}}, ErrUnavailable},
		{"no owner pointer", &dbus.Error{Name: "org.freedesktop.DBus.Error.NameHasNoOwner"}, ErrUnavailable},
		{"spawn", dbus.Error{Name: "org.freedesktop.DBus.Error.Spawn.ChildExited"}, ErrUnavailable},
		{"deadline", context.DeadlineExceeded, ErrUnavailable},
		{"closed", dbus.ErrClosed, ErrUnavailable},
		{"gio cancelled", dbus.Error{Name: gioCancelled, Body: []interface{}{"Operation was cancelled"}}, ErrCancelled},
		{"context cancelled", context.Canceled, ErrCancelled},
		{"failed", dbus.Error{Name: "org.freedesktop.DBus.Error.Failed", Body: []interface{}{"boom"}}, ErrRemote},
		{"plain", errors.New("weird"), ErrRemote},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fc := newFakeCaller()
			fc.fail(MethodGetInitialResultSet, tc.err)
			client := newClient(fc, 0)
			_, err := client.GetInitialResultSet(context.Background(), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.kind)

			var callErr *CallError
			require.ErrorAs(t, err, &callErr)
			assert.Equal(t, MethodGetInitialResultSet, callErr.Method)
			assert.Equal(t, tc.err, callErr.Err)
			assert.Equal(t, tc.kind == ErrCancelled, IsCancelled(err))
			assert.Equal(t, tc.kind == ErrUnavailable, IsUnavailable(err))
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify(nil))
	assert.False(t, IsCancelled(nil))
	assert.False(t, IsUnavailable(nil))
}

func TestEncodeDecodeMetaPreservesFields(t *testing.T) {
	raw := []map[string]dbus.Variant{EncodeMeta(ResultMeta{ID: "1", Name: "shell"})}
	_, hasDesc := raw[0]["description"]
	assert.False(t, hasDesc)
	assert.Equal(t, []ResultMeta{{ID: "1", Name: "shell"}}, DecodeMetas(raw))
}
