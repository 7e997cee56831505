package searchprovider

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBus struct {
	exported map[string]interface{}
	reply    dbus.RequestNameReply
	released []string
}

func newFakeBus() *fakeBus {
	return &fakeBus{exported: map[string]interface{}{}, reply: dbus.RequestNameReplyPrimaryOwner}
}

func (b *fakeBus) Export(v interface{}, path dbus.ObjectPath, iface string) error {
	key := string(path) + "|" + iface
	if v == nil {
		delete(b.exported, key)
		return nil
	}
	b.exported[key] = v
	return nil
}

func (b *fakeBus) RequestName(name string, flags dbus.RequestNameFlags) (dbus.RequestNameReply, error) {
	return b.reply, nil
}

func (b *fakeBus) ReleaseName(name string) (dbus.ReleaseNameReply, error) {
	b.released = append(b.released, name)
	return dbus.ReleaseNameReplyReleased, nil
}

type staticProvider struct {
	ids       []string
	metas     []ResultMeta
	err       error
	activated []string
}

func (p *staticProvider) GetInitialResultSet(ctx context.Context, terms []string) ([]string, error) {
	return p.ids, p.err
}

func (p *staticProvider) GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error) {
	return previous, p.err
}

func (p *staticProvider) GetResultMetas(ctx context.Context, ids []string) ([]ResultMeta, error) {
	return p.metas, p.err
}

func (p *staticProvider) ActivateResult(ctx context.Context, id string, terms []string, timestamp uint32) error {
	p.activated = append(p.activated, id)
	return p.err
}

func (p *staticProvider) LaunchSearch(ctx context.Context, terms []string, timestamp uint32) error {
	return p.err
}

const testPath dbus.ObjectPath = "/io/github/atomicstack/TermList/SearchProvider"

func TestServeExportsProviderAndIntrospection(t *testing.T) {
	bus := newFakeBus()
	provider := &staticProvider{
		ids:   []string{"main:1"},
		metas: []ResultMeta{{ID: "main:1", Name: "main:1 vim"}},
	}
	srv, err := serve(bus, "io.github.atomicstack.TermList.Tmux", testPath, provider, 0)
	require.NoError(t, err)

	obj, ok := bus.exported[string(testPath)+"|"+Interface].(*exportedProvider)
	require.True(t, ok)
	_, ok = bus.exported[string(testPath)+"|"+introspectableInterface]
	require.True(t, ok)

	ids, dErr := obj.GetInitialResultSet(nil)
	require.Nil(t, dErr)
	assert.Equal(t, []string{"main:1"}, ids)

	metas, dErr := obj.GetResultMetas(ids)
	require.Nil(t, dErr)
	assert.Equal(t, provider.metas, DecodeMetas(metas))

	require.Nil(t, obj.ActivateResult("main:1", nil, 9))
	assert.Equal(t, []string{"main:1"}, provider.activated)

	require.NoError(t, srv.Close())
	assert.Empty(t, bus.exported)
	assert.Equal(t, []string{"io.github.atomicstack.TermList.Tmux"}, bus.released)
}

func TestServeFailsWhenNameTaken(t *testing.T) {
	bus := newFakeBus()
	bus.reply = dbus.RequestNameReplyExists
	_, err := serve(bus, "io.github.atomicstack.TermList.Tmux", testPath, &staticProvider{}, 0)
	require.Error(t, err)
	assert.Empty(t, bus.exported)
}

func TestExportedProviderMapsErrors(t *testing.T) {
	logging.Configure(filepath.Join(t.TempDir(), "term-list.log"))
	t.Cleanup(func() { logging.Configure("") })
	obj := &exportedProvider{provider: &staticProvider{err: errors.New("tmux not running")}}
	_, dErr := obj.GetInitialResultSet([]string{})
	require.NotNil(t, dErr)
	assert.Equal(t, "org.freedesktop.DBus.Error.Failed", dErr.Name)
	require.NotNil(t, obj.LaunchSearch(nil, 0))
}

func TestExportedProviderReturnsEmptySlices(t *testing.T) {
	obj := &exportedProvider{provider: &staticProvider{}}
	ids, dErr := obj.GetInitialResultSet(nil)
	require.Nil(t, dErr)
	assert.NotNil(t, ids)
	sub, dErr := obj.GetSubsearchResultSet(nil, nil)
	require.Nil(t, dErr)
	assert.NotNil(t, sub)
}
