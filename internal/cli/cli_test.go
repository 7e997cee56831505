package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/atomicstack/term-list-popup/internal/app"
	"github.com/atomicstack/term-list-popup/internal/backend"
	"github.com/atomicstack/term-list-popup/internal/config"
	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/atomicstack/term-list-popup/internal/terminal"
	"github.com/atomicstack/term-list-popup/internal/testutil"
	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps config discovery and logging inside the test's temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("TERM_LIST_LOG_FILE", filepath.Join(dir, "term-list.log"))
	t.Cleanup(func() {
		logging.Configure("")
		logging.SetTraceEnabled(false)
	})
}

func withStubProvider(t *testing.T, stub *testutil.StubProvider) {
	t.Helper()
	prev := openSession
	openSession = func(*config.Config) (*app.Session, error) {
		return &app.Session{Provider: stub}, nil
	}
	t.Cleanup(func() { openSession = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)
	var out bytes.Buffer
	cmd := NewRootCommand(args)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListPrintsTable(t *testing.T) {
	withStubProvider(t, testutil.NewStubProvider("b", "vim", "a", "htop", "c", ""))
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "ID  TITLE\nb   vim\na   htop\n", out)
}

func TestListMatchAndIDs(t *testing.T) {
	stub := testutil.NewStubProvider("b", "vim", "a", "htop", "d", "VIM diff")
	withStubProvider(t, stub)

	out, err := run(t, "list", "--match", "v*m")
	require.NoError(t, err)
	assert.Equal(t, "ID  TITLE\nb   vim\nd   VIM diff\n", out)

	out, err = run(t, "list", "--ids", "-m", "htop")
	require.NoError(t, err)
	assert.Equal(t, "a\n", out)

	out, err = run(t, "list", "--no-header", "--match", "diff")
	require.NoError(t, err)
	assert.Equal(t, "d  VIM diff\n", out)
}

func TestListEmptySkipsMetadata(t *testing.T) {
	stub := testutil.NewStubProvider()
	withStubProvider(t, stub)
	out, err := run(t, "list", "--no-header")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, stub.Calls(searchprovider.MethodGetResultMetas))
}

func TestListReportsProviderErrors(t *testing.T) {
	stub := testutil.NewStubProvider("a", "vim")
	stub.ListErr = errors.New("name has no owner")
	withStubProvider(t, stub)
	_, err := run(t, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list terminals")
}

func TestActivate(t *testing.T) {
	stub := testutil.NewStubProvider("a", "vim", "b", "htop")
	withStubProvider(t, stub)
	_, err := run(t, "activate", "b")
	require.NoError(t, err)
	acts := stub.Activations()
	require.Len(t, acts, 1)
	assert.Equal(t, "b", acts[0].ID)
	assert.Empty(t, acts[0].Terms)
	assert.Equal(t, terminal.CurrentTime, acts[0].Timestamp)

	_, err = run(t, "activate")
	require.Error(t, err, "activate needs an id")
}

func TestActivateFailure(t *testing.T) {
	stub := testutil.NewStubProvider("a", "vim")
	stub.ActivateErr = errors.New("tab closed")
	withStubProvider(t, stub)
	_, err := run(t, "activate", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activate a")
}

func TestToggle(t *testing.T) {
	prev := requestToggle
	t.Cleanup(func() { requestToggle = prev })

	calls := 0
	requestToggle = func(ctx context.Context) error {
		calls++
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}
	_, err := run(t, "toggle")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	requestToggle = func(context.Context) error { return backend.ErrNotRunning }
	_, err = run(t, "toggle")
	require.ErrorIs(t, err, backend.ErrNotRunning)
	assert.Contains(t, err.Error(), "start it with")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "term-list "+Version+"\n", out)
}

func TestRootRunsPanelWithResolvedConfig(t *testing.T) {
	prev := runPanel
	t.Cleanup(func() { runPanel = prev })
	var got *config.Config
	runPanel = func(_ context.Context, cfg *config.Config) error {
		got = cfg
		return nil
	}
	t.Setenv("TERM_LIST_WIDTH", "72")
	_, err := run(t, "--panel-location", "left", "--popup", "--toggle-key", "f2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "left", got.PanelLocation)
	assert.True(t, got.Popup)
	assert.Equal(t, "f2", got.ToggleKey)
	assert.Equal(t, 72, got.Width)
	assert.Equal(t, map[string]string{"panel-location": "left", "popup": "true", "toggle-key": "f2"}, got.Flags)
}

func TestInvalidConfigIsAConfigError(t *testing.T) {
	_, err := run(t, "--backend", "konsole", "version")
	require.Error(t, err)
	var cfgErr *configError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "backend")

	_, err = run(t, "--config", "/nonexistent/term-list.yaml", "version")
	require.ErrorAs(t, err, &cfgErr)
}

func TestRootRejectsArguments(t *testing.T) {
	_, err := run(t, "unexpected")
	require.Error(t, err)
}

func TestServeTmux(t *testing.T) {
	prev := serveProvider
	t.Cleanup(func() { serveProvider = prev })
	var gotName string
	var gotPath dbus.ObjectPath
	serveProvider = func(_ context.Context, name string, path dbus.ObjectPath, provider searchprovider.Provider, _ *rootOptions) error {
		gotName, gotPath = name, path
		assert.NotNil(t, provider)
		return nil
	}

	out, err := run(t, "serve-tmux", "--tmux-socket", "/tmp/term-list-test.sock")
	require.NoError(t, err)
	assert.Equal(t, defaultTmuxBusName, gotName)
	assert.Equal(t, defaultTmuxPath, gotPath)
	assert.Contains(t, out, "/tmp/term-list-test.sock")

	_, err = run(t, "serve-tmux", "--tmux-socket", "/tmp/s", "--path", "relative/path")
	require.Error(t, err)
}
