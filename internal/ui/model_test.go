package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/term-list-popup/internal/backend"
	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/atomicstack/term-list-popup/internal/terminal"
	"github.com/atomicstack/term-list-popup/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
)

func newTestModel(stub *testutil.StubProvider, opts Options) *Model {
	m := NewModel(terminal.New(stub), opts)
	return m
}

func openHarness(t *testing.T, stub *testutil.StubProvider, opts Options) *Harness {
	t.Helper()
	h := NewHarness(newTestModel(stub, opts))
	h.Send(toggleMsg{source: sourceKey})
	if !h.Model().Open() {
		t.Fatalf("expected menu to open, err=%q", h.Model().errMsg)
	}
	return h
}

func entryLabels(m *Model) []string {
	labels := make([]string, 0, len(m.Entries()))
	for _, e := range m.Entries() {
		labels = append(labels, e.Item.Label)
	}
	return labels
}

func TestToggleRoundTrip(t *testing.T) {
	stub := testutil.NewStubProvider("1", "vim", "2", "htop")
	h := openHarness(t, stub, Options{})
	m := h.Model()
	if got := strings.Join(entryLabels(m), ","); got != "vim,htop" {
		t.Fatalf("unexpected entries %q", got)
	}
	if !m.menu.FilterFocused() || !m.filter.Focused() {
		t.Fatalf("expected filter field focused after open")
	}

	h.Send(toggleMsg{source: sourceKey})
	if m.Open() || m.Pending() {
		t.Fatalf("expected menu closed after second toggle")
	}
	if len(m.Entries()) != 0 || m.filter.Value() != "" {
		t.Fatalf("expected entries and filter discarded on close")
	}

	h.Send(toggleMsg{source: sourceKey})
	if !m.Open() || len(m.Entries()) != 2 {
		t.Fatalf("expected menu to reopen with fresh entries")
	}
	if stub.Calls(searchprovider.MethodGetInitialResultSet) != 2 {
		t.Fatalf("expected a fresh listing per open, got %d", stub.Calls(searchprovider.MethodGetInitialResultSet))
	}
}

func TestOpenResetsFilter(t *testing.T) {
	stub := testutil.NewStubProvider("1", "vim", "2", "htop")
	h := openHarness(t, stub, Options{})
	h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("vim")})
	if h.Model().menu.VisibleCount() != 1 {
		t.Fatalf("expected filter to hide htop")
	}
	h.Send(toggleMsg{source: sourceKey})
	h.Send(toggleMsg{source: sourceKey})
	m := h.Model()
	if m.menu.Filter != "" || m.filter.Value() != "" || m.menu.VisibleCount() != 2 {
		t.Fatalf("expected a clean filter on reopen, got %q", m.menu.Filter)
	}
}

func TestEntriesFollowListOrderNotMetaOrder(t *testing.T) {
	stub := testutil.NewStubProvider("a", "first", "b", "second", "c", "third")
	stub.Reverse = true
	stub.Extra = []searchprovider.ResultMeta{{ID: "zzz", Name: "stray"}}
	h := openHarness(t, stub, Options{})
	if got := strings.Join(entryLabels(h.Model()), ","); got != "first,second,third" {
		t.Fatalf("expected entries paired by id, got %q", got)
	}
	for i, id := range []string{"a", "b", "c"} {
		if h.Model().Entries()[i].Item.ID != id {
			t.Fatalf("entry %d bound to %q, want %q", i, h.Model().Entries()[i].Item.ID, id)
		}
	}
}

func TestEmptyResultOpensWithoutMetaCall(t *testing.T) {
	stub := testutil.NewStubProvider()
	h := openHarness(t, stub, Options{})
	if len(h.Model().Entries()) != 0 {
		t.Fatalf("expected no entries")
	}
	if stub.Calls(searchprovider.MethodGetResultMetas) != 0 {
		t.Fatalf("expected no GetResultMetas call for an empty listing")
	}
	if !strings.Contains(h.View(), "(no terminals)") {
		t.Fatalf("expected empty hint in view:\n%s", h.View())
	}
}

func TestListErrorNotifiesAndStaysClosed(t *testing.T) {
	useTempLog(t)
	stub := testutil.NewStubProvider("1", "vim")
	stub.ListErr = errors.New("service unknown")
	notifier := &recordingNotifier{}
	h := NewHarness(newTestModel(stub, Options{Notifier: notifier}))
	h.Send(toggleMsg{source: sourceKey})
	m := h.Model()
	if m.Open() || m.Pending() || len(m.Entries()) != 0 {
		t.Fatalf("expected menu closed and empty after failure")
	}
	want := "Error getting Terminal List: service unknown"
	if m.errMsg != want {
		t.Fatalf("expected %q, got %q", want, m.errMsg)
	}
	if len(notifier.bodies) != 1 || notifier.bodies[0] != want {
		t.Fatalf("expected one desktop notification, got %#v", notifier.bodies)
	}
	if stub.Calls(searchprovider.MethodGetResultMetas) != 0 {
		t.Fatalf("expected fetch to stop after the failed listing")
	}
}

func TestMetaErrorLeavesMenuEmpty(t *testing.T) {
	useTempLog(t)
	stub := testutil.NewStubProvider("1", "vim")
	stub.MetaErr = errors.New("remote fault")
	h := NewHarness(newTestModel(stub, Options{}))
	h.Send(toggleMsg{source: sourceKey})
	m := h.Model()
	if m.Open() || len(m.Entries()) != 0 {
		t.Fatalf("expected closed empty menu")
	}
	if !strings.Contains(m.errMsg, "remote fault") {
		t.Fatalf("expected error surfaced, got %q", m.errMsg)
	}
}

// gioCancelledName is how GDBus reports G_IO_ERROR_CANCELLED on the wire.
const gioCancelledName = "org.gtk.GDBus.UnmappedGError.Quark._g_2dio_2derror_2dquark.Code19"

func cancellationErrors() map[string]error {
	return map[string]error{
		"context":  context.Canceled,
		"gio-dbus": dbus.Error{Name: gioCancelledName, Body: []interface{}{"Operation was cancelled"}},
	}
}

func TestCancellationIsSilent(t *testing.T) {
	for errName, cancelErr := range cancellationErrors() {
		for _, call := range []string{"list", "meta"} {
			t.Run(call+"/"+errName, func(t *testing.T) {
				useTempLog(t)
				stub := testutil.NewStubProvider("1", "vim")
				if call == "list" {
					stub.ListErr = cancelErr
				} else {
					stub.MetaErr = cancelErr
				}
				notifier := &recordingNotifier{}
				h := NewHarness(newTestModel(stub, Options{Notifier: notifier}))
				h.Send(toggleMsg{source: sourceKey})
				m := h.Model()
				if m.Open() || m.Pending() || len(m.Entries()) != 0 {
					t.Fatalf("expected menu closed after cancellation")
				}
				if m.errMsg != "" || len(notifier.bodies) != 0 {
					t.Fatalf("expected no notification for cancellation, got %q %#v", m.errMsg, notifier.bodies)
				}
			})
		}
	}
}

func TestCancelledActivationIsSilent(t *testing.T) {
	for errName, cancelErr := range cancellationErrors() {
		t.Run(errName, func(t *testing.T) {
			useTempLog(t)
			stub := testutil.NewStubProvider("1", "vim", "2", "htop")
			stub.ActivateErr = cancelErr
			notifier := &recordingNotifier{}
			h := openHarness(t, stub, Options{Notifier: notifier})
			h.Send(tea.KeyMsg{Type: tea.KeyDown})
			h.Send(tea.KeyMsg{Type: tea.KeyEnter})
			m := h.Model()
			if len(stub.Activations()) != 1 {
				t.Fatalf("expected one activation, got %#v", stub.Activations())
			}
			if m.Open() {
				t.Fatalf("expected menu closed after activation")
			}
			if m.errMsg != "" || len(notifier.bodies) != 0 {
				t.Fatalf("expected no notification for cancelled activation, got %q %#v", m.errMsg, notifier.bodies)
			}
		})
	}
}

func TestActivationUsesProgramContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := newTestModel(testutil.NewStubProvider("1", "vim"), Options{Context: ctx})
	if m.menuContext().Ctx != ctx {
		t.Fatalf("expected actions to run under the program context")
	}
}

func TestToggleWhilePendingDiscardsLateResponse(t *testing.T) {
	stub := testutil.NewStubProvider("1", "vim")
	m := newTestModel(stub, Options{})
	load := m.toggle(sourceKey)
	if !m.Pending() {
		t.Fatalf("expected pending after first toggle")
	}
	if cmd := m.toggle(sourceKey); cmd != nil {
		t.Fatalf("expected no command when closing a pending open")
	}
	if m.Pending() || m.Open() {
		t.Fatalf("expected pending open cancelled")
	}

	m.Update(load())
	if m.Open() || m.Pending() {
		t.Fatalf("expected stale listing to be discarded")
	}
	if stub.Calls(searchprovider.MethodGetResultMetas) != 0 {
		t.Fatalf("expected no metadata fetch for a stale listing")
	}
}

func TestStaleMetasIgnoredAfterReopen(t *testing.T) {
	stub := testutil.NewStubProvider("1", "vim")
	m := newTestModel(stub, Options{})
	first := m.toggle(sourceKey)
	staleIDs := first().(idsLoadedMsg)
	m.toggle(sourceKey)
	second := m.toggle(sourceKey)

	_, cmd := m.Update(staleIDs)
	if cmd != nil {
		t.Fatalf("expected stale ids to produce no follow-up")
	}
	_, cmd = m.Update(second())
	if cmd == nil {
		t.Fatalf("expected current ids to request metadata")
	}
	m.Update(metasLoadedMsg{gen: staleIDs.gen, metas: []terminal.Meta{{ID: "x", Title: "ghost"}}})
	if m.Open() {
		t.Fatalf("expected stale metas ignored")
	}
	m.Update(cmd())
	if !m.Open() || len(m.Entries()) != 1 || m.Entries()[0].Item.Label != "vim" {
		t.Fatalf("expected current metas to open menu, got %#v", m.Entries())
	}
}

func TestEmptyTitlesAreSkipped(t *testing.T) {
	stub := testutil.NewStubProvider("1", "vim", "2", "  ", "3", "htop")
	h := openHarness(t, stub, Options{})
	if got := strings.Join(entryLabels(h.Model()), ","); got != "vim,htop" {
		t.Fatalf("unexpected entries %q", got)
	}
}

func TestPopupStartsOpenAndQuitsOnClose(t *testing.T) {
	stub := testutil.NewStubProvider("1", "vim")
	m := newTestModel(stub, Options{Popup: true})
	h := NewHarness(m)
	h.processCmd(m.Init())
	if !m.Open() {
		t.Fatalf("expected popup to start open")
	}
	h.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if !h.Quit() {
		t.Fatalf("expected popup to quit after closing")
	}
}

func TestServiceEventTogglesMenu(t *testing.T) {
	stub := testutil.NewStubProvider("1", "vim")
	h := NewHarness(newTestModel(stub, Options{}))
	h.Send(serviceEventMsg{event: backend.Event{Source: "dbus"}})
	if !h.Model().Open() {
		t.Fatalf("expected external toggle to open the menu")
	}
	h.Send(serviceEventMsg{event: backend.Event{Source: "dbus"}})
	if h.Model().Open() {
		t.Fatalf("expected external toggle to close the menu")
	}
}

func TestServiceEventsDriveToggleUntilStopped(t *testing.T) {
	svc := backend.NewService(0)
	stub := testutil.NewStubProvider("1", "vim")
	m := newTestModel(stub, Options{Service: svc})
	if !svc.Trigger("dbus") {
		t.Fatalf("expected trigger accepted")
	}
	svc.Stop()

	h := NewHarness(m)
	h.processCmd(m.Init())
	if !m.Open() {
		t.Fatalf("expected queued toggle to open the menu")
	}
	if m.service != nil {
		t.Fatalf("expected service dropped after its events channel closed")
	}
}

type recordingNotifier struct {
	bodies []string
}

func (n *recordingNotifier) Notify(ctx context.Context, summary, body string) error {
	n.bodies = append(n.bodies, body)
	return nil
}
