package ui

import (
	"context"
	"time"

	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/godbus/dbus/v5"
)

const (
	notificationsBus    = "org.freedesktop.Notifications"
	notificationsPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsNotify = notificationsBus + ".Notify"
	notifyAppName       = "term-list"
	notifyTimeout       = 5 * time.Second
)

// Notifier delivers user-visible error messages outside the status line.
type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

type notifyCaller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// DesktopNotifier posts messages through org.freedesktop.Notifications.
type DesktopNotifier struct {
	obj notifyCaller
}

// NewDesktopNotifier returns a notifier bound to conn's notification daemon.
func NewDesktopNotifier(conn *dbus.Conn) *DesktopNotifier {
	return &DesktopNotifier{obj: conn.Object(notificationsBus, notificationsPath)}
}

// Notify shows summary and body as a desktop notification.
func (n *DesktopNotifier) Notify(ctx context.Context, summary, body string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	var id uint32
	return n.obj.CallWithContext(ctx, notificationsNotify, 0,
		notifyAppName,
		uint32(0),
		"utilities-terminal",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		int32(-1),
	).Store(&id)
}

// notify shows message on the status line and hands it to the notifier.
func (m *Model) notify(message string) tea.Cmd {
	m.errMsg = message
	m.forceClearInfo()
	events.Panel.Notify("error", message)
	if m.notifier == nil {
		return nil
	}
	notifier := m.notifier
	ctx := m.ctx
	return func() tea.Msg {
		if err := notifier.Notify(ctx, notifyAppName, message); err != nil {
			logging.Error(err)
		}
		return nil
	}
}
