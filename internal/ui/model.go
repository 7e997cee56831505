package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/term-list-popup/internal/backend"
	"github.com/atomicstack/term-list-popup/internal/menu"
	"github.com/atomicstack/term-list-popup/internal/telemetry"
	"github.com/atomicstack/term-list-popup/internal/terminal"
	"github.com/atomicstack/term-list-popup/internal/theme"
	"github.com/atomicstack/term-list-popup/internal/ui/command"
	uistate "github.com/atomicstack/term-list-popup/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
	PanelLocation PanelLocation
	// ToggleKey opens and closes the menu from the keyboard.
	ToggleKey string
	// Popup starts the menu open and exits once it closes.
	Popup    bool
	Service  *backend.Service
	Notifier Notifier
	Metrics  *telemetry.Metrics
	Context  context.Context
}

// Model implements the Bubble Tea model for the terminal list panel.
type Model struct {
	ctx       context.Context
	terminals *terminal.Client
	menu      *uistate.Menu
	filter    textinput.Model
	bus       *command.Bus
	service   *backend.Service
	notifier  Notifier
	metrics   *telemetry.Metrics
	keys      keyMap

	open       bool
	pending    bool
	generation uint64

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	width         int
	height        int
	fixedWidth    bool
	fixedHeight   bool
	showFooter    bool
	verbose       bool
	popup         bool
	panelLocation PanelLocation

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the controller around terminals.
func NewModel(terminals *terminal.Client, opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		ctx:           ctx,
		terminals:     terminals,
		menu:          uistate.NewMenu(),
		filter:        newFilterInput(),
		bus:           command.New(),
		service:       opts.Service,
		notifier:      opts.Notifier,
		metrics:       opts.Metrics,
		keys:          newKeyMap(opts.ToggleKey),
		showFooter:    opts.ShowFooter,
		verbose:       opts.Verbose,
		popup:         opts.Popup,
		panelLocation: opts.PanelLocation,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.resizeFilter()
	m.registerHandlers()
	return m
}

func newFilterInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "Filter: "
	ti.Placeholder = "type to filter, * matches anything"
	ti.CharLimit = 256
	if styles.FilterPrompt != nil {
		ti.PromptStyle = *styles.FilterPrompt
	}
	if styles.Filter != nil {
		ti.TextStyle = *styles.Filter
	}
	if styles.FilterPlaceholder != nil {
		ti.PlaceholderStyle = *styles.FilterPlaceholder
	}
	if styles.Cursor != nil {
		ti.Cursor.Style = *styles.Cursor
	}
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.service != nil {
		cmds = append(cmds, waitForServiceEvent(m.service))
	}
	if m.popup {
		cmds = append(cmds, func() tea.Msg { return toggleMsg{source: sourceStartup} })
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 2)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(toggleMsg{}):         m.handleToggleMsg,
		reflect.TypeOf(idsLoadedMsg{}):      m.handleIDsLoadedMsg,
		reflect.TypeOf(metasLoadedMsg{}):    m.handleMetasLoadedMsg,
		reflect.TypeOf(menu.ActionResult{}): m.handleActionResultMsg,
		reflect.TypeOf(serviceEventMsg{}):   m.handleServiceEventMsg,
		reflect.TypeOf(serviceDoneMsg{}):    m.handleServiceDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// Open reports whether the menu is showing entries.
func (m *Model) Open() bool {
	return m.open
}

// Pending reports whether a fetch for the next open is in flight.
func (m *Model) Pending() bool {
	return m.pending
}

// Entries exposes the menu's entries in list order.
func (m *Model) Entries() []uistate.Entry {
	return m.menu.Entries
}

func (m *Model) menuContext() menu.Context {
	return menu.Context{
		Ctx:       m.ctx,
		Terminals: m.terminals,
		Timestamp: terminal.CurrentTime,
	}
}
