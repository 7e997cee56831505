package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/term-list-popup/internal/backend"
	"github.com/atomicstack/term-list-popup/internal/config"
	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/logging/events"
	"github.com/atomicstack/term-list-popup/internal/telemetry"
	"github.com/atomicstack/term-list-popup/internal/terminal"
	"github.com/atomicstack/term-list-popup/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

const shutdownTimeout = 5 * time.Second

// Run bootstraps and executes the Bubble Tea program.
func Run(ctx context.Context, cfg *config.Config) (err error) {
	defer func() { events.App.Stop(err) }()

	tel, err := telemetry.Init(ctx, telemetry.Config{Endpoint: cfg.OTELEndpoint, Headers: cfg.OTELHeaders})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	events.App.Telemetry(cfg.OTELEndpoint, tel.Enabled())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		tel.Shutdown(shutdownCtx)
	}()

	session, err := Open(cfg)
	if err != nil {
		return err
	}
	defer session.Close()

	service := backend.NewService(backend.DefaultRepeatInterval)
	defer service.Stop()
	if session.Conn != nil {
		if err := service.Export(session.Conn); err != nil {
			logging.Error(fmt.Errorf("toggle service: %w", err))
		}
	}

	model := ui.NewModel(terminal.New(session.Provider, terminal.WithTelemetry(tel)), options(ctx, cfg, session, service, tel))
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func options(ctx context.Context, cfg *config.Config, session *Session, service *backend.Service, tel *telemetry.Telemetry) ui.Options {
	opts := ui.Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		ShowFooter:    cfg.Footer,
		Verbose:       cfg.Verbose,
		PanelLocation: ui.PanelLocation(cfg.PanelLocation),
		ToggleKey:     cfg.ToggleKey,
		Popup:         cfg.Popup,
		Service:       service,
		Metrics:       tel.Metrics,
		Context:       ctx,
	}
	if cfg.Notify == config.NotifyDesktop && session.Conn != nil {
		opts.Notifier = ui.NewDesktopNotifier(session.Conn)
	}
	return opts
}
