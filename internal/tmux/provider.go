// Package tmux serves tmux windows through the search provider interface so
// the panel, and GNOME Shell, can list and switch to them like terminal tabs.
package tmux

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Provider answers search provider calls from a tmux server. Window ids have
// the form "session:index".
type Provider struct {
	socketPath string
	format     string
	filter     string
	clientID   string

	mu     sync.Mutex
	client tmuxClient
}

var _ searchprovider.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithWindowFormat sets the tmux format appended to each "session:index: "
// label.
func WithWindowFormat(format string) Option {
	return func(p *Provider) { p.format = format }
}

// WithWindowFilter restricts listed windows with a tmux filter expression.
func WithWindowFilter(filter string) Option {
	return func(p *Provider) { p.filter = filter }
}

// WithClient targets activations at a specific tmux client.
func WithClient(clientID string) Option {
	return func(p *Provider) { p.clientID = clientID }
}

// NewProvider returns a provider for the server behind socketPath. An empty
// path uses tmux's default server.
func NewProvider(socketPath string, opts ...Option) *Provider {
	p := &Provider{socketPath: socketPath}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) conn() (tmuxClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	client, err := newTmux(p.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect to tmux: %w", err)
	}
	p.client = client
	return client, nil
}

// reset drops a connection that failed so the next call reconnects.
func (p *Provider) reset(client tmuxClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == client {
		_ = client.Close()
		p.client = nil
	}
}

// Close releases the control-mode connection.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}

func (p *Provider) windows(ctx context.Context) ([]Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client, err := p.conn()
	if err != nil {
		return nil, err
	}
	windows, err := fetchWindows(client, p.format, p.filter)
	if err != nil {
		p.reset(client)
		return nil, fmt.Errorf("list tmux windows: %w", err)
	}
	return windows, nil
}

// GetInitialResultSet returns the ids of windows whose label fuzzily matches
// every term, closest first. No terms lists all windows in tmux order.
func (p *Provider) GetInitialResultSet(ctx context.Context, terms []string) ([]string, error) {
	windows, err := p.windows(ctx)
	if err != nil {
		return nil, err
	}
	type ranked struct {
		id       string
		distance int
	}
	matches := make([]ranked, 0, len(windows))
	for _, w := range windows {
		if distance, ok := rankTerms(w.Label, terms); ok {
			matches = append(matches, ranked{id: w.ID, distance: distance})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].distance < matches[j].distance })
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.id
	}
	return ids, nil
}

// GetSubsearchResultSet narrows previous to the windows that still exist and
// match terms, keeping the order of previous.
func (p *Provider) GetSubsearchResultSet(ctx context.Context, previous, terms []string) ([]string, error) {
	windows, err := p.windows(ctx)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string, len(windows))
	for _, w := range windows {
		labels[w.ID] = w.Label
	}
	ids := make([]string, 0, len(previous))
	for _, id := range previous {
		if label, ok := labels[id]; !ok {
			continue
		} else if _, match := rankTerms(label, terms); match {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// GetResultMetas describes the requested windows. Unknown ids are skipped.
func (p *Provider) GetResultMetas(ctx context.Context, ids []string) ([]searchprovider.ResultMeta, error) {
	windows, err := p.windows(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Window, len(windows))
	for _, w := range windows {
		byID[w.ID] = w
	}
	metas := make([]searchprovider.ResultMeta, 0, len(ids))
	for _, id := range ids {
		w, ok := byID[id]
		if !ok {
			continue
		}
		metas = append(metas, searchprovider.ResultMeta{
			ID:          w.ID,
			Name:        w.Label,
			Description: fmt.Sprintf("tmux session %s", w.Session),
		})
	}
	return metas, nil
}

// ActivateResult switches the client to the window's session and selects
// the window.
func (p *Provider) ActivateResult(ctx context.Context, id string, terms []string, timestamp uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	session, _ := splitDisplayID(id)
	if session == "" {
		return fmt.Errorf("invalid window id %q", id)
	}
	client, err := p.conn()
	if err != nil {
		return err
	}
	opts := &gotmux.SwitchClientOptions{TargetSession: session}
	if clientID := strings.TrimSpace(p.clientID); clientID != "" {
		opts.TargetClient = clientID
	}
	if err := client.SwitchClient(opts); err != nil {
		logging.Error(fmt.Errorf("switch-client to %s: %w", session, err))
	}
	if err := client.SelectWindow(id); err != nil {
		return fmt.Errorf("select window %s: %w", id, err)
	}
	return nil
}

// LaunchSearch has no tmux equivalent and is accepted as a no-op.
func (p *Provider) LaunchSearch(ctx context.Context, terms []string, timestamp uint32) error {
	return ctx.Err()
}

// CurrentClientID returns the client attached to the pane this process runs
// in, or "" outside tmux.
func CurrentClientID(socketPath string) string {
	target := strings.TrimSpace(os.Getenv("TMUX_PANE"))
	if target == "" {
		return ""
	}
	client, err := newTmux(socketPath)
	if err != nil {
		return ""
	}
	defer client.Close()
	name, err := client.DisplayMessage(target, "#{client_name}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

// rankTerms sums the fuzzy distance of each term within label. It reports
// false when any term does not match.
func rankTerms(label string, terms []string) (int, bool) {
	total := 0
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		distance := fuzzy.RankMatchNormalizedFold(term, label)
		if distance < 0 {
			return 0, false
		}
		total += distance
	}
	return total, true
}
