// Package terminal enumerates and activates terminal tabs through a search
// provider. It owns the list-then-describe sequence the provider protocol
// requires and the pairing of metadata to ids.
package terminal

import (
	"context"
	"time"

	"github.com/atomicstack/term-list-popup/internal/searchprovider"
	"github.com/atomicstack/term-list-popup/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Meta is the display data for one terminal tab.
type Meta struct {
	ID    string
	Title string
}

// Client wraps a search provider with tracing and metrics.
type Client struct {
	provider searchprovider.Provider
	tracer   trace.Tracer
	metrics  *telemetry.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithTelemetry records spans and metrics through tel.
func WithTelemetry(tel *telemetry.Telemetry) Option {
	return func(c *Client) {
		if tel == nil {
			return
		}
		if tel.Tracer != nil {
			c.tracer = tel.Tracer
		}
		c.metrics = tel.Metrics
	}
}

// New builds a Client around provider.
func New(provider searchprovider.Provider, opts ...Option) *Client {
	c := &Client{provider: provider, tracer: telemetry.Tracer()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAll returns the ids of every open terminal. It sends an empty term
// set, which the provider treats as matching everything.
func (c *Client) ListAll(ctx context.Context) ([]string, error) {
	ctx, finish := c.begin(ctx, searchprovider.MethodGetInitialResultSet)
	ids, err := c.provider.GetInitialResultSet(ctx, []string{})
	finish(err, attribute.Int("terminal.ids", len(ids)))
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FetchMeta describes ids. Results are joined to ids by their id field and
// returned in the order of ids; ids the provider did not describe are
// dropped, as are metas for ids that were not requested.
func (c *Client) FetchMeta(ctx context.Context, ids []string) ([]Meta, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, finish := c.begin(ctx, searchprovider.MethodGetResultMetas)
	results, err := c.provider.GetResultMetas(ctx, ids)
	finish(err, attribute.Int("terminal.ids", len(ids)), attribute.Int("terminal.metas", len(results)))
	if err != nil {
		return nil, err
	}
	return pairByID(ids, results), nil
}

// Activate raises the terminal identified by id. timestamp is the event time
// of the user action that requested it.
func (c *Client) Activate(ctx context.Context, id string, timestamp uint32) error {
	ctx, finish := c.begin(ctx, searchprovider.MethodActivateResult)
	err := c.provider.ActivateResult(ctx, id, []string{}, timestamp)
	finish(err, attribute.String("terminal.id", id))
	c.metrics.RecordActivation(ctx, outcome(err))
	return err
}

func pairByID(ids []string, results []searchprovider.ResultMeta) []Meta {
	byID := make(map[string]searchprovider.ResultMeta, len(results))
	for _, r := range results {
		if _, dup := byID[r.ID]; dup {
			continue
		}
		byID[r.ID] = r
	}
	metas := make([]Meta, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		r, ok := byID[id]
		if !ok {
			continue
		}
		metas = append(metas, Meta{ID: id, Title: r.Name})
	}
	return metas
}

func (c *Client) begin(ctx context.Context, method string) (context.Context, func(error, ...attribute.KeyValue)) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "searchprovider."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("rpc.method", method)))
	return ctx, func(err error, attrs ...attribute.KeyValue) {
		span.SetAttributes(attrs...)
		result := outcome(err)
		span.SetAttributes(attribute.String("rpc.outcome", result))
		if err != nil && result != telemetry.OutcomeCancelled {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.RecordRemoteCall(ctx, method, result, time.Since(start))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeOK
	case IsCancelled(err):
		return telemetry.OutcomeCancelled
	case searchprovider.IsUnavailable(err):
		return telemetry.OutcomeUnavailable
	default:
		return telemetry.OutcomeError
	}
}

// IsCancelled reports whether err is a cancellation that must not be shown
// to the user.
func IsCancelled(err error) bool {
	return searchprovider.IsCancelled(err)
}

// CurrentTime is the ActivateResult timestamp meaning "now". The token is
// compared against the window manager's own server clock, which a terminal
// program cannot read, so activations always send it.
const CurrentTime uint32 = 0
