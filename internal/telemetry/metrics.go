package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "term-list"

// Outcome labels used on remote call and activation counters.
const (
	OutcomeOK          = "ok"
	OutcomeCancelled   = "cancelled"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// Metrics groups the instruments recorded by the panel and provider client.
type Metrics struct {
	Toggles       metric.Int64Counter
	RemoteCalls   metric.Int64Counter
	RemoteLatency metric.Float64Histogram
	Activations   metric.Int64Counter
}

// NewMetrics creates the instruments on the global meter provider.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Toggles, err = meter.Int64Counter("panel.toggles",
		metric.WithDescription("Panel toggles partitioned by source and resulting state"))
	if err != nil {
		return nil, err
	}

	m.RemoteCalls, err = meter.Int64Counter("searchprovider.calls",
		metric.WithDescription("Search provider calls partitioned by method and outcome"))
	if err != nil {
		return nil, err
	}

	m.RemoteLatency, err = meter.Float64Histogram("searchprovider.latency",
		metric.WithDescription("Search provider call latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	m.Activations, err = meter.Int64Counter("terminal.activations",
		metric.WithDescription("Terminal activations partitioned by outcome"))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordToggle counts one toggle from source.
func (m *Metrics) RecordToggle(ctx context.Context, source string, opening bool) {
	if m == nil {
		return
	}
	m.Toggles.Add(ctx, 1, metric.WithAttributes(
		attribute.String("toggle.source", source),
		attribute.Bool("toggle.opening", opening),
	))
}

// RecordRemoteCall counts a finished call and its latency.
func (m *Metrics) RecordRemoteCall(ctx context.Context, method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("rpc.method", method),
		attribute.String("rpc.outcome", outcome),
	)
	m.RemoteCalls.Add(ctx, 1, attrs)
	m.RemoteLatency.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

// RecordActivation counts one activation attempt.
func (m *Metrics) RecordActivation(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.Activations.Add(ctx, 1, metric.WithAttributes(attribute.String("activation.outcome", outcome)))
}
