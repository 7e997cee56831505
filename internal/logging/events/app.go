package events

import "github.com/atomicstack/term-list-popup/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Stop(err error) {
	payload := map[string]interface{}{}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("app.stop", payload)
}

func (AppTracer) Telemetry(endpoint string, enabled bool) {
	logging.Trace("app.telemetry", map[string]interface{}{"endpoint": endpoint, "enabled": enabled})
}
