package events

import (
	"time"

	"github.com/atomicstack/term-list-popup/internal/logging"
)

type RemoteTracer struct{}

type ServiceTracer struct{}

var (
	Remote  = RemoteTracer{}
	Service = ServiceTracer{}
)

func (RemoteTracer) Call(method string, args int) {
	logging.Trace("remote.call", map[string]interface{}{"method": method, "args": args})
}

func (RemoteTracer) Result(method string, results int, elapsed time.Duration) {
	logging.Trace("remote.result", map[string]interface{}{
		"method":  method,
		"results": results,
		"elapsed": elapsed.String(),
	})
}

func (RemoteTracer) Error(method string, err error) {
	if err == nil {
		return
	}
	logging.Trace("remote.error", map[string]interface{}{"method": method, "error": err.Error()})
}

func (RemoteTracer) Cancelled(method string) {
	logging.Trace("remote.cancelled", map[string]interface{}{"method": method})
}

func (RemoteTracer) SkipMeta(index int, reason string) {
	logging.Trace("remote.skip-meta", map[string]interface{}{"index": index, "reason": reason})
}

func (RemoteTracer) Served(method string, results int) {
	logging.Trace("remote.served", map[string]interface{}{"method": method, "results": results})
}

func (ServiceTracer) Exported(name, path string) {
	logging.Trace("service.exported", map[string]interface{}{"name": name, "path": path})
}

func (ServiceTracer) Request(source string) {
	logging.Trace("service.request", map[string]interface{}{"source": source})
}

func (ServiceTracer) Throttled(source string) {
	logging.Trace("service.throttled", map[string]interface{}{"source": source})
}

func (ServiceTracer) Stopped() {
	logging.Trace("service.stopped", nil)
}
