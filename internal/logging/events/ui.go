package events

import (
	"time"

	"github.com/atomicstack/term-list-popup/internal/logging"
)

type PanelTracer struct{}

type FilterTracer struct{}

type FocusTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	Panel   = PanelTracer{}
	Filter  = FilterTracer{}
	Focus   = FocusTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (PanelTracer) Toggle(source string, wasOpen, pending bool) {
	logging.Trace("panel.toggle", map[string]interface{}{
		"source":  source,
		"open":    wasOpen,
		"pending": pending,
	})
}

func (PanelTracer) Fetch(generation uint64) {
	logging.Trace("panel.fetch", map[string]interface{}{"generation": generation})
}

func (PanelTracer) Open(generation uint64, entries int) {
	logging.Trace("panel.open", map[string]interface{}{"generation": generation, "entries": entries})
}

func (PanelTracer) Close(reason string) {
	logging.Trace("panel.close", map[string]interface{}{"reason": reason})
}

func (PanelTracer) Stale(kind string, generation, current uint64) {
	logging.Trace("panel.stale", map[string]interface{}{
		"kind":       kind,
		"generation": generation,
		"current":    current,
	})
}

func (PanelTracer) Notify(kind, message string) {
	logging.Trace("panel.notify", map[string]interface{}{"kind": kind, "message": message})
}

func (FilterTracer) Change(filter string, visible int) {
	logging.Trace("filter.change", map[string]interface{}{"filter": filter, "visible": visible})
}

func (FilterTracer) Cleared() {
	logging.Trace("filter.clear", nil)
}

func (FocusTracer) Filter() {
	logging.Trace("focus.filter", nil)
}

func (FocusTracer) Entry(index int, id string) {
	logging.Trace("focus.entry", map[string]interface{}{"index": index, "id": id})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Cancelled(id string) {
	logging.Trace("action.cancelled", map[string]interface{}{"id": id})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (ActionTracer) Copy(id string) {
	logging.Trace("action.copy", map[string]interface{}{"id": id})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Busy(kind, id string) {
	logging.Trace("command.busy", map[string]interface{}{"kind": kind, "id": id})
}

func (CommandTracer) Result(id, label, msgType string, elapsed time.Duration) {
	logging.Trace("command.result", map[string]interface{}{
		"id":         id,
		"label":      label,
		"msg":        msgType,
		"elapsed_ms": elapsed.Milliseconds(),
	})
}
