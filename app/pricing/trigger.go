package pricing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/smartinventory/inventory-tracker/app/api"
)

// ActionMonitorPrices is the event action that starts a reconciliation pass.
const ActionMonitorPrices = "monitorPrices"

// Event is the payload delivered by external schedulers and queues.
type Event struct {
	Action string `json:"action"`
}

// Dispatcher runs the reconciler for monitorPrices events. Failures are
// logged, not returned.
type Dispatcher struct {
	runner Runner
	log    *slog.Logger
}

func NewDispatcher(runner Runner, log *slog.Logger) *Dispatcher {
	return &Dispatcher{runner: runner, log: log}
}

// HandleEvent reports whether the event started a pass.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev Event) bool {
	d.log.Info("event_received", "action", ev.Action)
	if ev.Action != ActionMonitorPrices {
		d.log.Warn("event_ignored", "action", ev.Action)
		return false
	}
	if _, err := d.runner.Run(ctx); err != nil {
		d.log.Error("price_check_failed", "trigger", "event", "error", err)
	}
	return true
}

type TriggerHandler struct {
	runner Runner
	log    *slog.Logger
}

func NewTriggerHandler(runner Runner, log *slog.Logger) *TriggerHandler {
	return &TriggerHandler{runner: runner, log: log}
}

// HandleCheckPrices runs a full pass before answering. The answer is the same
// whether or not the pass succeeded, and a client hanging up does not stop it.
func (h *TriggerHandler) HandleCheckPrices(w http.ResponseWriter, r *http.Request) {
	report, err := h.runner.Run(context.WithoutCancel(r.Context()))
	if err != nil {
		h.log.Error("price_check_failed", "trigger", "manual", "error", err)
	} else {
		h.log.Info("price_check_triggered", "updated", report.Updated)
	}

	api.WriteMessage(w, http.StatusOK, "Price check triggered.")
}
