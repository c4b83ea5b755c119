package handler

import (
	"context"
	"log/slog"
	"net/http"

	"docbridge/internal/httputil"
)

// monitorRunner runs all monitoring jobs; *service.MonitorService
// satisfies it.
type monitorRunner interface {
	RunAll(ctx context.Context)
}

// MonitorHandler handles scheduler-triggered monitoring runs.
type MonitorHandler struct {
	monitor monitorRunner
	logger  *slog.Logger
}

// NewMonitorHandler creates a monitor trigger handler. monitor may be nil
// when the monitor stack is not configured.
func NewMonitorHandler(monitor monitorRunner, logger *slog.Logger) *MonitorHandler {
	return &MonitorHandler{monitor: monitor, logger: logger}
}

// HandleMonitor runs every configured monitoring job. Per-job failures
// are logged inside the service; only a missing configuration is an
// error here.
// POST /monitor
func (h *MonitorHandler) HandleMonitor(w http.ResponseWriter, r *http.Request) {
	if h.monitor == nil {
		httputil.RespondText(w, http.StatusInternalServerError, "Error: monitoring is not configured")
		return
	}

	h.logger.Info("monitoring run started")
	h.monitor.RunAll(r.Context())
	httputil.RespondText(w, http.StatusOK, "Successfully processed all monitoring jobs")
}
