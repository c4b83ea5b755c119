// Package handler holds the HTTP entry points: the document-sync webhook
// and the monitoring trigger.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"docbridge/internal/config"
	"docbridge/internal/httputil"
	"docbridge/internal/service"
)

// verificationHeader carries the shared-secret webhook token.
const verificationHeader = "X-Notion-Signature"

// startedMessage is the immediate webhook response body.
const startedMessage = "Sync started successfully! Please wait 10-30 seconds for the documents to appear in your Drive folders. Check your Google Drive for the updated files."

// enqueuer accepts sync work; *service.Runner satisfies it.
type enqueuer interface {
	Enqueue(pageID string) (string, error)
}

// SyncHandler handles inbound sync webhooks.
type SyncHandler struct {
	runner enqueuer
	cfg    *config.Config
	logger *slog.Logger
}

// NewSyncHandler creates a sync webhook handler.
func NewSyncHandler(runner enqueuer, cfg *config.Config, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{runner: runner, cfg: cfg, logger: logger}
}

type syncPayload struct {
	Page *struct {
		ID string `json:"id"`
	} `json:"page"`
	ID string `json:"id"`
}

// HandleSync accepts a sync request, enqueues the work, and returns
// immediately so the webhook caller is not kept waiting.
// POST /sync
func (h *SyncHandler) HandleSync(w http.ResponseWriter, r *http.Request) {
	// Token mismatches answer 200 on purpose: signaling an error here
	// only provokes retry storms from the webhook source.
	if h.cfg.NotionVerificationToken != "" {
		if r.Header.Get(verificationHeader) != h.cfg.NotionVerificationToken {
			h.logger.Warn("signature mismatch, ignoring request")
			httputil.RespondText(w, http.StatusOK, "invalid signature")
			return
		}
	}

	var payload syncPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Debug("unparseable payload, falling back to defaults", "error", err)
	}

	pageID := ""
	if payload.Page != nil {
		pageID = payload.Page.ID
	}
	if pageID == "" {
		pageID = payload.ID
	}
	if pageID == "" {
		pageID = h.cfg.NotionPageID
	}
	if pageID == "" {
		httputil.RespondText(w, http.StatusOK, "No page_id provided")
		return
	}

	// The API expects the stripped form
	pageID = strings.ReplaceAll(pageID, "-", "")

	runID, err := h.runner.Enqueue(pageID)
	if err != nil {
		if errors.Is(err, service.ErrQueueFull) {
			httputil.RespondError(w, http.StatusServiceUnavailable, "sync queue full, try again later")
			return
		}
		httputil.RespondError(w, http.StatusInternalServerError, "failed to enqueue sync")
		return
	}

	h.logger.Info("sync accepted", "run_id", runID, "page_id", pageID)
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status":  "started",
		"message": startedMessage,
	})
}

// HealthCheck reports liveness.
// GET /health
func (h *SyncHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
