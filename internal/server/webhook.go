package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Adda-Baaj/chargily-pay/internal/logger"
	"github.com/Adda-Baaj/chargily-pay/pkg/publishers"
	"github.com/Adda-Baaj/chargily-pay/pkg/webhook"
)

// EventStore remembers processed event ids.
type EventStore interface {
	SeenEvent(id string) (bool, error)
	MarkEvent(id string) error
}

// EventPublisher forwards verified events downstream. It reports how many
// sinks accepted the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// WebhookHandler receives gateway deliveries, verifies them against the
// account secret and forwards them once.
type WebhookHandler struct {
	secret   string
	verifier *webhook.Verifier
	store    EventStore
	pub      EventPublisher
	maxBody  int64
	log      logger.Logger
	metrics  *Metrics
}

// ServeHTTP handles a single delivery. Status codes:
// 400 missing signature or undecodable body, 403 signature mismatch,
// 413 oversized body, 500 publish failure, 200 otherwise.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := RequestIDFrom(r.Context())
	done := func(outcome string) {
		h.metrics.observeDelivery(outcome, time.Since(start).Seconds())
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.WarnObj("webhook body too large", "webhook_rejected", map[string]any{
				"request_id": reqID,
				"limit":      tooLarge.Limit,
			})
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request body too large"))
			done(outcomeTooLarge)
			return
		}
		h.log.WarnObj("webhook body read failed", "webhook_rejected", map[string]any{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read request body"))
		done(outcomeMalformed)
		return
	}

	if err := h.verifier.Verify(payload, r.Header.Get(webhook.SignatureHeader), h.secret); err != nil {
		status, outcome := http.StatusForbidden, outcomeBadSig
		if errors.Is(err, webhook.ErrSignatureAbsent) {
			status, outcome = http.StatusBadRequest, outcomeMissingSig
		}
		h.log.WarnObj("webhook signature rejected", "webhook_rejected", map[string]any{
			"request_id": reqID,
			"reason":     err.Error(),
		})
		writeJSON(w, status, errorBody(err.Error()))
		done(outcome)
		return
	}

	evt, err := webhook.ParseEvent(payload)
	if err != nil {
		h.log.WarnObj("webhook payload invalid", "webhook_rejected", map[string]any{
			"request_id": reqID,
			"error":      err.Error(),
		})
		writeJSON(w, http.StatusBadRequest, errorBody("invalid event payload"))
		done(outcomeMalformed)
		return
	}

	fields := map[string]any{
		"request_id": reqID,
		"event_id":   evt.ID,
		"event_type": evt.Type,
		"livemode":   bool(evt.Livemode),
	}

	seen, err := h.store.SeenEvent(evt.ID)
	if err != nil {
		h.log.WarnObj("dedup lookup failed, processing anyway", "webhook_store_error", mergeFields(fields, "error", err.Error()))
	}
	if seen {
		h.log.InfoObj("webhook event already processed", "webhook_duplicate", fields)
		writeJSON(w, http.StatusOK, map[string]any{"received": true, "duplicate": true})
		done(outcomeDuplicate)
		return
	}

	delivered, err := h.pub.Publish(r.Context(), publishers.NewEvent(evt, payload))
	h.metrics.addPublished(delivered)
	if err != nil {
		h.log.ErrorObj("webhook event publish failed", "webhook_publish_error", mergeFields(fields, "error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("event could not be forwarded"))
		done(outcomePublishFailed)
		return
	}

	if err := h.store.MarkEvent(evt.ID); err != nil {
		h.log.WarnObj("failed to record processed event", "webhook_store_error", mergeFields(fields, "error", err.Error()))
	}

	h.log.InfoObj("webhook event accepted", "webhook_accepted", mergeFields(fields, "publishers", delivered))
	writeJSON(w, http.StatusOK, map[string]any{"received": true})
	done(outcomeAccepted)
}

func mergeFields(base map[string]any, key string, val any) map[string]any {
	out := make(map[string]any, len(base)+1)
	for k, v := range base {
		out[k] = v
	}
	out[key] = val
	return out
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
