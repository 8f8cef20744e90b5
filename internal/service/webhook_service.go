package service

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mmynk/groupfund/internal/metrics"
	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/payments"
	"github.com/mmynk/groupfund/internal/storage"
)

// maxWebhookBody bounds the raw payload read from the processor.
const maxWebhookBody = 64 << 10

// WebhookService reconciles asynchronous payment processor events into the
// ledger. Each delivery is independent: verified, committed and acknowledged
// atomically, with no session state between deliveries.
//
// Acknowledgment policy: once the signature and event type check out, a
// duplicate session is acknowledged 200 (the entry already exists, redelivery
// changed nothing), while a storage failure returns 500 so the processor
// redelivers. Redelivery is safe because the commit is keyed on the session
// ID; without that key a 500 here would be an event storm waiting to happen.
type WebhookService struct {
	store    storage.Store
	verifier payments.EventVerifier
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(store storage.Store, verifier payments.EventVerifier) *WebhookService {
	return &WebhookService{
		store:    store,
		verifier: verifier,
	}
}

// HandleWebhook receives one signed event from the payment processor.
// POST /stripe/webhook
//
// The handler must see the exact raw body: the signature is computed over
// the bytes on the wire, so any re-serialization would break verification.
func (s *WebhookService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	event, err := s.verifier.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		// Fatal from this system's perspective: an unverifiable delivery
		// will never verify on retry, so tell the processor not to bother.
		metrics.WebhookEvents.WithLabelValues(metrics.WebhookOutcomeRejected).Inc()
		slog.Warn("Webhook rejected", "error", err)
		writeError(w, http.StatusBadRequest, "webhook signature verification failed")
		return
	}

	if event.Checkout == nil {
		// Every event kind except a completed checkout is acknowledged with
		// no side effect, including kinds this server has never heard of.
		metrics.WebhookEvents.WithLabelValues(metrics.WebhookOutcomeIgnored).Inc()
		slog.Debug("Webhook ignored", "event_id", event.ID, "type", event.Type)
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	checkout := event.Checkout
	if checkout.GroupID == "" || checkout.UserID == "" {
		// A completed session without our metadata cannot be reconciled,
		// and redelivery won't grow it any. Acknowledge and log.
		metrics.WebhookEvents.WithLabelValues(metrics.WebhookOutcomeIgnored).Inc()
		slog.Error("Webhook missing metadata, cannot reconcile",
			"event_id", event.ID, "session_id", checkout.SessionID)
		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	entry := &models.LedgerEntry{
		SessionID:   checkout.SessionID,
		GroupID:     checkout.GroupID,
		UserID:      checkout.UserID,
		AmountCents: checkout.AmountCents,
	}
	if err := s.store.RecordPayment(r.Context(), entry); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// At-least-once delivery: the entry from an earlier delivery
			// stands, this one is a no-op.
			metrics.WebhookEvents.WithLabelValues(metrics.WebhookOutcomeDuplicate).Inc()
			slog.Info("Webhook duplicate, ledger unchanged",
				"event_id", event.ID, "session_id", checkout.SessionID)
			writeJSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}

		metrics.WebhookEvents.WithLabelValues(metrics.WebhookOutcomeFailed).Inc()
		slog.Error("Webhook commit failed",
			"event_id", event.ID, "session_id", checkout.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record payment")
		return
	}

	metrics.WebhookEvents.WithLabelValues(metrics.WebhookOutcomeRecorded).Inc()
	slog.Info("Contribution recorded",
		"event_id", event.ID,
		"session_id", checkout.SessionID,
		"group_id", checkout.GroupID,
		"user_id", checkout.UserID,
		"amount_cents", checkout.AmountCents,
	)

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
