package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/groupfund/internal/metrics"
	"github.com/mmynk/groupfund/internal/middleware"
	"github.com/mmynk/groupfund/internal/payments"
	"github.com/mmynk/groupfund/internal/storage"
)

// DepositService initiates group contributions: it creates one hosted
// checkout session per request, carrying the (user, group) pair as session
// metadata so the asynchronous confirmation event can be correlated back
// without any local pending state.
type DepositService struct {
	store    storage.Store
	checkout payments.CheckoutClient
	currency string
}

// NewDepositService creates a new DepositService.
func NewDepositService(store storage.Store, checkout payments.CheckoutClient, currency string) *DepositService {
	return &DepositService{
		store:    store,
		checkout: checkout,
		currency: currency,
	}
}

// HandleDeposit creates a checkout session for a contribution to a group.
// POST /groups/{groupId}/deposit {amount}
//
// The amount is validated before any remote call, and the group must exist:
// a session for an unknown group could settle but never reconcile against a
// real pool. A failed or timed-out session creation is not retried here;
// the user re-initiates explicitly.
func (s *DepositService) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	groupID := r.PathValue("groupId")

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	if _, err := s.store.GetGroup(r.Context(), groupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		slog.Error("Deposit failed - group lookup", "group_id", groupID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	amountCents := payments.Cents(req.Amount)
	slog.Info("Deposit requested",
		"group_id", groupID,
		"user_id", userID,
		"amount_cents", amountCents,
	)

	session, err := s.checkout.CreateSession(r.Context(), payments.CheckoutRequest{
		AmountCents: amountCents,
		Currency:    s.currency,
		UserID:      userID,
		GroupID:     groupID,
	})
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues("error").Inc()
		slog.Error("Deposit failed - checkout session", "group_id", groupID, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create checkout session")
		return
	}

	metrics.CheckoutSessions.WithLabelValues("created").Inc()
	slog.Info("Checkout session created", "session_id", session.ID, "group_id", groupID, "user_id", userID)

	writeJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}
