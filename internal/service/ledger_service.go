package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/storage"
)

// LedgerService answers read-only aggregate queries over the contribution
// ledger: total per group, and per-user breakdown per group.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// HandleGroupTotal returns the sum of recorded contributions for a group.
// GET /groups/{groupId}/total
func (s *LedgerService) HandleGroupTotal(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupId")

	totalCents, err := s.store.GroupTotalCents(r.Context(), groupID)
	if err != nil {
		slog.Error("GroupTotal failed", "group_id", groupID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to compute group total")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"group_id":        groupID,
		"total_deposited": float64(totalCents) / 100,
	})
}

// HandleGroupContributions returns a per-user aggregate of a group's ledger.
// GET /groups/{groupId}/contributions
//
// Display names are resolved fail-open: if a contributor's profile cannot be
// resolved, their amount is still counted with an empty username. Hiding
// money over missing display metadata would be worse than a blank name.
func (s *LedgerService) HandleGroupContributions(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("groupId")

	entries, err := s.store.ListPaymentsByGroup(r.Context(), groupID)
	if err != nil {
		slog.Error("GroupContributions failed", "group_id", groupID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list contributions")
		return
	}

	totals := make(map[string]*models.Contribution)
	for _, entry := range entries {
		c, ok := totals[entry.UserID]
		if !ok {
			c = &models.Contribution{}
			totals[entry.UserID] = c
		}
		c.TotalCents += entry.AmountCents
	}

	for userID, c := range totals {
		user, err := s.store.GetUserByID(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Warn("Contribution profile lookup failed",
					"group_id", groupID, "user_id", userID, "error", err)
			}
			continue
		}
		c.Username = user.Username
	}

	type contributionResponse struct {
		Username string  `json:"username"`
		Total    float64 `json:"total"`
	}
	contributions := make(map[string]contributionResponse, len(totals))
	for userID, c := range totals {
		contributions[userID] = contributionResponse{
			Username: c.Username,
			Total:    float64(c.TotalCents) / 100,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"contributions": contributions})
}
