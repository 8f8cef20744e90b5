package service

import (
	"errors"
	"net/http"
	"testing"
)

func TestDeposit(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "alice")
	group := env.createGroup(t, "Ski Trip", user.ID)

	t.Run("creates one session with rounded cents and metadata", func(t *testing.T) {
		var resp struct {
			URL string `json:"url"`
		}
		res := env.doJSON(t, http.MethodPost, "/groups/"+group.ID+"/deposit", token,
			map[string]float64{"amount": 12.50}, &resp)

		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.StatusCode)
		}
		if resp.URL == "" {
			t.Error("expected a redirect URL")
		}
		if len(env.checkout.calls) != 1 {
			t.Fatalf("expected exactly 1 checkout call, got %d", len(env.checkout.calls))
		}

		call := env.checkout.calls[0]
		if call.AmountCents != 1250 {
			t.Errorf("amount_cents: expected 1250, got %d", call.AmountCents)
		}
		if call.UserID != user.ID {
			t.Errorf("user_id metadata: expected %s, got %s", user.ID, call.UserID)
		}
		if call.GroupID != group.ID {
			t.Errorf("group_id metadata: expected %s, got %s", group.ID, call.GroupID)
		}
		if call.Currency != "usd" {
			t.Errorf("currency: expected usd, got %s", call.Currency)
		}
	})

	t.Run("rejects non-positive amount before any external call", func(t *testing.T) {
		before := len(env.checkout.calls)

		for _, amount := range []float64{0, -5} {
			res := env.doJSON(t, http.MethodPost, "/groups/"+group.ID+"/deposit", token,
				map[string]float64{"amount": amount}, nil)
			if res.StatusCode != http.StatusBadRequest {
				t.Errorf("amount %v: expected 400, got %d", amount, res.StatusCode)
			}
		}

		// Missing amount decodes to 0 and is rejected the same way.
		res := env.doJSON(t, http.MethodPost, "/groups/"+group.ID+"/deposit", token,
			map[string]string{}, nil)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("missing amount: expected 400, got %d", res.StatusCode)
		}

		if len(env.checkout.calls) != before {
			t.Errorf("expected no checkout calls, got %d new", len(env.checkout.calls)-before)
		}
	})

	t.Run("rejects unknown group before any external call", func(t *testing.T) {
		before := len(env.checkout.calls)

		res := env.doJSON(t, http.MethodPost, "/groups/no-such-group/deposit", token,
			map[string]float64{"amount": 10}, nil)
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", res.StatusCode)
		}
		if len(env.checkout.calls) != before {
			t.Errorf("expected no checkout calls, got %d new", len(env.checkout.calls)-before)
		}
	})

	t.Run("maps processor failure to 500", func(t *testing.T) {
		env.checkout.err = errors.New("stripe unavailable")
		defer func() { env.checkout.err = nil }()

		res := env.doJSON(t, http.MethodPost, "/groups/"+group.ID+"/deposit", token,
			map[string]float64{"amount": 10}, nil)
		if res.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", res.StatusCode)
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/groups/"+group.ID+"/deposit", "",
			map[string]float64{"amount": 10}, nil)
		if res.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", res.StatusCode)
		}
	})
}
