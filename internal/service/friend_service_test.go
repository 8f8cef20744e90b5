package service

import (
	"net/http"
	"testing"
)

func TestFriends(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.createUser(t, "alice")
	_, bobToken := env.createUser(t, "bob")

	t.Run("request by username", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/friends/request", aliceToken,
			map[string]string{"username": "bob"}, nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.StatusCode)
		}
	})

	t.Run("duplicate request in either direction is rejected", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/friends/request", aliceToken,
			map[string]string{"username": "bob"}, nil)
		if res.StatusCode != http.StatusConflict {
			t.Errorf("same direction: expected 409, got %d", res.StatusCode)
		}

		res = env.doJSON(t, http.MethodPost, "/friends/request", bobToken,
			map[string]string{"username": "alice"}, nil)
		if res.StatusCode != http.StatusConflict {
			t.Errorf("reverse direction: expected 409, got %d", res.StatusCode)
		}
	})

	t.Run("self-request is rejected", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/friends/request", aliceToken,
			map[string]string{"username": "alice"}, nil)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", res.StatusCode)
		}
	})

	t.Run("unknown username is rejected", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/friends/request", aliceToken,
			map[string]string{"username": "nobody"}, nil)
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", res.StatusCode)
		}
	})

	t.Run("respond validates action and pending state", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/friends/respond", bobToken,
			map[string]string{"requester_id": alice.ID, "action": "block"}, nil)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("invalid action: expected 400, got %d", res.StatusCode)
		}

		// Only the receiver has a pending request; the requester does not.
		res = env.doJSON(t, http.MethodPost, "/friends/respond", aliceToken,
			map[string]string{"requester_id": alice.ID, "action": "accept"}, nil)
		if res.StatusCode != http.StatusNotFound {
			t.Errorf("no pending request: expected 404, got %d", res.StatusCode)
		}
	})

	t.Run("accept makes the pair visible in both lists", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/friends/respond", bobToken,
			map[string]string{"requester_id": alice.ID, "action": "accept"}, nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.StatusCode)
		}

		var resp struct {
			Friends []struct {
				Username string `json:"username"`
			} `json:"friends"`
		}
		env.doJSON(t, http.MethodGet, "/friends/list", aliceToken, nil, &resp)
		if len(resp.Friends) != 1 || resp.Friends[0].Username != "bob" {
			t.Errorf("alice's list: expected [bob], got %v", resp.Friends)
		}

		env.doJSON(t, http.MethodGet, "/friends/list", bobToken, nil, &resp)
		if len(resp.Friends) != 1 || resp.Friends[0].Username != "alice" {
			t.Errorf("bob's list: expected [alice], got %v", resp.Friends)
		}
	})

	t.Run("declined request never shows in lists", func(t *testing.T) {
		_, carolToken := env.createUser(t, "carol")

		env.doJSON(t, http.MethodPost, "/friends/request", aliceToken,
			map[string]string{"username": "carol"}, nil)
		res := env.doJSON(t, http.MethodPost, "/friends/respond", carolToken,
			map[string]string{"requester_id": alice.ID, "action": "decline"}, nil)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.StatusCode)
		}

		var resp struct {
			Friends []struct {
				ID string `json:"id"`
			} `json:"friends"`
		}
		env.doJSON(t, http.MethodGet, "/friends/list", carolToken, nil, &resp)
		for _, f := range resp.Friends {
			if f.ID == alice.ID {
				t.Error("declined friendship must not appear in list")
			}
		}
	})
}
