package service

import (
	"net/http"
	"testing"
)

func TestSignupAndLogin(t *testing.T) {
	env := newTestEnv(t)

	t.Run("signup creates account and returns token", func(t *testing.T) {
		var resp struct {
			AccessToken string `json:"access_token"`
			User        struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		}
		res := env.doJSON(t, http.MethodPost, "/signup", "",
			map[string]string{"email": "alice@example.com", "password": "hunter2hunter2", "username": "alice"}, &resp)

		if res.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", res.StatusCode)
		}
		if resp.AccessToken == "" {
			t.Error("expected an access token")
		}
		if resp.User.Username != "alice" {
			t.Errorf("expected username alice, got %s", resp.User.Username)
		}
	})

	t.Run("signup defaults username to email local part", func(t *testing.T) {
		var resp struct {
			User struct {
				Username string `json:"username"`
			} `json:"user"`
		}
		env.doJSON(t, http.MethodPost, "/signup", "",
			map[string]string{"email": "bob@example.com", "password": "hunter2hunter2"}, &resp)
		if resp.User.Username != "bob" {
			t.Errorf("expected username bob, got %s", resp.User.Username)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/signup", "",
			map[string]string{"email": "alice@example.com", "password": "hunter2hunter2"}, nil)
		if res.StatusCode != http.StatusConflict {
			t.Errorf("expected 409, got %d", res.StatusCode)
		}
	})

	t.Run("weak password is rejected", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/signup", "",
			map[string]string{"email": "short@example.com", "password": "short"}, nil)
		if res.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", res.StatusCode)
		}
	})

	t.Run("login returns token for valid credentials", func(t *testing.T) {
		var resp struct {
			AccessToken string `json:"access_token"`
		}
		res := env.doJSON(t, http.MethodPost, "/login", "",
			map[string]string{"email": "alice@example.com", "password": "hunter2hunter2"}, &resp)
		if res.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", res.StatusCode)
		}
		if resp.AccessToken == "" {
			t.Fatal("expected an access token")
		}

		// The returned token resolves to the user via /me.
		var me struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		}
		env.doJSON(t, http.MethodGet, "/me", resp.AccessToken, nil, &me)
		if me.User.Email != "alice@example.com" {
			t.Errorf("expected alice@example.com, got %s", me.User.Email)
		}
	})

	t.Run("bad password is rejected", func(t *testing.T) {
		res := env.doJSON(t, http.MethodPost, "/login", "",
			map[string]string{"email": "alice@example.com", "password": "wrong-password"}, nil)
		if res.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", res.StatusCode)
		}
	})

	t.Run("me requires a valid token", func(t *testing.T) {
		res := env.doJSON(t, http.MethodGet, "/me", "not-a-token", nil, nil)
		if res.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", res.StatusCode)
		}
	})
}
