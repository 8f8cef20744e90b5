package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/mmynk/groupfund/internal/auth"
	"github.com/mmynk/groupfund/internal/middleware"
	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/payments"
	"github.com/mmynk/groupfund/internal/storage/sqlite"
)

const testWebhookSecret = "whsec_test_secret"

// fakeCheckout implements payments.CheckoutClient and records every request.
type fakeCheckout struct {
	calls []payments.CheckoutRequest
	err   error
}

func (f *fakeCheckout) CreateSession(_ context.Context, req payments.CheckoutRequest) (*payments.CheckoutSession, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	id := fmt.Sprintf("cs_test_%d", len(f.calls))
	return &payments.CheckoutSession{
		ID:  id,
		URL: "https://checkout.stripe.test/pay/" + id,
	}, nil
}

// testEnv is one fully wired server over a real temp SQLite store.
type testEnv struct {
	server     *httptest.Server
	store      *sqlite.SQLiteStore
	checkout   *fakeCheckout
	jwtManager *auth.JWTManager
}

// newTestEnv wires the full route table the way cmd/server does, backed by a
// temp database, a fake checkout client and a real Stripe signature verifier.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret-key-for-tests", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	checkout := &fakeCheckout{}

	authSvc := NewAuthService(authenticator, jwtManager, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	friendSvc := NewFriendService(store)
	groupSvc := NewGroupService(store)
	depositSvc := NewDepositService(store, checkout, "usd")
	webhookSvc := NewWebhookService(store, payments.NewStripeVerifier(testWebhookSecret))
	ledgerSvc := NewLedgerService(store)

	requireAuth := middleware.RequireAuth(jwtManager)
	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /signup", authSvc.HandleSignup)
	mux.HandleFunc("POST /login", authSvc.HandleLogin)
	mux.HandleFunc("POST /stripe/webhook", webhookSvc.HandleWebhook)
	mux.Handle("GET /me", authed(authSvc.HandleCurrentUser))
	mux.Handle("POST /friends/request", authed(friendSvc.HandleRequest))
	mux.Handle("POST /friends/respond", authed(friendSvc.HandleRespond))
	mux.Handle("GET /friends/list", authed(friendSvc.HandleList))
	mux.Handle("POST /groups/create", authed(groupSvc.HandleCreate))
	mux.Handle("POST /groups/join", authed(groupSvc.HandleJoin))
	mux.Handle("POST /groups/{groupId}/deposit", authed(depositSvc.HandleDeposit))
	mux.Handle("GET /groups/{groupId}/total", authed(ledgerSvc.HandleGroupTotal))
	mux.Handle("GET /groups/{groupId}/contributions", authed(ledgerSvc.HandleGroupContributions))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		server:     server,
		store:      store,
		checkout:   checkout,
		jwtManager: jwtManager,
	}
}

// createUser inserts a user directly and returns it with a valid token.
func (e *testEnv) createUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
	}
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	token, err := e.jwtManager.Generate(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return user, token
}

// createGroup inserts a group directly with the given creator.
func (e *testEnv) createGroup(t *testing.T, name, creatorID string) *models.Group {
	t.Helper()

	group := &models.Group{Name: name, CreatorID: creatorID}
	if err := e.store.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("failed to create group %s: %v", name, err)
	}
	return group
}

// doJSON issues a request with an optional bearer token and JSON body, and
// decodes the JSON response into out (if non-nil).
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp
}

// deliverWebhook posts a payload to the webhook endpoint with the given
// signature header and returns the response status.
func (e *testEnv) deliverWebhook(t *testing.T, payload []byte, sigHeader string) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/stripe/webhook", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("failed to build webhook request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Stripe-Signature", sigHeader)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("webhook delivery failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode
}

// signPayload produces a valid Stripe-Signature header for payload.
func signPayload(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

// completedEventPayload builds a checkout.session.completed event body.
func completedEventPayload(sessionID, groupID, userID string, amountTotal int64) []byte {
	return fmt.Appendf(nil,
		`{"id":"evt_%s","type":"checkout.session.completed","data":{"object":{"id":%q,"amount_total":%d,"metadata":{"group_id":%q,"user_id":%q}}}}`,
		sessionID, sessionID, amountTotal, groupID, userID,
	)
}
