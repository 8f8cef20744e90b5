package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/groupfund/internal/auth"
	"github.com/mmynk/groupfund/internal/config"
	"github.com/mmynk/groupfund/internal/middleware"
	"github.com/mmynk/groupfund/internal/payments"
	"github.com/mmynk/groupfund/internal/service"
	"github.com/mmynk/groupfund/internal/storage/sqlite"
	"github.com/mmynk/groupfund/pkg/logging"
)

func main() {
	// Setup structured logging
	logging.Setup()

	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// Auth
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	// Payment processor clients, constructed here and injected below so
	// tests can substitute fakes.
	checkoutClient := payments.NewStripeClient(
		cfg.StripeSecretKey, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL)
	eventVerifier := payments.NewStripeVerifier(cfg.StripeWebhookSecret)

	// Services
	authSvc := service.NewAuthService(authenticator, jwtManager, store, slog.Default())
	friendSvc := service.NewFriendService(store)
	groupSvc := service.NewGroupService(store)
	depositSvc := service.NewDepositService(store, checkoutClient, cfg.Currency)
	webhookSvc := service.NewWebhookService(store, eventVerifier)
	ledgerSvc := service.NewLedgerService(store)

	requireAuth := middleware.RequireAuth(jwtManager)
	authed := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /signup", authSvc.HandleSignup)
	mux.HandleFunc("POST /login", authSvc.HandleLogin)

	// The webhook is authenticated by payload signature, not bearer token.
	mux.HandleFunc("POST /stripe/webhook", webhookSvc.HandleWebhook)

	// Authenticated routes
	mux.Handle("GET /me", authed(authSvc.HandleCurrentUser))
	mux.Handle("POST /friends/request", authed(friendSvc.HandleRequest))
	mux.Handle("POST /friends/respond", authed(friendSvc.HandleRespond))
	mux.Handle("GET /friends/list", authed(friendSvc.HandleList))
	mux.Handle("POST /groups/create", authed(groupSvc.HandleCreate))
	mux.Handle("POST /groups/join", authed(groupSvc.HandleJoin))
	mux.Handle("POST /groups/{groupId}/deposit", authed(depositSvc.HandleDeposit))
	mux.Handle("GET /groups/{groupId}/total", authed(ledgerSvc.HandleGroupTotal))
	mux.Handle("GET /groups/{groupId}/contributions", authed(ledgerSvc.HandleGroupContributions))

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Logging(middleware.CORS(mux))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Shut down cleanly on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
