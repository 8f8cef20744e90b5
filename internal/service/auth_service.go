package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/groupfund/internal/auth"
	"github.com/mmynk/groupfund/internal/middleware"
	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/storage"
)

// AuthService implements signup, login and current-user lookup.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

type userResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
}

// HandleSignup registers a new user account.
// POST /signup {email, password, username}
func (s *AuthService) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	s.logger.Info("Signup request", "email", req.Email, "username", req.Username)

	user, err := s.authenticator.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		s.logger.Warn("Signup failed", "email", req.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrAccountExists):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "signup failed")
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusCreated, map[string]any{
		"access_token": token,
		"user":         toUserResponse(user),
	})
}

// HandleLogin authenticates a user and returns a bearer token.
// POST /login {email, password}
func (s *AuthService) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	s.logger.Info("Login request", "email", req.Email)

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Email, "error", err)
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"user":         toUserResponse(user),
	})
}

// HandleCurrentUser returns the authenticated user's profile.
// GET /me
func (s *AuthService) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		s.logger.Error("Failed to fetch current user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": toUserResponse(user)})
}
