package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmynk/groupfund/internal/middleware"
	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/storage"
)

// FriendService implements friend requests, responses and listing.
type FriendService struct {
	store storage.Store
}

// NewFriendService creates a new FriendService with the given storage backend.
func NewFriendService(store storage.Store) *FriendService {
	return &FriendService{store: store}
}

// HandleRequest sends a friend request to another user by username.
// POST /friends/request {username}
func (s *FriendService) HandleRequest(w http.ResponseWriter, r *http.Request) {
	senderID := middleware.GetUserID(r.Context())

	var req struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	slog.Info("Friend request received", "sender_id", senderID, "username", req.Username)

	receiver, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("Friend request failed - user lookup", "username", req.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send friend request")
		return
	}

	if receiver.ID == senderID {
		writeError(w, http.StatusBadRequest, "cannot send a friend request to yourself")
		return
	}

	friendship := &models.Friendship{
		RequesterID: senderID,
		ReceiverID:  receiver.ID,
	}
	if err := s.store.CreateFriendRequest(r.Context(), friendship); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusConflict, "friend request already exists")
			return
		}
		slog.Error("Friend request failed - insert", "sender_id", senderID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send friend request")
		return
	}

	slog.Info("Friend request sent", "friendship_id", friendship.ID,
		"sender_id", senderID, "receiver_id", receiver.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Friend request sent to %s", req.Username),
	})
}

// HandleRespond accepts or declines a pending friend request.
// POST /friends/respond {requester_id, action}
func (s *FriendService) HandleRespond(w http.ResponseWriter, r *http.Request) {
	receiverID := middleware.GetUserID(r.Context())

	var req struct {
		RequesterID string `json:"requester_id"`
		Action      string `json:"action"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Action != models.FriendStatusAccept && req.Action != models.FriendStatusDecline {
		writeError(w, http.StatusBadRequest, "invalid action")
		return
	}

	friendship, err := s.store.GetPendingRequest(r.Context(), req.RequesterID, receiverID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "friend request not found")
			return
		}
		slog.Error("Friend respond failed - lookup", "receiver_id", receiverID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to respond to friend request")
		return
	}

	if err := s.store.UpdateFriendshipStatus(r.Context(), friendship.ID, req.Action); err != nil {
		slog.Error("Friend respond failed - update", "friendship_id", friendship.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to respond to friend request")
		return
	}

	slog.Info("Friend request answered", "friendship_id", friendship.ID, "action", req.Action)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Friend request %sed", req.Action),
	})
}

// HandleList returns the authenticated user's accepted friends.
// GET /friends/list
func (s *FriendService) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	friends, err := s.store.ListFriends(r.Context(), userID)
	if err != nil {
		slog.Error("ListFriends failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list friends")
		return
	}

	// Empty list, not null, when the user has no friends yet.
	list := make([]userResponse, 0, len(friends))
	for _, friend := range friends {
		list = append(list, toUserResponse(friend))
	}

	writeJSON(w, http.StatusOK, map[string]any{"friends": list})
}
