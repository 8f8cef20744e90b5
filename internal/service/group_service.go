package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/groupfund/internal/middleware"
	"github.com/mmynk/groupfund/internal/models"
	"github.com/mmynk/groupfund/internal/storage"
)

// GroupService implements group creation and membership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// HandleCreate creates a new group with the caller as its first member.
// POST /groups/create {name}
func (s *GroupService) HandleCreate(w http.ResponseWriter, r *http.Request) {
	creatorID := middleware.GetUserID(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "group name is required")
		return
	}

	group := &models.Group{
		Name:      req.Name,
		CreatorID: creatorID,
	}
	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		slog.Error("CreateGroup failed", "creator_id", creatorID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create group")
		return
	}

	slog.Info("Group created", "group_id", group.ID, "creator_id", creatorID)

	writeJSON(w, http.StatusCreated, map[string]any{
		"group": map[string]any{
			"id":         group.ID,
			"name":       group.Name,
			"creator_id": group.CreatorID,
			"created_at": group.CreatedAt,
		},
	})
}

// HandleJoin adds the caller to an existing group.
// POST /groups/join {group_id}
func (s *GroupService) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		GroupID string `json:"group_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.GroupID == "" {
		writeError(w, http.StatusBadRequest, "group_id is required")
		return
	}

	if _, err := s.store.GetGroup(r.Context(), req.GroupID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		slog.Error("JoinGroup failed - lookup", "group_id", req.GroupID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to join group")
		return
	}

	if err := s.store.AddGroupMember(r.Context(), req.GroupID, userID); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusConflict, "already a member of this group")
			return
		}
		slog.Error("JoinGroup failed - insert", "group_id", req.GroupID, "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to join group")
		return
	}

	slog.Info("Group joined", "group_id", req.GroupID, "user_id", userID)

	writeJSON(w, http.StatusOK, map[string]any{"message": "successfully joined the group"})
}
