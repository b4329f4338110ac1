package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/raushankrgupta/user-meets/meets"
	"github.com/raushankrgupta/user-meets/models"
	"github.com/raushankrgupta/user-meets/utils"
	"github.com/rs/zerolog/log"
)

const (
	msgUnauthorized  = "Unauthorized"
	msgInvalidUserID = "Invalid user id"
	msgUserNotFound  = "User not found"
	msgServerError   = "Server error"
)

// MeetsService is what the meets handlers need from the domain layer.
type MeetsService interface {
	ListCandidates(ctx context.Context, viewerID string, limit int) ([]models.MeetUser, error)
	GetProfile(ctx context.Context, viewerID, candidateID string) (models.MeetUser, error)
	RecordPass(ctx context.Context, viewerID, candidateID string) error
	RecordView(ctx context.Context, viewerID, candidateID string) error
	ResetHistory(ctx context.Context, viewerID string) error
}

type MeetsHandler struct {
	svc MeetsService
}

func NewMeetsHandler(svc MeetsService) *MeetsHandler {
	return &MeetsHandler{svc: svc}
}

// GetMeets handles GET /meets?limit=N: candidates the viewer has not seen yet.
func (h *MeetsHandler) GetMeets(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := GetUserIDFromContext(r.Context())

	// Absent or non-numeric limits become 0, which the service reads as "default".
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := h.svc.ListCandidates(r.Context(), viewerID, limit)
	if err != nil {
		h.fail(w, r, "getMeets", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// GetUserProfile handles GET /meets/{userId}.
func (h *MeetsHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := GetUserIDFromContext(r.Context())

	user, err := h.svc.GetProfile(r.Context(), viewerID, chi.URLParam(r, "userId"))
	if err != nil {
		h.fail(w, r, "getUserProfile", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// PassUser handles POST /meets/{userId}/pass.
func (h *MeetsHandler) PassUser(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := GetUserIDFromContext(r.Context())

	if err := h.svc.RecordPass(r.Context(), viewerID, chi.URLParam(r, "userId")); err != nil {
		h.fail(w, r, "passUser", err)
		return
	}
	respondSuccess(w)
}

// MarkViewed handles POST /meets/{userId}/view.
func (h *MeetsHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := GetUserIDFromContext(r.Context())

	if err := h.svc.RecordView(r.Context(), viewerID, chi.URLParam(r, "userId")); err != nil {
		h.fail(w, r, "markViewed", err)
		return
	}
	respondSuccess(w)
}

// ResetHistory handles DELETE /meets/history. Any authenticated viewer may wipe
// their own history.
func (h *MeetsHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := GetUserIDFromContext(r.Context())

	if err := h.svc.ResetHistory(r.Context(), viewerID); err != nil {
		h.fail(w, r, "resetHistory", err)
		return
	}
	respondSuccess(w)
}

func respondSuccess(w http.ResponseWriter) {
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// fail maps service errors to status codes. Unexpected errors are logged and
// answered with a generic message.
func (h *MeetsHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, meets.ErrUnauthorized):
		utils.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, meets.ErrBadRequest):
		utils.RespondError(w, http.StatusBadRequest, msgInvalidUserID)
	case errors.Is(err, meets.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, msgUserNotFound)
	default:
		viewerID, _ := GetUserIDFromContext(r.Context())
		log.Error().Err(err).
			Str("viewer", viewerID).
			Str("request_id", RequestIDFromContext(r.Context())).
			Msgf("[meets] %s error", op)
		utils.RespondError(w, http.StatusInternalServerError, msgServerError)
	}
}
