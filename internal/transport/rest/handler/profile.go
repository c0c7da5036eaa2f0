package handler

import (
	"net/http"
	"strconv"
	"studyhub/internal/model"
	"studyhub/internal/service"
	"studyhub/internal/transport/rest/middleware"
)

// ProfileHandler handles profile, leaderboard and interaction endpoints
type ProfileHandler struct {
	profileSvc *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileSvc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// Me handles GET /v1/me
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	view, err := h.profileSvc.Get(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Leaderboard handles GET /v1/leaderboard?limit=
func (h *ProfileHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.profileSvc.GlobalLeaderboard(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leaderboard": entries})
}

// Interaction handles PUT /v1/interactions
func (h *ProfileHandler) Interaction(w http.ResponseWriter, r *http.Request) {
	var req model.InteractionRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.profileSvc.RecordInteraction(r.Context(), middleware.GetUserID(r.Context()), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
