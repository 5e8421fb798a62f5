package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/droid-games/scoreboard/internal/models"
)

// ==================== Teams ====================

func (h *Handlers) handleGetTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Team.ListTeams(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, teams)
}

func (h *Handlers) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	team, err := h.Team.GetTeam(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}

func (h *Handlers) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req TeamCreateRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	team := &models.Team{
		Name:          req.Name,
		School:        req.School,
		Members:       req.Members,
		RobotPhotoURL: req.RobotPhotoURL,
	}
	if err := h.Team.CreateTeam(r.Context(), team); err != nil {
		respondError(w, err)
		return
	}

	respondCreated(w, team)
}

func (h *Handlers) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req TeamUpdateRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	team := &models.Team{
		ID:            id,
		Name:          req.Name,
		School:        req.School,
		Members:       req.Members,
		RobotPhotoURL: req.RobotPhotoURL,
	}
	if err := h.Team.UpdateTeam(r.Context(), team); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.Team.GetTeam(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, updated)
}

func (h *Handlers) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Team.DeleteTeam(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

// handleTeamLoginQR serves a PNG QR code that logs the team in
func (h *Handlers) handleTeamLoginQR(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	png, err := h.Team.GenerateLoginQR(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// ==================== Leaderboard ====================

func (h *Handlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Leaderboard.GetLeaderboard(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, entries)
}

// ==================== Achievements ====================

func (h *Handlers) handleGetAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.Achievement.ListAchievements(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, achievements)
}

func (h *Handlers) handleGetTeamAchievements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	unlocks, err := h.Achievement.GetTeamAchievements(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, unlocks)
}
