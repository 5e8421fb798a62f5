package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/models"
)

// ==================== Competition State ====================

// handleGetStatus returns the public competition state
func (h *Handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.Settings.GetGameStatus(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	round, err := h.Settings.GetCurrentRound(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	total, err := h.Settings.GetTotalRounds(ctx)
	if err != nil {
		respondError(w, err)
		return
	}
	remaining, err := h.Settings.RemainingSeconds(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, StatusResponse{
		Status:           status,
		CurrentRound:     round,
		TotalRounds:      total,
		SecondsRemaining: remaining,
	})
}

func (h *Handlers) handleSetGameStatus(w http.ResponseWriter, r *http.Request) {
	var req GameStatusRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.SetGameStatus(r.Context(), models.GameStatus(req.Status)); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Game status updated")
}

func (h *Handlers) handleSetCurrentRound(w http.ResponseWriter, r *http.Request) {
	var req CurrentRoundRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.SetCurrentRound(r.Context(), req.Round); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Current round updated")
}

func (h *Handlers) handleSetTotalRounds(w http.ResponseWriter, r *http.Request) {
	var req TotalRoundsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Settings.SetTotalRounds(r.Context(), req.Rounds); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Total rounds updated")
}

// ==================== Round Timer ====================

func (h *Handlers) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	var req RoundTimerRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	end, err := h.Settings.StartRoundTimer(r.Context(), req.Seconds)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, TimerResponse{EndsAt: end, Seconds: req.Seconds})
}

func (h *Handlers) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	if err := h.Settings.StopRoundTimer(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Timer stopped")
}

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.AllSettings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, settings)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.BaseURL != "" {
		if err := h.Settings.SetBaseURL(r.Context(), req.BaseURL); err != nil {
			respondError(w, err)
			return
		}
	}
	respondSuccess(w, "Settings updated")
}

// ==================== Logging ====================

func (h *Handlers) handleGetLogging(w http.ResponseWriter, r *http.Request) {
	respondOK(w, LoggingResponse{
		Level:       strings.ToLower(h.Log.GetLevel().String()),
		HTTPLogging: h.Log.IsHTTPLoggingEnabled(),
	})
}

// handleUpdateLogging adjusts log verbosity at runtime. Omitted fields are
// left unchanged.
func (h *Handlers) handleUpdateLogging(w http.ResponseWriter, r *http.Request) {
	var req LoggingUpdateRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if req.Level != "" {
		h.Log.SetLevel(logger.ParseLevel(req.Level))
	}
	if req.HTTPLogging != nil {
		if *req.HTTPLogging {
			h.Log.EnableHTTPLogging()
		} else {
			h.Log.DisableHTTPLogging()
		}
	}

	respondOK(w, LoggingResponse{
		Level:       strings.ToLower(h.Log.GetLevel().String()),
		HTTPLogging: h.Log.IsHTTPLoggingEnabled(),
	})
}

// ==================== Map Configurations ====================

func (h *Handlers) handleGetMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := h.Map.ListMaps(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, maps)
}

func (h *Handlers) handleGetMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := h.Map.GetMap(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, m)
}

func (h *Handlers) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var req MapCreateRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	m := &models.MapConfiguration{
		Name:        req.Name,
		RoundNumber: req.RoundNumber,
		Blocks:      req.Blocks,
	}
	if err := h.Map.CreateMap(r.Context(), m); err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, m)
}

func (h *Handlers) handleUpdateMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MapUpdateRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	m := &models.MapConfiguration{
		ID:          id,
		Name:        req.Name,
		RoundNumber: req.RoundNumber,
		Blocks:      req.Blocks,
	}
	if err := h.Map.UpdateMap(r.Context(), m); err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, m)
}

func (h *Handlers) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Map.DeleteMap(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handlePublishMap(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MapPublishRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Map.PublishMap(r.Context(), id, req.Published); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Map publish state updated")
}
