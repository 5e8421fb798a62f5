package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/droid-games/scoreboard/internal/models"
)

// ==================== Referee Scores ====================

func (h *Handlers) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	round, err := parseIntParam(r, "round")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ScoreSubmitRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	score := models.RefereeScore{
		RefereeID:      req.RefereeID,
		ScoreBreakdown: req.ScoreBreakdown,
		TotalScore:     req.TotalScore,
		Events:         req.Events,
	}
	if err := h.Score.SubmitScore(r.Context(), teamID, round, score); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Score submitted")
}

func (h *Handlers) handleGetRoundScores(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	round, err := parseIntParam(r, "round")
	if err != nil {
		respondError(w, err)
		return
	}

	scores, err := h.Score.GetRefereeScores(r.Context(), teamID, round)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, RoundScoresResponse{
		TeamID:      teamID,
		RoundNumber: round,
		Scores:      scores,
	})
}

func (h *Handlers) handleApproveScore(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	refereeID := chi.URLParam(r, "refereeID")
	round, err := parseIntParam(r, "round")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ScoreApproveRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Score.ApproveScore(r.Context(), teamID, round, refereeID, req.ApproverID); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Score approved")
}

func (h *Handlers) handleRejectScore(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	refereeID := chi.URLParam(r, "refereeID")
	round, err := parseIntParam(r, "round")
	if err != nil {
		respondError(w, err)
		return
	}

	var req ScoreRejectRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Score.RejectScore(r.Context(), teamID, round, refereeID, req.ApproverID, req.Reason); err != nil {
		respondError(w, err)
		return
	}

	respondSuccess(w, "Score rejected")
}

// handleFinalizeRound seals a fully approved round and returns the final
// score. A round still waiting on approvals answers 202 with finalized set
// to false. The body is optional; it only carries the approver identity.
func (h *Handlers) handleFinalizeRound(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	round, err := parseIntParam(r, "round")
	if err != nil {
		respondError(w, err)
		return
	}

	var req FinalizeRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	final, finalized, err := h.Finalize.FinalizeApprovedScore(r.Context(), teamID, round, req.ApproverID)
	if err != nil {
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if !finalized {
		status = http.StatusAccepted
	}
	respondJSON(w, status, FinalScoreResponse{
		TeamID:      teamID,
		RoundNumber: round,
		FinalScore:  final,
		Finalized:   finalized,
	})
}

// handlePreviewFinalScore computes the final score without sealing the round
func (h *Handlers) handlePreviewFinalScore(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "id")
	round, err := parseIntParam(r, "round")
	if err != nil {
		respondError(w, err)
		return
	}

	final, err := h.Finalize.CalculateFinalScore(r.Context(), teamID, round)
	if err != nil {
		respondError(w, err)
		return
	}

	respondOK(w, FinalScoreResponse{
		TeamID:      teamID,
		RoundNumber: round,
		FinalScore:  final,
	})
}
