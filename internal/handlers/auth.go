package handlers

import (
	"net/http"

	"github.com/droid-games/scoreboard/internal/auth"
)

// handleLogin opens an admin session
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, LoginResponse{Token: token})
}

// handleLogout clears the admin session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.AdminCookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}

	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// handleTeamLogin opens a team session from a PIN code
func (h *Handlers) handleTeamLogin(w http.ResponseWriter, r *http.Request) {
	var req TeamLoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	team, err := h.Team.AuthenticateByPin(r.Context(), req.Pin)
	if err != nil {
		respondError(w, err)
		return
	}

	token := h.Auth.LoginTeam(team.ID)
	auth.SetTeamCookie(w, token)
	respondOK(w, TeamLoginResponse{Token: token, Team: team})
}

// handleTeamLogout clears the team session
func (h *Handlers) handleTeamLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.TeamCookieName); err == nil {
		h.Auth.LogoutTeam(cookie.Value)
	}

	auth.ClearTeamCookie(w)
	respondSuccess(w, "Logged out")
}

// handleTeamMe returns the team bound to the current team session
func (h *Handlers) handleTeamMe(w http.ResponseWriter, r *http.Request) {
	teamID, ok := h.Auth.TeamFromRequest(r)
	if !ok {
		respondError(w, ErrUnauthorized)
		return
	}

	team, err := h.Team.GetTeam(r.Context(), teamID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, team)
}
