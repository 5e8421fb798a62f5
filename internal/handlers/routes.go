package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Prometheus metrics
	r.Handle("/metrics", h.Metrics.Handler())

	// Public API
	r.Get("/api/status", h.handleGetStatus)
	r.Get("/api/leaderboard", h.handleGetLeaderboard)
	r.Get("/api/achievements", h.handleGetAchievements)
	r.Get("/api/teams/{id}/achievements", h.handleGetTeamAchievements)

	// Auth (public)
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)
	r.Post("/api/team/login", h.handleTeamLogin)
	r.Post("/api/team/logout", h.handleTeamLogout)
	r.Get("/api/team/me", h.handleTeamMe)

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Teams
		r.Get("/api/admin/teams", h.handleGetTeams)
		r.Post("/api/admin/teams", h.handleCreateTeam)
		r.Get("/api/admin/teams/{id}", h.handleGetTeam)
		r.Put("/api/admin/teams/{id}", h.handleUpdateTeam)
		r.Delete("/api/admin/teams/{id}", h.handleDeleteTeam)
		r.Get("/api/admin/teams/{id}/qr", h.handleTeamLoginQR)

		// Referee scores
		r.Get("/api/admin/teams/{id}/rounds/{round}/scores", h.handleGetRoundScores)
		r.Post("/api/admin/teams/{id}/rounds/{round}/scores", h.handleSubmitScore)
		r.Post("/api/admin/teams/{id}/rounds/{round}/scores/{refereeID}/approve", h.handleApproveScore)
		r.Post("/api/admin/teams/{id}/rounds/{round}/scores/{refereeID}/reject", h.handleRejectScore)
		r.Get("/api/admin/teams/{id}/rounds/{round}/final-score", h.handlePreviewFinalScore)
		r.Post("/api/admin/teams/{id}/rounds/{round}/finalize", h.handleFinalizeRound)

		// Competition control
		r.Post("/api/admin/game-status", h.handleSetGameStatus)
		r.Post("/api/admin/current-round", h.handleSetCurrentRound)
		r.Post("/api/admin/total-rounds", h.handleSetTotalRounds)
		r.Post("/api/admin/timer/start", h.handleStartTimer)
		r.Post("/api/admin/timer/stop", h.handleStopTimer)

		// Maps
		r.Get("/api/admin/maps", h.handleGetMaps)
		r.Post("/api/admin/maps", h.handleCreateMap)
		r.Get("/api/admin/maps/{id}", h.handleGetMap)
		r.Put("/api/admin/maps/{id}", h.handleUpdateMap)
		r.Delete("/api/admin/maps/{id}", h.handleDeleteMap)
		r.Put("/api/admin/maps/{id}/publish", h.handlePublishMap)

		// Settings
		r.Get("/api/admin/settings", h.handleGetSettings)
		r.Put("/api/admin/settings", h.handleUpdateSettings)

		r.Get("/api/admin/logging", h.handleGetLogging)
		r.Put("/api/admin/logging", h.handleUpdateLogging)
	})

	// Hardware API (arena control boxes, protected by API key)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAPIKey)

		r.Post("/api/hardware/timer/start", h.handleStartTimer)
		r.Post("/api/hardware/timer/stop", h.handleStopTimer)
		r.Post("/api/hardware/teams/{id}/rounds/{round}/scores", h.handleSubmitScore)
	})

	return r
}
