package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/droid-games/scoreboard/internal/auth"
	"github.com/droid-games/scoreboard/internal/metrics"
	"github.com/droid-games/scoreboard/internal/services"
	"github.com/droid-games/scoreboard/internal/websocket"
)

// HTTPLogger is an interface for loggers whose verbosity can be adjusted at
// runtime. The admin logging endpoint drives the HTTP-request toggle and the
// level; the request middleware only reads the toggle.
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
	EnableHTTPLogging()
	DisableHTTPLogging()
	SetLevel(level slog.Level)
	GetLevel() slog.Level
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Score       services.ScoreServicer
	Finalize    services.FinalizationServicer
	Achievement services.AchievementServicer
	Team        services.TeamServicer
	Leaderboard services.LeaderboardServicer
	Map         services.MapServicer
	Settings    services.SettingsServicer
	Auth        *auth.Auth
	Hub         *websocket.Hub
	Metrics     *metrics.Metrics
	Log         HTTPLogger
	validate    *validator.Validate
}

// New creates a new Handlers instance with all dependencies
func New(
	score services.ScoreServicer,
	finalize services.FinalizationServicer,
	achievement services.AchievementServicer,
	team services.TeamServicer,
	leaderboard services.LeaderboardServicer,
	mapSvc services.MapServicer,
	settings services.SettingsServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	m *metrics.Metrics,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Score:       score,
		Finalize:    finalize,
		Achievement: achievement,
		Team:        team,
		Leaderboard: leaderboard,
		Map:         mapSvc,
		Settings:    settings,
		Auth:        adminAuth,
		Hub:         hub,
		Metrics:     m,
		Log:         log,
		validate:    validator.New(),
	}
}

// decodeAndValidate decodes the request body and runs struct validation on it
func (h *Handlers) decodeAndValidate(r *http.Request, target interface{}) error {
	if err := decodeJSON(r, target); err != nil {
		return err
	}
	if err := h.validate.Struct(target); err != nil {
		return err
	}
	return nil
}
