package handlers

import "github.com/droid-games/scoreboard/internal/models"

// LoginResponse is the response for a successful admin login
type LoginResponse struct {
	Token string `json:"token"`
}

// TeamLoginResponse is the response for a successful team PIN login
type TeamLoginResponse struct {
	Token string       `json:"token"`
	Team  *models.Team `json:"team"`
}

// StatusResponse is the public competition state
type StatusResponse struct {
	Status           models.GameStatus `json:"status"`
	CurrentRound     int               `json:"current_round"`
	TotalRounds      int               `json:"total_rounds"`
	SecondsRemaining int               `json:"seconds_remaining"`
}

// TimerResponse is the response for starting a round timer
type TimerResponse struct {
	EndsAt  int64 `json:"ends_at"`
	Seconds int   `json:"seconds"`
}

// FinalScoreResponse is the response for sealing a round
type FinalScoreResponse struct {
	TeamID      string `json:"team_id"`
	RoundNumber int    `json:"round_number"`
	FinalScore  int    `json:"final_score"`
	Finalized   bool   `json:"finalized"`
}

// RoundScoresResponse lists the referee scores for one round
type RoundScoresResponse struct {
	TeamID      string                         `json:"team_id"`
	RoundNumber int                            `json:"round_number"`
	Scores      map[string]models.RefereeScore `json:"scores"`
}

// LoggingResponse reports the current runtime logging configuration
type LoggingResponse struct {
	Level       string `json:"level"`
	HTTPLogging bool   `json:"http_logging"`
}
