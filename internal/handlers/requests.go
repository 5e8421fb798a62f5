package handlers

import "github.com/droid-games/scoreboard/internal/models"

// LoginRequest is a request to open an admin session
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// TeamLoginRequest is a request to open a team session via PIN
type TeamLoginRequest struct {
	Pin string `json:"pin" validate:"required,len=6,numeric"`
}

// TeamCreateRequest is a request to register a team
type TeamCreateRequest struct {
	Name          string   `json:"name" validate:"required"`
	School        string   `json:"school"`
	Members       []string `json:"members" validate:"max=10"`
	RobotPhotoURL string   `json:"robot_photo_url" validate:"omitempty,url"`
}

// TeamUpdateRequest is a request to edit a team's profile. Rounds, scores
// and the PIN are managed by the score services and cannot be set here.
type TeamUpdateRequest struct {
	Name          string   `json:"name" validate:"required"`
	School        string   `json:"school"`
	Members       []string `json:"members" validate:"max=10"`
	RobotPhotoURL string   `json:"robot_photo_url" validate:"omitempty,url"`
}

// ScoreSubmitRequest is a referee's score sheet for one round
type ScoreSubmitRequest struct {
	RefereeID      string                    `json:"referee_id" validate:"required"`
	ScoreBreakdown map[string]int            `json:"score_breakdown"`
	TotalScore     int                       `json:"total_score" validate:"min=0"`
	Events         []models.ScoringEventData `json:"events" validate:"dive"`
}

// ScoreApproveRequest marks a referee score as approved by the head referee
type ScoreApproveRequest struct {
	ApproverID string `json:"approver_id" validate:"required"`
}

// ScoreRejectRequest sends a referee score back for correction
type ScoreRejectRequest struct {
	ApproverID string `json:"approver_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

// FinalizeRequest carries who triggered the seal of a fully approved round
type FinalizeRequest struct {
	ApproverID string `json:"approver_id"`
}

// GameStatusRequest sets the global competition phase
type GameStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CurrentRoundRequest sets the active round number
type CurrentRoundRequest struct {
	Round int `json:"round" validate:"required,min=1"`
}

// TotalRoundsRequest sets how many rounds the competition has
type TotalRoundsRequest struct {
	Rounds int `json:"rounds" validate:"required,min=1,max=20"`
}

// RoundTimerRequest starts a round countdown
type RoundTimerRequest struct {
	Seconds int `json:"seconds" validate:"required,min=1,max=3600"`
}

// SettingsUpdateRequest updates general settings
type SettingsUpdateRequest struct {
	BaseURL string `json:"base_url" validate:"omitempty,url"`
}

// LoggingUpdateRequest adjusts runtime log verbosity. Nil HTTPLogging leaves
// the toggle alone.
type LoggingUpdateRequest struct {
	Level       string `json:"level" validate:"omitempty,oneof=debug info warn error"`
	HTTPLogging *bool  `json:"http_logging"`
}

// MapCreateRequest creates a map configuration
type MapCreateRequest struct {
	Name        string            `json:"name" validate:"required"`
	RoundNumber int               `json:"round_number" validate:"required,min=1"`
	Blocks      []models.MapBlock `json:"blocks"`
}

// MapUpdateRequest updates a map configuration
type MapUpdateRequest struct {
	Name        string            `json:"name" validate:"required"`
	RoundNumber int               `json:"round_number" validate:"required,min=1"`
	Blocks      []models.MapBlock `json:"blocks"`
}

// MapPublishRequest publishes or hides a map configuration
type MapPublishRequest struct {
	Published bool `json:"published"`
}
