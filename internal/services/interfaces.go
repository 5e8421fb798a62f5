package services

import (
	"context"

	"github.com/droid-games/scoreboard/internal/models"
)

// ScoreServicer defines the interface for the referee score workflow
type ScoreServicer interface {
	SubmitScore(ctx context.Context, teamID string, roundNumber int, score models.RefereeScore) error
	ApproveScore(ctx context.Context, teamID string, roundNumber int, refereeID, approverID string) error
	RejectScore(ctx context.Context, teamID string, roundNumber int, refereeID, approverID, reason string) error
	GetRefereeScores(ctx context.Context, teamID string, roundNumber int) (map[string]models.RefereeScore, error)
}

// FinalizationServicer defines the interface for sealing rounds
type FinalizationServicer interface {
	CalculateFinalScore(ctx context.Context, teamID string, roundNumber int) (int, error)
	FinalizeApprovedScore(ctx context.Context, teamID string, roundNumber int, approvedByRefereeID string) (int, bool, error)
}

// AchievementServicer defines the interface for badge operations
type AchievementServicer interface {
	EvaluateRoundAchievements(ctx context.Context, teamID string, roundNumber int) ([]models.TeamAchievement, error)
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	GetTeamAchievements(ctx context.Context, teamID string) ([]models.TeamAchievement, error)
}

// TeamServicer defines the interface for team operations
type TeamServicer interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	CreateTeam(ctx context.Context, team *models.Team) error
	UpdateTeam(ctx context.Context, team *models.Team) error
	DeleteTeam(ctx context.Context, id string) error
	AuthenticateByPin(ctx context.Context, pin string) (*models.Team, error)
	GenerateLoginQR(ctx context.Context, teamID string) ([]byte, error)
}

// LeaderboardServicer defines the interface for standings
type LeaderboardServicer interface {
	GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
}

// MapServicer defines the interface for map configuration operations
type MapServicer interface {
	ListMaps(ctx context.Context) ([]models.MapConfiguration, error)
	GetMap(ctx context.Context, id string) (*models.MapConfiguration, error)
	CreateMap(ctx context.Context, m *models.MapConfiguration) error
	UpdateMap(ctx context.Context, m *models.MapConfiguration) error
	DeleteMap(ctx context.Context, id string) error
	PublishMap(ctx context.Context, id string, published bool) error
}

// SettingsServicer defines the interface for settings and timer operations
type SettingsServicer interface {
	GetGameStatus(ctx context.Context) (models.GameStatus, error)
	SetGameStatus(ctx context.Context, status models.GameStatus) error
	GetCurrentRound(ctx context.Context) (int, error)
	SetCurrentRound(ctx context.Context, round int) error
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	GetRoundEndTime(ctx context.Context) (int64, error)
	StartRoundTimer(ctx context.Context, seconds int) (int64, error)
	StopRoundTimer(ctx context.Context) error
	RemainingSeconds(ctx context.Context) (int, error)
	GetTotalRounds(ctx context.Context) (int, error)
	SetTotalRounds(ctx context.Context, n int) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
}

// Ensure concrete types implement interfaces
var (
	_ ScoreServicer        = (*ScoreService)(nil)
	_ FinalizationServicer = (*FinalizationService)(nil)
	_ AchievementServicer  = (*AchievementService)(nil)
	_ TeamServicer         = (*TeamService)(nil)
	_ LeaderboardServicer  = (*LeaderboardService)(nil)
	_ MapServicer          = (*MapService)(nil)
	_ SettingsServicer     = (*SettingsService)(nil)
)
