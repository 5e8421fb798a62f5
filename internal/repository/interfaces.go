package repository

import (
	"context"

	"github.com/droid-games/scoreboard/internal/models"
)

// TeamRepository defines team record operations. The team row is the
// mutation unit for the scoring pipeline: referee scores and final scores
// are stored inside the team's rounds.
type TeamRepository interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, id string) (*models.Team, error)
	GetTeamByPin(ctx context.Context, pin string) (*models.Team, error)
	CreateTeam(ctx context.Context, team *models.Team) error
	UpdateTeam(ctx context.Context, team *models.Team) error
	DeleteTeam(ctx context.Context, id string) error
}

// AchievementRepository defines badge definition operations
type AchievementRepository interface {
	ListAchievements(ctx context.Context) ([]models.Achievement, error)
	GetAchievement(ctx context.Context, id string) (*models.Achievement, error)
	UpsertAchievement(ctx context.Context, a *models.Achievement) error
}

// TeamAchievementRepository defines unlock record operations. Unlock records
// are append-only; there is deliberately no delete.
type TeamAchievementRepository interface {
	ListTeamAchievements(ctx context.Context) ([]models.TeamAchievement, error)
	ListTeamAchievementsForTeam(ctx context.Context, teamID string) ([]models.TeamAchievement, error)
	HasTeamAchievement(ctx context.Context, teamID, achievementID string) (bool, error)
	AnyTeamHasAchievement(ctx context.Context, achievementID string) (bool, error)
	AddTeamAchievement(ctx context.Context, ta *models.TeamAchievement) error
}

// MapRepository defines map configuration operations
type MapRepository interface {
	ListMaps(ctx context.Context) ([]models.MapConfiguration, error)
	GetMap(ctx context.Context, id string) (*models.MapConfiguration, error)
	CreateMap(ctx context.Context, m *models.MapConfiguration) error
	UpdateMap(ctx context.Context, m *models.MapConfiguration) error
	DeleteMap(ctx context.Context, id string) error
}

// SettingsRepository defines competition settings operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Store combines all repository interfaces.
// Use this when a service needs access to multiple domains.
type Store interface {
	TeamRepository
	AchievementRepository
	TeamAchievementRepository
	MapRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ Store = (*Repository)(nil)
