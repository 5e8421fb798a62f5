package mock

import (
	"context"

	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database
// manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.UpdateTeamError = errors.New("disk full")
//	svc := services.NewScoreService(log, mockRepo, locks, dispatcher, m)
//	err := svc.SubmitScore(ctx, "t1", 1, score)
//	// err now contains the injected error
type Repository struct {
	repository.Store

	// ===== Team errors =====
	ListTeamsError     error
	GetTeamError       error
	GetTeamByPinError  error
	CreateTeamError    error
	UpdateTeamError    error
	DeleteTeamError    error

	// ===== Achievement errors =====
	ListAchievementsError  error
	GetAchievementError    error
	UpsertAchievementError error

	// ===== Team achievement errors =====
	ListTeamAchievementsError        error
	ListTeamAchievementsForTeamError error
	HasTeamAchievementError          error
	AnyTeamHasAchievementError       error
	AddTeamAchievementError          error

	// ===== Map errors =====
	ListMapsError  error
	GetMapError    error
	CreateMapError error
	UpdateMapError error
	DeleteMapError error

	// ===== Settings errors =====
	GetSettingError error
	SetSettingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.Store) *Repository {
	return &Repository{Store: real}
}

func (m *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.Store.ListTeams(ctx)
}

func (m *Repository) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	if m.GetTeamError != nil {
		return nil, m.GetTeamError
	}
	return m.Store.GetTeam(ctx, id)
}

func (m *Repository) GetTeamByPin(ctx context.Context, pin string) (*models.Team, error) {
	if m.GetTeamByPinError != nil {
		return nil, m.GetTeamByPinError
	}
	return m.Store.GetTeamByPin(ctx, pin)
}

func (m *Repository) CreateTeam(ctx context.Context, team *models.Team) error {
	if m.CreateTeamError != nil {
		return m.CreateTeamError
	}
	return m.Store.CreateTeam(ctx, team)
}

func (m *Repository) UpdateTeam(ctx context.Context, team *models.Team) error {
	if m.UpdateTeamError != nil {
		return m.UpdateTeamError
	}
	return m.Store.UpdateTeam(ctx, team)
}

func (m *Repository) DeleteTeam(ctx context.Context, id string) error {
	if m.DeleteTeamError != nil {
		return m.DeleteTeamError
	}
	return m.Store.DeleteTeam(ctx, id)
}

func (m *Repository) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	if m.ListAchievementsError != nil {
		return nil, m.ListAchievementsError
	}
	return m.Store.ListAchievements(ctx)
}

func (m *Repository) GetAchievement(ctx context.Context, id string) (*models.Achievement, error) {
	if m.GetAchievementError != nil {
		return nil, m.GetAchievementError
	}
	return m.Store.GetAchievement(ctx, id)
}

func (m *Repository) UpsertAchievement(ctx context.Context, a *models.Achievement) error {
	if m.UpsertAchievementError != nil {
		return m.UpsertAchievementError
	}
	return m.Store.UpsertAchievement(ctx, a)
}

func (m *Repository) ListTeamAchievements(ctx context.Context) ([]models.TeamAchievement, error) {
	if m.ListTeamAchievementsError != nil {
		return nil, m.ListTeamAchievementsError
	}
	return m.Store.ListTeamAchievements(ctx)
}

func (m *Repository) ListTeamAchievementsForTeam(ctx context.Context, teamID string) ([]models.TeamAchievement, error) {
	if m.ListTeamAchievementsForTeamError != nil {
		return nil, m.ListTeamAchievementsForTeamError
	}
	return m.Store.ListTeamAchievementsForTeam(ctx, teamID)
}

func (m *Repository) HasTeamAchievement(ctx context.Context, teamID, achievementID string) (bool, error) {
	if m.HasTeamAchievementError != nil {
		return false, m.HasTeamAchievementError
	}
	return m.Store.HasTeamAchievement(ctx, teamID, achievementID)
}

func (m *Repository) AnyTeamHasAchievement(ctx context.Context, achievementID string) (bool, error) {
	if m.AnyTeamHasAchievementError != nil {
		return false, m.AnyTeamHasAchievementError
	}
	return m.Store.AnyTeamHasAchievement(ctx, achievementID)
}

func (m *Repository) AddTeamAchievement(ctx context.Context, ta *models.TeamAchievement) error {
	if m.AddTeamAchievementError != nil {
		return m.AddTeamAchievementError
	}
	return m.Store.AddTeamAchievement(ctx, ta)
}

func (m *Repository) ListMaps(ctx context.Context) ([]models.MapConfiguration, error) {
	if m.ListMapsError != nil {
		return nil, m.ListMapsError
	}
	return m.Store.ListMaps(ctx)
}

func (m *Repository) GetMap(ctx context.Context, id string) (*models.MapConfiguration, error) {
	if m.GetMapError != nil {
		return nil, m.GetMapError
	}
	return m.Store.GetMap(ctx, id)
}

func (m *Repository) CreateMap(ctx context.Context, mc *models.MapConfiguration) error {
	if m.CreateMapError != nil {
		return m.CreateMapError
	}
	return m.Store.CreateMap(ctx, mc)
}

func (m *Repository) UpdateMap(ctx context.Context, mc *models.MapConfiguration) error {
	if m.UpdateMapError != nil {
		return m.UpdateMapError
	}
	return m.Store.UpdateMap(ctx, mc)
}

func (m *Repository) DeleteMap(ctx context.Context, id string) error {
	if m.DeleteMapError != nil {
		return m.DeleteMapError
	}
	return m.Store.DeleteMap(ctx, id)
}

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.Store.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.Store.SetSetting(ctx, key, value)
}
