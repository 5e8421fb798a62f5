package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// Playing field dimensions. Block coordinates are zero based.
const (
	MapWidth  = 6
	MapHeight = 9
)

// MapService handles map configuration management
type MapService struct {
	log  logger.Logger
	repo repository.MapRepository
}

// NewMapService creates a new MapService
func NewMapService(log logger.Logger, repo repository.MapRepository) *MapService {
	return &MapService{log: log, repo: repo}
}

// ListMaps returns all map configurations
func (s *MapService) ListMaps(ctx context.Context) ([]models.MapConfiguration, error) {
	maps, err := s.repo.ListMaps(ctx)
	if err != nil {
		return nil, errors.Storage(err)
	}
	return maps, nil
}

// GetMap returns one map configuration by ID
func (s *MapService) GetMap(ctx context.Context, id string) (*models.MapConfiguration, error) {
	m, err := s.repo.GetMap(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFoundf("map %s not found", id)
		}
		return nil, errors.Storage(err)
	}
	return m, nil
}

// CreateMap stores a new map configuration after validating the grid
func (s *MapService) CreateMap(ctx context.Context, m *models.MapConfiguration) error {
	if err := validateMap(m); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := s.repo.CreateMap(ctx, m); err != nil {
		return errors.Storage(err)
	}
	s.log.Info("Map created", "map_id", m.ID, "name", m.Name, "round", m.RoundNumber)
	return nil
}

// UpdateMap replaces a map configuration
func (s *MapService) UpdateMap(ctx context.Context, m *models.MapConfiguration) error {
	if err := validateMap(m); err != nil {
		return err
	}
	if err := s.repo.UpdateMap(ctx, m); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("map %s not found", m.ID)
		}
		return errors.Storage(err)
	}
	return nil
}

// DeleteMap removes a map configuration
func (s *MapService) DeleteMap(ctx context.Context, id string) error {
	if err := s.repo.DeleteMap(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("map %s not found", id)
		}
		return errors.Storage(err)
	}
	return nil
}

// PublishMap flips the published flag so referees and teams can see the map
func (s *MapService) PublishMap(ctx context.Context, id string, published bool) error {
	m, err := s.GetMap(ctx, id)
	if err != nil {
		return err
	}
	m.IsPublished = published
	return s.UpdateMap(ctx, m)
}

func validateMap(m *models.MapConfiguration) error {
	if m.Name == "" {
		return errors.Validation("map name is required")
	}
	if m.RoundNumber < 1 {
		return ErrInvalidRound
	}
	seen := make(map[[2]int]bool, len(m.Blocks))
	for _, b := range m.Blocks {
		if b.X < 0 || b.X >= MapWidth || b.Y < 0 || b.Y >= MapHeight {
			return errors.Validationf("block (%d,%d) outside the %dx%d grid", b.X, b.Y, MapWidth, MapHeight)
		}
		if b.Type != models.BlockCrystal && b.Type != models.BlockSulfur {
			return errors.Validationf("unknown block type %q", b.Type)
		}
		pos := [2]int{b.X, b.Y}
		if seen[pos] {
			return errors.Validationf("duplicate block at (%d,%d)", b.X, b.Y)
		}
		seen[pos] = true
	}
	return nil
}
