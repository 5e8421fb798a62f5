package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// TeamService handles team registration and the PIN login material
type TeamService struct {
	log        logger.Logger
	repo       repository.TeamRepository
	settings   SettingsServicer
	randReader io.Reader // for testing: defaults to crypto/rand.Reader
}

// NewTeamService creates a new TeamService
func NewTeamService(log logger.Logger, repo repository.TeamRepository, settings SettingsServicer) *TeamService {
	return &TeamService{
		log:        log,
		repo:       repo,
		settings:   settings,
		randReader: rand.Reader,
	}
}

// SetRandReader sets a custom random reader (for testing)
func (s *TeamService) SetRandReader(reader io.Reader) {
	s.randReader = reader
}

// ListTeams returns all teams ordered by total score
func (s *TeamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, errors.Storage(err)
	}
	return teams, nil
}

// GetTeam returns one team by ID
func (s *TeamService) GetTeam(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFoundf("team %s not found", id)
		}
		return nil, errors.Storage(err)
	}
	return team, nil
}

// CreateTeam registers a team. The ID and PIN are generated here; team names
// must be unique across the competition.
func (s *TeamService) CreateTeam(ctx context.Context, team *models.Team) error {
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" {
		return errors.Validation("team name is required")
	}

	existing, err := s.repo.ListTeams(ctx)
	if err != nil {
		return errors.Storage(err)
	}
	for _, t := range existing {
		if strings.EqualFold(t.Name, team.Name) {
			return ErrDuplicateTeamName
		}
	}

	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if team.PinCode == "" {
		pin, err := s.generateUniquePin(ctx)
		if err != nil {
			return err
		}
		team.PinCode = pin
	}
	team.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateTeam(ctx, team); err != nil {
		return errors.Storage(err)
	}
	s.log.Info("Team created", "team_id", team.ID, "name", team.Name)
	return nil
}

// UpdateTeam updates team profile fields. Rounds and scores are owned by the
// scoring services and are carried over unchanged.
func (s *TeamService) UpdateTeam(ctx context.Context, team *models.Team) error {
	current, err := s.repo.GetTeam(ctx, team.ID)
	if err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("team %s not found", team.ID)
		}
		return errors.Storage(err)
	}

	team.Rounds = current.Rounds
	team.TotalScore = current.TotalScore
	team.CurrentPosition = current.CurrentPosition
	team.CreatedAt = current.CreatedAt
	if team.PinCode == "" {
		team.PinCode = current.PinCode
	}

	if err := s.repo.UpdateTeam(ctx, team); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("team %s not found", team.ID)
		}
		return errors.Storage(err)
	}
	return nil
}

// DeleteTeam removes a team and, via the schema, its unlock records
func (s *TeamService) DeleteTeam(ctx context.Context, id string) error {
	if err := s.repo.DeleteTeam(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("team %s not found", id)
		}
		return errors.Storage(err)
	}
	s.log.Info("Team deleted", "team_id", id)
	return nil
}

// AuthenticateByPin resolves a team from its login PIN
func (s *TeamService) AuthenticateByPin(ctx context.Context, pin string) (*models.Team, error) {
	if pin == "" {
		return nil, ErrInvalidPin
	}
	team, err := s.repo.GetTeamByPin(ctx, pin)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, ErrInvalidPin
		}
		return nil, errors.Storage(err)
	}
	return team, nil
}

// GenerateLoginQR renders a QR code PNG pointing at the team's login URL
func (s *TeamService) GenerateLoginQR(ctx context.Context, teamID string) ([]byte, error) {
	team, err := s.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil || baseURL == "" {
		return nil, fmt.Errorf("base_url not configured")
	}
	loginURL := fmt.Sprintf("%s/login/%s", strings.TrimSuffix(baseURL, "/"), team.PinCode)
	return qrcode.Encode(loginURL, qrcode.Medium, 256)
}

// generateUniquePin draws 6-digit PINs until one is unused. PINs have no
// leading-zero restriction; they are strings end to end.
func (s *TeamService) generateUniquePin(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 100; attempt++ {
		var b [4]byte
		if _, err := io.ReadFull(s.randReader, b[:]); err != nil {
			return "", errors.Internal(err)
		}
		n := (uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])) % 1000000
		pin := fmt.Sprintf("%06d", n)

		_, err := s.repo.GetTeamByPin(ctx, pin)
		if err == repository.ErrNotFound {
			return pin, nil
		}
		if err != nil {
			return "", errors.Storage(err)
		}
	}
	return "", errors.Internal(fmt.Errorf("could not generate a unique pin"))
}
