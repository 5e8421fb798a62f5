package services

import (
	"context"
	"strconv"
	"time"

	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// Setting keys used by the competition control panel and the timer hardware.
const (
	keyGameStatus   = "game_status"
	keyCurrentRound = "current_round"
	keyRoundEnd     = "round_end"
	keyBaseURL      = "base_url"
	keyTotalRounds  = "total_rounds"
)

var validStatuses = map[models.GameStatus]bool{
	models.StatusPreparation:       true,
	models.StatusRoundInProgress:   true,
	models.StatusWaitingForScoring: true,
	models.StatusPreparingNext:     true,
	models.StatusBreak:             true,
	models.StatusFinished:          true,
}

// SettingsService handles competition settings, the game phase and the
// round timer
type SettingsService struct {
	log        logger.Logger
	repo       repository.SettingsRepository
	dispatcher *Dispatcher
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, dispatcher *Dispatcher) *SettingsService {
	return &SettingsService{log: log, repo: repo, dispatcher: dispatcher}
}

// GetGameStatus returns the current competition phase
func (s *SettingsService) GetGameStatus(ctx context.Context) (models.GameStatus, error) {
	value, err := s.repo.GetSetting(ctx, keyGameStatus)
	if err != nil {
		if err == repository.ErrNotFound {
			return models.StatusPreparation, nil // Default before the event starts
		}
		return "", errors.Storage(err)
	}
	status := models.GameStatus(value)
	if !validStatuses[status] {
		return models.StatusPreparation, nil // Unknown stored value, fall back
	}
	return status, nil
}

// SetGameStatus changes the competition phase and broadcasts it
func (s *SettingsService) SetGameStatus(ctx context.Context, status models.GameStatus) error {
	if !validStatuses[status] {
		return errors.Validationf("unknown game status %q", status)
	}
	if err := s.repo.SetSetting(ctx, keyGameStatus, string(status)); err != nil {
		return errors.Storage(err)
	}

	round, _ := s.GetCurrentRound(ctx)
	s.log.Info("Game status changed", "status", status, "current_round", round)
	s.dispatcher.GameStatusChanged(status, round)
	return nil
}

// GetCurrentRound returns the active round number, defaulting to 1
func (s *SettingsService) GetCurrentRound(ctx context.Context) (int, error) {
	value, err := s.repo.GetSetting(ctx, keyCurrentRound)
	if err != nil {
		if err == repository.ErrNotFound {
			return 1, nil
		}
		return 0, errors.Storage(err)
	}
	round, err := strconv.Atoi(value)
	if err != nil || round < 1 {
		return 1, nil
	}
	return round, nil
}

// SetCurrentRound sets the active round number
func (s *SettingsService) SetCurrentRound(ctx context.Context, round int) error {
	if round < 1 {
		return ErrInvalidRound
	}
	if err := s.repo.SetSetting(ctx, keyCurrentRound, strconv.Itoa(round)); err != nil {
		return errors.Storage(err)
	}
	status, _ := s.GetGameStatus(ctx)
	s.dispatcher.GameStatusChanged(status, round)
	return nil
}

// GetBaseURL returns the application base URL
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	value, err := s.repo.GetSetting(ctx, keyBaseURL)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", nil // Not yet configured
		}
		return "", errors.Storage(err)
	}
	return value, nil
}

// SetBaseURL saves the application base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	if err := s.repo.SetSetting(ctx, keyBaseURL, url); err != nil {
		return errors.Storage(err)
	}
	return nil
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	return s.repo.SetSetting(ctx, key, value)
}

// GetRoundEndTime returns the timer end timestamp (Unix seconds), 0 if none
func (s *SettingsService) GetRoundEndTime(ctx context.Context) (int64, error) {
	value, err := s.repo.GetSetting(ctx, keyRoundEnd)
	if err != nil {
		if err == repository.ErrNotFound {
			return 0, nil
		}
		return 0, errors.Storage(err)
	}
	end, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, nil // Invalid value, treat as no timer
	}
	return end, nil
}

// StartRoundTimer arms the round timer and flips the phase to in-progress.
// Called by the control panel or the arena timer hardware.
func (s *SettingsService) StartRoundTimer(ctx context.Context, seconds int) (int64, error) {
	if seconds <= 0 || seconds > 3600 {
		return 0, errors.Validationf("timer duration %d out of range", seconds)
	}
	end := time.Now().Add(time.Duration(seconds) * time.Second).Unix()
	if err := s.repo.SetSetting(ctx, keyRoundEnd, strconv.FormatInt(end, 10)); err != nil {
		return 0, errors.Storage(err)
	}
	if err := s.SetGameStatus(ctx, models.StatusRoundInProgress); err != nil {
		return 0, err
	}
	s.dispatcher.TimerTick(seconds)
	return end, nil
}

// StopRoundTimer clears the timer and flips the phase to scoring
func (s *SettingsService) StopRoundTimer(ctx context.Context) error {
	if err := s.repo.SetSetting(ctx, keyRoundEnd, "0"); err != nil {
		return errors.Storage(err)
	}
	if err := s.SetGameStatus(ctx, models.StatusWaitingForScoring); err != nil {
		return err
	}
	s.dispatcher.TimerTick(0)
	return nil
}

// RemainingSeconds returns how long the armed timer has left, 0 when idle
// or expired
func (s *SettingsService) RemainingSeconds(ctx context.Context) (int, error) {
	end, err := s.GetRoundEndTime(ctx)
	if err != nil {
		return 0, err
	}
	if end == 0 {
		return 0, nil
	}
	remaining := end - time.Now().Unix()
	if remaining < 0 {
		return 0, nil
	}
	return int(remaining), nil
}

// GetTotalRounds returns how many rounds the competition runs, defaulting
// to 3
func (s *SettingsService) GetTotalRounds(ctx context.Context) (int, error) {
	value, err := s.repo.GetSetting(ctx, keyTotalRounds)
	if err != nil {
		if err == repository.ErrNotFound {
			return 3, nil
		}
		return 0, errors.Storage(err)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 3, nil
	}
	return n, nil
}

// SetTotalRounds sets how many rounds the competition runs
func (s *SettingsService) SetTotalRounds(ctx context.Context, n int) error {
	if n < 1 {
		return ErrInvalidRound
	}
	if err := s.repo.SetSetting(ctx, keyTotalRounds, strconv.Itoa(n)); err != nil {
		return errors.Storage(err)
	}
	return nil
}

// AllSettings returns commonly used settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	status, _ := s.GetGameStatus(ctx)
	settings["game_status"] = status

	round, _ := s.GetCurrentRound(ctx)
	settings["current_round"] = round

	total, _ := s.GetTotalRounds(ctx)
	settings["total_rounds"] = total

	baseURL, _ := s.GetBaseURL(ctx)
	settings["base_url"] = baseURL

	end, _ := s.GetRoundEndTime(ctx)
	settings["round_end"] = end

	return settings, nil
}
