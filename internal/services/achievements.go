package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/metrics"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// achievementStore is the slice of the repository the evaluator needs
type achievementStore interface {
	repository.TeamRepository
	repository.AchievementRepository
	repository.TeamAchievementRepository
	repository.MapRepository
}

// AchievementService evaluates the rule registry after a round is finalized
// and records unlocks. Unlocks are idempotent: the (team, achievement) unlock
// record is the proof, and the repository's uniqueness constraint is the
// last line of defense against concurrent double unlocks.
type AchievementService struct {
	log        logger.Logger
	repo       achievementStore
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	rules      []AchievementRule
}

// NewAchievementService creates a new AchievementService with the default
// rule registry.
func NewAchievementService(log logger.Logger, repo achievementStore, dispatcher *Dispatcher, m *metrics.Metrics) *AchievementService {
	return &AchievementService{log: log, repo: repo, dispatcher: dispatcher, metrics: m, rules: DefaultRules()}
}

// SetRules replaces the rule registry. Used by tests and custom deployments.
func (s *AchievementService) SetRules(rules []AchievementRule) {
	s.rules = rules
}

var _ AchievementEvaluator = (*AchievementService)(nil)

// EvaluateRoundAchievements runs every registered rule against the approved
// referee events of one finalized round and returns the unlock records it
// created. A round with no approved events unlocks nothing.
func (s *AchievementService) EvaluateRoundAchievements(ctx context.Context, teamID string, roundNumber int) ([]models.TeamAchievement, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NotFoundf("team %s not found", teamID)
		}
		return nil, errors.Storage(err)
	}

	round := team.Round(roundNumber)
	if round == nil {
		return nil, errors.NotFoundf("round %d not found for team %s", roundNumber, teamID)
	}

	rctx := RuleContext{
		Round:  round,
		Events: approvedEvents(round),
	}
	if round.MapConfigurationID != "" {
		m, err := s.repo.GetMap(ctx, round.MapConfigurationID)
		if err != nil && err != repository.ErrNotFound {
			return nil, errors.Storage(err)
		}
		rctx.Map = m
	}

	s.log.Debug("Evaluating achievements",
		"team_id", teamID, "round", roundNumber, "events", len(rctx.Events))

	var unlocked []models.TeamAchievement
	for _, rule := range s.rules {
		ta, err := s.applyRule(ctx, teamID, rule, rctx)
		if err != nil {
			// One broken rule must not starve the rest
			s.log.Error("Achievement rule failed", "achievement_id", rule.ID, "team_id", teamID, "error", err)
			continue
		}
		if ta != nil {
			unlocked = append(unlocked, *ta)
		}
	}

	if len(unlocked) > 0 {
		s.log.Info("Achievements unlocked", "team_id", teamID, "round", roundNumber, "count", len(unlocked))
	}
	return unlocked, nil
}

func (s *AchievementService) applyRule(ctx context.Context, teamID string, rule AchievementRule, rctx RuleContext) (*models.TeamAchievement, error) {
	has, err := s.repo.HasTeamAchievement(ctx, teamID, rule.ID)
	if err != nil {
		return nil, errors.Storage(err)
	}
	if has {
		return nil, nil
	}
	if rule.GlobalFirst {
		taken, err := s.repo.AnyTeamHasAchievement(ctx, rule.ID)
		if err != nil {
			return nil, errors.Storage(err)
		}
		if taken {
			return nil, nil
		}
	}

	ok, data := rule.Check(rctx)
	if !ok {
		return nil, nil
	}
	return s.unlock(ctx, teamID, rule.ID, data)
}

func (s *AchievementService) unlock(ctx context.Context, teamID, achievementID string, data map[string]any) (*models.TeamAchievement, error) {
	ta := &models.TeamAchievement{
		ID:            uuid.NewString(),
		TeamID:        teamID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now().UTC(),
		UnlockData:    data,
	}
	if err := s.repo.AddTeamAchievement(ctx, ta); err != nil {
		if err == repository.ErrDuplicateUnlock {
			// Lost a race with a concurrent unlock; treat as already earned
			return nil, nil
		}
		return nil, errors.Storage(err)
	}

	s.metrics.AchievementsUnlocked.Inc()
	s.log.Info("Achievement unlocked", "team_id", teamID, "achievement_id", achievementID)

	notif := AchievementUnlockedNotification{
		TeamID:        teamID,
		AchievementID: achievementID,
		UnlockedAt:    ta.UnlockedAt,
	}
	if a, err := s.repo.GetAchievement(ctx, achievementID); err == nil {
		notif.AchievementName = a.Name
		notif.Description = a.Description
		notif.Icon = a.Icon
		notif.Rarity = a.Rarity
	}
	s.dispatcher.AchievementUnlocked(notif)

	return ta, nil
}

// SeedDefaultAchievements writes the built-in badge catalog to the store.
// Upserts are idempotent, so restarting refreshes definitions without
// touching unlock records.
func (s *AchievementService) SeedDefaultAchievements(ctx context.Context) error {
	for _, a := range DefaultAchievements() {
		if err := s.repo.UpsertAchievement(ctx, &a); err != nil {
			return errors.Storage(err)
		}
	}
	s.log.Debug("Achievement catalog seeded", "count", len(DefaultAchievements()))
	return nil
}

// ListAchievements returns all badge definitions
func (s *AchievementService) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	achievements, err := s.repo.ListAchievements(ctx)
	if err != nil {
		return nil, errors.Storage(err)
	}
	return achievements, nil
}

// GetTeamAchievements returns the unlock records for one team, newest first
func (s *AchievementService) GetTeamAchievements(ctx context.Context, teamID string) ([]models.TeamAchievement, error) {
	unlocks, err := s.repo.ListTeamAchievementsForTeam(ctx, teamID)
	if err != nil {
		return nil, errors.Storage(err)
	}
	sort.Slice(unlocks, func(i, j int) bool {
		return unlocks[i].UnlockedAt.After(unlocks[j].UnlockedAt)
	})
	return unlocks, nil
}

// approvedEvents flattens approved referee entries into one chronological
// event stream. Per-referee order is already chronological; the merge sorts
// by timestamp so streak rules see the true sequence.
func approvedEvents(round *models.RoundParticipation) []models.ScoringEventData {
	var events []models.ScoringEventData
	for _, sc := range round.RefereeScores {
		if sc.IsApproved {
			events = append(events, sc.Events...)
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}
