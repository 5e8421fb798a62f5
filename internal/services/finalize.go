package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/metrics"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// AchievementEvaluator is the hook the finalization pipeline calls after a
// round is sealed. Evaluation failures never unwind a finalization.
type AchievementEvaluator interface {
	EvaluateRoundAchievements(ctx context.Context, teamID string, roundNumber int) ([]models.TeamAchievement, error)
}

// FinalizationService seals a round once every submitted referee score has
// been approved: it computes the final score, recomputes the team total and
// standings, runs achievement evaluation and broadcasts the result.
type FinalizationService struct {
	log        logger.Logger
	repo       repository.TeamRepository
	locks      *TeamLocks
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	evaluator  AchievementEvaluator
}

// NewFinalizationService creates a new FinalizationService. The evaluator is
// attached later via SetEvaluator because the achievement service needs the
// finalization service's peers first.
func NewFinalizationService(log logger.Logger, repo repository.TeamRepository, locks *TeamLocks, dispatcher *Dispatcher, m *metrics.Metrics) *FinalizationService {
	return &FinalizationService{log: log, repo: repo, locks: locks, dispatcher: dispatcher, metrics: m}
}

// SetEvaluator wires in the achievement evaluator. Optional; finalization
// works without one.
func (s *FinalizationService) SetEvaluator(e AchievementEvaluator) {
	s.evaluator = e
}

// CalculateFinalScore returns the rounded arithmetic mean of the approved
// referee totals. Rounding is half away from zero, so [70, 75] yields 73.
// Unapproved and rejected entries are excluded; with no approved entries the
// score is 0.
func CalculateFinalScore(scores map[string]models.RefereeScore) int {
	sum, n := 0, 0
	for _, sc := range scores {
		if !sc.IsApproved {
			continue
		}
		sum += sc.TotalScore
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// CalculateFinalScore computes the would-be final score for a round without
// sealing it. A round with no approved referee scores previews as 0.
func (s *FinalizationService) CalculateFinalScore(ctx context.Context, teamID string, roundNumber int) (int, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if err == repository.ErrNotFound {
			return 0, errors.NotFoundf("team %s not found", teamID)
		}
		return 0, errors.Storage(err)
	}

	round := team.Round(roundNumber)
	if round == nil {
		return 0, errors.NotFoundf("round %d not found for team %s", roundNumber, teamID)
	}
	return CalculateFinalScore(round.RefereeScores), nil
}

// FinalizeApprovedScore seals the round for a team if and only if every
// submitted referee score is approved. A round that is not fully approved yet
// is the normal waiting state, reported as finalized=false with no error and
// no state change. approvedByRefereeID identifies who triggered the seal and
// is recorded in the audit log. The call is idempotent: a round that is
// already finalized is left untouched and no events are re-emitted.
func (s *FinalizationService) FinalizeApprovedScore(ctx context.Context, teamID string, roundNumber int, approvedByRefereeID string) (int, bool, error) {
	start := time.Now()

	unlock := s.locks.Lock(teamID)
	defer unlock()

	// Fresh read under the lock; stale aggregates must not be sealed
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if err == repository.ErrNotFound {
			return 0, false, errors.NotFoundf("team %s not found", teamID)
		}
		return 0, false, errors.Storage(err)
	}

	round := team.Round(roundNumber)
	if round == nil {
		return 0, false, errors.NotFoundf("round %d not found for team %s", roundNumber, teamID)
	}

	if round.IsApproved {
		if round.FinalScore != nil {
			return *round.FinalScore, true, nil
		}
		return 0, true, nil
	}

	if !round.AllScoresApproved() {
		s.log.Debug("Round not ready to finalize, waiting for approvals",
			"team_id", teamID, "round", roundNumber)
		return 0, false, nil
	}

	final := CalculateFinalScore(round.RefereeScores)

	round.IsApproved = true
	round.FinalScore = &final
	team.TotalScore = totalScore(team)

	if err := s.repo.UpdateTeam(ctx, team); err != nil {
		return 0, false, fmt.Errorf("persisting finalized round for team %s: %w", teamID, errors.Storage(err))
	}

	s.metrics.RoundsFinalized.Inc()
	s.metrics.FinalizeDuration.Observe(time.Since(start).Seconds())
	s.log.Info("Round finalized",
		"team_id", teamID, "round", roundNumber, "final_score", final,
		"team_total", team.TotalScore, "approved_by", approvedByRefereeID)

	if s.evaluator != nil {
		if _, err := s.evaluator.EvaluateRoundAchievements(ctx, teamID, roundNumber); err != nil {
			// Achievements are best effort; the round stays finalized
			s.log.Error("Achievement evaluation failed", "team_id", teamID, "round", roundNumber, "error", err)
		}
	}

	if err := s.updatePositions(ctx); err != nil {
		s.log.Error("Updating standings failed", "error", err)
	}

	s.dispatcher.RoundCompleted(RoundCompletedNotification{
		TeamID:      teamID,
		RoundNumber: roundNumber,
		FinalScore:  final,
		TeamTotal:   team.TotalScore,
		CompletedAt: time.Now().UTC(),
	})
	s.dispatcher.LeaderboardUpdated()

	return final, true, nil
}

// totalScore sums the final scores of the team's finalized rounds
func totalScore(team *models.Team) int {
	total := 0
	for _, r := range team.Rounds {
		if r.IsApproved && r.FinalScore != nil {
			total += *r.FinalScore
		}
	}
	return total
}

// updatePositions recomputes CurrentPosition for every team from the current
// totals. Ties share ordering by name via the repository's sort.
func (s *FinalizationService) updatePositions(ctx context.Context) error {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return errors.Storage(err)
	}
	for i := range teams {
		pos := i + 1
		if teams[i].CurrentPosition == pos {
			continue
		}
		teams[i].CurrentPosition = pos
		if err := s.repo.UpdateTeam(ctx, &teams[i]); err != nil {
			return errors.Storage(err)
		}
	}
	return nil
}
