package services

import (
	"context"
	"fmt"
	"time"

	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/metrics"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// ScoreService collects referee scores per team and round. It owns the
// submission/approval workflow; computing the final score is the
// FinalizationService's job.
type ScoreService struct {
	log        logger.Logger
	repo       repository.TeamRepository
	locks      *TeamLocks
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
}

// NewScoreService creates a new ScoreService
func NewScoreService(log logger.Logger, repo repository.TeamRepository, locks *TeamLocks, dispatcher *Dispatcher, m *metrics.Metrics) *ScoreService {
	return &ScoreService{log: log, repo: repo, locks: locks, dispatcher: dispatcher, metrics: m}
}

// SubmitScore records one referee's score for a team's round. The round
// participation is created on first submission; a referee re-submitting
// replaces their previous entry (last write wins per referee). Score bounds
// are not validated here; that is caller policy.
func (s *ScoreService) SubmitScore(ctx context.Context, teamID string, roundNumber int, score models.RefereeScore) error {
	if score.RefereeID == "" {
		return ErrMissingRefereeID
	}
	if roundNumber <= 0 {
		return ErrInvalidRound
	}

	unlock := s.locks.Lock(teamID)
	defer unlock()

	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if err == repository.ErrNotFound {
			return errors.NotFoundf("team %s not found", teamID)
		}
		return errors.Storage(err)
	}

	round := team.Round(roundNumber)
	if round == nil {
		team.Rounds = append(team.Rounds, models.RoundParticipation{
			RoundNumber:   roundNumber,
			RefereeScores: make(map[string]models.RefereeScore),
		})
		round = &team.Rounds[len(team.Rounds)-1]
	}
	if round.RefereeScores == nil {
		round.RefereeScores = make(map[string]models.RefereeScore)
	}

	now := time.Now().UTC()
	if prev, ok := round.RefereeScores[score.RefereeID]; ok {
		score.SubmittedAt = prev.SubmittedAt
	} else {
		score.SubmittedAt = now
	}
	score.LastModifiedAt = now
	score.IsSubmitted = true
	// A re-submission resets the approval workflow
	score.IsApproved = false
	score.IsRejected = false
	score.ApprovedByRefereeID = ""
	score.ApprovedAt = nil
	score.RejectionReason = ""

	round.RefereeScores[score.RefereeID] = score

	if err := s.repo.UpdateTeam(ctx, team); err != nil {
		return fmt.Errorf("persisting score for team %s: %w", teamID, errors.Storage(err))
	}

	s.metrics.ScoresSubmitted.Inc()
	s.log.Info("Referee score submitted",
		"team_id", teamID, "round", roundNumber, "referee_id", score.RefereeID, "total", score.TotalScore)

	s.dispatcher.RefereeScoreUpdated(RefereeScoreNotification{
		TeamID:      teamID,
		RoundNumber: roundNumber,
		RefereeID:   score.RefereeID,
	})
	return nil
}

// ApproveScore transitions one referee's entry to approved. Approving an
// entry that was never submitted is an invalid state, not a silent create.
// A rejected entry cannot be approved; the referee has to resubmit first.
func (s *ScoreService) ApproveScore(ctx context.Context, teamID string, roundNumber int, refereeID, approverID string) error {
	unlock := s.locks.Lock(teamID)
	defer unlock()

	team, round, err := s.loadRound(ctx, teamID, roundNumber)
	if err != nil {
		return err
	}

	entry, ok := round.RefereeScores[refereeID]
	if !ok {
		return errors.InvalidStatef("no score from referee %s for round %d", refereeID, roundNumber)
	}
	if entry.IsRejected {
		return ErrScoreRejected
	}

	now := time.Now().UTC()
	entry.IsApproved = true
	entry.IsRejected = false
	entry.RejectionReason = ""
	entry.ApprovedByRefereeID = approverID
	entry.ApprovedAt = &now
	entry.LastModifiedAt = now
	round.RefereeScores[refereeID] = entry

	if err := s.repo.UpdateTeam(ctx, team); err != nil {
		return fmt.Errorf("persisting approval for team %s: %w", teamID, errors.Storage(err))
	}

	s.metrics.ScoresApproved.Inc()
	s.log.Info("Referee score approved",
		"team_id", teamID, "round", roundNumber, "referee_id", refereeID, "approved_by", approverID)

	s.dispatcher.ScoreApprovalChanged(RefereeScoreNotification{
		TeamID:      teamID,
		RoundNumber: roundNumber,
		RefereeID:   refereeID,
		IsApproved:  true,
	})
	return nil
}

// RejectScore marks one referee's entry as rejected with a reason. Approved
// and rejected are mutually exclusive.
func (s *ScoreService) RejectScore(ctx context.Context, teamID string, roundNumber int, refereeID, approverID, reason string) error {
	if reason == "" {
		return ErrEmptyReason
	}

	unlock := s.locks.Lock(teamID)
	defer unlock()

	team, round, err := s.loadRound(ctx, teamID, roundNumber)
	if err != nil {
		return err
	}

	entry, ok := round.RefereeScores[refereeID]
	if !ok {
		return errors.InvalidStatef("no score from referee %s for round %d", refereeID, roundNumber)
	}

	now := time.Now().UTC()
	entry.IsApproved = false
	entry.IsRejected = true
	entry.RejectionReason = reason
	entry.ApprovedByRefereeID = approverID
	entry.ApprovedAt = nil
	entry.LastModifiedAt = now
	round.RefereeScores[refereeID] = entry

	if err := s.repo.UpdateTeam(ctx, team); err != nil {
		return fmt.Errorf("persisting rejection for team %s: %w", teamID, errors.Storage(err))
	}

	s.metrics.ScoresRejected.Inc()
	s.log.Info("Referee score rejected",
		"team_id", teamID, "round", roundNumber, "referee_id", refereeID, "reason", reason)

	s.dispatcher.ScoreApprovalChanged(RefereeScoreNotification{
		TeamID:      teamID,
		RoundNumber: roundNumber,
		RefereeID:   refereeID,
		IsRejected:  true,
	})
	return nil
}

// GetRefereeScores returns the referee score map for one round
func (s *ScoreService) GetRefereeScores(ctx context.Context, teamID string, roundNumber int) (map[string]models.RefereeScore, error) {
	_, round, err := s.loadRound(ctx, teamID, roundNumber)
	if err != nil {
		return nil, err
	}

	// Copy so callers cannot mutate the aggregate behind the lock
	scores := make(map[string]models.RefereeScore, len(round.RefereeScores))
	for id, sc := range round.RefereeScores {
		scores[id] = sc
	}
	return scores, nil
}

func (s *ScoreService) loadRound(ctx context.Context, teamID string, roundNumber int) (*models.Team, *models.RoundParticipation, error) {
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, nil, errors.NotFoundf("team %s not found", teamID)
		}
		return nil, nil, errors.Storage(err)
	}
	round := team.Round(roundNumber)
	if round == nil {
		return nil, nil, errors.NotFoundf("round %d not found for team %s", roundNumber, teamID)
	}
	return team, round, nil
}
