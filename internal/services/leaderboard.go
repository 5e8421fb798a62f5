package services

import (
	"context"
	"sort"

	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

// LeaderboardService derives standings from team records. Entries are
// computed on demand; nothing here is persisted.
type LeaderboardService struct {
	log  logger.Logger
	repo repository.TeamRepository
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(log logger.Logger, repo repository.TeamRepository) *LeaderboardService {
	return &LeaderboardService{log: log, repo: repo}
}

// GetLeaderboard returns all teams ranked by total score, then name. Only
// finalized rounds contribute to RoundScores and CompletedRounds.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	teams, err := s.repo.ListTeams(ctx)
	if err != nil {
		return nil, errors.Storage(err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(teams))
	for _, t := range teams {
		e := models.LeaderboardEntry{
			TeamID:      t.ID,
			TeamName:    t.Name,
			TotalScore:  t.TotalScore,
			RoundScores: make(map[int]int),
		}
		for _, r := range t.Rounds {
			if r.IsApproved && r.FinalScore != nil {
				e.RoundScores[r.RoundNumber] = *r.FinalScore
				e.CompletedRounds++
			}
		}
		entries = append(entries, e)
	}

	// The repository already orders by score; sort again so a caller with a
	// different TeamRepository still gets ranked output
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].TeamName < entries[j].TeamName
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries, nil
}
