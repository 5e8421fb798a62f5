package services_test

import (
	"context"
	"testing"

	"github.com/droid-games/scoreboard/internal/services"
)

func TestLeaderboardService_RanksByTotalThenName(t *testing.T) {
	env := newTestEnv(t)
	scores := newScoreService(env)
	finalize := newFinalizationService(env)
	board := services.NewLeaderboardService(env.log, env.repo)
	ctx := context.Background()

	env.createTeam(t, "team-a", "Alpha Bots")
	env.createTeam(t, "team-b", "Beta Bots")
	env.createTeam(t, "team-c", "Circuit Breakers")

	run := func(teamID string, round, total int) {
		t.Helper()
		if err := scores.SubmitScore(ctx, teamID, round, refereeScore("ref-a", total)); err != nil {
			t.Fatalf("SubmitScore failed: %v", err)
		}
		if err := scores.ApproveScore(ctx, teamID, round, "ref-a", "head-ref"); err != nil {
			t.Fatalf("ApproveScore failed: %v", err)
		}
		if _, _, err := finalize.FinalizeApprovedScore(ctx, teamID, round, "head-ref"); err != nil {
			t.Fatalf("FinalizeApprovedScore failed: %v", err)
		}
	}

	run("team-a", 1, 40)
	run("team-a", 2, 30)
	run("team-b", 1, 90)
	// team-c ties with team-a on 70 and sorts after it by name
	run("team-c", 1, 70)

	entries, err := board.GetLeaderboard(ctx)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].TeamID != "team-b" || entries[0].Position != 1 {
		t.Errorf("expected team-b first, got %+v", entries[0])
	}
	if entries[1].TeamID != "team-a" || entries[1].Position != 2 {
		t.Errorf("expected team-a second on name tiebreak, got %+v", entries[1])
	}
	if entries[2].TeamID != "team-c" || entries[2].Position != 3 {
		t.Errorf("expected team-c third, got %+v", entries[2])
	}

	if entries[1].CompletedRounds != 2 {
		t.Errorf("expected 2 completed rounds for team-a, got %d", entries[1].CompletedRounds)
	}
	if entries[1].RoundScores[1] != 40 || entries[1].RoundScores[2] != 30 {
		t.Errorf("unexpected round scores %v", entries[1].RoundScores)
	}
}

func TestLeaderboardService_UnfinalizedRoundsExcluded(t *testing.T) {
	env := newTestEnv(t)
	scores := newScoreService(env)
	board := services.NewLeaderboardService(env.log, env.repo)
	ctx := context.Background()

	env.createTeam(t, "team-a", "Alpha Bots")
	if err := scores.SubmitScore(ctx, "team-a", 1, refereeScore("ref-a", 70)); err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}

	entries, err := board.GetLeaderboard(ctx)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].TotalScore != 0 || entries[0].CompletedRounds != 0 {
		t.Errorf("pending round leaked into standings: %+v", entries[0])
	}
	if len(entries[0].RoundScores) != 0 {
		t.Errorf("expected no round scores, got %v", entries[0].RoundScores)
	}
}

func TestLeaderboardService_Empty(t *testing.T) {
	env := newTestEnv(t)
	board := services.NewLeaderboardService(env.log, env.repo)

	entries, err := board.GetLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty leaderboard, got %d entries", len(entries))
	}
}
