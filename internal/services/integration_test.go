package services_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/droid-games/scoreboard/internal/bus"
	"github.com/droid-games/scoreboard/internal/errors"
	"github.com/droid-games/scoreboard/internal/repository/mock"
	"github.com/droid-games/scoreboard/internal/services"
)

// TestPipeline_SubmitApproveFinalize walks the whole scoring pipeline the way
// a competition round actually runs: referees submit, the head referee
// approves, the round is sealed, achievements fire and the standings move.
func TestPipeline_SubmitApproveFinalize(t *testing.T) {
	env := newTestEnv(t)
	scores := newScoreService(env)
	finalize := newFinalizationService(env)
	achievements := newAchievementService(env)
	finalize.SetEvaluator(achievements)
	ctx := context.Background()

	env.createTeam(t, "team-1", "Robo Rangers")
	env.createTeam(t, "team-2", "Crystal Crushers")

	// Two referees watched team-1 and disagree slightly
	if err := scores.SubmitScore(ctx, "team-1", 1, refereeScore("ref-a", 70,
		crystalEvent(0, 0), crystalEvent(1, 0), crystalEvent(2, 0))); err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}
	if err := scores.SubmitScore(ctx, "team-1", 1, refereeScore("ref-b", 74)); err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}

	// Finalizing early is the waiting state and changes nothing
	if _, finalized, err := finalize.FinalizeApprovedScore(ctx, "team-1", 1, "head-ref"); err != nil || finalized {
		t.Fatalf("finalize before approvals must wait, got (%v, %v)", finalized, err)
	}

	if err := scores.ApproveScore(ctx, "team-1", 1, "ref-a", "head-ref"); err != nil {
		t.Fatalf("ApproveScore failed: %v", err)
	}
	if err := scores.ApproveScore(ctx, "team-1", 1, "ref-b", "head-ref"); err != nil {
		t.Fatalf("ApproveScore failed: %v", err)
	}

	final, _, err := finalize.FinalizeApprovedScore(ctx, "team-1", 1, "head-ref")
	if err != nil {
		t.Fatalf("FinalizeApprovedScore failed: %v", err)
	}
	if final != 72 {
		t.Errorf("expected final score 72, got %d", final)
	}

	// The approved streak of three crystals earns the badge via the evaluator
	unlocks, err := env.repo.ListTeamAchievementsForTeam(ctx, "team-1")
	if err != nil {
		t.Fatalf("ListTeamAchievementsForTeam failed: %v", err)
	}
	ids := unlockedIDs(unlocks)
	if !ids["three-crystals-row"] {
		t.Error("expected three-crystals-row from the finalization hook")
	}
	if !ids["first-crystal-touch"] {
		t.Error("expected first-crystal-touch as the competition's first")
	}

	if !env.hasEvent(bus.EventRoundCompleted) {
		t.Error("expected round-completed event")
	}
	if !env.hasEvent(bus.EventAchievementUnlocked) {
		t.Error("expected achievement-unlocked event")
	}
	if !env.hasEvent(bus.EventLeaderboardUpdated) {
		t.Error("expected leaderboard-updated event")
	}

	team, _ := env.repo.GetTeam(ctx, "team-1")
	if team.CurrentPosition != 1 {
		t.Errorf("expected team-1 at position 1, got %d", team.CurrentPosition)
	}
}

func TestScoreService_SubmitScore_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	mockRepo := mock.NewRepository(env.repo)
	svc := services.NewScoreService(env.log, mockRepo, env.locks, env.dispatcher, env.metrics)
	ctx := context.Background()
	env.createTeam(t, "team-1", "Robo Rangers")

	mockRepo.UpdateTeamError = stderrors.New("disk full")
	err := svc.SubmitScore(ctx, "team-1", 1, refereeScore("ref-a", 70))
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	var appErr *errors.Error
	if !stderrors.As(err, &appErr) || appErr.Kind != errors.ErrStorage {
		t.Errorf("expected storage error, got %v", err)
	}

	// The failed write must not publish anything
	if env.hasEvent(bus.EventRefereeScoreUpdated) {
		t.Error("failed submission must not emit events")
	}
}

func TestFinalizationService_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	mockRepo := mock.NewRepository(env.repo)
	scores := newScoreService(env)
	finalize := services.NewFinalizationService(env.log, mockRepo, env.locks, env.dispatcher, env.metrics)
	ctx := context.Background()
	env.createTeam(t, "team-1", "Robo Rangers")

	if err := scores.SubmitScore(ctx, "team-1", 1, refereeScore("ref-a", 70)); err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}
	if err := scores.ApproveScore(ctx, "team-1", 1, "ref-a", "head-ref"); err != nil {
		t.Fatalf("ApproveScore failed: %v", err)
	}

	mockRepo.UpdateTeamError = stderrors.New("disk full")
	_, _, err := finalize.FinalizeApprovedScore(ctx, "team-1", 1, "head-ref")
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	var appErr *errors.Error
	if !stderrors.As(err, &appErr) || appErr.Kind != errors.ErrStorage {
		t.Errorf("expected storage error, got %v", err)
	}

	// The round must remain unsealed in the store
	mockRepo.UpdateTeamError = nil
	team, _ := env.repo.GetTeam(ctx, "team-1")
	if team.Round(1).IsApproved {
		t.Error("failed finalize must not seal the round")
	}
	if env.hasEvent(bus.EventRoundCompleted) {
		t.Error("failed finalize must not emit round-completed")
	}
}

func TestFinalizationService_EvaluatorFailureDoesNotUnwind(t *testing.T) {
	env := newTestEnv(t)
	mockRepo := mock.NewRepository(env.repo)
	scores := newScoreService(env)
	finalize := newFinalizationService(env)
	achievements := services.NewAchievementService(env.log, mockRepo, env.dispatcher, env.metrics)
	finalize.SetEvaluator(achievements)
	ctx := context.Background()
	env.createTeam(t, "team-1", "Robo Rangers")

	if err := scores.SubmitScore(ctx, "team-1", 1, refereeScore("ref-a", 70, crystalEvent(0, 0))); err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}
	if err := scores.ApproveScore(ctx, "team-1", 1, "ref-a", "head-ref"); err != nil {
		t.Fatalf("ApproveScore failed: %v", err)
	}

	mockRepo.GetTeamError = stderrors.New("disk full")
	final, _, err := finalize.FinalizeApprovedScore(ctx, "team-1", 1, "head-ref")
	if err != nil {
		t.Fatalf("finalization must survive a broken evaluator: %v", err)
	}
	if final != 70 {
		t.Errorf("expected final score 70, got %d", final)
	}

	team, _ := env.repo.GetTeam(ctx, "team-1")
	if !team.Round(1).IsApproved {
		t.Error("round must stay finalized despite the evaluator failure")
	}
}

func TestAchievementService_BrokenRuleLookupSkipsRule(t *testing.T) {
	env := newTestEnv(t)
	mockRepo := mock.NewRepository(env.repo)
	svc := services.NewAchievementService(env.log, mockRepo, env.dispatcher, env.metrics)
	ctx := context.Background()

	createFinalizedRound(t, env, "team-1", 50, crystalEvent(0, 0))

	mockRepo.AnyTeamHasAchievementError = stderrors.New("disk full")
	unlocks, err := svc.EvaluateRoundAchievements(ctx, "team-1", 1)
	if err != nil {
		t.Fatalf("EvaluateRoundAchievements failed: %v", err)
	}

	// Global-first rules need AnyTeamHasAchievement and get skipped; the
	// per-round rules still run
	ids := unlockedIDs(unlocks)
	if ids["first-crystal-touch"] {
		t.Error("global-first rule must be skipped when its lookup fails")
	}
	if !ids["speed-demon"] {
		t.Error("independent rules must still be evaluated")
	}
}
