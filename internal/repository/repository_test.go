package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
)

func newRepo(t *testing.T) *repository.Repository {
	t.Helper()
	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testTeam(id, name string) *models.Team {
	return &models.Team{
		ID:        id,
		Name:      name,
		School:    "Gymnázium Botič",
		Members:   []string{"Ada", "Grace"},
		PinCode:   "pin-" + id,
		CreatedAt: time.Now().UTC(),
	}
}

func TestCreateAndGetTeam(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	team := testTeam("t1", "Robo Raptors")
	if err := repo.CreateTeam(ctx, team); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	got, err := repo.GetTeam(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTeam failed: %v", err)
	}
	if got.Name != "Robo Raptors" {
		t.Errorf("expected name Robo Raptors, got %q", got.Name)
	}
	if len(got.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(got.Members))
	}
}

func TestGetTeamNotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.GetTeam(context.Background(), "missing")
	if err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTeamByPin(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.CreateTeam(ctx, testTeam("t1", "Robo Raptors")); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	got, err := repo.GetTeamByPin(ctx, "pin-t1")
	if err != nil {
		t.Fatalf("GetTeamByPin failed: %v", err)
	}
	if got.ID != "t1" {
		t.Errorf("expected team t1, got %q", got.ID)
	}

	if _, err := repo.GetTeamByPin(ctx, "wrong"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound for unknown pin, got %v", err)
	}
}

func TestUpdateTeamRoundsRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	team := testTeam("t1", "Robo Raptors")
	if err := repo.CreateTeam(ctx, team); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	final := 72
	team.Rounds = []models.RoundParticipation{{
		RoundNumber: 3,
		RefereeScores: map[string]models.RefereeScore{
			"ref-1": {RefereeID: "ref-1", TotalScore: 70, IsSubmitted: true, IsApproved: true},
			"ref-2": {RefereeID: "ref-2", TotalScore: 74, IsSubmitted: true, IsApproved: true},
		},
		IsApproved: true,
		FinalScore: &final,
	}}
	team.TotalScore = 72

	if err := repo.UpdateTeam(ctx, team); err != nil {
		t.Fatalf("UpdateTeam failed: %v", err)
	}

	got, err := repo.GetTeam(ctx, "t1")
	if err != nil {
		t.Fatalf("GetTeam failed: %v", err)
	}
	round := got.Round(3)
	if round == nil {
		t.Fatal("expected round 3 to survive the round trip")
	}
	if len(round.RefereeScores) != 2 {
		t.Errorf("expected 2 referee scores, got %d", len(round.RefereeScores))
	}
	if round.FinalScore == nil || *round.FinalScore != 72 {
		t.Errorf("expected final score 72, got %v", round.FinalScore)
	}
	if !round.IsApproved {
		t.Error("expected round to stay approved")
	}
}

func TestUpdateTeamNotFound(t *testing.T) {
	repo := newRepo(t)

	err := repo.UpdateTeam(context.Background(), testTeam("ghost", "Ghost"))
	if err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTeam(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.CreateTeam(ctx, testTeam("t1", "Robo Raptors")); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	if err := repo.DeleteTeam(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTeam failed: %v", err)
	}
	if _, err := repo.GetTeam(ctx, "t1"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.DeleteTeam(ctx, "t1"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestListTeamsOrdering(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a := testTeam("a", "Alpha")
	a.TotalScore = 50
	b := testTeam("b", "Beta")
	b.TotalScore = 80
	c := testTeam("c", "Aardvarks")
	c.TotalScore = 50

	for _, team := range []*models.Team{a, b, c} {
		if err := repo.CreateTeam(ctx, team); err != nil {
			t.Fatalf("CreateTeam failed: %v", err)
		}
	}

	teams, err := repo.ListTeams(ctx)
	if err != nil {
		t.Fatalf("ListTeams failed: %v", err)
	}
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(teams))
	}
	// Score descending, name ascending on ties
	if teams[0].ID != "b" || teams[1].ID != "c" || teams[2].ID != "a" {
		t.Errorf("unexpected order: %s, %s, %s", teams[0].ID, teams[1].ID, teams[2].ID)
	}
}

func TestAchievementUpsertAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a := &models.Achievement{ID: "perfect-run", Name: "Perfect Run", Rarity: models.RarityRare}
	if err := repo.UpsertAchievement(ctx, a); err != nil {
		t.Fatalf("UpsertAchievement failed: %v", err)
	}

	a.Name = "Perfect Run!"
	if err := repo.UpsertAchievement(ctx, a); err != nil {
		t.Fatalf("second UpsertAchievement failed: %v", err)
	}

	got, err := repo.GetAchievement(ctx, "perfect-run")
	if err != nil {
		t.Fatalf("GetAchievement failed: %v", err)
	}
	if got.Name != "Perfect Run!" {
		t.Errorf("expected updated name, got %q", got.Name)
	}

	all, err := repo.ListAchievements(ctx)
	if err != nil {
		t.Fatalf("ListAchievements failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("upsert should not duplicate rows, got %d", len(all))
	}
}

func TestTeamAchievementUniqueness(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.CreateTeam(ctx, testTeam("t1", "Robo Raptors")); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	ta := &models.TeamAchievement{
		ID:            "ta-1",
		TeamID:        "t1",
		AchievementID: "crystal-master",
		UnlockedAt:    time.Now().UTC(),
		UnlockData:    map[string]any{"crystal_touches": 11},
	}
	if err := repo.AddTeamAchievement(ctx, ta); err != nil {
		t.Fatalf("AddTeamAchievement failed: %v", err)
	}

	dup := &models.TeamAchievement{
		ID:            "ta-2",
		TeamID:        "t1",
		AchievementID: "crystal-master",
		UnlockedAt:    time.Now().UTC(),
	}
	if err := repo.AddTeamAchievement(ctx, dup); err != repository.ErrDuplicateUnlock {
		t.Errorf("expected ErrDuplicateUnlock, got %v", err)
	}

	unlocks, err := repo.ListTeamAchievementsForTeam(ctx, "t1")
	if err != nil {
		t.Fatalf("ListTeamAchievementsForTeam failed: %v", err)
	}
	if len(unlocks) != 1 {
		t.Fatalf("expected exactly 1 unlock record, got %d", len(unlocks))
	}
	if unlocks[0].UnlockData["crystal_touches"] != float64(11) {
		t.Errorf("unexpected unlock data: %v", unlocks[0].UnlockData)
	}
}

func TestHasAndAnyTeamAchievement(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if err := repo.CreateTeam(ctx, testTeam("t1", "Robo Raptors")); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}

	has, err := repo.HasTeamAchievement(ctx, "t1", "first-crystal-touch")
	if err != nil || has {
		t.Fatalf("expected no unlock yet, got has=%v err=%v", has, err)
	}
	any, err := repo.AnyTeamHasAchievement(ctx, "first-crystal-touch")
	if err != nil || any {
		t.Fatalf("expected no unlock anywhere yet, got any=%v err=%v", any, err)
	}

	ta := &models.TeamAchievement{ID: "ta-1", TeamID: "t1", AchievementID: "first-crystal-touch", UnlockedAt: time.Now().UTC()}
	if err := repo.AddTeamAchievement(ctx, ta); err != nil {
		t.Fatalf("AddTeamAchievement failed: %v", err)
	}

	has, err = repo.HasTeamAchievement(ctx, "t1", "first-crystal-touch")
	if err != nil || !has {
		t.Errorf("expected unlock for t1, got has=%v err=%v", has, err)
	}
	any, err = repo.AnyTeamHasAchievement(ctx, "first-crystal-touch")
	if err != nil || !any {
		t.Errorf("expected unlock across teams, got any=%v err=%v", any, err)
	}
	has, err = repo.HasTeamAchievement(ctx, "t2", "first-crystal-touch")
	if err != nil || has {
		t.Errorf("expected no unlock for t2, got has=%v err=%v", has, err)
	}
}

func TestMapRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	m := &models.MapConfiguration{
		ID:          "map-1",
		Name:        "Round 3 field",
		RoundNumber: 3,
		Blocks: []models.MapBlock{
			{X: 0, Y: 0, Type: models.BlockCrystal},
			{X: 1, Y: 0, Type: models.BlockSulfur},
			{X: 2, Y: 1, Type: models.BlockCrystal},
		},
	}
	if err := repo.CreateMap(ctx, m); err != nil {
		t.Fatalf("CreateMap failed: %v", err)
	}

	got, err := repo.GetMap(ctx, "map-1")
	if err != nil {
		t.Fatalf("GetMap failed: %v", err)
	}
	if got.CountBlocks(models.BlockCrystal) != 2 {
		t.Errorf("expected 2 crystals, got %d", got.CountBlocks(models.BlockCrystal))
	}

	got.IsPublished = true
	if err := repo.UpdateMap(ctx, got); err != nil {
		t.Fatalf("UpdateMap failed: %v", err)
	}

	maps, err := repo.ListMaps(ctx)
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(maps) != 1 || !maps[0].IsPublished {
		t.Errorf("expected one published map, got %+v", maps)
	}

	if err := repo.DeleteMap(ctx, "map-1"); err != nil {
		t.Fatalf("DeleteMap failed: %v", err)
	}
	if _, err := repo.GetMap(ctx, "map-1"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	if _, err := repo.GetSetting(ctx, "current_round"); err != repository.ErrNotFound {
		t.Errorf("expected ErrNotFound for unset key, got %v", err)
	}

	if err := repo.SetSetting(ctx, "current_round", "2"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := repo.SetSetting(ctx, "current_round", "3"); err != nil {
		t.Fatalf("SetSetting overwrite failed: %v", err)
	}

	v, err := repo.GetSetting(ctx, "current_round")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if v != "3" {
		t.Errorf("expected 3, got %q", v)
	}
}
