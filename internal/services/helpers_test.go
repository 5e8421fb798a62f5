package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/droid-games/scoreboard/internal/bus"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/metrics"
	"github.com/droid-games/scoreboard/internal/models"
	"github.com/droid-games/scoreboard/internal/repository"
	"github.com/droid-games/scoreboard/internal/services"
	"github.com/droid-games/scoreboard/internal/testutil"
)

// testEnv bundles the dependencies most service tests need
type testEnv struct {
	repo       *repository.Repository
	log        logger.Logger
	bus        *bus.Bus
	dispatcher *services.Dispatcher
	metrics    *metrics.Metrics
	locks      *services.TeamLocks

	mu     sync.Mutex
	events []bus.Event
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.New()
	env := &testEnv{
		repo:    testutil.NewTestRepository(t),
		log:     log,
		bus:     bus.New(log),
		metrics: metrics.New(),
		locks:   services.NewTeamLocks(),
	}
	env.dispatcher = services.NewDispatcher(env.log, env.bus, env.metrics)
	env.bus.SubscribeAll(func(e bus.Event) {
		env.mu.Lock()
		env.events = append(env.events, e)
		env.mu.Unlock()
	})
	return env
}

// eventNames returns the names of all events published so far
func (env *testEnv) eventNames() []string {
	env.mu.Lock()
	defer env.mu.Unlock()
	names := make([]string, len(env.events))
	for i, e := range env.events {
		names[i] = e.Name
	}
	return names
}

func (env *testEnv) hasEvent(name string) bool {
	for _, n := range env.eventNames() {
		if n == name {
			return true
		}
	}
	return false
}

// createTeam inserts a team directly through the repository
func (env *testEnv) createTeam(t *testing.T, id, name string) *models.Team {
	t.Helper()
	team := &models.Team{
		ID:        id,
		Name:      name,
		PinCode:   "pin-" + id,
		CreatedAt: time.Now().UTC(),
	}
	if err := env.repo.CreateTeam(context.Background(), team); err != nil {
		t.Fatalf("CreateTeam failed: %v", err)
	}
	return team
}

// refereeScore builds a submitted referee score with the given total
func refereeScore(refereeID string, total int, events ...models.ScoringEventData) models.RefereeScore {
	return models.RefereeScore{
		RefereeID:  refereeID,
		TotalScore: total,
		ScoreBreakdown: map[string]int{
			"crystals": total,
		},
		Events: events,
	}
}

// crystalEvent and sulfurEvent build scoring events at a position with an
// increasing timestamp so chronological order matches call order.
var eventSeq int

func crystalEvent(x, y int) models.ScoringEventData {
	eventSeq++
	return models.ScoringEventData{
		ID:        eventSeq,
		X:         x,
		Y:         y,
		BlockType: models.BlockCrystal,
		Points:    10,
		Timestamp: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(eventSeq) * time.Second),
	}
}

func sulfurEvent(x, y int) models.ScoringEventData {
	eventSeq++
	return models.ScoringEventData{
		ID:        eventSeq,
		X:         x,
		Y:         y,
		BlockType: models.BlockSulfur,
		Points:    -5,
		Timestamp: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(eventSeq) * time.Second),
	}
}
