package services

import (
	"time"

	"github.com/droid-games/scoreboard/internal/bus"
	"github.com/droid-games/scoreboard/internal/logger"
	"github.com/droid-games/scoreboard/internal/metrics"
	"github.com/droid-games/scoreboard/internal/models"
)

// RoundCompletedNotification is the snapshot payload of a round-completed
// event. Payloads are full snapshots so duplicate delivery is harmless.
type RoundCompletedNotification struct {
	TeamID      string    `json:"team_id"`
	RoundNumber int       `json:"round_number"`
	FinalScore  int       `json:"final_score"`
	TeamTotal   int       `json:"team_total"`
	CompletedAt time.Time `json:"completed_at"`
}

// AchievementUnlockedNotification is the snapshot payload of an
// achievement-unlocked event
type AchievementUnlockedNotification struct {
	TeamID          string                   `json:"team_id"`
	AchievementID   string                   `json:"achievement_id"`
	AchievementName string                   `json:"achievement_name"`
	Description     string                   `json:"description,omitempty"`
	Icon            string                   `json:"icon,omitempty"`
	Rarity          models.AchievementRarity `json:"rarity"`
	UnlockedAt      time.Time                `json:"unlocked_at"`
}

// RefereeScoreNotification is the snapshot payload of referee-score workflow
// events (submitted, approval changed)
type RefereeScoreNotification struct {
	TeamID      string `json:"team_id"`
	RoundNumber int    `json:"round_number"`
	RefereeID   string `json:"referee_id"`
	IsApproved  bool   `json:"is_approved"`
	IsRejected  bool   `json:"is_rejected"`
}

// Dispatcher translates domain happenings into bus events. It publishes each
// event exactly once; the websocket transport adapter and any in-process
// observers are both bus subscribers, so there is a single call site per
// event. Publishing never fails the surrounding operation.
type Dispatcher struct {
	log     logger.Logger
	bus     *bus.Bus
	metrics *metrics.Metrics
}

// NewDispatcher creates a Dispatcher publishing on the given bus
func NewDispatcher(log logger.Logger, b *bus.Bus, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{log: log, bus: b, metrics: m}
}

// Bus exposes the underlying bus for in-process subscribers
func (d *Dispatcher) Bus() *bus.Bus {
	return d.bus
}

func (d *Dispatcher) publish(e bus.Event) {
	if d.metrics != nil {
		d.metrics.EventsPublished.WithLabelValues(e.Name).Inc()
	}
	d.bus.Publish(e)
}

// RoundCompleted notifies the team's private group and, separately, all
// clients that a round's final score was locked
func (d *Dispatcher) RoundCompleted(n RoundCompletedNotification) {
	d.log.Info("Round completed", "team_id", n.TeamID, "round", n.RoundNumber, "final_score", n.FinalScore)
	d.publish(bus.Event{Name: bus.EventRoundCompleted, Group: bus.TeamGroup(n.TeamID), Payload: n})
}

// LeaderboardUpdated notifies all clients that standings changed
func (d *Dispatcher) LeaderboardUpdated() {
	d.publish(bus.Event{Name: bus.EventLeaderboardUpdated})
}

// AchievementUnlocked notifies the team's private group about a new badge
func (d *Dispatcher) AchievementUnlocked(n AchievementUnlockedNotification) {
	d.log.Info("Achievement unlocked", "team_id", n.TeamID, "achievement", n.AchievementID)
	d.publish(bus.Event{Name: bus.EventAchievementUnlocked, Group: bus.TeamGroup(n.TeamID), Payload: n})
}

// RefereeScoreUpdated notifies the head-referee group about a submission and
// all clients that scoring state moved
func (d *Dispatcher) RefereeScoreUpdated(n RefereeScoreNotification) {
	d.publish(bus.Event{Name: bus.EventRefereeScoreUpdated, Group: bus.GroupHeadReferee, Payload: n})
	d.publish(bus.Event{Name: bus.EventScoreUpdated, Payload: n})
}

// ScoreApprovalChanged notifies all clients that a referee score was
// approved or rejected
func (d *Dispatcher) ScoreApprovalChanged(n RefereeScoreNotification) {
	d.publish(bus.Event{Name: bus.EventScoreApprovalChanged, Payload: n})
}

// TimerTick broadcasts the remaining round time to all clients
func (d *Dispatcher) TimerTick(remainingSeconds int) {
	d.publish(bus.Event{Name: bus.EventTimerTick, Payload: map[string]int{"seconds_remaining": remainingSeconds}})
}

// GameStatusChanged broadcasts the new competition phase to all clients
func (d *Dispatcher) GameStatusChanged(status models.GameStatus, currentRound int) {
	d.publish(bus.Event{Name: bus.EventGameStatusChanged, Payload: map[string]any{
		"status":        status,
		"current_round": currentRound,
	}})
}
