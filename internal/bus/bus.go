package bus

import (
	"sync"

	"github.com/droid-games/scoreboard/internal/logger"
)

// Domain event names published on the bus.
const (
	EventRoundCompleted       = "round-completed"
	EventLeaderboardUpdated   = "leaderboard-updated"
	EventAchievementUnlocked  = "achievement-unlocked"
	EventRefereeScoreUpdated  = "referee-score-updated"
	EventScoreApprovalChanged = "score-approval-changed"
	EventScoreUpdated         = "score-updated"
	EventTimerTick            = "timer-tick"
	EventGameStatusChanged    = "game-status-changed"
)

// Well-known subscription group names. A team's private group is
// TeamGroup(teamID); an empty Event.Group means broadcast to everyone.
const (
	GroupHeadReferee = "headreferee"
)

// TeamGroup returns the private group name for a team
func TeamGroup(teamID string) string {
	return "team_" + teamID
}

// Event is a single domain event. Payloads are idempotent snapshots, not
// deltas, so duplicate delivery is always safe for consumers.
type Event struct {
	Name    string
	Group   string // empty = all subscribers
	Payload any
}

// Handler receives published events. Handlers must not block; the bus calls
// them synchronously in publish order.
type Handler func(e Event)

// Bus is the in-process publish/subscribe hub for domain events. The
// websocket transport adapter and any co-located observers subscribe to the
// same bus, so each call site publishes exactly once. Delivery order between
// subscribers is unspecified.
type Bus struct {
	log logger.Logger

	mu       sync.RWMutex
	byName   map[string][]Handler
	catchAll []Handler
}

// New creates an empty Bus
func New(log logger.Logger) *Bus {
	return &Bus{
		log:    log,
		byName: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for one event name
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.byName[name] = append(b.byName[name], h)
}

// SubscribeAll registers a handler for every event. Used by the websocket
// transport adapter, which forwards everything to connected clients.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.catchAll = append(b.catchAll, h)
}

// Publish delivers the event to all matching handlers. Publishing is
// fire-and-forget: a panicking handler is logged and skipped, and can never
// roll back the state mutation that triggered the event.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.byName[e.Name])+len(b.catchAll))
	handlers = append(handlers, b.byName[e.Name]...)
	handlers = append(handlers, b.catchAll...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.safeCall(h, e)
	}
}

func (b *Bus) safeCall(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Event handler panicked", "event", e.Name, "panic", r)
		}
	}()
	h(e)
}
