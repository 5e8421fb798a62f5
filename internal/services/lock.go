package services

import "sync"

// TeamLocks serializes read-modify-write cycles on a single team record.
// Two referees submitting for the same team at the same time would otherwise
// race on the rounds aggregate and silently drop one submission. The lock is
// explicit and keyed by team ID so the guarantee does not depend on the
// storage layer running in a single process with a single connection.
type TeamLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTeamLocks creates an empty lock table
func NewTeamLocks() *TeamLocks {
	return &TeamLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given team, creating it on first use.
// The returned function releases it.
func (t *TeamLocks) Lock(teamID string) func() {
	t.mu.Lock()
	l, ok := t.locks[teamID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[teamID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
