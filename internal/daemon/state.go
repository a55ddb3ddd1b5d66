package daemon

import (
	"sync"
	"time"

	"mdsync/internal/model"
)

// State holds the mutable run counters shared between the pipeline goroutine
// and the status endpoint.
type State struct {
	mu        sync.RWMutex
	startedAt time.Time
	watching  bool
	synced    int
	failed    int
	lastSync  *time.Time
}

func NewState() *State {
	return &State{
		startedAt: time.Now(),
	}
}

func (s *State) SetWatching(watching bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watching = watching
}

func (s *State) RecordSync(outcome model.SyncOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.lastSync = &now

	if outcome.Success() {
		s.synced++
	} else {
		s.failed++
	}
}

func (s *State) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return model.Snapshot{
		Watching:  s.watching,
		Synced:    s.synced,
		Failed:    s.failed,
		StartedAt: s.startedAt,
		LastSync:  s.lastSync,
	}
}
