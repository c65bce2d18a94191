package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultProcessingDelay is how long a session sits in the processing step
// before auto-advancing to preview-customize.
const DefaultProcessingDelay = 3 * time.Second

// AdvanceFunc is invoked when a session's processing delay expires.
type AdvanceFunc func(sessionID uuid.UUID)

// Scheduler owns the processing-step timers. Each session entering the
// processing step gets one cancellable timer; a manual jump away from
// processing cancels it, so an abandoned or overridden session never
// advances behind the user's back.
type Scheduler struct {
	delay   time.Duration
	advance AdvanceFunc

	mu     sync.Mutex
	timers map[uuid.UUID]*time.Timer
}

// NewScheduler creates a scheduler that calls advance after delay for each
// scheduled session. A non-positive delay falls back to the default.
func NewScheduler(delay time.Duration, advance AdvanceFunc) *Scheduler {
	if delay <= 0 {
		delay = DefaultProcessingDelay
	}
	return &Scheduler{
		delay:   delay,
		advance: advance,
		timers:  make(map[uuid.UUID]*time.Timer),
	}
}

// Schedule starts (or restarts) the processing timer for a session.
func (s *Scheduler) Schedule(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
	}
	s.timers[sessionID] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, sessionID)
		s.mu.Unlock()
		s.advance(sessionID)
	})
}

// Cancel stops a pending timer for a session. Returns true if a timer was
// pending and got cancelled before firing.
func (s *Scheduler) Cancel(sessionID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.timers[sessionID]
	if !ok {
		return false
	}
	delete(s.timers, sessionID)
	return t.Stop()
}

// Stop cancels all pending timers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
