/*
PURPOSE:
  Owns the process-wide simulation state: the current result set and the
  monotonically increasing run counter.

REQUIREMENTS:
  User-specified:
  - Single writer (the engine), read-only consumers (analyzer, API).
  - Counter increments by exactly one per completed run.
  - A new run replaces the previous result set; nothing accumulates.

  Implementation-discovered:
  - The serve surface handles requests on separate goroutines, so the
    session needs a lock even though the CLI path is sequential.

ARCHITECTURE INTEGRATION:
  - Written by: internal/engine
  - Read by: internal/analyze, internal/api, internal/cli

ERROR HANDLING:
  - None. Absence of a current run is a valid state (nil).

IMPLEMENTATION RULES:
  - Consumers get the RunResult pointer captured at call time; a run that
    completes during a pending analysis does not retroactively change
    what that analysis saw.

USAGE:
  sess := engine.NewSession()
  run := sess.Current()

RELATED FILES:
  - internal/engine/engine.go

MAINTENANCE:
  - Keep this the only holder of cross-run state.
*/

package engine

import (
	"sync"

	"github.com/sidereal-labs/powertrace/internal/model"
)

// Session holds the current result set and the run counter for one
// application session. Zero value is not usable; use NewSession.
type Session struct {
	mu      sync.RWMutex
	current *model.RunResult
	runs    int
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// Current returns the result of the most recent completed run, or nil
// when no run has completed yet. The returned value is treated as
// immutable by all consumers.
func (s *Session) Current() *model.RunResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Runs returns the number of completed runs in this session.
func (s *Session) Runs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs
}

// complete installs a finished run as the current result set and bumps
// the counter. Called only by the engine.
func (s *Session) complete(r *model.RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	r.Seq = s.runs
	s.current = r
}
