/*
PURPOSE:
  The simulation engine. Produces a sequence of bus values (random or
  externally supplied), computes per-value metrics via bitmetrics, and
  installs the assembled result set into the session.

REQUIREMENTS:
  User-specified:
  - Random mode: requested count clamped to [1,max]; values drawn
    uniformly from [0,255] with a non-cryptographic source.
  - External mode: the sequence length wins over any requested count;
    every element is clamped through the bitmetrics domain rule.
  - Output order equals input/generation order. No reordering, no dedup.
  - Counter +1 per completed run, not per record.

  Implementation-discovered:
  - math/rand/v2 is the right non-crypto source.
  - The transition-aware bus power model needs the previous value; the
    chain starts from 0 at the first record of every run.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli, internal/scenario, internal/api
  - Uses: internal/bitmetrics, internal/config, internal/model

ERROR HANDLING:
  - None. Both run modes are total; malformed external entries are
    coerced upstream (scenario parsing) or rejected at flag parsing (CLI).

IMPLEMENTATION RULES:
  - A run always builds a fresh record slice; never mutate a published
    RunResult.
  - Bus power values are rounded to 2 decimals at creation so every
    surface (CSV, JSON, digest) agrees.

USAGE:
  eng := engine.New(cfg, sess)
  run := eng.RunRandom(20)

RELATED FILES:
  - internal/bitmetrics/bitmetrics.go
  - internal/engine/session.go
  - internal/engine/stats.go

MAINTENANCE:
  - Update buildRecords when adding metric fields.
*/

package engine

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/sidereal-labs/powertrace/internal/bitmetrics"
	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/model"
)

// Engine runs simulations against a session.
type Engine struct {
	power      config.PowerConfig
	maxSamples int
	session    *Session
}

// New creates an engine bound to a session.
func New(cfg *config.Config, sess *Session) *Engine {
	max := cfg.MaxSamples
	if max < 1 {
		max = 1
	}
	return &Engine{
		power:      cfg.Power,
		maxSamples: max,
		session:    sess,
	}
}

// Session returns the session this engine writes to.
func (e *Engine) Session() *Session {
	return e.session
}

// RunRandom simulates n uniformly random bus values. n is clamped to
// [1,maxSamples] to keep interactive runs small.
func (e *Engine) RunRandom(n int) *model.RunResult {
	if n < 1 {
		n = 1
	}
	if n > e.maxSamples {
		n = e.maxSamples
	}

	values := make([]uint8, n)
	for i := range values {
		values[i] = uint8(rand.IntN(bitmetrics.MaxValue + 1))
	}

	return e.complete(model.ModeRandom, values)
}

// RunExternal simulates an externally supplied sequence. The sequence
// length overrides any requested count; each element is clamped into
// the bus domain. The mode tags where the data came from (external or
// scenario).
func (e *Engine) RunExternal(data []float64, mode model.RunMode) *model.RunResult {
	values := make([]uint8, len(data))
	for i, v := range data {
		values[i] = bitmetrics.Clamp(v)
	}
	return e.complete(mode, values)
}

func (e *Engine) complete(mode model.RunMode, values []uint8) *model.RunResult {
	run := &model.RunResult{
		ID:        uuid.New(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
		Records:   e.buildRecords(values),
	}
	run.Stats = computeStats(run.Records)
	e.session.complete(run)
	return run
}

// buildRecords computes the per-value metrics in order. The transition
// chain starts from a quiescent bus (previous value 0).
func (e *Engine) buildRecords(values []uint8) []model.MetricRecord {
	records := make([]model.MetricRecord, len(values))
	prev := uint8(0)

	for i, v := range values {
		weight := bitmetrics.HammingWeight(v)
		distance := bitmetrics.HammingDistance(v, prev)
		power := e.power.Base + e.power.Leakage*float64(weight) + e.power.Transition*float64(distance)

		records[i] = model.MetricRecord{
			Index:           i,
			Value:           v,
			Binary:          bitmetrics.Binary(v),
			HammingWeight:   weight,
			PowerProxy:      bitmetrics.PowerProxy(weight),
			HammingDistance: distance,
			BusPower:        math.Round(power*100) / 100,
		}
		prev = v
	}
	return records
}
