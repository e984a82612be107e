/*
PURPOSE:
  Defines the core data structures used throughout powertrace.
  These models represent simulated bus values, their per-value metrics,
  and the result set of one simulation run.

REQUIREMENTS:
  User-specified:
  - Record value, 8-bit binary rendering, Hamming weight, power proxy.
  - Order of records equals simulation order.

  Implementation-discovered:
  - Need JSON tags for the browser API.
  - The richer bus power model (base + leakage + transition) needs the
    Hamming distance against the previous value.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/analyze, internal/api, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - MetricRecord is immutable after creation; nothing downstream writes to it.

USAGE:
  rec := model.MetricRecord{Value: 0xAA, ...}

RELATED FILES:
  - internal/engine/engine.go - creates these.
  - internal/output/csv.go, internal/output/json.go - serialize these.

MAINTENANCE:
  - Update CSV/JSON writers when adding metric fields.
*/

package model

import (
	"time"

	"github.com/google/uuid"
)

// RunMode identifies how the values of a run were produced.
type RunMode string

const (
	ModeRandom   RunMode = "random"   // drawn uniformly from [0,255]
	ModeExternal RunMode = "external" // caller-supplied sequence
	ModeScenario RunMode = "scenario" // AI-generated sequence
)

// MetricRecord holds the metrics for a single simulated bus value.
type MetricRecord struct {
	Index         int     `json:"index"`
	Value         uint8   `json:"value"`
	Binary        string  `json:"binary"`
	HammingWeight int     `json:"hamming_weight"`
	PowerProxy    float64 `json:"power_proxy"`

	// Transition metrics relative to the previous bus state (0 for the
	// first record of a run).
	HammingDistance int     `json:"hamming_distance"`
	BusPower        float64 `json:"bus_power"`
}

// Stats summarizes the bus power trace of one run.
type Stats struct {
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Median      float64 `json:"median"`
	TotalEnergy float64 `json:"total_energy"`
}

// RunResult is the outcome of a single simulation run. It replaces the
// previous run's result set wholesale; records are never appended across
// runs.
type RunResult struct {
	ID        uuid.UUID      `json:"id"`
	Seq       int            `json:"seq"` // session run counter at completion
	Mode      RunMode        `json:"mode"`
	StartedAt time.Time      `json:"started_at"`
	Records   []MetricRecord `json:"records"`
	Stats     Stats          `json:"stats"`
}

// ScenarioRequest asks the AI service for a synthetic bus-value sequence.
type ScenarioRequest struct {
	Description string `json:"description"`
	SampleCount int    `json:"samples"`
}
