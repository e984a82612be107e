/*
PURPOSE:
  Pure bit-level metrics for a single 8-bit bus value.
  Clamping, Hamming weight, power proxy and Hamming distance.

REQUIREMENTS:
  User-specified:
  - Clamp any numeric input into [0,255] (truncate, then saturate).
  - Hamming weight in [0,8]; power proxy = weight * 1.2 rounded to 2 decimals.

  Implementation-discovered:
  - math/bits gives the popcount; no need to hand-roll it.
  - Hamming distance between consecutive values drives the transition
    term of the bus power model.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/scenario, internal/api
  - Depends on: stdlib only (deliberately; this is the leaf).

ERROR HANDLING:
  - None. Every function here is total over its clamped domain.

IMPLEMENTATION RULES:
  - No side effects, no state. Keep it trivially testable.

USAGE:
  v := bitmetrics.Clamp(300)        // 255
  w := bitmetrics.HammingWeight(v)  // 8
  p := bitmetrics.PowerProxy(w)     // 9.6

RELATED FILES:
  - internal/engine/engine.go
  - internal/model/types.go

MAINTENANCE:
  - Coefficient of the power proxy (1.2) is fixed by the display contract;
    do not make it configurable here. The richer bus power model lives in
    the engine and is configurable there.
*/

package bitmetrics

import (
	"fmt"
	"math"
	"math/bits"
)

// BusWidth is the simulated data bus width in bits.
const BusWidth = 8

// MaxValue is the largest representable bus value.
const MaxValue = (1 << BusWidth) - 1

// proxyFactor converts a Hamming weight into the display power proxy.
const proxyFactor = 1.2

// Clamp constrains an arbitrary numeric input to a valid bus value.
// The input is truncated toward its integer part, then saturated into
// [0,255]. NaN maps to 0.
func Clamp(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	t := math.Trunc(v)
	if t < 0 {
		return 0
	}
	if t > MaxValue {
		return MaxValue
	}
	return uint8(t)
}

// ClampInt constrains an integer to a valid bus value.
func ClampInt(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > MaxValue {
		return MaxValue
	}
	return uint8(v)
}

// HammingWeight returns the number of set bits in v. Range [0,8].
func HammingWeight(v uint8) int {
	return bits.OnesCount8(v)
}

// HammingDistance returns the number of differing bits between a and b.
func HammingDistance(a, b uint8) int {
	return bits.OnesCount8(a ^ b)
}

// PowerProxy derives the synthetic power figure from a Hamming weight,
// rounded to two decimal places.
func PowerProxy(weight int) float64 {
	return math.Round(float64(weight)*proxyFactor*100) / 100
}

// Binary renders v as a zero-padded 8-bit binary string.
func Binary(v uint8) string {
	return fmt.Sprintf("%08b", v)
}
