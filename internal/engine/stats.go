/*
PURPOSE:
  Summary statistics over the bus power trace of one run.

REQUIREMENTS:
  User-specified:
  - Mean, standard deviation, min, max, median and total energy.

  Implementation-discovered:
  - Population (not sample) standard deviation; the trace is the whole
    population of the run.
  - Median of an even-length trace is the mean of the two middle values.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumed by: internal/api, internal/cli log lines

ERROR HANDLING:
  - Empty trace yields the zero Stats.

IMPLEMENTATION RULES:
  - Operate on a sorted copy; never reorder the records themselves.

USAGE:
  st := computeStats(run.Records)

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - None.
*/

package engine

import (
	"math"
	"sort"

	"github.com/sidereal-labs/powertrace/internal/model"
)

func computeStats(records []model.MetricRecord) model.Stats {
	if len(records) == 0 {
		return model.Stats{}
	}

	trace := make([]float64, len(records))
	for i, r := range records {
		trace[i] = r.BusPower
	}

	var sum float64
	min, max := trace[0], trace[0]
	for _, p := range trace {
		sum += p
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	mean := sum / float64(len(trace))

	var sq float64
	for _, p := range trace {
		d := p - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(trace)))

	sorted := make([]float64, len(trace))
	copy(sorted, trace)
	sort.Float64s(sorted)

	var median float64
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = sorted[mid]
	} else {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return model.Stats{
		Mean:        round2(mean),
		Std:         round2(std),
		Min:         min,
		Max:         max,
		Median:      round2(median),
		TotalEnergy: round2(sum),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
