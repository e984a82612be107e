/*
PURPOSE:
  Writes the metric records of a simulation run to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Output the full trace as rows of (value, binary, weight, power).

  Implementation-discovered:
  - Overwrite on create; a trace file describes exactly one run.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Consumes: internal/model.MetricRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (crash resilience).
  - Mutex-guarded; the serve surface may write concurrently.

USAGE:
  w, err := output.NewCSVWriter("power_trace.csv")
  w.Write(rec)
  w.Close()

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when MetricRecord changes.
*/

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/sidereal-labs/powertrace/internal/model"
)

// CSVWriter handles writing metric records to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)

	header := []string{
		"index", "value", "binary", "hamming_weight", "power_proxy",
		"hamming_distance", "bus_power",
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single metric record to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.MetricRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		fmt.Sprintf("%d", r.Index),
		fmt.Sprintf("%d", r.Value),
		r.Binary,
		fmt.Sprintf("%d", r.HammingWeight),
		fmt.Sprintf("%.2f", r.PowerProxy),
		fmt.Sprintf("%d", r.HammingDistance),
		fmt.Sprintf("%.2f", r.BusPower),
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// WriteAll writes every record of a run in order.
func (cw *CSVWriter) WriteAll(records []model.MetricRecord) error {
	for _, r := range records {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}
