/*
PURPOSE:
  Writes metric records to a JSON Lines file (NDJSON).
  Optimized for machine parsing of traces.

REQUIREMENTS:
  User-specified:
  - JSON output for easier downstream analysis.

  Implementation-discovered:
  - JSON Lines is better for streaming/logging than a single large array
    (append-friendly).

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Consumes: internal/model.MetricRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("power_trace.jsonl")
  w.Write(rec)
  w.Close()

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update if we switch to plain JSON array (not recommended for streaming).
*/

package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/sidereal-labs/powertrace/internal/model"
)

// JSONWriter handles writing metric records to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single metric record as a JSON line.
func (jw *JSONWriter) Write(r model.MetricRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// WriteAll writes every record of a run in order.
func (jw *JSONWriter) WriteAll(records []model.MetricRecord) error {
	for _, r := range records {
		if err := jw.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}
