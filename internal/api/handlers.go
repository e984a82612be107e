/*
PURPOSE:
  REST handlers driving the simulation pipeline from the browser.

REQUIREMENTS:
  User-specified:
  - POST /api/simulate with {samples} runs random mode; with {data}
    runs external mode (data wins when both are present).
  - POST /api/scenario runs the AI scenario flow.
  - POST /api/analyze returns the AI interpretation of the current set.
  - GET /api/results returns the current run; GET /api/status the
    session counters.

  Implementation-discovered:
  - Completed runs are also broadcast on the WebSocket hub so open
    pages update live.

ARCHITECTURE INTEGRATION:
  - Part of: internal/api
  - Uses: internal/engine, internal/scenario, internal/analyze, internal/faults

ERROR HANDLING:
  - Fault categories map to HTTP statuses: precondition -> 400,
    transport/format -> 502, everything else -> 500. The category is
    echoed in the JSON payload so the frontend can phrase the message.

IMPLEMENTATION RULES:
  - Handlers never write to the session directly; the engine does.

USAGE:
  Registered by server.routes().

RELATED FILES:
  - internal/api/server.go
  - internal/faults/faults.go

MAINTENANCE:
  - Keep the error mapping in writeError only.
*/

package api

import (
	"encoding/json"
	"net/http"

	"github.com/sidereal-labs/powertrace/internal/faults"
	"github.com/sidereal-labs/powertrace/internal/model"
)

type errorPayload struct {
	Error    string `json:"error"`
	Category string `json:"category"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	category := faults.CategoryOf(err)
	status := http.StatusInternalServerError
	switch category {
	case faults.CategoryPrecondition:
		status = http.StatusBadRequest
	case faults.CategoryTransport, faults.CategoryFormat:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorPayload{
		Error:    err.Error(),
		Category: string(category),
	})
}

type statusResponse struct {
	Runs    int `json:"runs"`
	Records int `json:"records"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.engine.Session()
	records := 0
	if run := sess.Current(); run != nil {
		records = len(run.Records)
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Runs:    sess.Runs(),
		Records: records,
	})
}

type simulateRequest struct {
	Samples int       `json:"samples"`
	Data    []float64 `json:"data"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.Precondition("invalid request body: "+err.Error()))
		return
	}

	var run *model.RunResult
	if len(req.Data) > 0 {
		run = s.engine.RunExternal(req.Data, model.ModeExternal)
	} else {
		run = s.engine.RunRandom(req.Samples)
	}

	s.hub.BroadcastRun(run)
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	var req model.ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, faults.Precondition("invalid request body: "+err.Error()))
		return
	}

	run, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	s.hub.BroadcastRun(run)
	writeJSON(w, http.StatusOK, run)
}

type analyzeResponse struct {
	Analysis string `json:"analysis"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, err := s.analyzer.Analyze(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: text})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	run := s.engine.Session().Current()
	if run == nil {
		writeError(w, faults.Precondition("no simulation has run yet"))
		return
	}
	writeJSON(w, http.StatusOK, run)
}
