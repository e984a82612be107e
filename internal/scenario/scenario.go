/*
PURPOSE:
  Turns a natural-language scenario description into a bus-value sequence
  via the AI text service, then runs it through the simulation engine.

REQUIREMENTS:
  User-specified:
  - Prompt must demand a strict JSON array of N integers in [0,255] with
    no markdown wrapper.
  - Markdown code fences in the response are stripped before parsing.
  - Not-JSON / not-an-array responses are format failures; the session
    stays untouched.
  - Non-numeric array elements coerce to 0 (total pipeline over
    untrusted AI output).
  - Overlapping generations are rejected, not queued.

  Implementation-discovered:
  - Models wrap output in ```json fences no matter how firmly told not
    to; strip both the tagged and bare variants.
  - json.Number array elements may legitimately be floats; truncate and
    clamp like any other external value.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli, internal/api
  - Uses: internal/ai, internal/engine, internal/faults

ERROR HANDLING:
  - Empty description / busy generator -> faults.Precondition.
  - AI transport errors pass through unchanged.
  - Parse failures -> faults.Format.

IMPLEMENTATION RULES:
  - One AI exchange per Generate. No retries.
  - TryLock guard: a pending generation makes the next caller fail fast.

USAGE:
  gen := scenario.NewGenerator(client, eng)
  run, err := gen.Generate(ctx, model.ScenarioRequest{Description: "blinking LED", SampleCount: 8})

RELATED FILES:
  - internal/ai/client.go
  - internal/engine/engine.go

MAINTENANCE:
  - Keep the prompt in sync with what current models actually honor.
*/

package scenario

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sidereal-labs/powertrace/internal/ai"
	"github.com/sidereal-labs/powertrace/internal/engine"
	"github.com/sidereal-labs/powertrace/internal/faults"
	"github.com/sidereal-labs/powertrace/internal/model"
	"github.com/sidereal-labs/powertrace/internal/output"
)

// maxSamples bounds the sequence length we ask the model for.
const maxSamples = 50

// Generator produces scenario-driven simulation runs.
type Generator struct {
	client ai.Exchanger
	engine *engine.Engine

	// inflight guards against overlapping generations; TryLock makes the
	// second caller fail immediately instead of queuing.
	inflight sync.Mutex
}

// NewGenerator creates a Generator.
func NewGenerator(client ai.Exchanger, eng *engine.Engine) *Generator {
	return &Generator{
		client: client,
		engine: eng,
	}
}

// Generate asks the AI service for a synthetic sequence matching the
// description and runs it through the engine. On any failure the
// session's current result set is left untouched.
func (g *Generator) Generate(ctx context.Context, req model.ScenarioRequest) (*model.RunResult, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, faults.Precondition("scenario description is empty")
	}

	if !g.inflight.TryLock() {
		return nil, faults.Precondition("a scenario generation is already in progress")
	}
	defer g.inflight.Unlock()

	count := req.SampleCount
	if count < 1 {
		count = 1
	}
	if count > maxSamples {
		count = maxSamples
	}

	prompt := buildPrompt(req.Description, count)

	text, err := g.client.Exchange(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("scenario generation: %w", err)
	}

	values, err := parseSequence(text)
	if err != nil {
		return nil, err
	}

	if len(values) != count {
		// The model ignored the count. The external-data rule applies:
		// the sequence length wins. Worth a log line, not a failure.
		output.Logger.Warn("AI returned unexpected sequence length",
			"requested", count, "got", len(values))
	}

	return g.engine.RunExternal(values, model.ModeScenario), nil
}

func buildPrompt(description string, count int) string {
	return fmt.Sprintf(
		"Generate a JSON array of exactly %d integers between 0 and 255 representing "+
			"8-bit data bus values for this scenario: %q. "+
			"Respond with ONLY the raw JSON array, no markdown, no code fences, no explanation.",
		count, description)
}

// stripFences removes a markdown code-fence wrapper, tagged or bare.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseSequence parses the cleaned response as a JSON array. Numeric
// elements pass through (truncation and clamping happen in the engine);
// anything else coerces to 0.
func parseSequence(text string) ([]float64, error) {
	cleaned := stripFences(text)

	var raw any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, faults.Format("AI response is not valid JSON", err)
	}

	arr, ok := raw.([]any)
	if !ok {
		return nil, faults.Format(fmt.Sprintf("AI response is %T, not an array", raw), nil)
	}

	values := make([]float64, len(arr))
	for i, el := range arr {
		if n, ok := el.(float64); ok {
			values[i] = n
		}
		// non-numeric entries stay 0
	}
	return values, nil
}
