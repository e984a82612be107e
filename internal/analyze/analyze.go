/*
PURPOSE:
  Summarizes the current result set into a compact digest and asks the
  AI text service for a natural-language interpretation.

REQUIREMENTS:
  User-specified:
  - Digest: one value/weight/power triple per record, fixed delimiter.
  - Prompt requests a concise, at most 3-sentence, pattern-oriented
    interpretation.
  - Empty result set: nothing to analyze, no AI exchange.
  - Never mutates the result set. Response is opaque prose.

  Implementation-discovered:
  - The digest captures the result set at invocation time; a run that
    swaps the session mid-exchange does not change what this analysis
    describes.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli, internal/api
  - Uses: internal/ai, internal/engine (read-only), internal/faults

ERROR HANDLING:
  - Empty set / busy analyzer -> faults.Precondition.
  - AI failures pass through; callers report "analysis failed".

IMPLEMENTATION RULES:
  - Same TryLock in-flight guard as the scenario generator.

USAGE:
  an := analyze.NewAnalyzer(client, sess)
  text, err := an.Analyze(ctx)

RELATED FILES:
  - internal/engine/session.go
  - internal/scenario/scenario.go

MAINTENANCE:
  - Keep the digest compact; huge runs balloon the prompt.
*/

package analyze

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sidereal-labs/powertrace/internal/ai"
	"github.com/sidereal-labs/powertrace/internal/engine"
	"github.com/sidereal-labs/powertrace/internal/faults"
	"github.com/sidereal-labs/powertrace/internal/model"
)

// digestSeparator joins the per-record triples.
const digestSeparator = ", "

// Analyzer requests AI interpretations of simulation results.
type Analyzer struct {
	client  ai.Exchanger
	session *engine.Session

	inflight sync.Mutex
}

// NewAnalyzer creates an Analyzer reading from the given session.
func NewAnalyzer(client ai.Exchanger, sess *engine.Session) *Analyzer {
	return &Analyzer{
		client:  client,
		session: sess,
	}
}

// Analyze sends the current result set's digest to the AI service and
// returns the interpretation.
func (a *Analyzer) Analyze(ctx context.Context) (string, error) {
	run := a.session.Current()
	if run == nil || len(run.Records) == 0 {
		return "", faults.Precondition("no simulation results to analyze")
	}

	if !a.inflight.TryLock() {
		return "", faults.Precondition("an analysis is already in progress")
	}
	defer a.inflight.Unlock()

	prompt := buildPrompt(run)

	text, err := a.client.Exchange(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("analysis: %w", err)
	}
	return text, nil
}

func buildPrompt(run *model.RunResult) string {
	return fmt.Sprintf(
		"The following are simulated 8-bit bus power measurements as "+
			"value/hammingWeight/powerProxy triples: %s. "+
			"In at most 3 sentences, describe any pattern you see in the data "+
			"and what it suggests about the simulated bus activity.",
		Digest(run))
}

// Digest serializes the run's records into the compact triple form,
// e.g. "12/2/2.40, 255/8/9.60".
func Digest(run *model.RunResult) string {
	triples := make([]string, len(run.Records))
	for i, r := range run.Records {
		triples[i] = fmt.Sprintf("%d/%d/%.2f", r.Value, r.HammingWeight, r.PowerProxy)
	}
	return strings.Join(triples, digestSeparator)
}
