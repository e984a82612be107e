/*
PURPOSE:
  Defines the 'scenario' subcommand.
  Asks the AI service to synthesize a bus-value sequence for a
  natural-language scenario, then simulates it.

REQUIREMENTS:
  User-specified:
  - Scenario description as positional args; sample count via -n.
  - Requires a configured AI credential.

  Implementation-discovered:
  - Reuses the run command's trace writing and --analyze behavior.

ARCHITECTURE INTEGRATION:
  - Calls: internal/scenario, internal/engine
  - Uses: internal/ai, internal/config, internal/output

ERROR HANDLING:
  - Generation failures (transport or format) are returned as command
    errors; the session had nothing to lose in one-shot mode.

IMPLEMENTATION RULES:
  - One generation per invocation; no retries.

USAGE:
  powertrace scenario "blinking LED status register" -n 16
  powertrace scenario "bus idle with rare bursts" -n 32 --analyze

RELATED FILES:
  - internal/scenario/scenario.go
  - internal/cli/run.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidereal-labs/powertrace/internal/ai"
	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/engine"
	"github.com/sidereal-labs/powertrace/internal/model"
	"github.com/sidereal-labs/powertrace/internal/output"
	"github.com/sidereal-labs/powertrace/internal/scenario"
)

var (
	scenarioSamples int
	scenarioAnalyze bool
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario [description]",
	Short: "Generate a bus-value sequence from a scenario description via AI",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}

		sess := engine.NewSession()
		eng := engine.New(cfg, sess)
		client := ai.NewClient(cfg.AI)
		gen := scenario.NewGenerator(client, eng)

		run, err := gen.Generate(cmd.Context(), model.ScenarioRequest{
			Description: strings.Join(args, " "),
			SampleCount: scenarioSamples,
		})
		if err != nil {
			return err
		}

		output.Logger.Info("scenario simulated",
			"records", len(run.Records),
			"mean_power", run.Stats.Mean,
		)

		if err := writeTrace(cfg, run); err != nil {
			return err
		}

		if scenarioAnalyze {
			runAnalysis(cmd, cfg, sess)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenarioCmd)

	scenarioCmd.Flags().IntVarP(&scenarioSamples, "samples", "n", 10, "Number of values to request (1-50)")
	scenarioCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for trace files")
	scenarioCmd.Flags().BoolVar(&scenarioAnalyze, "analyze", false, "Ask the AI service to interpret the result set")
}
