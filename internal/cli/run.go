/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes one simulation run (random or user-supplied data) and writes
  the trace to CSV and JSON Lines.

REQUIREMENTS:
  User-specified:
  - Random mode with a sample count, or external mode with --data.
  - Optional AI analysis of the fresh result set (--analyze).

  Implementation-discovered:
  - Need to load config first, then apply flag overrides.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine, internal/analyze
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error if config load, data parsing, or output writing fails.
  - AI analysis failures are reported but do not fail the run; the trace
    is already on disk.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Simulate -> Write -> (Analyze).

USAGE:
  powertrace run -n 20
  powertrace run --data 0,255,0,255,170,85 --analyze

RELATED FILES:
  - internal/cli/root.go
  - internal/cli/scenario.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sidereal-labs/powertrace/internal/ai"
	"github.com/sidereal-labs/powertrace/internal/analyze"
	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/engine"
	"github.com/sidereal-labs/powertrace/internal/model"
	"github.com/sidereal-labs/powertrace/internal/output"
)

var (
	samplesFlag    int
	dataFlag       string
	outputOverride string
	analyzeFlag    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and write the trace",
	Long: `Runs one simulation of the 8-bit bus and writes the resulting trace
to CSV and JSON Lines files in the output directory.

Without --data, values are drawn uniformly at random; the sample count
is bounded to 1-50. With --data, the supplied comma-separated integers
are used as-is (clamped into 0-255) and the count is their length.`,
	Example: `  # 20 random bus values
  powertrace run -n 20

  # A specific sequence (clamped into 0-255)
  powertrace run --data 0,255,0,255,170,85

  # Ask the AI service to interpret the result set afterwards
  powertrace run -n 30 --analyze`,
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

		var run *model.RunResult
		if dataFlag != "" {
			data, err := parseDataFlag(dataFlag)
			if err != nil {
				return err
			}
			run = eng.RunExternal(data, model.ModeExternal)
		} else {
			run = eng.RunRandom(samplesFlag)
		}

		output.Logger.Info("simulation complete",
			"run", run.Seq,
			"mode", run.Mode,
			"records", len(run.Records),
			"mean_power", run.Stats.Mean,
			"total_energy", run.Stats.TotalEnergy,
		)

		if err := writeTrace(cfg, run); err != nil {
			return err
		}

		if analyzeFlag {
			runAnalysis(cmd, cfg, sess)
		}
		return nil
	},
}

// parseDataFlag parses a comma-separated integer list.
func parseDataFlag(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	data := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid data value %q: %w", p, err)
		}
		data = append(data, v)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("--data contained no values")
	}
	return data, nil
}

// writeTrace writes the run's records to the configured CSV and JSON
// Lines files.
func writeTrace(cfg *config.Config, run *model.RunResult) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	csvPath := filepath.Join(cfg.OutputDir, cfg.OutputFile)
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	jsonPath := strings.TrimSuffix(csvPath, filepath.Ext(csvPath)) + ".jsonl"
	jsonWriter, err := output.NewJSONWriter(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
	}
	defer jsonWriter.Close()

	if err := csvWriter.WriteAll(run.Records); err != nil {
		return err
	}
	if err := jsonWriter.WriteAll(run.Records); err != nil {
		return err
	}

	output.Logger.Info("trace written", "csv", csvPath, "json", jsonPath)
	return nil
}

// runAnalysis asks the AI service for an interpretation and prints it.
// Failures are logged, not fatal; the simulation already succeeded.
func runAnalysis(cmd *cobra.Command, cfg *config.Config, sess *engine.Session) {
	an := analyze.NewAnalyzer(ai.NewClient(cfg.AI), sess)
	text, err := an.Analyze(cmd.Context())
	if err != nil {
		output.Logger.Error("analysis failed", "error", err)
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&samplesFlag, "samples", "n", 10, "Number of random samples (1-50)")
	runCmd.Flags().StringVar(&dataFlag, "data", "", "Comma-separated bus values (overrides --samples)")
	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for trace files")
	runCmd.Flags().BoolVar(&analyzeFlag, "analyze", false, "Ask the AI service to interpret the result set")
}
