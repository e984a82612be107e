/*
PURPOSE:
  Defines the root Cobra command for the powertrace CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/powertrace/main.go
  - Calls: Child commands (run, scenario, serve)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands.

USAGE:
  Called by main.go.

RELATED FILES:
  - cmd/powertrace/main.go

MAINTENANCE:
  - Update when adding global configuration options.
*/

package cli

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "powertrace",
		Short: "Hamming-weight power-proxy simulator for an 8-bit data bus",
		Long: `powertrace simulates power-consumption proxies for an 8-bit data bus.
Bus values (random, user-supplied, or AI-generated from a scenario
description) are scored by Hamming weight and a derived power proxy.
Use 'serve' to back the browser dashboard, or 'run'/'scenario' for
one-shot simulations on the command line.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./powertrace.yaml)")
}
