/*
PURPOSE:
  Defines the 'serve' subcommand.
  Starts the HTTP/WebSocket backend for the browser dashboard.

REQUIREMENTS:
  User-specified:
  - The dashboard drives simulations interactively; the server holds the
    session state (current result set, run counter) for its lifetime.

  Implementation-discovered:
  - Graceful shutdown on SIGINT/SIGTERM.

ARCHITECTURE INTEGRATION:
  - Calls: internal/api.NewServer
  - Uses: internal/engine, internal/scenario, internal/analyze

ERROR HANDLING:
  - Binding failures surface as command errors.

IMPLEMENTATION RULES:
  - The session lives exactly as long as the server process; restarting
    the server is the "page reload" of the CLI world.

USAGE:
  powertrace serve --port 8081

RELATED FILES:
  - internal/api/server.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidereal-labs/powertrace/internal/ai"
	"github.com/sidereal-labs/powertrace/internal/analyze"
	"github.com/sidereal-labs/powertrace/internal/api"
	"github.com/sidereal-labs/powertrace/internal/config"
	"github.com/sidereal-labs/powertrace/internal/engine"
	"github.com/sidereal-labs/powertrace/internal/output"
	"github.com/sidereal-labs/powertrace/internal/scenario"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the browser dashboard backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if serveHost != "" {
			cfg.Serve.Host = serveHost
		}
		if servePort != 0 {
			cfg.Serve.Port = servePort
		}

		sess := engine.NewSession()
		eng := engine.New(cfg, sess)
		client := ai.NewClient(cfg.AI)
		gen := scenario.NewGenerator(client, eng)
		an := analyze.NewAnalyzer(client, sess)

		srv := api.NewServer(cfg.Serve, eng, gen, an)

		// Shut down cleanly on interrupt.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			output.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "", "Interface to bind (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config)")
}
