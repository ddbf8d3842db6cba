package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-analyzer/internal/api"
	"github.com/insightdelivered/statement-analyzer/internal/config"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
)

func newServeCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the statement upload API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			log := logger.New(cfg.Log)
			h := &api.Handler{
				Analyzer: pipeline.New(cfg.Extractor.TableOptions()),
				Log:      log,
			}
			app := api.NewApp(h, cfg.Server.MaxUploadBytes())

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			go waitAndShutdown(quit, log, app.Shutdown)

			log.Info().Str("addr", cfg.Server.Addr).Str("version", Version).Msg("listening")
			return app.Listen(cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// waitAndShutdown blocks until quit fires, then stops the server.
func waitAndShutdown(quit <-chan os.Signal, log zerolog.Logger, shutdown func() error) {
	<-quit
	log.Info().Msg("shutting down")
	if err := shutdown(); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
