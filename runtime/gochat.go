package main

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/requiem-ai/gochat/config"
	"github.com/requiem-ai/gochat/context"
	"github.com/requiem-ai/gochat/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
	zerolog.TimeFieldFormat = time.RFC3339

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatal().Err(err).Msg("Error loading .env file")
	}

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("gochat stopped")
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	cmd := &cobra.Command{
		Use:           "gochat",
		Short:         "Chat with an OpenAI model from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}

			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			setLogLevel(cfg.LogLevel)

			return run(cfg)
		},
	}

	cmd.Flags().String("variant", config.Extended.Name, "Chat loop variant ("+strings.Join(config.VariantNames(), "|")+")")
	cmd.Flags().String("log-level", "info", "Log level (trace|debug|info|warn|error)")

	return cmd
}

func run(cfg *config.Config) error {
	ctx, err := context.NewCtx(
		&services.SetupService{Config: cfg},
		&services.CompletionService{},
		&services.SessionService{},
	)
	if err != nil {
		return err
	}

	return ctx.Run()
}

func setLogLevel(level string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "info":
		fallthrough
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Debug().Str("level", level).Msg("Setting Log Level")
}
