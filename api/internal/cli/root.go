package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"speech-coach/api/internal/config"
	"speech-coach/api/internal/speech"
	"speech-coach/api/internal/speech/gemini"
)

// app carries what every subcommand needs. provider is swappable in tests.
type app struct {
	cfgFile  string
	logLevel string
	pretty   bool

	provider func(cfg *config.Config) speech.Provider
	stderr   io.Writer
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		provider: func(cfg *config.Config) speech.Provider { return gemini.New(cfg.GeminiEndpoint) },
		stderr:   os.Stderr,
	})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "speech-coach",
		Short:         "Speech feedback service backed by Gemini",
		Long:          `Scores a recorded speech and returns structured coaching feedback. Serves an HTTP API, a Telegram bot, or analyzes a local file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./speech-coach.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.pretty, "pretty", false, "human-readable console logs")

	root.AddCommand(a.serveCmd(), a.botCmd(), a.analyzeCmd(), a.profilesCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.pretty {
		cfg.Log.Pretty = true
	}
	log, err := newLogger(cfg.Log, a.stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func newLogger(lc config.LogConfig, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(lc.Level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if lc.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

func (a *app) service(ctx context.Context, cfg *config.Config) *speech.Service {
	svc := speech.NewService(a.provider(cfg), cfg.APIKeys, cfg.Profiles, cfg.DefaultProfile, speech.Options{
		AttemptTimeout:      cfg.AttemptTimeout,
		RetryInvalidRequest: cfg.RetryInvalidRequest,
	})
	log := zerolog.Ctx(ctx)
	if svc.Credentials() == 0 {
		log.Warn().Msg("no Gemini API key configured, analysis requests will fail")
	} else {
		log.Info().Int("credentials", svc.Credentials()).Str("default_profile", svc.DefaultProfile()).Msg("analyzer ready")
	}
	return svc
}
