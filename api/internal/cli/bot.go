package cli

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"speech-coach/api/internal/httpserver"
	"speech-coach/api/internal/telegram"
)

func (a *app) botCmd() *cobra.Command {
	var webhookURL string
	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot (long polling, or webhook with --webhook-url)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup()
			if err != nil {
				return err
			}
			if webhookURL != "" {
				cfg.Telegram.WebhookURL = webhookURL
			}
			if cfg.Telegram.Token == "" {
				return errors.New("telegram token is empty: set TELEGRAM_BOT_TOKEN or telegram.token")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = log.WithContext(ctx)

			bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
			if err != nil {
				return err
			}
			log.Info().Str("bot", bot.Self.UserName).Msg("telegram authorized")

			r := telegram.NewRouter(bot, a.service(ctx, cfg), telegram.Options{
				MaxFileBytes: cfg.Telegram.MaxFileBytes,
			})
			dispatch := func(u tgbotapi.Update) { r.Dispatch(ctx, u) }

			mux := http.NewServeMux()
			mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("ok"))
			})

			g, gctx := errgroup.WithContext(ctx)
			if base := strings.TrimSpace(cfg.Telegram.WebhookURL); base != "" {
				path, err := telegram.SetWebhook(bot, base)
				if err != nil {
					return err
				}
				mux.Handle(path, telegram.WebhookHandler(bot, dispatch))
				log.Info().Str("path", path).Msg("webhook mode")
			} else {
				if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
					log.Warn().Err(err).Msg("delete webhook")
				}
				g.Go(func() error {
					telegram.RunPolling(gctx, bot, cfg.Telegram.PollTimeout, dispatch)
					return nil
				})
				log.Info().Msg("polling mode")
			}
			g.Go(func() error {
				return httpserver.Run(gctx, httpserver.New(cfg.Addr(), httpserver.Wrap(mux, log)))
			})
			err = g.Wait()
			log.Info().Msg("waiting for in-flight analyses")
			r.Wait()
			return err
		},
	}
	cmd.Flags().StringVar(&webhookURL, "webhook-url", "", "public base URL for webhook mode")
	return cmd
}
