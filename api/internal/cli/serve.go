package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"speech-coach/api/internal/handle"
	"speech-coach/api/internal/httpserver"
)

func (a *app) serveCmd() *cobra.Command {
	var port, staticDir string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (POST /api/analyze)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if staticDir != "" {
				cfg.StaticDir = staticDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = log.WithContext(ctx)

			api := handle.New(a.service(ctx, cfg), cfg.MaxBodyBytes)
			srv := httpserver.New(cfg.Addr(), httpserver.Handler(api, cfg.StaticDir, log))
			return httpserver.Run(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port or host:port (overrides config and PORT)")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory with the web UI served at /")
	return cmd
}
