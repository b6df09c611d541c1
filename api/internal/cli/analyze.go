package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"speech-coach/api/internal/report"
	"speech-coach/api/internal/speech/types"
)

func (a *app) analyzeCmd() *cobra.Command {
	var mimeType, profile string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a local video or audio file once and print the feedback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := a.setup()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if mimeType == "" {
				mimeType = sniffMIME(data)
			}

			ctx, stop := signal.NotifyContext(log.WithContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := a.service(ctx, cfg).Analyze(ctx, types.Request{Media: data, MIMEType: mimeType, Profile: profile})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			_, err = fmt.Fprintln(out, report.Text(res))
			return err
		},
	}
	cmd.Flags().StringVar(&mimeType, "mime", "", "media MIME type (sniffed from content when empty)")
	cmd.Flags().StringVar(&profile, "profile", "", "feedback profile (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw result as JSON")
	return cmd
}

// sniffMIME guesses the media type from content, defaulting to video/mp4
// when the content is not recognized as audio or video.
func sniffMIME(data []byte) string {
	mt, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	mt = strings.TrimSpace(mt)
	if strings.HasPrefix(mt, "video/") || strings.HasPrefix(mt, "audio/") {
		return mt
	}
	return types.DefaultMIMEType
}
