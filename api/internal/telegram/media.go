package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var errFileTooLarge = errors.New("file is too large")

type mediaRef struct {
	Kind   string
	FileID string
	MIME   string
	Size   int64
}

// mediaOf picks the analyzable attachment of a message: video, video note,
// voice, audio, or a document with a video/audio MIME type.
func mediaOf(m *tgbotapi.Message) (mediaRef, bool) {
	switch {
	case m == nil:
		return mediaRef{}, false
	case m.Video != nil:
		return mediaRef{"video", m.Video.FileID, orDefault(m.Video.MimeType, "video/mp4"), int64(m.Video.FileSize)}, true
	case m.VideoNote != nil:
		return mediaRef{"video_note", m.VideoNote.FileID, "video/mp4", int64(m.VideoNote.FileSize)}, true
	case m.Voice != nil:
		return mediaRef{"voice", m.Voice.FileID, orDefault(m.Voice.MimeType, "audio/ogg"), int64(m.Voice.FileSize)}, true
	case m.Audio != nil:
		return mediaRef{"audio", m.Audio.FileID, orDefault(m.Audio.MimeType, "audio/mpeg"), int64(m.Audio.FileSize)}, true
	case m.Document != nil:
		mt := strings.ToLower(strings.TrimSpace(m.Document.MimeType))
		if strings.HasPrefix(mt, "video/") || strings.HasPrefix(mt, "audio/") {
			return mediaRef{"document", m.Document.FileID, mt, int64(m.Document.FileSize)}, true
		}
	}
	return mediaRef{}, false
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// download fetches a Bot API file, reading at most max bytes (0 = unlimited).
// Errors never carry the URL, it contains the bot token.
func download(ctx context.Context, hc *http.Client, fileURL string, max int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, errors.New("download: bad file url")
	}
	resp, err := hc.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: status %d", resp.StatusCode)
	}
	body := io.Reader(resp.Body)
	if max > 0 {
		body = io.LimitReader(resp.Body, max+1)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	if max > 0 && int64(len(b)) > max {
		return nil, errFileTooLarge
	}
	return b, nil
}
