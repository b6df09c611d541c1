package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"speech-coach/api/internal/report"
	"speech-coach/api/internal/speech"
	"speech-coach/api/internal/speech/types"
	"speech-coach/api/internal/util"
)

// Telegram rejects messages over 4096 characters.
const maxMessageRunes = 3900

// Analyzer is the part of speech.Service the bot needs.
type Analyzer interface {
	Analyze(ctx context.Context, req types.Request) (types.Result, error)
	Credentials() int
	ProfileNames() []string
	DefaultProfile() string
}

type Options struct {
	MaxFileBytes int64
	// Workers bounds concurrent analyses; updates beyond it wait.
	Workers int
}

type Router struct {
	Bot      *tgbotapi.BotAPI
	Svc      Analyzer
	Profiles *ProfileManager

	opts Options
	http *http.Client
	sem  chan struct{}
	wg   sync.WaitGroup
	// handle is HandleUpdate unless replaced in tests.
	handle func(context.Context, tgbotapi.Update)
}

func NewRouter(bot *tgbotapi.BotAPI, svc Analyzer, opts Options) *Router {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	r := &Router{
		Bot:      bot,
		Svc:      svc,
		Profiles: NewProfileManager(svc.DefaultProfile()),
		opts:     opts,
		http:     &http.Client{Timeout: 5 * time.Minute},
		sem:      make(chan struct{}, opts.Workers),
	}
	r.handle = r.HandleUpdate
	return r
}

// Dispatch handles upd on its own goroutine once a worker slot is free.
// Updates accepted before ctx ends run to completion; see Wait.
func (r *Router) Dispatch(ctx context.Context, upd tgbotapi.Update) {
	select {
	case r.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() { <-r.sem }()
		r.handle(context.WithoutCancel(ctx), upd)
	}()
}

// Wait blocks until every dispatched update has been handled.
func (r *Router) Wait() {
	r.wg.Wait()
}

func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}
	cid := msg.Chat.ID
	log := zerolog.Ctx(ctx).With().
		Str("corr_id", xid.New().String()).
		Int("update_id", upd.UpdateID).
		Int64("chat_id", cid).
		Logger()
	ctx = log.WithContext(ctx)

	if msg.IsCommand() {
		r.reply(msg, r.commandReply(cid, msg.Command(), msg.CommandArguments()))
		return
	}
	if ref, ok := mediaOf(msg); ok {
		r.acceptMedia(ctx, msg, ref)
		return
	}
	r.reply(msg, "Send me a video, video note or voice message and I will review your speech.")
}

func (r *Router) commandReply(cid int64, cmd, args string) string {
	switch cmd {
	case "start", "help":
		return "Hi! Send a short video, video note or voice message of yourself speaking English " +
			"and I will score it and list what to work on.\n" +
			"Commands: /profile, /health"
	case "health":
		if n := r.Svc.Credentials(); n > 0 {
			return fmt.Sprintf("OK: %d API key(s) configured.", n)
		}
		return "Analysis is unavailable: no API key configured."
	case "profile":
		return r.profileReply(cid, strings.TrimSpace(args))
	default:
		return "Unknown command. Try /start."
	}
}

func (r *Router) profileReply(cid int64, arg string) string {
	names := r.Svc.ProfileNames()
	if arg == "" {
		return fmt.Sprintf("Current profile: %s\nAvailable: %s\nUsage: /profile <name>",
			r.Profiles.Get(cid), strings.Join(names, ", "))
	}
	name := strings.ToLower(arg)
	if name == "default" {
		r.Profiles.Reset(cid)
		return "Profile reset to " + r.Profiles.Get(cid) + "."
	}
	if !slices.Contains(names, name) {
		return fmt.Sprintf("Unknown profile %q. Available: %s", arg, strings.Join(names, ", "))
	}
	r.Profiles.Set(cid, name)
	return "Profile set to " + name + "."
}

func (r *Router) acceptMedia(ctx context.Context, msg *tgbotapi.Message, ref mediaRef) {
	log := zerolog.Ctx(ctx)
	cid := msg.Chat.ID
	if r.opts.MaxFileBytes > 0 && ref.Size > r.opts.MaxFileBytes {
		r.reply(msg, tooLargeText(r.opts.MaxFileBytes))
		return
	}
	log.Info().Str("kind", ref.Kind).Str("mime", ref.MIME).Int64("size", ref.Size).Msg("media received")
	r.reply(msg, "Got it, analyzing your speech. This can take a minute.")
	_, _ = r.Bot.Request(tgbotapi.NewChatAction(cid, tgbotapi.ChatTyping))

	fileURL, err := r.Bot.GetFileDirectURL(ref.FileID)
	if err != nil {
		log.Warn().Err(err).Msg("get file")
		r.reply(msg, "Could not fetch the file from Telegram, please try again.")
		return
	}
	data, err := download(ctx, r.http, fileURL, r.opts.MaxFileBytes)
	if err != nil {
		log.Warn().Err(err).Msg("download")
		if errors.Is(err, errFileTooLarge) {
			r.reply(msg, tooLargeText(r.opts.MaxFileBytes))
			return
		}
		r.reply(msg, "Could not download the file, please try again.")
		return
	}

	res, err := r.Svc.Analyze(ctx, types.Request{Media: data, MIMEType: ref.MIME, Profile: r.Profiles.Get(cid)})
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		r.reply(msg, failureText(err))
		return
	}
	r.reply(msg, util.ClampRunes(report.Text(res), maxMessageRunes))
}

func failureText(err error) string {
	var ex *speech.ExhaustedError
	switch {
	case errors.Is(err, speech.ErrNoCredentials):
		return "Analysis is unavailable: the server has no API key configured."
	case errors.Is(err, speech.ErrEmptyMedia):
		return "The file is empty."
	case errors.Is(err, speech.ErrUnknownProfile):
		return "Your profile no longer exists, use /profile default."
	case errors.As(err, &ex) && ex.ShortCircuit:
		return "The AI could not process this file. Try another format or a shorter clip."
	case errors.As(err, &ex):
		return "AI analysis failed, please try again later."
	case errors.Is(err, context.DeadlineExceeded):
		return "The analysis took too long, please send a shorter clip."
	default:
		return "Analysis failed, please try again later."
	}
}

func tooLargeText(max int64) string {
	return fmt.Sprintf("The file is too large, the limit is %d MB.", max>>20)
}

func (r *Router) reply(to *tgbotapi.Message, text string) {
	m := tgbotapi.NewMessage(to.Chat.ID, text)
	m.ReplyToMessageID = to.MessageID
	_, _ = r.Bot.Send(m)
}
