package speech

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"speech-coach/api/internal/speech/prompt"
	"speech-coach/api/internal/speech/types"
	"speech-coach/api/internal/util"
)

// Options tune the credential loop.
type Options struct {
	// AttemptTimeout bounds a single provider call; zero means only the caller's deadline applies.
	AttemptTimeout time.Duration
	// RetryInvalidRequest keeps rotating credentials even when the provider rejects the request itself.
	RetryInvalidRequest bool
}

// Service runs the analysis prompt against the provider, trying credentials in a fixed order.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	provider       Provider
	keys           []string
	profiles       map[string]types.Profile
	defaultProfile string
	opts           Options
}

func NewService(p Provider, keys []string, profiles map[string]types.Profile, defaultProfile string, opts Options) *Service {
	ks := make([]string, len(keys))
	copy(ks, keys)
	ps := make(map[string]types.Profile, len(profiles))
	for name, pr := range profiles {
		ps[name] = pr
	}
	return &Service{
		provider:       p,
		keys:           ks,
		profiles:       ps,
		defaultProfile: defaultProfile,
		opts:           opts,
	}
}

func (s *Service) Credentials() int { return len(s.keys) }

func (s *Service) DefaultProfile() string { return s.defaultProfile }

// Profile resolves a profile by name; empty name gives the default.
func (s *Service) Profile(name string) (types.Profile, error) {
	if name == "" {
		name = s.defaultProfile
	}
	p, ok := s.profiles[name]
	if !ok {
		return types.Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames lists configured profiles in sorted order.
func (s *Service) ProfileNames() []string {
	out := make([]string, 0, len(s.profiles))
	for k := range s.profiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Analyze assesses one clip. It returns a parsed or fallback Result, or an error:
// ErrEmptyMedia, ErrUnknownProfile, ErrNoCredentials (no provider call made) or *ExhaustedError.
func (s *Service) Analyze(ctx context.Context, req types.Request) (types.Result, error) {
	if len(req.Media) == 0 {
		return types.Result{}, ErrEmptyMedia
	}
	profile, err := s.Profile(req.Profile)
	if err != nil {
		return types.Result{}, err
	}
	if len(s.keys) == 0 {
		return types.Result{}, ErrNoCredentials
	}

	instruction, err := prompt.Build(profile)
	if err != nil {
		return types.Result{}, fmt.Errorf("build prompt: %w", err)
	}
	p := Prompt{
		Model:           profile.Model,
		Instruction:     instruction,
		MIMEType:        req.MediaType(),
		Media:           req.Media,
		Temperature:     profile.Temperature,
		MaxOutputTokens: profile.MaxOutputTokens,
		JSONMode:        profile.JSONMode,
	}

	log := zerolog.Ctx(ctx).With().
		Str("provider", s.provider.Name()).
		Str("profile", profile.Name).
		Str("model", profile.Model).
		Str("mime", p.MIMEType).
		Int("media_bytes", len(p.Media)).
		Logger()

	exhausted := &ExhaustedError{}
	for i, key := range s.keys {
		started := time.Now()
		raw, err := s.attempt(ctx, key, p, req.AttemptTimeout)
		if err == nil {
			res := Normalize(raw)
			log.Info().
				Int("credential", i+1).
				Dur("took", time.Since(started)).
				Bool("fallback", res.Fallback).
				Int("score", res.Score).
				Msg("analysis succeeded")
			return res, nil
		}

		exhausted.Attempts = append(exhausted.Attempts, Attempt{Index: i, Err: err})
		log.Warn().
			Err(err).
			Int("credential", i+1).
			Int("of", len(s.keys)).
			Str("key", util.MaskSecret(key)).
			Dur("took", time.Since(started)).
			Msg("credential attempt failed")

		if errors.Is(err, ErrInvalidRequest) && !s.opts.RetryInvalidRequest {
			exhausted.ShortCircuit = true
			break
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			// caller went away
			break
		}
	}
	log.Error().Err(exhausted.Last()).Int("attempts", len(exhausted.Attempts)).Msg("analysis failed")
	return types.Result{}, exhausted
}

// attempt runs one provider call under its own timeout; the loop itself has none.
func (s *Service) attempt(ctx context.Context, key string, p Prompt, override time.Duration) (string, error) {
	timeout := s.opts.AttemptTimeout
	if override > 0 {
		timeout = override
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.provider.Generate(ctx, key, p)
}
