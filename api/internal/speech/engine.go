package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Prompt is everything a provider needs for one generation call.
type Prompt struct {
	Model           string
	Instruction     string
	MIMEType        string
	Media           []byte
	Temperature     float32
	MaxOutputTokens int32
	JSONMode        bool
}

// Provider calls a generative model with a single credential and returns the generated text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, apiKey string, p Prompt) (string, error)
}

var (
	ErrNoCredentials  = errors.New("no API credentials configured")
	ErrEmptyMedia     = errors.New("no video data provided")
	ErrUnknownProfile = errors.New("unknown feedback profile")
	// ErrInvalidRequest marks provider errors caused by the request itself rather than the credential.
	ErrInvalidRequest = errors.New("provider rejected request")
)

// Attempt is the outcome of one failed credential.
type Attempt struct {
	Index int
	Err   error
}

// ExhaustedError is returned when no credential produced a result.
type ExhaustedError struct {
	Attempts []Attempt
	// ShortCircuit is set when the loop stopped early on ErrInvalidRequest.
	ShortCircuit bool
}

func (e *ExhaustedError) Error() string {
	last := e.Last()
	if last == nil {
		return "analysis failed"
	}
	if e.ShortCircuit {
		return fmt.Sprintf("analysis rejected after %d attempt(s): %v", len(e.Attempts), last)
	}
	return fmt.Sprintf("all %d credential(s) failed: %v", len(e.Attempts), last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last() }

// Last returns the most recent provider error.
func (e *ExhaustedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Causes lists attempt errors in order, for diagnostics.
func (e *ExhaustedError) Causes() []string {
	out := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		out = append(out, fmt.Sprintf("credential #%d: %s", a.Index+1, strings.TrimSpace(a.Err.Error())))
	}
	return out
}
