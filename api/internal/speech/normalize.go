package speech

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"speech-coach/api/internal/speech/types"
	"speech-coach/api/internal/util"
)

const (
	FallbackScore   = 75
	FallbackOverall = "Formatted analysis unavailable."
)

var (
	fallbackStrengths    = []string{"Audio processed"}
	fallbackImprovements = []string{"See detailed feedback"}

	requiredKeys = []string{"score", "overall", "strengths", "improvements", "detailedFeedback"}
)

// rawResult mirrors types.Result with a lenient score.
type rawResult struct {
	Score               json.Number                `json:"score"`
	Overall             string                     `json:"overall"`
	PronunciationErrors []types.PronunciationError `json:"pronunciationErrors"`
	Strengths           []string                   `json:"strengths"`
	Improvements        []string                   `json:"improvements"`
	DetailedFeedback    string                     `json:"detailedFeedback"`
}

// Normalize turns raw model output into a Result. Output that does not parse becomes Fallback(raw).
func Normalize(raw string) types.Result {
	res, err := Parse(raw)
	if err != nil {
		return Fallback(raw)
	}
	return res
}

// Parse strictly parses model output after stripping code fences.
// Values are not range-checked.
func Parse(raw string) (types.Result, error) {
	text := util.StripCodeFences(raw)

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &keys); err != nil {
		return types.Result{}, fmt.Errorf("parse: %w", err)
	}
	for _, k := range requiredKeys {
		v, ok := keys[k]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return types.Result{}, fmt.Errorf("parse: missing %q", k)
		}
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	var rr rawResult
	if err := dec.Decode(&rr); err != nil {
		return types.Result{}, fmt.Errorf("parse: %w", err)
	}
	score, err := scoreOf(rr.Score)
	if err != nil {
		return types.Result{}, err
	}

	res := types.Result{
		Score:               score,
		Overall:             rr.Overall,
		PronunciationErrors: rr.PronunciationErrors,
		Strengths:           rr.Strengths,
		Improvements:        rr.Improvements,
		DetailedFeedback:    rr.DetailedFeedback,
	}
	res.Complete()
	return res, nil
}

func scoreOf(n json.Number) (int, error) {
	if i, err := n.Int64(); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("parse: score is not a number")
	}
	f = math.Round(f)
	// as a float64, MaxInt64 rounds up to 2^63, the first value that does not fit
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("parse: score %s out of range", n.String())
	}
	return int(f), nil
}

// Fallback is the placeholder Result for unparseable output; raw is kept verbatim.
func Fallback(raw string) types.Result {
	return types.Result{
		Score:               FallbackScore,
		Overall:             FallbackOverall,
		PronunciationErrors: []types.PronunciationError{},
		Strengths:           append([]string(nil), fallbackStrengths...),
		Improvements:        append([]string(nil), fallbackImprovements...),
		DetailedFeedback:    raw,
		Fallback:            true,
	}
}
