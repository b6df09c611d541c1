package speech

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-coach/api/internal/speech/types"
)

const sampleJSON = `{"score":82,"overall":"ok","pronunciationErrors":[],"strengths":["a","b","c"],"improvements":["x","y","z"],"detailedFeedback":"..."}`

func TestNormalize_RoundTrip(t *testing.T) {
	res := Normalize(sampleJSON)

	assert.False(t, res.Fallback)
	assert.Equal(t, types.Result{
		Score:               82,
		Overall:             "ok",
		PronunciationErrors: []types.PronunciationError{},
		Strengths:           []string{"a", "b", "c"},
		Improvements:        []string{"x", "y", "z"},
		DetailedFeedback:    "...",
	}, res)
}

func TestNormalize_FenceStripping(t *testing.T) {
	bare := Normalize(sampleJSON)
	fenced := Normalize("```json\n" + sampleJSON + "\n```")
	plainFence := Normalize("```\n" + sampleJSON + "\n```\n")

	assert.Equal(t, bare, fenced)
	assert.Equal(t, bare, plainFence)
}

func TestNormalize_FallbackIdempotent(t *testing.T) {
	raw := "Great job overall!<br>Work on your vowels."

	first := Normalize(raw)
	second := Normalize(raw)

	assert.Equal(t, first, second)
	assert.True(t, first.Fallback)
	assert.Equal(t, FallbackScore, first.Score)
	assert.Equal(t, FallbackOverall, first.Overall)
	assert.Equal(t, []string{"Audio processed"}, first.Strengths)
	assert.Equal(t, []string{"See detailed feedback"}, first.Improvements)
	assert.Empty(t, first.PronunciationErrors)
	assert.NotNil(t, first.PronunciationErrors)
	assert.Equal(t, raw, first.DetailedFeedback)
}

func TestNormalize_FallbackIsolation(t *testing.T) {
	a := Normalize("oops")
	a.Strengths[0] = "mutated"
	b := Normalize("oops")
	assert.Equal(t, "Audio processed", b.Strengths[0])
}

func TestNormalize_PassesValuesThrough(t *testing.T) {
	res := Normalize(`{"score":140,"overall":"","strengths":[],"improvements":[],"detailedFeedback":"line<br>line"}`)

	require.False(t, res.Fallback)
	assert.Equal(t, 140, res.Score)
	assert.Empty(t, res.Strengths)
	assert.NotNil(t, res.Strengths)
	assert.NotNil(t, res.PronunciationErrors, "optional list is filled in")
	assert.Equal(t, "line<br>line", res.DetailedFeedback)
}

func TestNormalize_Score(t *testing.T) {
	res := Normalize(`{"score":82.0,"overall":"ok","strengths":["a"],"improvements":["b"],"detailedFeedback":"d"}`)
	assert.False(t, res.Fallback)
	assert.Equal(t, 82, res.Score)

	res = Normalize(`{"score":"64","overall":"ok","strengths":["a"],"improvements":["b"],"detailedFeedback":"d"}`)
	assert.False(t, res.Fallback)
	assert.Equal(t, 64, res.Score)

	res = Normalize(`{"score":"great","overall":"ok","strengths":["a"],"improvements":["b"],"detailedFeedback":"d"}`)
	assert.True(t, res.Fallback)

	res = Normalize(`{"score":-3.6,"overall":"ok","strengths":["a"],"improvements":["b"],"detailedFeedback":"d"}`)
	assert.False(t, res.Fallback)
	assert.Equal(t, -4, res.Score)

	for _, huge := range []string{"1e20", "-1e20", "99999999999999999999", "9223372036854775808", "1e308"} {
		raw := `{"score":` + huge + `,"overall":"ok","strengths":["a"],"improvements":["b"],"detailedFeedback":"d"}`
		res = Normalize(raw)
		assert.True(t, res.Fallback, huge)
		assert.Equal(t, FallbackScore, res.Score, huge)
		assert.Equal(t, raw, res.DetailedFeedback, huge)
	}
}

func TestNormalize_StructuralFailures(t *testing.T) {
	cases := map[string]string{
		"prose":           "Here is your analysis: you did well.",
		"array":           `["a","b"]`,
		"missing_score":   `{"overall":"ok","strengths":["a"],"improvements":["b"],"detailedFeedback":"d"}`,
		"null_strengths":  `{"score":1,"overall":"ok","strengths":null,"improvements":["b"],"detailedFeedback":"d"}`,
		"wrong_type":      `{"score":1,"overall":"ok","strengths":"a","improvements":["b"],"detailedFeedback":"d"}`,
		"truncated":       `{"score":1,"overall":"ok","strengths":["a"`,
		"trailing_object": sampleJSON + ` {}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			res := Normalize(raw)
			assert.True(t, res.Fallback)
			assert.Equal(t, raw, res.DetailedFeedback)
		})
	}
}

func TestResult_JSONShape(t *testing.T) {
	b, err := json.Marshal(Fallback("raw"))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"score", "overall", "pronunciationErrors", "strengths", "improvements", "detailedFeedback"} {
		assert.Contains(t, m, k)
	}
	assert.NotContains(t, m, "Fallback")
	assert.Equal(t, []any{}, m["pronunciationErrors"])
}
