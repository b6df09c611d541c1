package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speech-coach/api/internal/speech/types"
)

func TestBuild_Vietnamese(t *testing.T) {
	p := Builtin()[ProfileVietnamese]

	out, err := Build(p)
	require.NoError(t, err)

	assert.Contains(t, out, "helping Vietnamese English learners")
	assert.Contains(t, out, "with PRIORITY on pronunciation analysis")
	assert.Contains(t, out, `"pronunciationErrors": [`)
	assert.Contains(t, out, "- Missing final consonants (stop → sto, want → wan)")
	assert.Contains(t, out, "1. **PRONUNCIATION** (most important)")
	assert.Contains(t, out, "6. Confidence and delivery")
}

func TestBuild_General(t *testing.T) {
	out, err := Build(Builtin()[ProfileGeneral])
	require.NoError(t, err)

	assert.NotContains(t, out, "pronunciationErrors")
	assert.NotContains(t, out, "IMPORTANT")
	assert.Contains(t, out, "and provide detailed feedback")
	assert.Contains(t, out, "6. Use of transitions and connectors")
}

func TestBuild_Deterministic(t *testing.T) {
	p := Builtin()[ProfileVietnamese]
	a, err := Build(p)
	require.NoError(t, err)
	b, err := Build(p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuild_CustomTemplate(t *testing.T) {
	p := types.Profile{Name: "kids", Persona: "Be gentle.", Template: "{{.Persona}} Score the clip."}
	out, err := Build(p)
	require.NoError(t, err)
	assert.Equal(t, "Be gentle. Score the clip.", out)

	p.Template = "{{.Nope"
	_, err = Build(p)
	assert.Error(t, err)
}

func TestFill(t *testing.T) {
	p := types.Profile{Name: "x"}
	Fill(&p)
	assert.Equal(t, DefaultModel, p.Model)
	assert.InDelta(t, DefaultTemperature, p.Temperature, 1e-6)
	assert.EqualValues(t, DefaultMaxOutputTokens, p.MaxOutputTokens)

	p = types.Profile{Model: "gemini-2.5-flash", Temperature: 0.2, MaxOutputTokens: 512}
	Fill(&p)
	assert.Equal(t, "gemini-2.5-flash", p.Model)
	assert.EqualValues(t, 512, p.MaxOutputTokens)
}
