package prompt

import "speech-coach/api/internal/speech/types"

const (
	ProfileVietnamese = "vietnamese"
	ProfileGeneral    = "general"
)

// Builtin returns the shipped feedback profiles keyed by name.
func Builtin() map[string]types.Profile {
	return map[string]types.Profile{
		ProfileVietnamese: {
			Name:    ProfileVietnamese,
			Model:   DefaultModel,
			Persona: "You are an expert English speech coach specializing in helping Vietnamese English learners.",
			Focus: []string{
				`Confusing "th" sounds with "s" or "t" (think → sink/tink)`,
				`Confusing "v" with "w" or "f" (very → wery)`,
				"Missing final consonants (stop → sto, want → wan)",
				"Confusing short/long vowels (hit vs heat, full vs fool)",
				"Word stress patterns",
				"Sentence intonation",
			},
			Aspects: []string{
				"**PRONUNCIATION** (most important) - List specific mispronounced words",
				"Common Vietnamese English errors",
				"Fluency and pace",
				"Grammar and vocabulary",
				"Content organization",
				"Confidence and delivery",
			},
			Feedback:            "detailed paragraph focusing on: 1) Specific pronunciation mistakes (list words), 2) Vietnamese accent features to improve, 3) Grammar and vocabulary, 4) Fluency and delivery",
			PronunciationErrors: true,
			Temperature:         DefaultTemperature,
			MaxOutputTokens:     DefaultMaxOutputTokens,
			JSONMode:            true,
		},
		ProfileGeneral: {
			Name:    ProfileGeneral,
			Model:   DefaultModel,
			Persona: "You are an expert English speech coach.",
			Aspects: []string{
				"Pronunciation and clarity",
				"Fluency and pace",
				"Grammar and vocabulary",
				"Content organization",
				"Confidence and delivery",
				"Use of transitions and connectors",
			},
			Feedback:        "detailed paragraph about pronunciation, fluency, grammar, vocabulary, content organization, and delivery",
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
		},
	}
}

// Fill sets zero-valued generation parameters to the defaults.
func Fill(p *types.Profile) {
	if p.Model == "" {
		p.Model = DefaultModel
	}
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	if p.MaxOutputTokens == 0 {
		p.MaxOutputTokens = DefaultMaxOutputTokens
	}
}
