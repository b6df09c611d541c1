package types

// Profile is a feedback persona: prompt wording plus the model it runs against.
type Profile struct {
	Name     string   `yaml:"name" json:"name"`
	Model    string   `yaml:"model" json:"model"`
	Persona  string   `yaml:"persona" json:"persona"`
	Focus    []string `yaml:"focus" json:"focus,omitempty"`
	Aspects  []string `yaml:"aspects" json:"aspects"`
	Feedback string   `yaml:"feedback" json:"feedback"`
	// Template overrides the built-in instruction template (text/template, Profile as data).
	Template string `yaml:"template" json:"-"`

	// PronunciationErrors asks the model for a per-word error list.
	PronunciationErrors bool    `yaml:"pronunciation_errors" json:"pronunciation_errors"`
	Temperature         float32 `yaml:"temperature" json:"temperature"`
	MaxOutputTokens     int32   `yaml:"max_output_tokens" json:"max_output_tokens"`
	// JSONMode requests application/json from the provider.
	JSONMode bool `yaml:"json_mode" json:"json_mode"`
}
