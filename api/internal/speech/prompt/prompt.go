package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"speech-coach/api/internal/speech/types"
)

const (
	DefaultModel           = "gemini-1.5-flash"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 2048
)

const instructionTemplate = `{{.Persona}} Analyze this English speech video{{if .PronunciationErrors}} with PRIORITY on pronunciation analysis{{else}} and provide detailed feedback{{end}}.
{{- if .Focus}}

IMPORTANT: Focus on these common pronunciation errors:
{{- range .Focus}}
- {{.}}
{{- end}}
{{- end}}

Please provide your analysis in the following JSON format:
{
  "score": [number from 0-100],
  "overall": "[brief overall assessment]",
{{- if .PronunciationErrors}}
  "pronunciationErrors": [
    {"word": "[mispronounced word]", "error": "[what's wrong]", "correction": "[how to say it correctly]"},
    {"word": "[word 2]", "error": "[error type]", "correction": "[correct pronunciation]"}
  ],
{{- end}}
  "strengths": [
    "[strength 1]",
    "[strength 2]",
    "[strength 3]"
  ],
  "improvements": [
    "[area 1 to improve{{if .PronunciationErrors}} - PRIORITIZE pronunciation issues{{end}}]",
    "[area 2 to improve]",
    "[area 3 to improve]"
  ],
  "detailedFeedback": "[{{.Feedback}}]"
}

Analyze these aspects IN THIS ORDER:
{{- range $i, $a := .Aspects}}
{{inc $i}}. {{$a}}
{{- end}}
`

var funcs = template.FuncMap{"inc": func(i int) int { return i + 1 }}

var builtin = template.Must(template.New("instruction").Funcs(funcs).Parse(instructionTemplate))

// Build renders the instruction text for a profile. It is a pure function of p.
func Build(p types.Profile) (string, error) {
	t := builtin
	if strings.TrimSpace(p.Template) != "" {
		custom, err := template.New(p.Name).Funcs(funcs).Parse(p.Template)
		if err != nil {
			return "", fmt.Errorf("profile %q template: %w", p.Name, err)
		}
		t = custom
	}
	var b strings.Builder
	if err := t.Execute(&b, p); err != nil {
		return "", fmt.Errorf("profile %q: %w", p.Name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
