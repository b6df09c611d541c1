package types

import "time"

// DefaultMIMEType is used for the inline media part when the client does not declare one.
const DefaultMIMEType = "video/mp4"

// Request is one uploaded clip to assess.
type Request struct {
	Media    []byte
	MIMEType string
	// Profile selects the feedback profile; empty means the configured default.
	Profile string
	// AttemptTimeout overrides the per-credential timeout for this request when > 0.
	AttemptTimeout time.Duration
}

// MediaType returns the declared MIME type or DefaultMIMEType.
func (r Request) MediaType() string {
	if r.MIMEType == "" {
		return DefaultMIMEType
	}
	return r.MIMEType
}

type PronunciationError struct {
	Word       string `json:"word"`
	Error      string `json:"error"`
	Correction string `json:"correction"`
}

// Result is the normalized report returned to callers. All fields are always present.
type Result struct {
	Score               int                  `json:"score"`
	Overall             string               `json:"overall"`
	PronunciationErrors []PronunciationError `json:"pronunciationErrors"`
	Strengths           []string             `json:"strengths"`
	Improvements        []string             `json:"improvements"`
	DetailedFeedback    string               `json:"detailedFeedback"`

	// Fallback is set when the model output could not be parsed and placeholders were substituted.
	Fallback bool `json:"-"`
}

// Complete replaces nil slices with empty ones so they encode as [] rather than null.
func (r *Result) Complete() {
	if r.PronunciationErrors == nil {
		r.PronunciationErrors = []PronunciationError{}
	}
	if r.Strengths == nil {
		r.Strengths = []string{}
	}
	if r.Improvements == nil {
		r.Improvements = []string{}
	}
}
