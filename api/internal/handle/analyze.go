package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"speech-coach/api/internal/speech"
	"speech-coach/api/internal/speech/types"
	"speech-coach/api/internal/util"
)

// analyzeReq is the body of POST /api/analyze. videoData is base64 without a data: prefix,
// though a prefix is tolerated.
type analyzeReq struct {
	VideoData string `json:"videoData" validate:"required"`
	MimeType  string `json:"mimeType" validate:"omitempty,max=255"`
	Profile   string `json:"profile" validate:"omitempty,max=64"`
}

// failure is the body of a 4xx/5xx after provider attempts were made.
type failure struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details failureDetails `json:"details"`
}

type failureDetails struct {
	Attempts int      `json:"attempts"`
	Causes   []string `json:"causes"`
}

func (h *Handle) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	log := zerolog.Ctx(r.Context())

	var body analyzeReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody)).Decode(&body); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "Video is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
		return
	}
	body.VideoData = strings.TrimSpace(body.VideoData)
	if err := h.validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "VideoData" {
			writeError(w, http.StatusBadRequest, "No video data provided")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	media, hintMIME, err := util.DecodeBase64MaybeDataURL(body.VideoData)
	if err != nil {
		if errors.Is(err, util.ErrEmptyMedia) {
			writeError(w, http.StatusBadRequest, "No video data provided")
			return
		}
		writeError(w, http.StatusBadRequest, "videoData is not valid base64")
		return
	}

	req := types.Request{
		Media:          media,
		MIMEType:       util.PickMIME(body.MimeType, hintMIME, types.DefaultMIMEType),
		Profile:        strings.TrimSpace(body.Profile),
		AttemptTimeout: attemptTimeout(r),
	}

	res, err := h.svc.Analyze(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	log.Debug().Int("score", res.Score).Bool("fallback", res.Fallback).Msg("analysis returned")
	writeJSON(w, http.StatusOK, res)
}

func (h *Handle) fail(w http.ResponseWriter, err error) {
	var ex *speech.ExhaustedError
	switch {
	case errors.Is(err, speech.ErrEmptyMedia):
		writeError(w, http.StatusBadRequest, "No video data provided")
	case errors.Is(err, speech.ErrUnknownProfile):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, speech.ErrNoCredentials):
		writeError(w, http.StatusInternalServerError, "Server API key not configured")
	case errors.As(err, &ex):
		code := http.StatusInternalServerError
		if ex.ShortCircuit {
			code = http.StatusBadRequest
		}
		msg := err.Error()
		if last := ex.Last(); last != nil {
			msg = last.Error()
		}
		writeJSON(w, code, failure{
			Error:   "AI Analysis Failed",
			Message: msg,
			Details: failureDetails{Attempts: len(ex.Attempts), Causes: ex.Causes()},
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
