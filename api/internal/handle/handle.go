package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"speech-coach/api/internal/speech/types"
)

// Analyzer is the part of speech.Service the HTTP layer needs.
type Analyzer interface {
	Analyze(ctx context.Context, req types.Request) (types.Result, error)
	Credentials() int
	ProfileNames() []string
	DefaultProfile() string
}

type Handle struct {
	svc      Analyzer
	validate *validator.Validate
	maxBody  int64
}

func New(svc Analyzer, maxBody int64) *Handle {
	return &Handle{
		svc:      svc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		maxBody:  maxBody,
	}
}

// Register mounts the API routes.
func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/analyze", h.Analyze)
	mux.HandleFunc("/api/health", h.Health)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// attemptTimeout reads X-Request-Timeout or ?timeoutSec= (seconds). It bounds each
// credential attempt of the request, not the request as a whole; 0 keeps the configured value.
func attemptTimeout(r *http.Request) time.Duration {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return time.Duration(v) * time.Second
	}
	return 0
}
