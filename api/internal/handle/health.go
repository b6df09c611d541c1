package handle

import "net/http"

type healthResp struct {
	Status           string   `json:"status"`
	APIKeyConfigured bool     `json:"api_key_configured"`
	Credentials      int      `json:"credentials"`
	Profiles         []string `json:"profiles"`
	DefaultProfile   string   `json:"default_profile"`
}

func (h *Handle) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	n := h.svc.Credentials()
	writeJSON(w, http.StatusOK, healthResp{
		Status:           "ok",
		APIKeyConfigured: n > 0,
		Credentials:      n,
		Profiles:         h.svc.ProfileNames(),
		DefaultProfile:   h.svc.DefaultProfile(),
	})
}
