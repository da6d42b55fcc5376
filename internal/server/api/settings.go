package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/handframe/internal/store"
)

// SettingsHandler reads and updates stored settings.
//
//	GET /api/settings
//	PUT /api/settings  {"key": "value", ...}
type SettingsHandler struct {
	store *store.Store
	// OnChange, when set, is called for every key written by a PUT.
	OnChange func(key, value string)
}

// NewSettingsHandler creates a SettingsHandler over s.
func NewSettingsHandler(s *store.Store) *SettingsHandler {
	return &SettingsHandler{store: s}
}

func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter) {
	settings, err := h.store.Settings().All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	for k, v := range req {
		if k == "" {
			writeError(w, http.StatusBadRequest, "Empty key")
			return
		}
		if err := h.store.Settings().Set(k, v); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		if h.OnChange != nil {
			h.OnChange(k, v)
		}
	}

	h.get(w)
}
