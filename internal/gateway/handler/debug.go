package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"adapterforge/internal/gateway/run"
)

// Debug exposes retained run records as JSON. Mounted under /debug and
// meant for operators, not the creator UI.
type Debug struct {
	svc *run.Service
}

func NewDebug(svc *run.Service) *Debug {
	return &Debug{svc: svc}
}

func (h *Debug) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if id := strings.TrimPrefix(r.URL.Path, "/debug/runs/"); id != r.URL.Path && id != "" {
		rec, ok := h.svc.Get(id)
		if !ok {
			http.Error(w, "unknown run", http.StatusNotFound)
			return
		}
		writeJSON(w, rec.View())
		return
	}
	writeJSON(w, h.svc.Recent())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
