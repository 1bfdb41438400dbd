package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"adapterforge/internal/gateway/repository/archive"
)

// Download serves stored archives for backends that cannot presign. Routes
// look like /download/{runID}/{name}.
type Download struct {
	store archive.Store
}

func NewDownload(store archive.Store) *Download {
	return &Download{store: store}
}

func (h *Download) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/download/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		http.NotFound(w, r)
		return
	}
	runID, name := parts[0], parts[1]

	blob, err := h.store.Get(r.Context(), runID, name)
	if err != nil {
		if errors.Is(err, archive.ErrNotFound) {
			http.Error(w, "archive expired or unknown", http.StatusNotFound)
			return
		}
		log.Printf("[download] %s/%s: %v", runID, name, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(blob); err != nil {
		log.Printf("[download] write %s/%s: %v", runID, name, err)
	}
}
