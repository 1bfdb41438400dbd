package handler

import (
	"log"
	"net/http"
	"path"
	"strings"

	"adapterforge/internal/safeio"
)

// NewStatic serves the creator UI bundle with an index.html fallback for
// client-side routes. Lookups go through a root-locked filesystem so a
// crafted path cannot escape the bundle directory. Returns nil when no
// directory is configured.
func NewStatic(dir string) http.Handler {
	if dir == "" {
		return nil
	}
	fsys, err := safeio.NewSafeFS(dir)
	if err != nil {
		log.Printf("static serving disabled, bad dir %q: %v", dir, err)
		return nil
	}
	fileServer := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}
		if _, err := fsys.SafeStat(name); err != nil {
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/"
			fileServer.ServeHTTP(w, r2)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
