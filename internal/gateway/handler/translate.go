package handler

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// NewTranslateProxy forwards the UI's translation lookups to the external
// translation service so the browser never talks to it cross-origin.
// Returns nil when no upstream is configured.
func NewTranslateProxy(upstream string) http.Handler {
	if upstream == "" {
		return nil
	}
	target, err := url.Parse(upstream)
	if err != nil {
		log.Printf("translate proxy disabled, bad upstream %q: %v", upstream, err)
		return nil
	}
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("translate proxy: %v", err)
		http.Error(w, "translation upstream unavailable", http.StatusBadGateway)
	}
	return http.StripPrefix("/api/v1/translate", proxy)
}
