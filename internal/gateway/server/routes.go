package server

import (
	"net/http"

	"adapterforge/internal/gateway/handler"
	"adapterforge/internal/gateway/middleware"
)

type Handlers struct {
	CreateWS  *handler.CreateWS
	Download  *handler.Download
	Debug     *handler.Debug
	Questions *handler.Questions
	Translate http.Handler
	Static    http.Handler
}

func NewMux(h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/ws/create-adapter", h.CreateWS)
	mux.Handle("/download/", h.Download)
	mux.Handle("/api/questions", h.Questions)

	// Debug handlers
	mux.Handle("/debug/runs", h.Debug)
	mux.Handle("/debug/runs/", h.Debug)

	if h.Translate != nil {
		mux.Handle("/api/v1/translate/", h.Translate)
	}
	if h.Static != nil {
		mux.Handle("/", h.Static)
	}

	return middleware.CORS(mux)
}
