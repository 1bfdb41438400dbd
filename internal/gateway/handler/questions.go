package handler

import (
	"net/http"

	"adapterforge/internal/schema"
)

// Questions serves the questionnaire so the creator UI can render groups
// and questions without shipping a second copy of the schema.
type Questions struct {
	schema *schema.Schema
}

func NewQuestions(s *schema.Schema) *Questions {
	return &Questions{schema: s}
}

func (h *Questions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, h.schema)
}
