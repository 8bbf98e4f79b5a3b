package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meusugar/server/internal/i18n"
)

// I18nHandler serves the UI string dictionaries.
type I18nHandler struct {
	catalog *i18n.Catalog
}

func NewI18nHandler(c *i18n.Catalog) *I18nHandler {
	return &I18nHandler{catalog: c}
}

// HandleDictionary handles GET /i18n/{locale}. Unknown locales get the default dictionary.
func (h *I18nHandler) HandleDictionary(w http.ResponseWriter, r *http.Request) {
	locale, dict := h.catalog.Dictionary(chi.URLParam(r, "locale"))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	respondWithJSON(w, http.StatusOK, map[string]any{"locale": locale, "messages": dict})
}
