package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meusugar/server/internal/catalog"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
)

const listCacheControl = "public, s-maxage=60, stale-while-revalidate=120"

// ModelHandler serves the profile registry.
type ModelHandler struct {
	profiles *catalog.Profiles
	log      logging.Logger
}

func NewModelHandler(profiles *catalog.Profiles, log logging.Logger) *ModelHandler {
	return &ModelHandler{profiles: profiles, log: log}
}

// profileRequest is the body of profile writes. Omitted fields keep their
// current value on update.
type profileRequest struct {
	Name              *string       `json:"name"`
	Age               *int          `json:"age"`
	Nationality       *string       `json:"nationality"`
	CoverPhoto        *string       `json:"coverPhoto"`
	VideoURL          *string       `json:"videoUrl"`
	Tags              *[]string     `json:"tags"`
	ShortBio          *string       `json:"shortBio"`
	LongBio           *string       `json:"longBio"`
	ConversationStyle *string       `json:"conversationStyle"`
	Interests         *[]string     `json:"interests"`
	Gallery           *[]string     `json:"gallery"`
	Colors            *model.Colors `json:"colors"`
}

func (p profileRequest) patch() model.ProfilePatch {
	return model.ProfilePatch{
		Name:              p.Name,
		Age:               p.Age,
		Nationality:       p.Nationality,
		CoverPhoto:        p.CoverPhoto,
		VideoURL:          p.VideoURL,
		Tags:              p.Tags,
		ShortBio:          p.ShortBio,
		LongBio:           p.LongBio,
		ConversationStyle: p.ConversationStyle,
		Interests:         p.Interests,
		Gallery:           p.Gallery,
		Colors:            p.Colors,
	}
}

// HandleList handles GET /models
func (h *ModelHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", listCacheControl)
	respondWithJSON(w, http.StatusOK, h.profiles.List(r.Context()))
}

// HandleGet handles GET /models/{id}
func (h *ModelHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.profiles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, m)
}

// HandleGetBySlug handles GET /models/slug/{slug}
func (h *ModelHandler) HandleGetBySlug(w http.ResponseWriter, r *http.Request) {
	m, err := h.profiles.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, m)
}

// HandleCreate handles POST /models
func (h *ModelHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	var m model.ModelProfile
	req.patch().Apply(&m)

	created, err := h.profiles.Create(r.Context(), m)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /models/{id}
func (h *ModelHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	updated, err := h.profiles.Update(r.Context(), chi.URLParam(r, "id"), req.patch())
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /models/{id}
func (h *ModelHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.profiles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
