package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meusugar/server/internal/catalog"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
)

// MediaHandler serves the home carousel and the profile media galleries.
type MediaHandler struct {
	carousel *catalog.Carousel
	gallery  *catalog.Gallery
	log      logging.Logger
}

func NewMediaHandler(carousel *catalog.Carousel, gallery *catalog.Gallery, log logging.Logger) *MediaHandler {
	return &MediaHandler{carousel: carousel, gallery: gallery, log: log}
}

type slideRequest struct {
	ImageURL     *string `json:"imageUrl"`
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	TextPosition *string `json:"textPosition"`
}

type mediaRequest struct {
	ModelSlug string  `json:"modelSlug"`
	ImageURL  string  `json:"imageUrl"`
	VideoURL  *string `json:"videoUrl"`
	Title     string  `json:"title"`
	TokenCost int     `json:"tokenCost"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// HandleListSlides handles GET /carousel
func (h *MediaHandler) HandleListSlides(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.carousel.List(r.Context()))
}

// HandleCreateSlide handles POST /carousel
func (h *MediaHandler) HandleCreateSlide(w http.ResponseWriter, r *http.Request) {
	var req slideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	created, err := h.carousel.Create(r.Context(), model.CarouselSlide{
		ImageURL:     deref(req.ImageURL),
		Title:        deref(req.Title),
		Subtitle:     deref(req.Subtitle),
		TextPosition: deref(req.TextPosition),
	})
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// HandleUpdateSlide handles PUT /carousel/{id}
func (h *MediaHandler) HandleUpdateSlide(w http.ResponseWriter, r *http.Request) {
	var req slideRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	updated, err := h.carousel.Update(r.Context(), chi.URLParam(r, "id"), catalog.SlidePatch(req))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// HandleDeleteSlide handles DELETE /carousel/{id}
func (h *MediaHandler) HandleDeleteSlide(w http.ResponseWriter, r *http.Request) {
	if err := h.carousel.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleListMedia handles GET /media-gallery?modelSlug=
func (h *MediaHandler) HandleListMedia(w http.ResponseWriter, r *http.Request) {
	items, err := h.gallery.List(r.Context(), r.URL.Query().Get("modelSlug"))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// HandleAddMedia handles POST /media-gallery
func (h *MediaHandler) HandleAddMedia(w http.ResponseWriter, r *http.Request) {
	var req mediaRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	created, err := h.gallery.Add(r.Context(), model.MediaItem{
		ModelSlug: req.ModelSlug,
		ImageURL:  req.ImageURL,
		VideoURL:  req.VideoURL,
		Title:     req.Title,
		TokenCost: req.TokenCost,
	})
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// HandleRemoveMedia handles DELETE /media-gallery/{id}?modelSlug=
func (h *MediaHandler) HandleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	err := h.gallery.Remove(r.Context(), r.URL.Query().Get("modelSlug"), chi.URLParam(r, "id"))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
