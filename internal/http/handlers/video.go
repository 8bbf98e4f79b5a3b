package handlers

import (
	"net/http"

	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/video"
)

// VideoHandler exposes direct image to video generation.
type VideoHandler struct {
	generator *video.Generator
	log       logging.Logger
}

func NewVideoHandler(generator *video.Generator, log logging.Logger) *VideoHandler {
	return &VideoHandler{generator: generator, log: log}
}

type generateVideoRequest struct {
	ImageURL  string `json:"imageUrl"`
	MediaID   string `json:"mediaId"`
	ModelSlug string `json:"modelSlug"`
}

// HandleGenerate handles POST /generate-video
func (h *VideoHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateVideoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	res, err := h.generator.Generate(r.Context(), video.Request(req))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
