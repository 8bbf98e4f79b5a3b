package handlers

import (
	"errors"
	"net/http"

	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/upload"
)

// multipart overhead allowed on top of the largest accepted file
const uploadSlack = 1 << 20

// UploadHandler relays admin uploads to object storage.
type UploadHandler struct {
	relay *upload.Relay
	log   logging.Logger
}

func NewUploadHandler(relay *upload.Relay, log logging.Logger) *UploadHandler {
	return &UploadHandler{relay: relay, log: log}
}

// HandleUpload handles POST /upload (multipart field "file")
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !h.relay.Configured() {
		respondWithError(w, http.StatusServiceUnavailable, "upload storage not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxVideoSize+uploadSlack)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusBadRequest, "file too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	res, err := h.relay.Upload(r.Context(), upload.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
