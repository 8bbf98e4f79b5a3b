package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meusugar/server/internal/chat"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/middleware"
)

// ChatHandler serves the per-profile conversations.
type ChatHandler struct {
	chat *chat.Service
	log  logging.Logger
}

func NewChatHandler(c *chat.Service, log logging.Logger) *ChatHandler {
	return &ChatHandler{chat: c, log: log}
}

type sendMessageRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
}

type convertVideoRequest struct {
	ImageURL string `json:"imageUrl"`
	MediaID  string `json:"mediaId"`
	Duration int    `json:"duration"`
}

type insufficientTokensResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
	Balance  int64  `json:"balance"`
	Cost     int64  `json:"cost"`
}

// HandleSend handles POST /chat/{slug}/messages
func (h *ChatHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	ex, err := h.chat.Send(r.Context(), userID, chi.URLParam(r, "slug"), req.Text, req.ImageURL)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, ex)
}

// HandleHistory handles GET /chat/{slug}/messages
func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	msgs, err := h.chat.History(r.Context(), userID, chi.URLParam(r, "slug"))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, msgs)
}

// HandleClear handles DELETE /chat/{slug}/messages
func (h *ChatHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.chat.Clear(r.Context(), userID, chi.URLParam(r, "slug")); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleConvertVideo handles POST /chat/{slug}/video. A balance that cannot
// cover the clip answers 402 with the purchase page to redirect to.
func (h *ChatHandler) HandleConvertVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req convertVideoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	conv, err := h.chat.ConvertToVideo(r.Context(), userID, chi.URLParam(r, "slug"), chat.VideoRequest(req))
	var insufficient *chat.InsufficientTokensError
	if errors.As(err, &insufficient) {
		respondWithJSON(w, http.StatusPaymentRequired, insufficientTokensResponse{
			Error:    "insufficient tokens",
			Redirect: chat.PurchaseRedirect,
			Balance:  insufficient.Balance,
			Cost:     insufficient.Cost,
		})
		return
	}
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, conv)
}
