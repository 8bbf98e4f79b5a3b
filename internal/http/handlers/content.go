package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/meusugar/server/internal/catalog"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
)

// ContentHandler serves legal pages, external links and dashboard metrics.
type ContentHandler struct {
	legal   *catalog.Legal
	links   *catalog.Links
	metrics *catalog.Metrics
	log     logging.Logger
}

func NewContentHandler(legal *catalog.Legal, links *catalog.Links, metrics *catalog.Metrics, log logging.Logger) *ContentHandler {
	return &ContentHandler{legal: legal, links: links, metrics: metrics, log: log}
}

type legalRequest struct {
	Type    model.LegalType `json:"type"`
	Title   string          `json:"title"`
	Content string          `json:"content"`
}

type linksRequest struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	TikTok    string `json:"tiktok"`
	WhatsApp  string `json:"whatsapp"`
}

type metricsRequest struct {
	ActiveUsers    int64           `json:"activeUsers"`
	MonthlyRevenue decimal.Decimal `json:"monthlyRevenue"`
	TokensSold     int64           `json:"tokensSold"`
	NewUsers       int64           `json:"newUsers"`
}

// HandleGetLegal handles GET /legal?type=terms|privacy
func (h *ContentHandler) HandleGetLegal(w http.ResponseWriter, r *http.Request) {
	page, err := h.legal.Get(r.Context(), model.LegalType(r.URL.Query().Get("type")))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, page)
}

// HandlePutLegal handles PUT /legal. The type may come from the body or the query.
func (h *ContentHandler) HandlePutLegal(w http.ResponseWriter, r *http.Request) {
	var req legalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	if req.Type == "" {
		req.Type = model.LegalType(r.URL.Query().Get("type"))
	}

	saved, err := h.legal.Put(r.Context(), model.LegalPage{Type: req.Type, Title: req.Title, Content: req.Content})
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}

// HandleGetLinks handles GET /links
func (h *ContentHandler) HandleGetLinks(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.links.Get(r.Context()))
}

// HandlePutLinks handles PUT /links
func (h *ContentHandler) HandlePutLinks(w http.ResponseWriter, r *http.Request) {
	var req linksRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	saved, err := h.links.Put(r.Context(), model.ExternalLinks(req))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}

// HandleGetMetrics handles GET /metrics
func (h *ContentHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.metrics.Get(r.Context()))
}

// HandlePutMetrics handles PUT /metrics
func (h *ContentHandler) HandlePutMetrics(w http.ResponseWriter, r *http.Request) {
	var req metricsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	saved, err := h.metrics.Put(r.Context(), model.Metrics(req))
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}
