package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meusugar/server/internal/catalog"
	"github.com/meusugar/server/internal/ledger"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/middleware"
	"github.com/meusugar/server/internal/model"
)

// TokenHandler serves balances, packages and purchases.
type TokenHandler struct {
	ledger   *ledger.Service
	packages *catalog.Packages
	log      logging.Logger
}

func NewTokenHandler(l *ledger.Service, packages *catalog.Packages, log logging.Logger) *TokenHandler {
	return &TokenHandler{ledger: l, packages: packages, log: log}
}

type purchaseRequest struct {
	PackageID string `json:"packageId"`
}

type setTokensRequest struct {
	Tokens *int64 `json:"tokens"`
}

type packageRequest struct {
	Tokens  int64           `json:"tokens"`
	Price   decimal.Decimal `json:"price"`
	Bonus   int64           `json:"bonus"`
	Popular bool            `json:"popular"`
}

// HandleBalance handles GET /tokens
func (h *TokenHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	balance, err := h.ledger.Balance(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// HandlePurchase handles POST /tokens/purchase
func (h *TokenHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	receipt, err := h.ledger.Purchase(r.Context(), userID, req.PackageID)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, receipt)
}

// HandleSetUserTokens handles PUT /admin/users/{id}/tokens
func (h *TokenHandler) HandleSetUserTokens(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var req setTokensRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	if req.Tokens == nil {
		respondWithError(w, http.StatusBadRequest, "tokens is required")
		return
	}

	balance, err := h.ledger.Set(r.Context(), userID, *req.Tokens)
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}

// HandleListPackages handles GET /packages
func (h *TokenHandler) HandleListPackages(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.packages.List(r.Context()))
}

// HandlePutPackage handles PUT /packages/{id}
func (h *TokenHandler) HandlePutPackage(w http.ResponseWriter, r *http.Request) {
	var req packageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}

	saved, err := h.packages.Put(r.Context(), model.TokenPackage{
		ID:      chi.URLParam(r, "id"),
		Tokens:  req.Tokens,
		Price:   req.Price,
		Bonus:   req.Bonus,
		Popular: req.Popular,
	})
	if err != nil {
		respondWithAppError(w, r, h.log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}
