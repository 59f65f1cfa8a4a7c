// Package httpapi is the thin JSON surface between the chat
// collaborator and the commerce core: one endpoint per intent, no auth
// beyond the opaque user id the collaborator resolves upstream.
package httpapi

import (
	"encoding/json"
	"net/http"

	"chatshop-be/internal/logger"
	"chatshop-be/internal/shop"

	"go.uber.org/zap"
)

type Handler struct {
	shop shop.Service
}

func NewHandler(shopSvc shop.Service) *Handler {
	return &Handler{shop: shopSvc}
}

// Router assembles the intent routes behind the shared middleware chain.
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", h.Health)
	mux.HandleFunc("GET /products", h.Browse)
	mux.HandleFunc("POST /cart", h.AddToCart)
	mux.HandleFunc("GET /cart", h.ViewCart)
	mux.HandleFunc("POST /checkout", h.Checkout)
	mux.HandleFunc("GET /orders", h.ViewOrders)

	rl := newRateLimiter()
	return RequestIDMiddleware(LoggingMiddleware(rl.middleware(mux)))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, shop.CategoryNotFound, "unknown route")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "running"})
}

func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	products, err := h.shop.Browse(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

type addToCartRequest struct {
	UserID   string `json:"user_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, shop.CategoryInvalidQuantity, "invalid request body")
		return
	}

	line, err := h.shop.AddToCart(r.Context(), req.UserID, req.ItemID, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"line": line})
}

func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		writeError(w, http.StatusBadRequest, shop.CategoryInvalidQuantity, "user_id is required")
		return
	}

	view, err := h.shop.ViewCart(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cart": view})
}

type checkoutRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		writeError(w, http.StatusBadRequest, shop.CategoryInvalidQuantity, "user_id is required")
		return
	}

	o, err := h.shop.Checkout(r.Context(), req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"order": o})
}

func (h *Handler) ViewOrders(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromRequest(r)
	if userID == "" {
		writeError(w, http.StatusBadRequest, shop.CategoryInvalidQuantity, "user_id is required")
		return
	}

	orders, err := h.shop.ViewOrders(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// fail translates a service error into a status code plus the message
// category the chat layer renders guidance from.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	category := shop.Category(err)

	status := http.StatusInternalServerError
	switch category {
	case shop.CategoryNotFound:
		status = http.StatusNotFound
	case shop.CategoryInvalidQuantity:
		status = http.StatusBadRequest
	case shop.CategoryInsufficientStock, shop.CategoryItemUnavailable, shop.CategoryEmptyCart:
		status = http.StatusConflict
	case shop.CategoryUnavailable:
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("category", category),
			zap.Error(err),
		)
	}

	writeError(w, status, category, err.Error())
}

func userIDFromRequest(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, category, message string) {
	writeJSON(w, status, map[string]string{
		"error":    message,
		"category": category,
	})
}
