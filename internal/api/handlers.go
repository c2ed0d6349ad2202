package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/api/middleware"
	"github.com/example/vendor-market/internal/catalog"
	"github.com/example/vendor-market/internal/infrastructure/redisx"
	"github.com/example/vendor-market/internal/orders"
	"github.com/redis/go-redis/v9"
)

// Handlers serves the public catalog and the order endpoints.
type Handlers struct {
	catalogSvc *catalog.Service
	orderSvc   *orders.Service
	cache      *redis.Client // nil disables caching
}

func NewHandlers(catalogSvc *catalog.Service, orderSvc *orders.Service, cache *redis.Client) *Handlers {
	return &Handlers{
		catalogSvc: catalogSvc,
		orderSvc:   orderSvc,
		cache:      cache,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		if s, err := h.cache.Get(ctx, redisx.KeyProductList).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	products, err := h.catalogSvc.List(ctx)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		if b, err := json.Marshal(products); err == nil {
			// Best-effort cache fill; a miss just hits the store again.
			_ = h.cache.Set(ctx, redisx.KeyProductList, b, redisx.TTLProductList).Err()
		}
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/products/")
	product, err := h.catalogSvc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GetMarketplaces lists the valid marketplace venues for listing forms.
func (h *Handlers) GetMarketplaces(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, catalog.Marketplaces())
}

// Order Handlers

// PlaceOrderRequest is the cart submission: ordered line items plus the
// client's declared total and the marketplace venue.
type PlaceOrderRequest struct {
	OrderItems  []orders.CartItem `json:"order_items"`
	TotalPrice  int               `json:"total_price"`
	Marketplace string            `json:"marketplace"`
}

func (h *Handlers) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderSvc.PlaceOrder(r.Context(), userID, req.OrderItems, req.TotalPrice, catalog.Marketplace(req.Marketplace))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	h.invalidateProductCache(r)
	respondJSON(w, http.StatusCreated, order)
}

func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	views, err := h.orderSvc.UserOrders(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// invalidateProductCache drops the cached product list after stock moved.
func (h *Handlers) invalidateProductCache(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(r.Context(), redisx.KeyProductList).Err(); err != nil {
		log.Printf("[API] Failed to invalidate product cache: %v", err)
	}
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// respondServiceError maps domain errors onto HTTP statuses: validation
// failures to 400, missing entities to 404, ownership to 403, store
// failures to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *orders.ValidationError
	var nfe *orders.NotFoundError
	var pe *orders.PersistenceError

	switch {
	case errors.As(err, &ve):
		respondJSONError(w, ve.Msg, http.StatusBadRequest)
	case errors.As(err, &nfe):
		respondJSONError(w, nfe.Error(), http.StatusNotFound)
	case errors.As(err, &pe):
		log.Printf("[API] Store failure: %v", pe)
		respondJSONError(w, "internal server error", http.StatusInternalServerError)
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, account.ErrUserNotFound),
		errors.Is(err, orders.ErrOrderNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrNotOwner):
		respondJSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, account.ErrEmailTaken):
		respondJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, catalog.ErrInvalidName),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, catalog.ErrInsufficientStock),
		errors.Is(err, catalog.ErrUnknownMarketplace),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrInvalidName),
		errors.Is(err, account.ErrAlreadyVendor),
		errors.Is(err, account.ErrUnknownRole):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[API] Unexpected error: %v", err)
		respondJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func extractPathParam(path, prefix string) string {
	param := strings.TrimPrefix(path, prefix)
	if i := strings.IndexByte(param, '/'); i >= 0 {
		param = param[:i]
	}
	return param
}
