package api

import (
	"encoding/json"
	"net/http"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/api/middleware"
	"github.com/example/vendor-market/internal/catalog"
)

// VendorHandlers serves the vendor dashboard: listing CRUD, manual stock
// adjustment and the vendor status request.
type VendorHandlers struct {
	accountSvc *account.Service
	catalogSvc *catalog.Service
}

func NewVendorHandlers(accountSvc *account.Service, catalogSvc *catalog.Service) *VendorHandlers {
	return &VendorHandlers{
		accountSvc: accountSvc,
		catalogSvc: catalogSvc,
	}
}

// RequestVendorStatus moves the caller to the pending role for admin review.
func (h *VendorHandlers) RequestVendorStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	u, err := h.accountSvc.RequestVendorStatus(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Vendor status requested",
		"role":    string(u.Role),
	})
}

// CreateProduct adds a new listing owned by the calling vendor.
func (h *VendorHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var in catalog.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalogSvc.Create(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// GetMyProducts lists the calling vendor's own listings.
func (h *VendorHandlers) GetMyProducts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	products, err := h.catalogSvc.ListByVendor(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

// UpdateProduct modifies a listing the caller owns (admins may modify any).
func (h *VendorHandlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserFromContext(r.Context())
	productID := extractPathParam(r.URL.Path, "/api/vendors/products/")

	var in catalog.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.catalogSvc.Update(r.Context(), claims.UserID, account.Role(claims.Role), productID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// DeleteProduct removes a listing the caller owns (admins may remove any).
func (h *VendorHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserFromContext(r.Context())
	productID := extractPathParam(r.URL.Path, "/api/vendors/products/")

	if err := h.catalogSvc.Delete(r.Context(), claims.UserID, account.Role(claims.Role), productID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product removed"})
}

// AdjustStock applies a manual stock delta to one of the caller's listings.
// This is the simple mutation path; orders go through reconciliation.
func (h *VendorHandlers) AdjustStock(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserFromContext(r.Context())
	productID := extractPathParam(r.URL.Path, "/api/vendors/products/")

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Delta == 0 {
		respondJSONError(w, "delta must not be zero", http.StatusBadRequest)
		return
	}

	p, err := h.catalogSvc.AdjustStock(r.Context(), claims.UserID, account.Role(claims.Role), productID, req.Delta)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
