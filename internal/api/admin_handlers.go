package api

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/api/middleware"
	"github.com/example/vendor-market/internal/catalog"
	"github.com/example/vendor-market/internal/orders"
)

// AdminHandlers serves the admin dashboard: user role management, listing
// confirmation, the all-orders view and the vendor export.
type AdminHandlers struct {
	accountSvc *account.Service
	catalogSvc *catalog.Service
	orderSvc   *orders.Service
}

func NewAdminHandlers(accountSvc *account.Service, catalogSvc *catalog.Service, orderSvc *orders.Service) *AdminHandlers {
	return &AdminHandlers{
		accountSvc: accountSvc,
		catalogSvc: catalogSvc,
		orderSvc:   orderSvc,
	}
}

// GetAllUsers lists every account.
func (h *AdminHandlers) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.accountSvc.List(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	respondJSON(w, http.StatusOK, out)
}

// UpdateUserRole sets an account's role, typically approving a pending
// vendor request.
func (h *AdminHandlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID := extractPathParam(r.URL.Path, "/api/admin/users/")

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	role, err := account.ParseRole(req.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	u, err := h.accountSvc.UpdateRole(r.Context(), userID, role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// GetAllOrders returns every order with user, vendor and product details
// resolved for the dashboard.
func (h *AdminHandlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	views, err := h.orderSvc.AllOrders(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// ConfirmProduct marks a listing as confirmed by the calling admin.
func (h *AdminHandlers) ConfirmProduct(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetUserID(r.Context())
	productID := extractPathParam(r.URL.Path, "/api/admin/products/")

	p, err := h.catalogSvc.Confirm(r.Context(), adminID, productID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// GetVendors lists all vendor accounts.
func (h *AdminHandlers) GetVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.accountSvc.Vendors(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	out := make([]UserResponse, len(vendors))
	for i, u := range vendors {
		out[i] = toUserResponse(u)
	}
	respondJSON(w, http.StatusOK, out)
}

// GetVendorDetails returns one vendor together with their listings.
func (h *AdminHandlers) GetVendorDetails(w http.ResponseWriter, r *http.Request) {
	vendorID := extractPathParam(r.URL.Path, "/api/admin/vendors/")

	u, err := h.accountSvc.Get(r.Context(), vendorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	products, err := h.catalogSvc.ListByVendor(r.Context(), vendorID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"vendor":   toUserResponse(u),
		"products": products,
	})
}

// DownloadVendorsCSV streams a CSV export of all vendors and their listing
// counts.
func (h *AdminHandlers) DownloadVendorsCSV(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.accountSvc.Vendors(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="vendors.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "name", "email", "listings", "registered_at"})
	for _, v := range vendors {
		count := 0
		if products, err := h.catalogSvc.ListByVendor(r.Context(), v.ID); err == nil {
			count = len(products)
		}
		_ = cw.Write([]string{
			v.ID,
			v.Name,
			v.Email,
			strconv.Itoa(count),
			v.CreatedAt.Format("2006-01-02"),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		// Headers are already out; nothing left to do but log.
		log.Printf("[API] CSV export failed: %v", err)
	}
}
