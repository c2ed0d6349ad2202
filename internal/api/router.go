package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/example/vendor-market/internal/api/middleware"
	"github.com/example/vendor-market/internal/auth"
)

// RouterConfig wires the handler groups into the router.
type RouterConfig struct {
	Handlers       *Handlers
	AuthHandlers   *AuthHandlers
	VendorHandlers *VendorHandlers
	AdminHandlers  *AdminHandlers
	JWTService     *auth.JWTService
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := middleware.Protect(cfg.JWTService)
	authorize := func(op middleware.Operation, h http.HandlerFunc) http.Handler {
		return protect(middleware.Authorize(op)(h))
	}

	// Auth
	mux.HandleFunc("/api/users/register", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.AuthHandlers.Register(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.AuthHandlers.Login(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.Handle("/api/users/logout", protect(http.HandlerFunc(cfg.AuthHandlers.Logout)))
	mux.Handle("/api/users/me", protect(http.HandlerFunc(cfg.AuthHandlers.Me)))

	// Public catalog
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetProducts(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.Handlers.GetProduct(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/marketplaces", cfg.Handlers.GetMarketplaces)

	// Orders
	mux.Handle("/api/orders", authorize(middleware.OpPlaceOrder, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.Handlers.PlaceOrder(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/orders/myorders", authorize(middleware.OpViewOwnOrders, cfg.Handlers.GetMyOrders))

	// Vendor dashboard
	mux.Handle("/api/vendors/request", authorize(middleware.OpRequestVendor, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cfg.VendorHandlers.RequestVendorStatus(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/vendors/products", authorize(middleware.OpManageListing, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			cfg.VendorHandlers.GetMyProducts(w, r)
		case http.MethodPost:
			cfg.VendorHandlers.CreateProduct(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/vendors/products/", authorize(middleware.OpManageListing, func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/stock") && r.Method == http.MethodPost:
			cfg.VendorHandlers.AdjustStock(w, r)
		case r.Method == http.MethodPut:
			cfg.VendorHandlers.UpdateProduct(w, r)
		case r.Method == http.MethodDelete:
			cfg.VendorHandlers.DeleteProduct(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	// Admin dashboard
	mux.Handle("/api/admin/users", authorize(middleware.OpAdminUsers, cfg.AdminHandlers.GetAllUsers))
	mux.Handle("/api/admin/users/", authorize(middleware.OpAdminUsers, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/role") && r.Method == http.MethodPut:
			cfg.AdminHandlers.UpdateUserRole(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/admin/orders", authorize(middleware.OpAdminOrders, cfg.AdminHandlers.GetAllOrders))
	mux.Handle("/api/admin/products/", authorize(middleware.OpAdminCatalog, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/confirm") && r.Method == http.MethodPost:
			cfg.AdminHandlers.ConfirmProduct(w, r)
		default:
			respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/api/admin/vendors", authorize(middleware.OpAdminVendors, cfg.AdminHandlers.GetVendors))
	mux.Handle("/api/admin/vendors/download/csv", authorize(middleware.OpAdminVendors, cfg.AdminHandlers.DownloadVendorsCSV))
	mux.Handle("/api/admin/vendors/", authorize(middleware.OpAdminVendors, cfg.AdminHandlers.GetVendorDetails))

	// Health check
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
