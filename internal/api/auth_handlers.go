package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/api/middleware"
	"github.com/example/vendor-market/internal/auth"
)

// AuthHandlers handles registration, login and session endpoints.
type AuthHandlers struct {
	accountSvc *account.Service
	jwtService *auth.JWTService
}

func NewAuthHandlers(accountSvc *account.Service, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		accountSvc: accountSvc,
		jwtService: jwtService,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User    UserResponse `json:"user"`
	Token   string       `json:"token,omitempty"`
	Message string       `json:"message,omitempty"`
}

// UserResponse represents account data in responses
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *account.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// Register handles user registration
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.accountSvc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if err == auth.ErrPasswordTooShort {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondServiceError(w, err)
		return
	}

	token := h.setAuthCookie(w, r, u)
	respondJSON(w, http.StatusCreated, AuthResponse{
		User:    toUserResponse(u),
		Token:   token,
		Message: "Registration successful",
	})
}

// Login handles user login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.accountSvc.Authenticate(r.Context(), req.Email, req.Password)
	if err == account.ErrBadCredentials {
		respondJSONError(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err == account.ErrUserDeactivated {
		respondJSONError(w, err.Error(), http.StatusForbidden)
		return
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token := h.setAuthCookie(w, r, u)
	respondJSON(w, http.StatusOK, AuthResponse{
		User:    toUserResponse(u),
		Token:   token,
		Message: "Login successful",
	})
}

// Logout clears the auth cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

// Me returns the current authenticated user's information
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.accountSvc.Get(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

// setAuthCookie issues an access token as an HTTP-only cookie and returns
// it for Bearer-style clients.
func (h *AuthHandlers) setAuthCookie(w http.ResponseWriter, r *http.Request, u *account.User) string {
	token, expiresAt, _ := h.jwtService.GenerateToken(u.ID, u.Email, string(u.Role))

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}
