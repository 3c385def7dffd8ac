package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/modules/auth"
	"github.com/AJ1732/ts-server/internal/modules/tenant"
	"github.com/AJ1732/ts-server/internal/respond"
)

// Handler exposes admin HTTP endpoints: account management plus the platform
// surface over tenants.
type Handler struct {
	service Service
	tenants tenant.Service
	guard   *auth.Middleware
}

// NewHandler creates a new admin handler.
func NewHandler(service Service, tenants tenant.Service, guard *auth.Middleware) *Handler {
	return &Handler{service: service, tenants: tenants, guard: guard}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/admin", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/signin", h.signin)
		r.Post("/signout", h.signout)

		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require(auth.ScopeAdmin))
			r.Get("/tenants", h.listTenants)
			r.Get("/tenants/{tenantId}", h.getTenant)
			r.Delete("/tenants/{tenantId}", h.deleteTenant)
		})
	})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.Validation("Request body must be JSON"))
		return
	}
	a, token, err := h.service.Signup(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusCreated, map[string]interface{}{
		"admin": a,
		"token": token,
	})
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.Validation("Request body must be JSON"))
		return
	}
	a, token, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	auth.SetTokenCookie(w, token, int(auth.AdminTokenTTL.Seconds()))
	respond.Data(w, http.StatusOK, a)
}

func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w)
	respond.Message(w, http.StatusOK, "Signed out")
}

func (h *Handler) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.tenants.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.List(w, http.StatusOK, len(tenants), tenants)
}

func (h *Handler) getTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.tenants.Get(r.Context(), chi.URLParam(r, "tenantId"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, t)
}

// deleteTenant removes the tenant's stored documents before the record itself
// so no blobs are left behind.
func (h *Handler) deleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.tenants.Delete(r.Context(), chi.URLParam(r, "tenantId")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "Tenant deleted")
}
