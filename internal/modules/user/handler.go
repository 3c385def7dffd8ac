package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/modules/auth"
	"github.com/AJ1732/ts-server/internal/respond"
)

// Handler exposes user HTTP endpoints. Management routes live under the
// owning tenant; signin and self-service routes live under /users.
type Handler struct {
	service Service
	guard   *auth.Middleware
}

// NewHandler creates a new user handler.
func NewHandler(service Service, guard *auth.Middleware) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/tenants/{tenantId}/users", func(r chi.Router) {
		r.Use(h.guard.Require(auth.ScopeTenant))
		r.Post("/", h.create)
		r.Get("/", h.listForTenant)
		r.Get("/{userId}", h.getForTenant)
		r.Put("/{userId}", h.update)
		r.Delete("/{userId}", h.delete)
	})

	router.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/signin", h.signin)
		r.Post("/signout", h.signout)

		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require(auth.ScopeUser))
			r.Get("/", h.listForWarehouse)
			r.Get("/{userId}", h.getForWarehouse)
		})
	})
}

// tenantContext verifies the tenant token matches the tenant named in the URL.
func tenantContext(r *http.Request) (string, error) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		return "", apperror.Auth("Missing authenticated tenant")
	}
	tenantID := chi.URLParam(r, "tenantId")
	if claims.Subject != tenantID {
		return "", apperror.Forbidden("Forbidden: wrong tenant context")
	}
	return tenantID, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.Validation("Request body must be JSON"))
		return
	}
	created, err := h.service.Create(r.Context(), tenantID, req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusCreated, created)
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
	u, token, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	auth.SetTokenCookie(w, token, int(auth.UserTokenTTL.Seconds()))
	respond.Data(w, http.StatusOK, map[string]string{
		"email":       u.Email,
		"tenantId":    u.TenantID,
		"warehouseId": u.WarehouseID,
		"role":        u.Role,
	})
}

func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w)
	respond.Message(w, http.StatusOK, "Signed out")
}

func (h *Handler) listForTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	users, err := h.service.ListByTenant(r.Context(), tenantID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.List(w, http.StatusOK, len(users), users)
}

func (h *Handler) getForTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	u, err := h.service.Get(r.Context(), tenantID, chi.URLParam(r, "userId"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, u)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.Validation("Request body must be JSON"))
		return
	}
	updated, err := h.service.Update(r.Context(), tenantID, chi.URLParam(r, "userId"), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), tenantID, chi.URLParam(r, "userId")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "User deleted")
}

// listForWarehouse lets a manager enumerate the users of their own warehouse.
func (h *Handler) listForWarehouse(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Auth("Authentication required"))
		return
	}
	if claims.Role != RoleManager {
		respond.Error(w, r, apperror.Forbidden("Forbidden: manager role required"))
		return
	}
	users, err := h.service.ListByWarehouse(r.Context(), claims.TenantID, claims.WarehouseID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.List(w, http.StatusOK, len(users), users)
}

func (h *Handler) getForWarehouse(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		respond.Error(w, r, apperror.Auth("Authentication required"))
		return
	}
	u, err := h.service.GetInWarehouse(r.Context(), claims.TenantID, claims.WarehouseID, chi.URLParam(r, "userId"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, u)
}
