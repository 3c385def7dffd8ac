package warehouse

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/modules/auth"
	"github.com/AJ1732/ts-server/internal/respond"
)

// Handler exposes warehouse HTTP endpoints. Routes are scoped to the tenant
// carried by the authenticated user's token.
type Handler struct {
	service Service
	guard   *auth.Middleware
}

// NewHandler creates a new warehouse handler.
func NewHandler(service Service, guard *auth.Middleware) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/warehouses", func(r chi.Router) {
		r.Use(h.guard.Require(auth.ScopeUser))
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Get("/{warehouseId}", h.get)
		r.Put("/{warehouseId}", h.update)
		r.Delete("/{warehouseId}", h.delete)
	})
}

func tenantFromClaims(r *http.Request) (string, error) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok || claims.TenantID == "" {
		return "", apperror.Auth("Missing authenticated user")
	}
	return claims.TenantID, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantFromClaims(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.Validation("Request body must be JSON"))
		return
	}
	warehouse, err := h.service.Create(r.Context(), tenantID, req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusCreated, warehouse)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantFromClaims(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	warehouses, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.List(w, http.StatusOK, len(warehouses), warehouses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantFromClaims(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	warehouse, err := h.service.Get(r.Context(), tenantID, chi.URLParam(r, "warehouseId"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, warehouse)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantFromClaims(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.Validation("Request body must be JSON"))
		return
	}
	warehouse, err := h.service.Update(r.Context(), tenantID, chi.URLParam(r, "warehouseId"), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, warehouse)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tenantID, err := tenantFromClaims(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), tenantID, chi.URLParam(r, "warehouseId")); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "Warehouse deleted")
}
