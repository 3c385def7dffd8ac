package tenant

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/modules/auth"
	"github.com/AJ1732/ts-server/internal/respond"
)

// Handler exposes tenant HTTP endpoints.
type Handler struct {
	service Service
	guard   *auth.Middleware
}

// NewHandler creates a new tenant handler.
func NewHandler(service Service, guard *auth.Middleware) *Handler {
	return &Handler{service: service, guard: guard}
}

func (h *Handler) RegisterRoutes(router *chi.Mux) {
	router.Route("/api/v1/tenants", func(r chi.Router) {
		// Public routes
		r.Post("/signup", h.signup)
		r.Post("/signin", h.signin)
		r.Post("/signout", h.signout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require(auth.ScopeTenant))
			r.Post("/{tenantId}/onboard", h.onboard)
			r.Get("/{tenantId}", h.get)
			r.Put("/{tenantId}", h.update)
			r.Get("/{tenantId}/documents/{slot}/url", h.documentURL)
		})
	})
}

// requireTenantContext ensures the authenticated tenant matches the tenant in
// the URL.
func requireTenantContext(r *http.Request) (string, error) {
	tenantID := chi.URLParam(r, "tenantId")
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		return "", apperror.Auth("Missing authenticated tenant")
	}
	if claims.Subject != tenantID {
		return "", apperror.Forbidden("Forbidden: wrong tenant context")
	}
	return tenantID, nil
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, apperror.Validation("Request body must be JSON"))
		return
	}
	t, err := h.service.Signup(r.Context(), req)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusCreated, map[string]interface{}{
		"tenantId":   t.TenantID,
		"email":      t.BusinessEmail,
		"onboarding": t.OnboardingComplete,
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
	t, token, err := h.service.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	auth.SetTokenCookie(w, token, int(auth.TenantTokenTTL.Seconds()))
	respond.Data(w, http.StatusOK, map[string]interface{}{
		"tenantId":   t.TenantID,
		"onboarding": t.OnboardingComplete,
	})
}

func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w)
	respond.Message(w, http.StatusOK, "Signed out")
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tenantID, err := requireTenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	t, err := h.service.Get(r.Context(), tenantID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, t)
}

func (h *Handler) onboard(w http.ResponseWriter, r *http.Request) {
	tenantID, err := requireTenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	fields, files, err := parseDocumentForm(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	t, err := h.service.Onboard(r.Context(), tenantID, fields, files)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tenantID, err := requireTenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	fields, files, err := parseDocumentForm(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	t, err := h.service.Update(r.Context(), tenantID, fields, files)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, t)
}

func (h *Handler) documentURL(w http.ResponseWriter, r *http.Request) {
	tenantID, err := requireTenantContext(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	slot := chi.URLParam(r, "slot")
	url, err := h.service.DocumentURL(r.Context(), tenantID, slot, time.Hour)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]string{"url": url})
}

// Upload limits mirror the upload middleware of the web client contract.
const (
	maxFileSize  = 10 << 20 // 10MB per file
	maxFileCount = 5
)

var allowedMimeTypes = []string{
	"image/jpeg", "image/png", "image/webp", "image/jpg",
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
}

var dangerousExtensions = []string{".exe", ".bat", ".sh", ".js", ".jar", ".msi", ".scr"}

// parseDocumentForm extracts form fields and document files from a multipart
// request. File fields are named documents[<slot>].
func parseDocumentForm(r *http.Request) (UpdateFields, map[string]*File, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return UpdateFields{}, nil, apperror.Validation("Request body must be multipart form data")
	}

	fields := UpdateFields{
		TradingBrandName:            r.FormValue("tradingBrandName"),
		CorporateAddress:            r.FormValue("corporateAddress"),
		CorporateRegistrationNumber: r.FormValue("corporateRegistrationNumber"),
		PrimaryContactName:          r.FormValue("primaryContactName"),
		PrimaryContactRole:          r.FormValue("primaryContactRole"),
		PrimaryContactPhone:         r.FormValue("primaryContactPhone"),
		PrimaryContactEmail:         r.FormValue("primaryContactEmail"),
		InventoryTypes:              r.FormValue("inventoryTypes"),
		NatureOfBusiness:            r.FormValue("natureOfBusiness"),
		Timezone:                    r.FormValue("timezone"),
		Currency:                    r.FormValue("currency"),
		Language:                    r.FormValue("language"),
	}

	files := make(map[string]*File)
	if r.MultipartForm == nil {
		return fields, files, nil
	}
	count := 0
	for field, headers := range r.MultipartForm.File {
		if len(headers) == 0 {
			continue
		}
		count++
		if count > maxFileCount {
			return UpdateFields{}, nil, apperror.Validation("At most %d files are allowed per request", maxFileCount)
		}
		slot := slotFromField(field)
		file, err := readUpload(headers[0])
		if err != nil {
			return UpdateFields{}, nil, err
		}
		files[slot] = file
	}
	return fields, files, nil
}

// slotFromField maps the form field name documents[cacCertificate] to its
// slot name.
func slotFromField(field string) string {
	slot := strings.TrimPrefix(field, "documents[")
	return strings.TrimSuffix(slot, "]")
}

func readUpload(header *multipart.FileHeader) (*File, error) {
	if header.Size > maxFileSize {
		return nil, apperror.Validation("File too large. Max size: %dMB", maxFileSize>>20)
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	for _, bad := range dangerousExtensions {
		if ext == bad {
			return nil, apperror.Validation("Potentially dangerous file type detected")
		}
	}
	contentType := header.Header.Get("Content-Type")
	ok := false
	for _, mime := range allowedMimeTypes {
		if contentType == mime {
			ok = true
			break
		}
	}
	if !ok {
		return nil, apperror.Validation("Invalid file type. Allowed types: %s", strings.Join(allowedMimeTypes, ", "))
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(content)) > maxFileSize {
		return nil, apperror.Validation("File too large. Max size: %dMB", maxFileSize>>20)
	}

	return &File{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        int64(len(content)),
		Content:     content,
	}, nil
}
