package apperror

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NotFound("Tenant"), http.StatusNotFound},
		{Validation("cacCertificate document is required"), http.StatusBadRequest},
		{Conflict("Tenant already exists"), http.StatusConflict},
		{Auth("Authentication token is missing"), http.StatusUnauthorized},
		{Forbidden("wrong tenant context"), http.StatusForbidden},
		{Upload("validId", errors.New("connection reset")), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, Status(c.err), c.err.Error())
	}
}

func TestNormalizeDuplicateKey(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Constraint: "tenants_business_email_key"}
	err := Normalize(fmt.Errorf("insert: %w", pqErr), "Tenant")

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, KindConflict, appErr.Kind)
	assert.Equal(t, "Tenant already exists", appErr.Message)
}

func TestNormalizeNoRows(t *testing.T) {
	err := Normalize(sql.ErrNoRows, "Warehouse")
	assert.Equal(t, http.StatusNotFound, Status(err))
	assert.Equal(t, "Warehouse not found", Message(err))
}

func TestNormalizeKeepsAppErrors(t *testing.T) {
	orig := Forbidden("wrong tenant context")
	assert.Equal(t, orig, Normalize(orig, "Tenant"))
}

func TestUploadWrapsCause(t *testing.T) {
	cause := errors.New("slow down")
	err := Upload("utilityBill", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "utilityBill")
}

func TestMessageMasksUnknownErrors(t *testing.T) {
	assert.Equal(t, "Something went wrong", Message(errors.New("pq: password authentication failed")))
}
