package tenant

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AJ1732/ts-server/internal/apperror"
)

// Document slots collected during onboarding.
const (
	SlotCACCertificate = "cacCertificate"
	SlotValidID        = "validId"
	SlotUtilityBill    = "utilityBill"
)

// RequiredSlots must all be present in an onboarding request.
var RequiredSlots = []string{SlotCACCertificate, SlotValidID, SlotUtilityBill}

// DocumentMetadata describes one stored document. StorageKey is the join key
// between this record and the blob store.
type DocumentMetadata struct {
	Filename   string    `json:"filename"`
	FileURL    string    `json:"fileUrl"`
	StorageKey string    `json:"storageKey"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mimeType"`
}

// PrimaryContact is the tenant's main contact person.
type PrimaryContact struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// Settings holds per-tenant preferences.
type Settings struct {
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
	Language string `json:"language"`
}

// Tenant is a customer organization owning its own users, warehouses, and
// documents.
type Tenant struct {
	TenantID           string `json:"tenantId"`
	BusinessEmail      string `json:"businessEmail"`
	LegalBusinessName  string `json:"legalBusinessName"`
	PasswordHash       string `json:"-"`
	OnboardingComplete bool   `json:"onboardingComplete"`

	TradingBrandName            string         `json:"tradingBrandName,omitempty"`
	CorporateAddress            string         `json:"corporateAddress,omitempty"`
	CorporateRegistrationNumber string         `json:"corporateRegistrationNumber,omitempty"`
	PrimaryContact              PrimaryContact `json:"primaryContact"`
	InventoryTypes              []string       `json:"inventoryTypes,omitempty"`
	NatureOfBusiness            []string       `json:"natureOfBusiness,omitempty"`

	Documents map[string]DocumentMetadata `json:"documents,omitempty"`

	IsActive         bool      `json:"isActive"`
	SubscriptionPlan string    `json:"subscriptionPlan"`
	Settings         Settings  `json:"settings"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// BusinessNatureOptions and InventoryTypeOptions are the fixed choices offered
// during onboarding; custom values use an "OTHER:" prefix.
var (
	BusinessNatureOptions = []string{
		"FMCG", "Pharmaceuticals", "Manufacturing", "Retail", "Logistics",
		"Agriculture", "Automotive", "Construction", "E-Commerce", "Other",
	}
	InventoryTypeOptions = BusinessNatureOptions
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate checks the invariants enforced on every committed update.
func (t *Tenant) Validate() error {
	if t.CorporateAddress == "" {
		return apperror.Validation("Corporate address is required")
	}
	if len(t.CorporateAddress) > 500 {
		return apperror.Validation("Corporate address must be at most 500 characters")
	}
	if t.CorporateRegistrationNumber == "" {
		return apperror.Validation("Corporate registration number is required")
	}
	if len(t.CorporateRegistrationNumber) > 50 {
		return apperror.Validation("Corporate registration number must be at most 50 characters")
	}
	if len(t.TradingBrandName) > 100 {
		return apperror.Validation("Trading brand name must be at most 100 characters")
	}
	if t.PrimaryContact.Name == "" {
		return apperror.Validation("Primary contact name is required")
	}
	if t.PrimaryContact.Role == "" {
		return apperror.Validation("Primary contact role is required")
	}
	if t.PrimaryContact.PhoneNumber == "" {
		return apperror.Validation("Primary contact phone is required")
	}
	if !emailPattern.MatchString(t.PrimaryContact.Email) {
		return apperror.Validation("Please fill a valid email address")
	}
	if err := validateOptions("inventory type", t.InventoryTypes, InventoryTypeOptions); err != nil {
		return err
	}
	if err := validateOptions("business type", t.NatureOfBusiness, BusinessNatureOptions); err != nil {
		return err
	}
	return nil
}

func validateOptions(label string, values, allowed []string) error {
	if len(values) == 0 {
		return apperror.Validation("Select at least one %s", label)
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return apperror.Validation("Each %s must be a valid option or a non-empty custom value", label)
		}
		if strings.HasPrefix(v, "OTHER:") {
			continue
		}
		ok := false
		for _, a := range allowed {
			if v == a {
				ok = true
				break
			}
		}
		if !ok {
			return apperror.Validation("Each %s must be a valid option or a non-empty custom value", label)
		}
	}
	return nil
}

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// randomID returns n characters drawn from idAlphabet.
func randomID(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("randomID: %v", err))
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

// NewTenantID builds a stable tenant id from a slug of the legal business name
// plus a random suffix. Generated once at signup, immutable afterwards.
func NewTenantID(legalBusinessName string) string {
	var slug strings.Builder
	for _, r := range legalBusinessName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			slug.WriteRune(r)
		}
		if slug.Len() == 3 {
			break
		}
	}
	prefix := strings.ToUpper(slug.String())
	if prefix == "" {
		prefix = "TEN"
	}
	return prefix + randomID(7)
}
