package tenant

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/AJ1732/ts-server/internal/apperror"
	"github.com/AJ1732/ts-server/internal/blob"
	"github.com/AJ1732/ts-server/internal/logger"
)

// trackedUpload records one blob uploaded during the current request so it can
// be removed again if a later step fails.
type trackedUpload struct {
	key  string
	slot string
}

// uploadTracker is the request-scoped list of uploads to unwind on failure.
type uploadTracker struct {
	uploads []trackedUpload
}

func (u *uploadTracker) track(key, slot string) {
	u.uploads = append(u.uploads, trackedUpload{key: key, slot: slot})
}

// cleanup deletes every tracked blob, best-effort. Individual deletion errors
// are logged and swallowed so they never mask the error that triggered the
// unwind.
func (u *uploadTracker) cleanup(ctx context.Context, blobs blob.Store) {
	log := logger.FromContext(ctx)
	for _, up := range u.uploads {
		if err := blobs.Delete(ctx, up.key); err != nil {
			log.WithError(err).Warnf("cleanup: could not delete %s blob %s", up.slot, up.key)
		}
	}
}

func (s *service) Onboard(ctx context.Context, tenantID string, fields UpdateFields, files map[string]*File) (*Tenant, error) {
	tracker := &uploadTracker{}
	t, err := s.applyDocuments(ctx, tenantID, fields, files, true, tracker)
	if err != nil {
		tracker.cleanup(ctx, s.blobs)
		return nil, err
	}
	return t, nil
}

func (s *service) Update(ctx context.Context, tenantID string, fields UpdateFields, files map[string]*File) (*Tenant, error) {
	tracker := &uploadTracker{}
	t, err := s.applyDocuments(ctx, tenantID, fields, files, false, tracker)
	if err != nil {
		tracker.cleanup(ctx, s.blobs)
		return nil, err
	}
	return t, nil
}

// applyDocuments is the shared onboarding/update workflow. When onboarding is
// true every required slot must be present and onboardingComplete is set on
// commit. Uploads performed before a failure are recorded in tracker; the
// caller unwinds them.
func (s *service) applyDocuments(ctx context.Context, tenantID string, fields UpdateFields, files map[string]*File, onboarding bool, tracker *uploadTracker) (*Tenant, error) {
	log := logger.FromContext(ctx)

	inventoryTypes, err := decodeListField("inventoryTypes", fields.InventoryTypes)
	if err != nil {
		return nil, err
	}
	natureOfBusiness, err := decodeListField("natureOfBusiness", fields.NatureOfBusiness)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if onboarding {
		// fail fast before any upload is attempted
		for _, slot := range RequiredSlots {
			if f, ok := files[slot]; !ok || f == nil {
				return nil, apperror.Validation("%s document is required for onboarding", slot)
			}
		}
	}

	folder := "tenant-documents/" + tenantID
	docUpdates := make(map[string]DocumentMetadata, len(files))
	for _, slot := range sortedSlots(files) {
		file := files[slot]

		// replace the superseded blob first; a stale blob must not
		// block the new upload, so failures here are only logged
		if old, ok := existing.Documents[slot]; ok && old.StorageKey != "" {
			if err := s.blobs.Delete(ctx, old.StorageKey); err != nil {
				log.WithError(err).Warnf("could not delete old %s blob %s", slot, old.StorageKey)
			}
		}

		res, err := s.blobs.Upload(ctx, folder, file.Name, file.ContentType, file.Content)
		if err != nil {
			return nil, apperror.Upload(slot, err)
		}
		tracker.track(res.Key, slot)

		docUpdates[slot] = DocumentMetadata{
			Filename:   res.OriginalName,
			FileURL:    res.Location,
			StorageKey: res.Key,
			UploadedAt: time.Now().UTC(),
			Size:       res.Size,
			MimeType:   res.MimeType,
		}
	}

	updated := *existing
	applyFields(&updated, fields, inventoryTypes, natureOfBusiness)

	// merge over the snapshot so untouched slots are preserved
	merged := make(map[string]DocumentMetadata, len(existing.Documents)+len(docUpdates))
	for slot, doc := range existing.Documents {
		merged[slot] = doc
	}
	for slot, doc := range docUpdates {
		merged[slot] = doc
	}
	updated.Documents = merged

	if onboarding {
		updated.OnboardingComplete = true
	}

	// the single point of committed visibility
	return s.repo.Update(ctx, tenantID, &updated)
}

// decodeListField parses a JSON-encoded string list as submitted in multipart
// form fields. An empty value means "field not supplied".
func decodeListField(name, raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, apperror.Validation("%s must be a JSON array of strings", name)
	}
	return values, nil
}

func applyFields(t *Tenant, fields UpdateFields, inventoryTypes, natureOfBusiness []string) {
	if fields.TradingBrandName != "" {
		t.TradingBrandName = fields.TradingBrandName
	}
	if fields.CorporateAddress != "" {
		t.CorporateAddress = fields.CorporateAddress
	}
	if fields.CorporateRegistrationNumber != "" {
		t.CorporateRegistrationNumber = fields.CorporateRegistrationNumber
	}
	if fields.PrimaryContactName != "" {
		t.PrimaryContact.Name = fields.PrimaryContactName
	}
	if fields.PrimaryContactRole != "" {
		t.PrimaryContact.Role = fields.PrimaryContactRole
	}
	if fields.PrimaryContactPhone != "" {
		t.PrimaryContact.PhoneNumber = fields.PrimaryContactPhone
	}
	if fields.PrimaryContactEmail != "" {
		t.PrimaryContact.Email = fields.PrimaryContactEmail
	}
	if inventoryTypes != nil {
		t.InventoryTypes = inventoryTypes
	}
	if natureOfBusiness != nil {
		t.NatureOfBusiness = natureOfBusiness
	}
	if fields.Timezone != "" {
		t.Settings.Timezone = fields.Timezone
	}
	if fields.Currency != "" {
		t.Settings.Currency = fields.Currency
	}
	if fields.Language != "" {
		t.Settings.Language = fields.Language
	}
}

// sortedSlots returns the slot names in a stable order so uploads and their
// compensating deletes happen deterministically.
func sortedSlots(files map[string]*File) []string {
	slots := make([]string, 0, len(files))
	for slot := range files {
		if files[slot] == nil {
			continue
		}
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}
