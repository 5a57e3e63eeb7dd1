package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"portal-backend/internal/shared/storage/object"
	"portal-backend/internal/shared/telemetry"
	"portal-backend/internal/shared/util"
)

// serviceTypes are the portal's document categories.
var serviceTypes = map[string]struct{}{
	"accounts":    {},
	"tax":         {},
	"payroll":     {},
	"vat":         {},
	"bookkeeping": {},
	"other":       {},
}

// Service contains the document business logic. Blobs are written before
// metadata so a listed document always has a backing object.
type Service struct {
	Store  object.Store
	Repo   Repo
	URLTTL time.Duration
}

func NewService(store object.Store, repo Repo, urlTTL time.Duration) *Service {
	if urlTTL <= 0 {
		urlTTL = time.Hour
	}
	return &Service{Store: store, Repo: repo, URLTTL: urlTTL}
}

// Upload stores the file and records its metadata.
func (s *Service) Upload(ctx context.Context, userID, fileName, serviceType string, r io.Reader) (Document, error) {
	cleanName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, fmt.Errorf("%w: invalid file name", ErrInvalidInput)
	}

	serviceType = strings.ToLower(strings.TrimSpace(serviceType))
	if serviceType == "" {
		serviceType = "other"
	}
	if _, ok := serviceTypes[serviceType]; !ok {
		return Document{}, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, serviceType)
	}

	id := ulid.Make().String()
	storageKey := util.HashUserKey(userID) + "/" + id

	size, mimeType, err := s.Store.Save(ctx, storageKey, r)
	if err != nil {
		return Document{}, fmt.Errorf("store document: %w", err)
	}

	doc := Document{
		ID:          id,
		UserID:      userID,
		FileName:    cleanName,
		ServiceType: serviceType,
		MimeType:    mimeType,
		SizeBytes:   size,
		StorageKey:  storageKey,
		UploadedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// The blob is orphaned otherwise; removal failure is only logged.
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("documents.orphan_blob", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, err
	}

	return doc, nil
}

// DocumentWithURL pairs a document with its current signed download URL.
// URL is empty when signing failed; the listing still includes the row.
type DocumentWithURL struct {
	Document
	URL string
}

// List returns the user's documents newest first, each with a fresh
// signed URL. The filter may narrow by service type and upload year.
func (s *Service) List(ctx context.Context, userID string, f ListFilter) ([]DocumentWithURL, error) {
	f.ServiceType = strings.ToLower(strings.TrimSpace(f.ServiceType))
	if f.ServiceType != "" {
		if _, ok := serviceTypes[f.ServiceType]; !ok {
			return nil, fmt.Errorf("%w: unknown service type %q", ErrInvalidInput, f.ServiceType)
		}
	}

	docs, err := s.Repo.ListByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	out := make([]DocumentWithURL, 0, len(docs))
	for _, doc := range docs {
		url, err := s.Store.SignedURL(ctx, doc.StorageKey, s.URLTTL)
		if err != nil {
			telemetry.Warn("documents.sign_url_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
			url = ""
		}
		out = append(out, DocumentWithURL{Document: doc, URL: url})
	}
	return out, nil
}

// DownloadURL returns a fresh signed URL for one document the user owns.
// When no URL can be produced the document is reported as not found.
func (s *Service) DownloadURL(ctx context.Context, userID, id string) (string, error) {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return "", err
	}
	url, err := s.Store.SignedURL(ctx, doc.StorageKey, s.URLTTL)
	if err != nil {
		telemetry.Warn("documents.sign_url_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return "", ErrNotFound
	}
	return url, nil
}

// Delete removes the blob first, then the metadata row. The row delete is
// scoped by both id and owner.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}
	return s.Repo.Delete(ctx, id, userID)
}

// owned loads a document and hides other users' rows behind ErrNotFound.
func (s *Service) owned(ctx context.Context, userID, id string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}
