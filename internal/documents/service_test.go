package documents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"portal-backend/internal/shared/storage/object"
	"portal-backend/internal/shared/storage/object/local"
	"portal-backend/internal/shared/util"
)

func newTestService(t *testing.T) (*Service, *local.Store) {
	t.Helper()
	store := local.New(t.TempDir(), "test-secret", "")
	return NewService(store, NewMemoryRepo(), time.Hour), store
}

func TestUploadStoresBlobAndMetadata(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "accounts 2025.pdf", "accounts", strings.NewReader("%PDF-1.4 content"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.FileName != "accounts 2025.pdf" {
		t.Fatalf("file name = %q", doc.FileName)
	}
	if doc.ServiceType != "accounts" {
		t.Fatalf("service type = %q", doc.ServiceType)
	}
	wantPrefix := util.HashUserKey("user-1") + "/"
	if !strings.HasPrefix(doc.StorageKey, wantPrefix) {
		t.Fatalf("storage key %q lacks owner prefix", doc.StorageKey)
	}

	rc, err := store.Open(ctx, doc.StorageKey)
	if err != nil {
		t.Fatalf("blob missing: %v", err)
	}
	rc.Close()
}

func TestUploadRejectsTraversalFileName(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), "user-1", "../../etc/passwd", "tax", strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestUploadRejectsUnknownServiceType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "user-1", "a.pdf", "gardening", strings.NewReader("x")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}

	doc, err := svc.Upload(ctx, "user-1", "a.pdf", "", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.ServiceType != "other" {
		t.Fatalf("default service type = %q", doc.ServiceType)
	}
}

func TestUploadCleansBlobWhenMetadataFails(t *testing.T) {
	dir := t.TempDir()
	store := local.New(dir, "test-secret", "")
	svc := NewService(store, failingRepo{}, time.Hour)

	_, err := svc.Upload(context.Background(), "user-1", "a.pdf", "tax", strings.NewReader("content"))
	if err == nil {
		t.Fatal("upload succeeded with failing repo")
	}

	ownerDir := filepath.Join(dir, util.HashUserKey("user-1"))
	entries, readErr := os.ReadDir(ownerDir)
	if readErr == nil && len(entries) > 0 {
		t.Fatalf("blob left behind: %v", entries[0].Name())
	}
}

func TestListNewestFirstWithSignedURLs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Upload(ctx, "user-1", "first.pdf", "tax", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	second, err := svc.Upload(ctx, "user-1", "second.pdf", "tax", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.Upload(ctx, "user-2", "other.pdf", "tax", strings.NewReader("c")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	docs, err := svc.List(ctx, "user-1", ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d docs", len(docs))
	}
	if docs[0].ID != second.ID || docs[1].ID != first.ID {
		t.Fatalf("wrong order: %s, %s", docs[0].ID, docs[1].ID)
	}
	for _, doc := range docs {
		if doc.URL == "" {
			t.Fatalf("missing signed url for %s", doc.ID)
		}
	}
}

func TestListSurvivesSigningFailure(t *testing.T) {
	store := local.New(t.TempDir(), "test-secret", "")
	repo := NewMemoryRepo()
	svc := NewService(brokenSigner{store}, repo, time.Hour)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "user-1", "a.pdf", "tax", strings.NewReader("x")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	docs, err := svc.List(ctx, "user-1", ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs", len(docs))
	}
	if docs[0].URL != "" {
		t.Fatalf("url should be empty, got %q", docs[0].URL)
	}
}

func TestListFiltersByServiceTypeAndYear(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	taxDoc, err := svc.Upload(ctx, "user-1", "return.pdf", "tax", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if _, err := svc.Upload(ctx, "user-1", "payslips.pdf", "payroll", strings.NewReader("b")); err != nil {
		t.Fatalf("upload: %v", err)
	}

	docs, err := svc.List(ctx, "user-1", ListFilter{ServiceType: "tax", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != taxDoc.ID {
		t.Fatalf("service type filter: %+v", docs)
	}

	year := time.Now().UTC().Year()
	docs, err = svc.List(ctx, "user-1", ListFilter{Year: year, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("year %d filter: got %d docs", year, len(docs))
	}
	for _, doc := range docs {
		if doc.Year() != year {
			t.Fatalf("doc %s filed under %d", doc.ID, doc.Year())
		}
	}

	docs, err = svc.List(ctx, "user-1", ListFilter{Year: year - 1, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("prior year should be empty, got %d docs", len(docs))
	}

	if _, err := svc.List(ctx, "user-1", ListFilter{ServiceType: "gardening"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown service type filter: %v", err)
	}
}

func TestDownloadURLNotFoundWhenSigningFails(t *testing.T) {
	store := local.New(t.TempDir(), "test-secret", "")
	repo := NewMemoryRepo()
	svc := NewService(brokenSigner{store}, repo, time.Hour)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "a.pdf", "tax", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if _, err := svc.DownloadURL(ctx, "user-1", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound when signer is down, got %v", err)
	}
}

func TestDeleteRejectsOtherUsersDocument(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "a.pdf", "tax", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, "user-2", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user delete: %v", err)
	}

	// Blob untouched.
	rc, err := store.Open(ctx, doc.StorageKey)
	if err != nil {
		t.Fatalf("blob gone after rejected delete: %v", err)
	}
	rc.Close()
}

func TestDeleteRemovesBlobAndRow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "a.pdf", "tax", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if err := svc.Delete(ctx, "user-1", doc.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, doc.StorageKey); err == nil {
		t.Fatal("blob still present")
	}
	docs, _ := svc.List(ctx, "user-1", ListFilter{Limit: 10})
	if len(docs) != 0 {
		t.Fatalf("row still present: %d", len(docs))
	}
}

func TestDownloadURLScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "user-1", "a.pdf", "tax", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	url, err := svc.DownloadURL(ctx, "user-1", doc.ID)
	if err != nil || url == "" {
		t.Fatalf("owner download: %q, %v", url, err)
	}
	if _, err := svc.DownloadURL(ctx, "user-2", doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-user download: %v", err)
	}
}

type failingRepo struct{}

func (failingRepo) Create(context.Context, Document) error { return errors.New("insert failed") }
func (failingRepo) GetByID(context.Context, string) (Document, error) {
	return Document{}, ErrNotFound
}
func (failingRepo) ListByUser(context.Context, string, ListFilter) ([]Document, error) {
	return nil, nil
}
func (failingRepo) Delete(context.Context, string, string) error { return ErrNotFound }

// brokenSigner delegates to the wrapped store but cannot sign URLs.
type brokenSigner struct {
	object.Store
}

func (brokenSigner) SignedURL(context.Context, string, time.Duration) (string, error) {
	return "", errors.New("signer offline")
}
