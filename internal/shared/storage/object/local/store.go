// Package local implements object storage on the local filesystem for dev
// setups. "Signed" URLs are HMAC-authenticated expiring paths served back
// through the API.
package local

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"portal-backend/internal/shared/storage/object"
)

// Store implements object.Store using the local filesystem.
type Store struct {
	baseDir  string
	secret   []byte
	basePath string
}

// New creates a local object store rooted at baseDir. basePath is the URL
// path prefix the router serves downloads from.
func New(baseDir string, secret string, basePath string) *Store {
	if basePath == "" {
		basePath = "/api/v1/files"
	}
	return &Store{
		baseDir:  baseDir,
		secret:   []byte(secret),
		basePath: strings.TrimRight(basePath, "/"),
	}
}

// Save writes the reader to disk under the given key.
func (s *Store) Save(ctx context.Context, key string, r io.Reader) (int64, string, error) {
	clean, err := s.cleanKey(key)
	if err != nil {
		return 0, "", err
	}
	if err := ctx.Err(); err != nil {
		return 0, "", err
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, "", fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var sniff [512]byte
	n, readErr := io.ReadFull(r, sniff[:])
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return 0, "", fmt.Errorf("read sniff: %w", readErr)
	}
	mimeType := http.DetectContentType(sniff[:n])

	size := int64(0)
	if n > 0 {
		if _, err := f.Write(sniff[:n]); err != nil {
			return 0, "", fmt.Errorf("write sniff: %w", err)
		}
		size += int64(n)
	}
	written, err := io.Copy(f, r)
	if err != nil {
		return 0, "", fmt.Errorf("write body: %w", err)
	}
	size += written

	return size, mimeType, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	clean, err := s.cleanKey(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.baseDir, clean))
}

// Delete removes a stored object. A missing file is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	clean, err := s.cleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.baseDir, clean)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// SignedURL returns an expiring HMAC-authenticated download path.
func (s *Store) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	clean, err := s.cleanKey(key)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	exp := time.Now().Add(ttl).Unix()
	sig := s.sign(clean, exp)
	return fmt.Sprintf("%s/%s?exp=%d&sig=%s", s.basePath, urlEscapeKey(clean), exp, sig), nil
}

// VerifySignature checks the exp/sig pair produced by SignedURL. It
// returns false for expired or tampered requests.
func (s *Store) VerifySignature(key, expStr, sig string) bool {
	clean, err := s.cleanKey(key)
	if err != nil {
		return false
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > exp {
		return false
	}
	expected := s.sign(clean, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (s *Store) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *Store) cleanKey(key string) (string, error) {
	clean := filepath.Clean(strings.TrimLeft(key, "/"))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key")
	}
	return clean, nil
}

func urlEscapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

var _ object.Store = (*Store)(nil)
