// file: blob/local.go
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"founders-fest/logger"
)

// LocalStore writes uploads below a directory that the HTTP server serves at URLPrefix.
type LocalStore struct {
	Dir       string
	BaseURL   string
	URLPrefix string
}

// NewLocalStore returns a LocalStore serving files at baseURL + "/uploads".
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{Dir: dir, BaseURL: baseURL, URLPrefix: "/uploads"}
}

// Upload copies r to Dir/<bucket>/<objectPath>.
func (s *LocalStore) Upload(_ context.Context, bucket, objectPath string, r io.Reader, _ string) (string, error) {
	key, err := cleanKey(bucket, objectPath)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	logger.Debug.Printf("[blob.Local] Stored %s", dst)
	return s.BaseURL + s.URLPrefix + "/" + key, nil
}
