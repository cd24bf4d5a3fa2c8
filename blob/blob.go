// Package blob stores uploaded files and returns their public URLs.
// file: blob/blob.go
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store uploads a file into a logical bucket and returns a URL anyone can fetch.
type Store interface {
	Upload(ctx context.Context, bucket, objectPath string, r io.Reader, contentType string) (string, error)
}

// ObjectPath builds a collision-free object name: <folder>/<unix-ms>_<uuid><ext>.
// ext comes from the sniffed content type, never from the client's filename,
// and is dropped unless it is a plain ".abc" suffix.
func ObjectPath(folder, ext string, now time.Time) string {
	name := fmt.Sprintf("%d_%s", now.UnixMilli(), uuid.NewString())
	if ext = strings.ToLower(ext); validExt.MatchString(ext) {
		name += ext
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

var validExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// cleanKey rejects object keys that would escape their bucket.
func cleanKey(bucket, objectPath string) (string, error) {
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || bucket == "." || bucket == ".." {
		return "", fmt.Errorf("invalid bucket %q", bucket)
	}
	p := path.Clean("/" + objectPath)
	if p == "/" {
		return "", fmt.Errorf("empty object path")
	}
	return bucket + p, nil
}
