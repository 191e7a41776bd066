package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned by Open when no object exists at the path.
var ErrNotFound = errors.New("storage: not found")

// Storage keeps uploaded files and hands them back by the path Save returned.
// Delete of a missing path is not an error.
type Storage interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Delete(ctx context.Context, p string) error
}

// Prefix is the public path every stored file lives under.
const Prefix = "uploads"

// objectName names an upload after the current time, keeping the extension of
// the original file.
func objectName(now time.Time, originalName string) string {
	return fmt.Sprintf("%d%s", now.UnixMilli(), strings.ToLower(filepath.Ext(originalName)))
}

// cleanKey turns "uploads/x.pdf" or "/x.pdf" into "x.pdf" and rejects any
// attempt to leave the upload root.
func cleanKey(p string) (string, error) {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	p = strings.TrimPrefix(p, Prefix+"/")
	if p == "" || p == "." || p == Prefix || strings.Contains(p, "..") {
		return "", ErrNotFound
	}
	return p, nil
}
