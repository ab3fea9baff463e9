// Package proof stores payment-proof images uploaded with a
// transaction. Storage is best-effort: the entry flow never fails
// because a receipt could not be written, it just records the
// "no proof" sentinel.
package proof

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"kasrt/internal/core"
)

type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Save writes the uploaded bytes under a generated name and returns
// it. A nil reader, unsupported extension or write failure returns the
// sentinel instead of an error.
func (s *Store) Save(origName string, r io.Reader) string {
	if r == nil {
		return core.None
	}
	ext := strings.ToLower(filepath.Ext(origName))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		slog.Warn("Rejected proof upload with unsupported extension", "name", origName)
		return core.None
	}

	name := "IMG_" + time.Now().Format("20060102_150405") + "_" + shortID() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		slog.Error("Failed to create proof file", "name", name, "error", err)
		return core.None
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		slog.Error("Failed to write proof file", "name", name, "error", err)
		os.Remove(f.Name())
		return core.None
	}
	return name
}

// Open returns the stored proof for serving. Name is validated against
// path traversal; the sentinel never resolves to a file.
func (s *Store) Open(name string) (*os.File, error) {
	if name == core.None || name != filepath.Base(name) {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.dir, name))
}

// shortID is a collision guard for uploads landing within the same
// second.
func shortID() string {
	return uuid.NewString()[:8]
}
