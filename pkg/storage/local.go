package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mussa52/madalali-tz/pkg/config"
)

// allowedExtensions maps permitted upload extensions to the canonical form
// used for stored filenames.
var allowedExtensions = map[string]string{
	".jpg":  ".jpg",
	".jpeg": ".jpg",
	".png":  ".png",
	".webp": ".webp",
}

// ErrUnsupportedType is returned when an upload is not an accepted image format.
var ErrUnsupportedType = errors.New("unsupported image type")

// ErrTooLarge is returned when an upload exceeds the configured size cap.
var ErrTooLarge = errors.New("image exceeds maximum size")

// Store persists listing photos on the local filesystem and serves them
// back under a public URL prefix.
type Store struct {
	dir        string
	publicPath string
	maxBytes   int64
}

// NewLocalStore prepares the uploads directory and returns a Store.
func NewLocalStore(cfg config.UploadsConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir: %w", err)
	}
	public := cfg.PublicPath
	if public == "" {
		public = "/uploads"
	}
	maxBytes := int64(cfg.MaxUploadMB) << 20
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Store{
		dir:        cfg.Dir,
		publicPath: strings.TrimSuffix(public, "/"),
		maxBytes:   maxBytes,
	}, nil
}

// MaxBytes reports the per-file upload cap.
func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Dir reports the filesystem directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// PublicPath reports the URL prefix stored images are served under.
func (s *Store) PublicPath() string {
	return s.publicPath
}

// Save writes an uploaded image under a fresh uuid filename and returns the
// public URL path callers persist on the listing record.
func (s *Store) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	dest := filepath.Join(s.dir, name)
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}

	// +1 so a stream exactly at the cap passes and one byte over fails.
	written, err := io.Copy(out, io.LimitReader(r, s.maxBytes+1))
	closeErr := out.Close()
	if err == nil && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dest)
		if errors.Is(err, ErrTooLarge) {
			return "", ErrTooLarge
		}
		return "", fmt.Errorf("writing upload file: %w", err)
	}

	return path.Join(s.publicPath, name), nil
}

// Remove deletes a stored image given its public URL path. Unknown paths are
// ignored so deletes stay idempotent.
func (s *Store) Remove(publicURL string) error {
	name := path.Base(publicURL)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing upload file: %w", err)
	}
	return nil
}
