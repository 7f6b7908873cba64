package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// PublicPrefix is the URL prefix under which stored images are served.
	PublicPrefix = "/uploads/"

	maxImageSize = 5 << 20 // 5 MiB
)

var (
	ErrNotAnImage = errors.New("only image files are allowed")
	ErrTooLarge   = errors.New("image exceeds the 5 MiB limit")
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageStore writes uploaded product images into a local directory and hands
// back the public path they will be served under.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Save validates and stores an uploaded image, returning its public path.
// Filenames are timestamp plus a random fragment, so concurrent uploads of
// identically named files never collide.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxImageSize {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", ErrNotAnImage
	}
	if mime := fh.Header.Get("Content-Type"); mime != "" && !allowedMIMETypes[mime] {
		return "", ErrNotAnImage
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return PublicPrefix + name, nil
}

// Managed reports whether a product image path belongs to this store.
// External URLs are never managed.
func (s *ImageStore) Managed(publicPath string) bool {
	return strings.HasPrefix(publicPath, PublicPrefix)
}

// Remove deletes a stored image by its public path. Unmanaged paths and
// already-missing files are ignored.
func (s *ImageStore) Remove(publicPath string) error {
	if !s.Managed(publicPath) {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(publicPath, PublicPrefix))
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Dir exposes the backing directory so the router can serve it statically.
func (s *ImageStore) Dir() string {
	return s.dir
}
