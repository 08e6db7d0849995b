// Package storage persists user uploads (avatars, project images) on local
// disk. Database rows reference uploads by logical path ("/uploads/..."); this
// package is the only place those paths are resolved to the filesystem.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PathPrefix is the logical prefix every managed upload path carries.
// Deletion refuses anything outside it.
const PathPrefix = "/uploads/"

const (
	maxImageDimension = 1024
	jpegQuality       = 85
)

var ErrUnmanagedPath = errors.New("storage: path is not under the uploads prefix")

// Magic byte signatures for accepted image uploads
var imageMagicBytes = [][]byte{
	{0xFF, 0xD8, 0xFF},                                     // JPEG
	{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},       // PNG
	{0x47, 0x49, 0x46, 0x38},                               // GIF
	{0x52, 0x49, 0x46, 0x46},                               // RIFF (WebP)
}

type Store struct {
	root    string // filesystem directory the /uploads tree lives under
	maxSize int64
}

func NewStore(root string, maxSize int64) *Store {
	return &Store{root: root, maxSize: maxSize}
}

// IsManagedPath reports whether p is a clean logical path this store owns.
// Anything with traversal segments or outside /uploads/ is rejected; the
// account deletion workflow relies on this to never touch arbitrary files.
func IsManagedPath(p string) bool {
	if !strings.HasPrefix(p, PathPrefix) {
		return false
	}
	if strings.Contains(p, "..") {
		return false
	}
	// A cleaned path must stay inside the prefix
	return strings.HasPrefix(path.Clean(p), PathPrefix)
}

// SaveImage validates, downscales and stores an uploaded image under the
// given subdirectory (e.g. "avatars/<userID>"). Returns the logical path.
func (s *Store) SaveImage(data []byte, subdir string) (string, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("storage: file exceeds maximum size of %d bytes", s.maxSize)
	}
	if !looksLikeImage(data) {
		return "", errors.New("storage: file content is not a supported image")
	}

	processed, err := compressImage(data, maxImageDimension, jpegQuality)
	if err != nil {
		return "", err
	}

	filename := uuid.NewString() + ".jpg"
	logical := path.Join(PathPrefix, subdir, filename)

	dest := s.resolve(logical)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir: %w", err)
	}
	if err := os.WriteFile(dest, processed, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}

	return logical, nil
}

// Remove deletes the file behind a logical path. Paths outside the managed
// prefix are refused; a missing file is not an error.
func (s *Store) Remove(logical string) error {
	if !IsManagedPath(logical) {
		return ErrUnmanagedPath
	}
	err := os.Remove(s.resolve(logical))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) resolve(logical string) string {
	// logical is "/uploads/...": strip the leading slash and root it
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(path.Clean(logical), "/")))
}

// FilePath exposes the filesystem location of a managed path, for serving.
func (s *Store) FilePath(logical string) (string, error) {
	if !IsManagedPath(logical) {
		return "", ErrUnmanagedPath
	}
	return s.resolve(logical), nil
}

// Root returns the filesystem directory the uploads tree lives under.
func (s *Store) Root() string {
	return s.root
}

func looksLikeImage(data []byte) bool {
	for _, magic := range imageMagicBytes {
		if bytes.HasPrefix(data, magic) {
			return true
		}
	}
	return false
}

// compressImage downscales an image to the given max dimension and re-encodes
// it as JPEG with the given quality.
func compressImage(data []byte, maxDimension int, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Keep aspect ratio
	newWidth, newHeight := width, height
	if width > height {
		if width > maxDimension {
			newWidth = maxDimension
			newHeight = int(float64(height) * float64(maxDimension) / float64(width))
		}
	} else {
		if height > maxDimension {
			newHeight = maxDimension
			newWidth = int(float64(width) * float64(maxDimension) / float64(height))
		}
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
