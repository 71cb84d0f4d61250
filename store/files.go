package store

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested output file does not exist.
var ErrNotFound = errors.New("store: file not found")

// FileStore manages the output directory rendered files are written to
// and served from.
type FileStore struct {
	dir string
}

// NewFileStore creates the output directory if needed and returns a
// FileStore over it.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store: output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: failed to create output directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the output directory path.
func (s *FileStore) Dir() string { return s.dir }

// NewName builds an output file name: the render kind, a millisecond
// timestamp slug, and the extension.
func (s *FileStore) NewName(kind, ext string) string {
	return fmt.Sprintf("%s_%d%s", kind, time.Now().UnixMilli(), ext)
}

// SavePNG encodes img into the store under name and returns the full
// path.
func (s *FileStore) SavePNG(name string, img image.Image) (string, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("store: failed to create %s: %w", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("store: failed to encode %s: %w", name, err)
	}
	return path, nil
}

// Resolve maps a bare file name to its path inside the output directory,
// rejecting names that would escape it.
func (s *FileStore) Resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("store: invalid file name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Read returns the contents of a stored file along with its MIME type,
// derived from the extension (PNG unless the name ends in .mp4).
func (s *FileStore) Read(name string) ([]byte, string, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("store: failed to read %s: %w", name, err)
	}

	mime := "image/png"
	if strings.HasSuffix(strings.ToLower(name), ".mp4") {
		mime = "video/mp4"
	}
	return data, mime, nil
}
