// Package uploads stores user profile pictures on local disk.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mmynk/ledger/internal/clock"
)

// PublicPrefix is the URL path under which stored files are served.
const PublicPrefix = "/uploads/"

var (
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("only jpeg, jpg, png and gif images are allowed")
	ErrEmpty           = errors.New("file is empty")
)

// allowed maps accepted extensions to the content type the bytes must sniff as.
var allowed = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Store writes validated images into a directory.
type Store struct {
	dir      string
	maxBytes int64
	clock    clock.Clock
}

// NewStore creates dir if needed.
func NewStore(dir string, maxBytes int64, c clock.Clock) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if c == nil {
		c = clock.Real{}
	}
	return &Store{dir: dir, maxBytes: maxBytes, clock: c}, nil
}

// Dir is the directory files are written to.
func (s *Store) Dir() string { return s.dir }

// MaxBytes is the per-file size limit.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Save validates r as an image named filename and writes it as
// profile-<unix millis><ext>. It returns the public path of the stored file.
func (s *Store) Save(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	wantType, ok := allowed[ext]
	if !ok {
		return "", ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if http.DetectContentType(data) != wantType {
		return "", ErrUnsupportedType
	}

	name, f, err := s.create(ext)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		os.Remove(filepath.Join(s.dir, name))
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return PublicPrefix + name, nil
}

// create opens a new file with a timestamped name, adding a counter when two
// uploads land in the same millisecond.
func (s *Store) create(ext string) (string, *os.File, error) {
	base := fmt.Sprintf("profile-%d", s.clock.Now().UnixMilli())
	for i := 0; i < 100; i++ {
		name := base + ext
		if i > 0 {
			name = fmt.Sprintf("%s-%d%s", base, i, ext)
		}
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("failed to create upload file: %w", err)
		}
		return name, f, nil
	}
	return "", nil, fmt.Errorf("failed to allocate a file name for %s", base)
}

// Remove deletes the file behind a public path. Missing files are ignored.
func (s *Store) Remove(publicPath string) error {
	name, ok := s.fileName(publicPath)
	if !ok {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

// fileName extracts the bare file name from a public path, rejecting
// anything that would escape the upload directory.
func (s *Store) fileName(publicPath string) (string, bool) {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return "", false
	}
	name := path.Base(publicPath)
	if name == "." || name == "/" || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	return name, true
}
