// Package screenshot stores match proof images.
package screenshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/squad-roster/internal/apperr"
	"github.com/spf13/afero"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// Storage keeps screenshots as flat files inside one directory of an afero filesystem.
type Storage struct {
	fs  afero.Fs
	dir string
}

// New creates a Storage rooted at dir, creating the directory if needed.
func New(fsys afero.Fs, dir string) (*Storage, error) {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &Storage{fs: fsys, dir: dir}, nil
}

// NewOS creates a Storage on the local disk.
func NewOS(dir string) (*Storage, error) {
	return New(afero.NewOsFs(), dir)
}

// Allowed reports whether filename carries an accepted image extension.
func Allowed(filename string) bool {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[i+1:])]
}

// Sanitize reduces an uploaded filename to a safe base name.
func Sanitize(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.ReplaceAll(strings.TrimSpace(base), " ", "_")
	base = unsafeChars.ReplaceAllString(base, "")
	return strings.TrimLeft(base, "._")
}

// Save writes r under a fresh "<uuid>_<name>" file name and returns that name.
func (s *Storage) Save(filename string, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", apperr.Invalid("screenshot", "invalid file type, allowed: png, jpg, jpeg, gif")
	}
	name := uuid.NewString() + "_" + Sanitize(filename)

	f, err := s.fs.OpenFile(s.path(name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		s.fs.Remove(s.path(name))
		return "", fmt.Errorf("failed to write screenshot %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	log.Debug("Screenshot saved", "name", name)
	return name, nil
}

// Open returns the stored file. Unknown names yield a not-found error.
func (s *Storage) Open(name string) (afero.File, error) {
	if !validName(name) {
		return nil, apperr.NotFound("screenshot", name)
	}
	f, err := s.fs.Open(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("screenshot", name)
	}
	return f, err
}

// Delete removes a stored file. A missing file is not an error.
func (s *Storage) Delete(name string) error {
	if !validName(name) {
		return nil
	}
	err := s.fs.Remove(s.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete screenshot %s: %w", name, err)
	}
	return nil
}

func (s *Storage) path(name string) string {
	return filepath.Join(s.dir, name)
}

func validName(name string) bool {
	return name != "" && name == filepath.Base(name) && name != "." && name != ".."
}
