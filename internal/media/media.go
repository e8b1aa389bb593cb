// Package media stores uploaded entity images on the local file system.
package media

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/apperr"
	"github.com/siliconharbour/siliconharbour.dev-sub003/internal/checksum"
)

// FileInfo describes one stored media file.
type FileInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a flat directory of media files. Names are plain base names; no
// subdirectories.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("media: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("media: create root: %w", err)
	}
	return &Store{root: abs}, nil
}

// safePath rejects any name that is not a plain base name under the root
// (directory traversal).
func (s *Store) safePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("media: filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("media: invalid filename: %s", name)
	}
	abs := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(abs, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("media: path escapes media directory: %s", name)
	}
	return abs, nil
}

// Path returns the absolute path of an existing file, for serving.
func (s *Store) Path(name string) (string, error) {
	abs, err := s.safePath(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", fmt.Errorf("media: stat %s: %w", name, err)
	}
	return abs, nil
}

// Save atomically writes a new file: tmp file, fsync, rename. Returns the
// number of bytes written, or apperr.ErrAlreadyExists when the name is taken.
func (s *Store) Save(name string, r io.Reader) (int64, error) {
	abs, err := s.safePath(name)
	if err != nil {
		return 0, err
	}
	if _, err := os.Stat(abs); err == nil {
		return 0, fmt.Errorf("media: %s: %w", name, apperr.ErrAlreadyExists)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("media: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		return 0, fmt.Errorf("media: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("media: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("media: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return 0, fmt.Errorf("media: rename: %w", err)
	}
	success = true
	return written, nil
}

// Delete removes a file from the store.
func (s *Store) Delete(name string) error {
	abs, err := s.safePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("media: delete %s: %w", name, err)
	}
	return nil
}

// List returns metadata for every stored file.
func (s *Store) List() ([]FileInfo, error) {
	var out []FileInfo
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out = append(out, FileInfo{
			Name:      d.Name(),
			Size:      info.Size(),
			Checksum:  checksum.Sum(data),
			UpdatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("media: list: %w", err)
	}
	return out, nil
}
