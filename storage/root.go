package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	// UploadDir receives raw staged files of folder uploads
	UploadDir = "uploads"
	// StaticDir is served under /static/
	StaticDir = "static"
	// ProcessedDir receives transformed images and committed folders
	ProcessedDir = "static/processed"
)

// Root is the application filesystem. Every path handed to it is a slash
// separated path relative to the root.
type Root struct {
	Fs afero.Fs
}

// NewRoot wraps an existing filesystem, an afero.MemMapFs in tests.
func NewRoot(fs afero.Fs) *Root {
	return &Root{Fs: fs}
}

// NewOsRoot confines all operations to dir on the OS filesystem.
func NewOsRoot(dir string) (*Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, err
	}

	return NewRoot(afero.NewBasePathFs(afero.NewOsFs(), abs)), nil
}

// Init creates the upload and processed directories.
func (r *Root) Init() error {
	for _, dir := range []string{UploadDir, ProcessedDir} {
		if err := r.EnsureDir(dir); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// EnsureDir creates dir and its ancestors, no-op if they exist.
func (r *Root) EnsureDir(dir string) error {
	return r.Fs.MkdirAll(dir, 0755)
}

// EnsureParent creates the directories leading to the file p.
func (r *Root) EnsureParent(p string) error {
	return r.EnsureDir(path.Dir(p))
}

// Stage writes data at p, creating parent directories.
func (r *Root) Stage(p string, data []byte) error {
	if err := r.EnsureParent(p); err != nil {
		return err
	}

	return afero.WriteFile(r.Fs, p, data, 0644)
}

// ReadFile returns the content of p.
func (r *Root) ReadFile(p string) ([]byte, error) {
	return afero.ReadFile(r.Fs, p)
}

// Move renames src to dst, replacing dst if it exists.
func (r *Root) Move(src, dst string) error {
	if _, err := r.Fs.Stat(src); err != nil {
		return err
	}

	if err := r.EnsureParent(dst); err != nil {
		return err
	}

	return r.Fs.Rename(src, dst)
}

// Exists reports whether p is present.
func (r *Root) Exists(p string) bool {
	ok, err := afero.Exists(r.Fs, p)
	return ok && err == nil
}

// Purge removes regular files below dir last modified before now - ttl.
func (r *Root) Purge(dir string, ttl time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-ttl)

	removed := 0
	err := afero.Walk(r.Fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || info.ModTime().After(cutoff) {
			return nil
		}

		if err := r.Fs.Remove(p); err != nil {
			return err
		}

		removed++
		return nil
	})

	return removed, err
}
