// Package storage writes generated sites and corpus snapshots to disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar"
)

// ErrInvalidPath is returned for paths that would escape the base directory
var ErrInvalidPath = errors.New("invalid path")

// FileSystem is a Storage rooted at a single directory. Every path is
// resolved inside that directory.
type FileSystem struct {
	baseDir string
}

func NewFileSystem(baseDir string) *FileSystem {
	return &FileSystem{
		baseDir: filepath.Clean(baseDir),
	}
}

// Root returns the base directory
func (fs *FileSystem) Root() string {
	return fs.baseDir
}

// Abs returns the absolute location of a relative path
func (fs *FileSystem) Abs(path string) (string, error) {
	return fs.sanitizePath(path)
}

// sanitizePath rejects parent references and absolute paths, then joins
// the result onto the base directory
func (fs *FileSystem) sanitizePath(path string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(path))

	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("%w: %q contains parent directory reference", ErrInvalidPath, path)
	}
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("%w: %q is absolute", ErrInvalidPath, path)
	}

	fullPath := filepath.Join(fs.baseDir, cleaned)
	if !fs.contains(fullPath) {
		return "", fmt.Errorf("%w: %q is outside base directory", ErrInvalidPath, path)
	}

	return fullPath, nil
}

func (fs *FileSystem) contains(p string) bool {
	return p == fs.baseDir || strings.HasPrefix(p, fs.baseDir+string(filepath.Separator))
}

// Save writes data through a temporary file and a rename, so readers never
// observe a partial file
func (fs *FileSystem) Save(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath, err := fs.sanitizePath(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return fmt.Errorf("replacing file: %w", err)
	}

	return nil
}

func (fs *FileSystem) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fullPath, err := fs.sanitizePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return data, nil
}

// List returns the relative, slash-separated paths of regular files that
// match pattern. Patterns support ** for any number of directories.
func (fs *FileSystem) List(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := filepath.Clean(filepath.FromSlash(pattern))
	if strings.Contains(cleaned, "..") {
		return nil, fmt.Errorf("%w: pattern %q contains parent directory reference", ErrInvalidPath, pattern)
	}
	if filepath.IsAbs(cleaned) {
		return nil, fmt.Errorf("%w: pattern %q is absolute", ErrInvalidPath, pattern)
	}

	matches, err := doublestar.Glob(filepath.Join(fs.baseDir, cleaned))
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	results := make([]string, 0, len(matches))
	for _, match := range matches {
		if !fs.contains(match) {
			continue
		}
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(fs.baseDir, match)
		if err != nil {
			continue
		}
		results = append(results, filepath.ToSlash(rel))
	}
	sort.Strings(results)

	return results, nil
}

func (fs *FileSystem) Exists(ctx context.Context, path string) bool {
	fullPath, err := fs.sanitizePath(path)
	if err != nil {
		return false
	}

	_, err = os.Stat(fullPath)
	return err == nil
}
