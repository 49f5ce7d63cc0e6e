package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrPathConflict is returned when a path exists but is not of the expected type.
	ErrPathConflict = errors.New("path conflict")
	// ErrAlreadyExists is returned by CreateIfAbsent writes when the target exists.
	ErrAlreadyExists = errors.New("file already exists")
	// ErrNotFound is returned when a file that must exist is absent.
	ErrNotFound = errors.New("file not found")
)

// WriteMode selects how WriteFile treats an existing target.
type WriteMode int

const (
	// Overwrite always replaces the full content of the target.
	Overwrite WriteMode = iota
	// CreateIfAbsent refuses to touch an existing target.
	CreateIfAbsent
)

func (m WriteMode) String() string {
	switch m {
	case Overwrite:
		return "overwrite"
	case CreateIfAbsent:
		return "create-if-absent"
	default:
		return fmt.Sprintf("WriteMode(%d)", int(m))
	}
}

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// FileSystem wraps the Afero Fs interface
type FileSystem struct {
	Fs afero.Fs
}

// NewMemoryFileSystem creates a new in-memory file system
func NewMemoryFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewMemMapFs(),
	}
}

// NewOsFileSystem creates a new OS-based file system
func NewOsFileSystem() *FileSystem {
	return &FileSystem{
		Fs: afero.NewOsFs(),
	}
}

// EnsureDirectory creates path and any missing ancestors. It succeeds if path
// is already a directory and fails with ErrPathConflict if path, or any of its
// ancestors, exists as something else. Nothing is created on conflict.
func (fs *FileSystem) EnsureDirectory(path string) error {
	path = filepath.Clean(path)
	for p := path; ; p = filepath.Dir(p) {
		info, err := fs.Fs.Stat(p)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%w: %s exists and is not a directory", ErrPathConflict, p)
			}
			break
		}
		// ENOTDIR and friends surface here as well; the walk up finds the offending file.
		if parent := filepath.Dir(p); parent == p {
			break
		}
	}

	if err := fs.Fs.MkdirAll(path, dirPerm); err != nil {
		return fmt.Errorf("error creating directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes content to path, creating missing parent directories.
// With Overwrite the previous content is fully replaced; with CreateIfAbsent
// an existing target fails with ErrAlreadyExists.
func (fs *FileSystem) WriteFile(path string, content string, mode WriteMode) error {
	info, err := fs.Fs.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%w: %s is a directory", ErrPathConflict, path)
	case err == nil && mode == CreateIfAbsent:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
	}

	if err := fs.EnsureDirectory(filepath.Dir(path)); err != nil {
		return err
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if mode == CreateIfAbsent {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := fs.Fs.OpenFile(path, flag, filePerm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return fmt.Errorf("error opening file %s: %w", path, err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("error writing file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing file %s: %w", path, err)
	}
	return nil
}

// ReadFile returns the content of path, or ErrNotFound if it does not exist.
func (fs *FileSystem) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(fs.Fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("error reading file %s: %w", path, err)
	}
	return string(data), nil
}

// writeAtomic replaces path with data through a temp file in the same
// directory followed by a rename. On failure the original is left unchanged.
func (fs *FileSystem) writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := afero.TempFile(fs.Fs, filepath.Dir(path), ".krito-tmp-*")
	if err != nil {
		return fmt.Errorf("error creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			fs.Fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing temp file for %s: %w", path, err)
	}
	if err := fs.Fs.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("error setting permissions on %s: %w", tmpPath, err)
	}
	if err := fs.Fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("error replacing %s: %w", path, err)
	}

	success = true
	return nil
}

// FileExists checks if a file exists
func (fs *FileSystem) FileExists(path string) bool {
	_, err := fs.Fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func (fs *FileSystem) IsDir(path string) bool {
	info, err := fs.Fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListFiles walks root and returns a map representing the directory structure.
// Directories map to nested maps and files map to nil.
func (fs *FileSystem) ListFiles(root string) (map[string]interface{}, error) {
	root = filepath.Clean(root)
	structure := make(map[string]interface{})

	err := afero.Walk(fs.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		// Skip root directory
		if rel == "." {
			return nil
		}

		parts := strings.Split(rel, string(os.PathSeparator))
		current := structure
		for i, part := range parts {
			if i == len(parts)-1 {
				if info.IsDir() {
					if _, exists := current[part]; !exists {
						current[part] = make(map[string]interface{})
					}
				} else {
					current[part] = nil
				}
				continue
			}
			next, ok := current[part].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				current[part] = next
			}
			current = next
		}
		return nil
	})

	return structure, err
}
