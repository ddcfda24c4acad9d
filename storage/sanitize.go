package storage

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrUnsafePath is returned for names that are absolute, climb with ".."
	// or carry a NUL byte.
	ErrUnsafePath = errors.New("unsafe path")
	// ErrOutsideRoot is returned when a path is not below the expected directory.
	ErrOutsideRoot = errors.New("path outside allowed directory")
)

// CleanPath turns a client supplied name into a clean, slash separated
// path relative to whatever directory it will be joined with.
func CleanPath(name string) (string, error) {
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q contains a NUL byte", ErrUnsafePath, name)
	}

	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if len(name) == 0 {
		return "", fmt.Errorf("%w: empty name", ErrUnsafePath)
	}

	// drive letters, C:/x or C:x
	if path.IsAbs(name) || (len(name) >= 2 && name[1] == ':') {
		return "", fmt.Errorf("%w: %q is absolute", ErrUnsafePath, name)
	}

	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q leaves its directory", ErrUnsafePath, name)
		}
	}

	clean := path.Clean(name)
	if clean == "." {
		return "", fmt.Errorf("%w: %q has no file name", ErrUnsafePath, name)
	}

	return clean, nil
}

// Within checks that the clean relative path p sits below dir.
func Within(dir, p string) error {
	if !strings.HasPrefix(p, strings.TrimSuffix(dir, "/")+"/") {
		return fmt.Errorf("%w: %s is not in %s", ErrOutsideRoot, p, dir)
	}
	return nil
}
