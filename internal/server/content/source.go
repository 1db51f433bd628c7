package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
)

// Source enumerates and reads raw article documents. Implementations must
// refuse to resolve names that escape the configured content root.
type Source interface {
	// List returns the candidate file names (no directories, no paths).
	List(ctx context.Context) ([]string, error)

	// Read returns the raw bytes of a named document.
	Read(ctx context.Context, name string) ([]byte, error)

	// Resolve returns the absolute location of a named document, or an
	// error when the name would escape the content root.
	Resolve(name string) (string, error)

	// Root describes the configured content root (for diagnostics).
	Root() string
}

// unsafeName reports whether a candidate file name carries path separators
// or parent-directory segments.
func unsafeName(name string) bool {
	return name == "" ||
		strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..")
}

// FileSource serves documents from a local directory.
type FileSource struct {
	root string
}

func NewFileSource(dir string) (*FileSource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving content root %q: %w", dir, err)
	}
	return &FileSource{root: abs}, nil
}

func (s *FileSource) Root() string { return s.root }

func (s *FileSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", common.ErrorScanFailed, s.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (s *FileSource) Resolve(name string) (string, error) {
	if unsafeName(name) {
		return "", fmt.Errorf("%w: unsafe file name", common.ErrorValidation)
	}

	abs, err := filepath.Abs(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", name, err)
	}
	if abs != s.root && !strings.HasPrefix(abs, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path escapes content root", common.ErrorValidation)
	}
	return abs, nil
}

func (s *FileSource) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}
	return b, nil
}
