package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FSStore keeps each reference as a file directly under a base directory.
type FSStore struct {
	basePath string
}

// NewFSStore returns a store rooted at basePath. The directory is created
// lazily on every write, so it may be removed while the process runs.
func NewFSStore(basePath string) (*FSStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path is required")
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base path: %w", err)
	}
	return &FSStore{basePath: abs}, nil
}

// BasePath returns the absolute base directory.
func (s *FSStore) BasePath() string { return s.basePath }

func (s *FSStore) path(ref string) (string, error) {
	if ref == "" || strings.ContainsAny(ref, `/\`) || ref == "." || ref == ".." {
		return "", fmt.Errorf("%w: invalid reference %q", ErrStorage, ref)
	}
	return filepath.Join(s.basePath, ref), nil
}

func (s *FSStore) Write(ctx context.Context, data []byte) (string, error) {
	ref := uuid.NewString()
	if err := s.WriteAt(ctx, ref, data); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *FSStore) WriteAt(ctx context.Context, ref string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.basePath, 0755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrStorage, err)
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, ref, err)
	}
	return nil
}

func (s *FSStore) Read(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("content %s: %w", ref, ErrContentNotFound)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, ref, err)
	}
	return b, nil
}

func (s *FSStore) Exists(ctx context.Context, ref string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	p, err := s.path(ref)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: stat %s: %v", ErrStorage, ref, err)
	}
	return info.Mode().IsRegular(), nil
}

func (s *FSStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, ref, err)
	}
	return nil
}
