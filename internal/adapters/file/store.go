package file

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/walker/pkg/domain"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/afero"
)

// Ext is the extension of stored world files.
const Ext = ".txt"

// Store implements ports.WorldStore on a filesystem.
// It stores each world as a text file in a configured directory.
type Store struct {
	BasePath string
	fs       afero.Fs
}

// New creates a new Store rooted at basePath on fs.
// If basePath is empty, it defaults to "worlds". A nil fs means the OS filesystem.
func New(fs afero.Fs, basePath string) *Store {
	if basePath == "" {
		basePath = "worlds"
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Store{BasePath: basePath, fs: fs}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.BasePath, name+Ext)
}

// Save writes the world atomically: it writes a temporary file in the same
// directory, syncs it and renames it over the destination.
func (s *Store) Save(ctx context.Context, name string, text string) error {
	if err := domain.ValidateWorldName(name); err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure world directory: %w", err)
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0))
	tmpPath := filepath.Join(s.BasePath, ".tmp-"+name+"-"+id.String())

	tmpFile, err := s.fs.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmpFile.Close()
		_ = s.fs.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString(text); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.path(name)
	if exists, _ := afero.Exists(s.fs, dest); exists {
		if err := s.fs.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove existing world file for overwrite: %w", err)
		}
	}
	if err := s.fs.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the world file.
func (s *Store) Load(ctx context.Context, name string) (string, error) {
	if err := domain.ValidateWorldName(name); err != nil {
		return "", err
	}

	data, err := afero.ReadFile(s.fs, s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrWorldNotFound
		}
		return "", fmt.Errorf("failed to read world file: %w", err)
	}
	return string(data), nil
}

// Delete removes the world file.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateWorldName(name); err != nil {
		return err
	}
	err := s.fs.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete world file: %w", err)
	}
	return nil
}

// List returns the names of all world files, in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != Ext || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, Ext))
	}
	sort.Strings(names)
	return names, nil
}
