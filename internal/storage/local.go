// Package storage keeps attachment files on the local filesystem.
// Files are written under random stored names so that user-supplied
// filenames never touch the disk layout; the original name lives in
// the attachment record only.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type LocalStore struct {
	logger zerolog.Logger
	dir    string
}

func NewLocalStore(logger zerolog.Logger, dir string) (*LocalStore, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{
		logger: logger,
		dir:    dir,
	}, nil
}

func (s *LocalStore) Save(r io.Reader, originalName string) (string, error) {
	storedName := uuid.New().String() + safeExt(originalName)

	f, err := os.OpenFile(s.Path(storedName), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	_, err = io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	err = f.Close()
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	s.logger.Debug().
		Str("stored_name", storedName).
		Str("original_name", originalName).
		Msg("stored file")
	return storedName, nil
}

func (s *LocalStore) Remove(storedName string) error {
	err := os.Remove(s.Path(storedName))
	if err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	s.logger.Debug().
		Str("stored_name", storedName).
		Msg("removed file")
	return nil
}

func (s *LocalStore) Path(storedName string) string {
	// Stored names are generated here, but guard against traversal
	// anyway since they round-trip through the database and the API.
	return filepath.Join(s.dir, filepath.Base(storedName))
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 16 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
