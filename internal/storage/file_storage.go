package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rcamargo/equiptrack/internal/application/port"
	"go.uber.org/zap"
)

// FileStorage persists document content on the local filesystem.
// Locators are opaque "<uuid><ext>" names; callers never see paths.
type FileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewFileStorage creates a file store rooted at baseDir
func NewFileStorage(baseDir string, logger *zap.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{
		baseDir: baseDir,
		logger:  logger,
	}, nil
}

// Save writes content and returns an opaque locator
func (s *FileStorage) Save(content []byte, originalName string) (string, error) {
	ext := filepath.Ext(originalName)
	// Extensions come from user input, keep them bounded
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		ext = ""
	}

	locator := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, locator)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		s.logger.Error("Failed to write file", zap.String("locator", locator), zap.Error(err))
		return "", fmt.Errorf("write file: %w", err)
	}

	s.logger.Debug("File stored", zap.String("locator", locator), zap.Int("size", len(content)))
	return locator, nil
}

// Fetch reads content by locator
func (s *FileStorage) Fetch(locator string) ([]byte, error) {
	if err := validateLocator(locator); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.baseDir, locator))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", locator)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	return content, nil
}

// Delete removes content by locator. A missing file is not an error;
// callers use this to undo a Save whose owning record never committed.
func (s *FileStorage) Delete(locator string) error {
	if err := validateLocator(locator); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.baseDir, locator)); err != nil && !os.IsNotExist(err) {
		s.logger.Error("Failed to delete file", zap.String("locator", locator), zap.Error(err))
		return fmt.Errorf("delete file: %w", err)
	}

	s.logger.Debug("File deleted", zap.String("locator", locator))
	return nil
}

// validateLocator rejects anything that could escape the base directory
func validateLocator(locator string) error {
	if locator == "" ||
		strings.Contains(locator, "..") ||
		strings.ContainsAny(locator, "/\\") {
		return fmt.Errorf("invalid locator: %q", locator)
	}
	return nil
}

// Verify interface compliance
var _ port.FileStore = (*FileStorage)(nil)
