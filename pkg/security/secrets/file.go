package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileSource reads secrets from individual files in a directory, the layout
// Kubernetes uses for mounted secrets. Secret "openai-api-key" is read from
// <Dir>/openai-api-key with surrounding whitespace trimmed.
//
// Files must be regular files with mode 0600 or 0400.
type FileSource struct {
	Dir string
}

// NewFileSource creates a file source for dir, which must exist.
func NewFileSource(dir string) (*FileSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path is not a directory: %s", dir)
	}
	return &FileSource{Dir: dir}, nil
}

// Name returns "file".
func (s *FileSource) Name() string {
	return "file"
}

// Lookup reads the file named after the secret.
func (s *FileSource) Lookup(ctx context.Context, name string) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}

	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w in %s: %s", ErrNotFound, s.Dir, name)
		}
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", name)
	}
	if mode := info.Mode().Perm(); mode != 0o600 && mode != 0o400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - path is confined to Dir above
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// path joins name onto Dir and rejects names that escape it.
func (s *FileSource) path(name string) (string, error) {
	absBase, err := filepath.Abs(s.Dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve secrets directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to resolve secret path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid secret name %q: outside the secrets directory", name)
	}
	return absPath, nil
}

// Watch calls onChange whenever a file in Dir is written, created, removed
// or renamed. It blocks until ctx is cancelled.
func (s *FileSource) Watch(ctx context.Context, logger *slog.Logger, onChange func(name string)) error {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.Dir); err != nil {
		return fmt.Errorf("failed to watch secrets directory: %w", err)
	}
	logger.Info("watching secrets directory", "path", s.Dir)

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevant == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			logger.Debug("secret file changed", "file", name, "op", event.Op.String())
			onChange(name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("secrets watcher error", "error", err)
		}
	}
}
