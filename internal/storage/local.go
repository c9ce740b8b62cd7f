package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// URLPrefix is the route the local upload directory is served under.
const URLPrefix = "/uploads"

// LocalStorage writes uploads below a root directory.
type LocalStorage struct {
	root   string
	logger zerolog.Logger
}

func NewLocalStorage(root string, logger zerolog.Logger) *LocalStorage {
	return &LocalStorage{
		root:   root,
		logger: logger.With().Str("component", "local-storage").Logger(),
	}
}

// Root is the directory served under URLPrefix.
func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) Save(ctx context.Context, folder, filename string, r io.Reader, _ string) (string, error) {
	folder, err := cleanFolder(folder)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error().Err(err).Str("dir", dir).Msg("failed to create directory")
		return "", err
	}

	name := objectName(filename)
	fullPath := filepath.Join(dir, name)

	out, err := os.Create(fullPath)
	if err != nil {
		s.logger.Error().Err(err).Str("path", fullPath).Msg("failed to create file")
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		s.logger.Error().Err(err).Str("path", fullPath).Msg("failed to write file")
		_ = os.Remove(fullPath)
		return "", err
	}

	s.logger.Debug().Str("path", fullPath).Msg("upload saved")
	return path.Join(URLPrefix, folder, name), nil
}

// Delete removes a previously saved upload. Paths outside the upload root
// are refused; a missing file is not an error.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	rel, ok := strings.CutPrefix(cleanRel, URLPrefix+"/")
	if !ok {
		return fmt.Errorf("refusing to delete non-upload path: %s", url)
	}

	cleanBase, err := filepath.Abs(s.root)
	if err != nil {
		return err
	}
	target := filepath.Clean(filepath.Join(cleanBase, filepath.FromSlash(rel)))
	if !strings.HasPrefix(target, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", url)
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
