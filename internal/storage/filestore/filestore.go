package filestore

import (
	"context"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/storage"
)

// FileStore keeps every key in its own file under Root. Keys are path escaped, so they never name a file outside
// of Root.
type FileStore struct {
	Root string
}

func New(root string) (s storage.Store, err error) {
	s = &FileStore{
		Root: root,
	}

	info, err := os.Stat(root)
	if err == nil {
		if !info.IsDir() {
			log.Error().Str("root", root).Msg("not a directory")
			err = storage.ErrNotDir
		}
		return
	}

	if errors.Is(err, os.ErrNotExist) {
		err = os.MkdirAll(root, 0o755)
	}

	if err != nil {
		log.Error().Err(err).Msg("internal error when setting up storage")
		err = storage.ErrInternal
	}

	return
}

func (s *FileStore) path(key string) string {
	name := url.PathEscape(key)
	if strings.HasPrefix(name, ".") {
		name = "%2E" + name[1:]
	}
	return filepath.Join(s.Root, name)
}

func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	path := s.path(key)
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", storage.ErrNotExist
		}
		log.Error().Err(err).Str("path", path).Msg("failed to read key")
		return "", storage.ErrInternal
	}
	return string(content), nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	path := s.path(key)
	if err := atomic.WriteFile(path, strings.NewReader(value)); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to write key")
		return storage.ErrInternal
	}
	return nil
}

func (s *FileStore) Remove(ctx context.Context, key string) error {
	path := s.path(key)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		log.Error().Err(err).Str("path", path).Msg("key deletion error")
		return storage.ErrInternal
	}

	return nil
}
