package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/storage"
)

var store storage.Store
var path string
var ctx = context.Background()

func TestMain(m *testing.M) {
	var err error
	path, err = os.MkdirTemp(".", "tempdir")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup tests")
		return
	}

	store = &FileStore{
		Root: path,
	}

	code := m.Run()
	if err = os.RemoveAll(path); err != nil {
		log.Fatal().Err(err).Msg("removal of temporary directory failed")
	}
	os.Exit(code)
}

func TestSetGet(t *testing.T) {
	cases := []struct {
		Casename string
		Key      string
		Content  string
	}{
		{"plain key", "users", `[{"username":"ana"}]`},
		{"overwrite", "users", `[]`},
		{"key with separators", "comments_1/../2_3", `[]`},
		{"dot key", "..", `"x"`},
	}

	for _, c := range cases {
		t.Run(c.Casename, func(t *testing.T) {
			if err := store.Set(ctx, c.Key, c.Content); err != nil {
				t.Fatal("unexpected error:", err)
			}

			content, err := store.Get(ctx, c.Key)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if content != c.Content {
				t.Errorf("expected \"%s\", got \"%s\"", c.Content, content)
			}
		})
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("key escaped into directory %s", e.Name())
		}
	}
}

func TestGetMissing(t *testing.T) {
	_, err := store.Get(ctx, "none")
	if !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("unexpected err: %v\nexpected \"%s\"", err, storage.ErrNotExist)
	}
}

func TestRemove(t *testing.T) {
	name := "moribundus"
	if err := store.Set(ctx, name, "1"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if err := store.Remove(ctx, name); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
	if _, err := os.Stat(filepath.Join(path, name)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected file to be gone, stat returned %v", err)
	}

	if err := store.Remove(ctx, "none"); err != nil {
		t.Errorf("removing a missing key should succeed, got %s", err)
	}
}

func TestNewRejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(f); !errors.Is(err, storage.ErrNotDir) {
		t.Errorf("expected %s, got %v", storage.ErrNotDir, err)
	}
}
