package initialization

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sidereusnuntius/gonovel/internal/config"
	"github.com/sidereusnuntius/gonovel/internal/storage"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		name string
		cfg  config.Configuration
	}{
		{"sqlite", config.Configuration{
			Backend:          config.SQLite,
			DbUrl:            filepath.Join(dir, "test.db"),
			MigrationsFolder: "../../migrations",
		}},
		{"file", config.Configuration{
			Backend: config.Files,
			FsRoot:  filepath.Join(dir, "store"),
		}},
	}

	ctx := context.Background()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, closer, err := OpenStore(ctx, &c.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			defer closer.Close()

			if _, err := s.Get(ctx, "users"); !errors.Is(err, storage.ErrNotExist) {
				t.Errorf("expected %s, got %v", storage.ErrNotExist, err)
			}
			if err := s.Set(ctx, "users", "[]"); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if err := s.Set(ctx, "users", `["x"]`); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			v, err := s.Get(ctx, "users")
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if v != `["x"]` {
				t.Errorf("expected overwritten value, got %q", v)
			}
			if err := s.Remove(ctx, "users"); err != nil {
				t.Errorf("unexpected error: %s", err)
			}
			if err := s.Remove(ctx, "users"); err != nil {
				t.Errorf("removing a missing key should succeed, got %s", err)
			}
		})
	}
}

func TestSetupDBIsRepeatable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	d, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	for i := 0; i < 2; i++ {
		if err := SetupDB(d, "../../migrations", path); err != nil {
			t.Fatalf("run %d: unexpected error: %s", i, err)
		}
	}
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, _, err := OpenStore(context.Background(), &config.Configuration{Backend: "etcd"})
	if err == nil {
		t.Error("expected error")
	}
}
