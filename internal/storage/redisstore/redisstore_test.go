package redisstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/sidereusnuntius/gonovel/internal/storage"
)

// These tests need a running Redis; set GONOVEL_TEST_REDIS_URL to run them.
func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	u := os.Getenv("GONOVEL_TEST_REDIS_URL")
	if u == "" {
		t.Skip("GONOVEL_TEST_REDIS_URL not set")
	}
	s, err := New(context.Background(), u, "gonovel-test:"+t.Name()+":")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "users", "[]"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	v, err := s.Get(ctx, "users")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v != "[]" {
		t.Errorf("expected \"[]\", got %q", v)
	}

	if err := s.Remove(ctx, "users"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, err := s.Get(ctx, "users"); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("expected %s, got %v", storage.ErrNotExist, err)
	}
}

func TestNewInvalidURL(t *testing.T) {
	if _, err := New(context.Background(), "http://nope", ""); err == nil {
		t.Error("expected error for non redis url")
	}
}
