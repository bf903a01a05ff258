package impl

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/gonovel/internal/catalog"
	"github.com/sidereusnuntius/gonovel/internal/domain"
	"github.com/sidereusnuntius/gonovel/internal/localstore"
	"github.com/sidereusnuntius/gonovel/internal/service"
	"github.com/sidereusnuntius/gonovel/internal/state"
	"github.com/sidereusnuntius/gonovel/internal/storage"
	"github.com/sidereusnuntius/gonovel/internal/storage/filestore"
)

var ctx = context.Background()

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var now = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (service.Service, storage.Store) {
	t.Helper()
	s, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(&state.State{
		Store:   localstore.New(s),
		Catalog: catalog.New("../../catalog/testdata/catalog.json", nil),
		Clock:   fixedClock{now},
	}), s
}

func userCount(t *testing.T, s storage.Store) int {
	t.Helper()
	raw, err := s.Get(ctx, localstore.KeyUsers)
	if errors.Is(err, storage.ErrNotExist) {
		return 0
	}
	if err != nil {
		t.Fatal(err)
	}
	users, err := localstore.Decode[domain.Users](raw)
	if err != nil {
		t.Fatal(err)
	}
	return len(users)
}

func TestRegister(t *testing.T) {
	svc, store := newService(t)

	u, err := svc.Register(ctx, "  ana ", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	expected := domain.User{Username: "ana", Password: "secret", Membership: domain.Free}
	if diff := cmp.Diff(expected, u); diff != "" {
		t.Error(diff)
	}

	current, ok, err := svc.CurrentUser(ctx)
	if err != nil || !ok {
		t.Fatalf("expected a session after registering, got %v %v", ok, err)
	}
	if current.Username != "ana" {
		t.Errorf("expected session for ana, got %s", current.Username)
	}

	cases := []struct {
		name               string
		username, password string
		expectedErr        error
	}{
		{"duplicate", "ana", "other", service.ErrConflict},
		{"blank username", "   ", "x", service.ErrInvalidInput},
		{"blank password", "bob", " ", service.ErrInvalidInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Register(ctx, c.username, c.password)
			if !errors.Is(err, c.expectedErr) {
				t.Errorf("expected error \"%s\", got \"%v\"", c.expectedErr, err)
			}
			if n := userCount(t, store); n != 1 {
				t.Errorf("expected user list to keep 1 user, got %d", n)
			}
		})
	}
}

func TestUsernamesAreCaseSensitive(t *testing.T) {
	svc, store := newService(t)
	if _, err := svc.Register(ctx, "ana", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "Ana", "x"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n := userCount(t, store); n != 2 {
		t.Errorf("expected 2 users, got %d", n)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Register(ctx, "a", "x"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name               string
		username, password string
		expectedErr        error
	}{
		{"wrong password", "a", "y", service.ErrUnauthenticated},
		{"unknown user", "b", "x", service.ErrUnauthenticated},
		{"empty", "", "", service.ErrInvalidInput},
		{"valid", "a", "x", nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.Login(ctx, c.username, c.password)
			if c.expectedErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, c.expectedErr) {
				t.Errorf("expected error \"%s\", got \"%v\"", c.expectedErr, err)
			}

			_, ok, err := svc.CurrentUser(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if ok != (c.expectedErr == nil) {
				t.Errorf("expected session: %v, got %v", c.expectedErr == nil, ok)
			}
		})
	}
}

func TestLogoutAndDanglingSession(t *testing.T) {
	svc, store := newService(t)
	if _, err := svc.Register(ctx, "ana", "x"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := svc.CurrentUser(ctx); ok {
		t.Error("expected no session after logout")
	}
	if err := svc.Logout(ctx); err != nil {
		t.Errorf("logging out twice should succeed, got %s", err)
	}

	if err := store.Set(ctx, localstore.KeyCurrentUser, `"ghost"`); err != nil {
		t.Fatal(err)
	}
	_, ok, err := svc.CurrentUser(ctx)
	if err != nil || ok {
		t.Errorf("expected dangling session to read as logged out, got %v %v", ok, err)
	}
}

func TestUpgradeMembership(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Register(ctx, "ana", "x"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		u, err := svc.UpgradeMembership(ctx, "ana")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %s", i, err)
		}
		if u.Membership != domain.Premium {
			t.Errorf("call %d: expected premium, got %s", i, u.Membership)
		}
	}

	u, err := svc.GetUser(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsPremium() {
		t.Errorf("expected stored user to be premium, got %s", u.Membership)
	}

	if _, err := svc.UpgradeMembership(ctx, "nobody"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected %s, got %v", service.ErrNotFound, err)
	}
}

func TestMarkRead(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.MarkRead(ctx, "ana", "1", "1"); !errors.Is(err, service.ErrUnauthenticated) {
		t.Fatalf("expected %s without a session, got %v", service.ErrUnauthenticated, err)
	}

	if _, err := svc.Register(ctx, "ana", "x"); err != nil {
		t.Fatal(err)
	}
	empty, err := svc.GetProgress(ctx, "ana", "1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(domain.Progress{ReadChapters: []domain.ID{}}, empty); diff != "" {
		t.Error(diff)
	}

	steps := []struct {
		novel, chapter domain.ID
	}{
		{"1", "1"}, {"1", "2"}, {"1", "2"}, {"lantern", "l1"}, {"1", "1"},
	}
	for _, s := range steps {
		if _, err := svc.MarkRead(ctx, "ana", s.novel, s.chapter); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}

	p, err := svc.GetProgress(ctx, "ana", "1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(domain.Progress{ReadChapters: []domain.ID{"1", "2"}, LastRead: "1"}, p); diff != "" {
		t.Error(diff)
	}

	other, err := svc.GetProgress(ctx, "ana", "lantern")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(domain.Progress{ReadChapters: []domain.ID{"l1"}, LastRead: "l1"}, other); diff != "" {
		t.Error(diff)
	}
}

func TestMarkReadForAnotherUser(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Register(ctx, "bob", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Register(ctx, "ana", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MarkRead(ctx, "bob", "1", "1"); !errors.Is(err, service.ErrUnauthenticated) {
		t.Errorf("expected %s, got %v", service.ErrUnauthenticated, err)
	}
}

func TestComments(t *testing.T) {
	svc, _ := newService(t)

	if _, err := svc.AddComment(ctx, "1", "1", "ana", "hello"); !errors.Is(err, service.ErrUnauthenticated) {
		t.Fatalf("expected %s without a session, got %v", service.ErrUnauthenticated, err)
	}

	if _, err := svc.Register(ctx, "ana", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddComment(ctx, "1", "1", "ana", "  \n"); !errors.Is(err, service.ErrInvalidInput) {
		t.Fatalf("expected %s for a blank comment, got %v", service.ErrInvalidInput, err)
	}

	seq, err := svc.ListComments(ctx, "1", "1")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(slices.Collect(seq)); n != 0 {
		t.Fatalf("expected no comments, got %d", n)
	}

	for _, content := range []string{"first", " second "} {
		if _, err := svc.AddComment(ctx, "1", "1", "ana", content); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
	}

	seq, err = svc.ListComments(ctx, "1", "1")
	if err != nil {
		t.Fatal(err)
	}
	expected := []domain.Comment{
		{Username: "ana", Timestamp: now, Content: "first"},
		{Username: "ana", Timestamp: now, Content: "second"},
	}
	if diff := cmp.Diff(expected, slices.Collect(seq)); diff != "" {
		t.Error(diff)
	}

	seq, err = svc.ListComments(ctx, "1", "2")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(slices.Collect(seq)); n != 0 {
		t.Errorf("comments leaked into another chapter: %d", n)
	}
}

func TestCorruptStateDegrades(t *testing.T) {
	svc, store := newService(t)
	for _, key := range []string{localstore.KeyUsers, localstore.KeyCurrentUser, localstore.ProgressKey("ana"), localstore.CommentsKey("1", "1")} {
		if err := store.Set(ctx, key, "{broken"); err != nil {
			t.Fatal(err)
		}
	}

	if _, ok, err := svc.CurrentUser(ctx); err != nil || ok {
		t.Errorf("expected no session, got %v %v", ok, err)
	}
	if _, err := svc.Register(ctx, "ana", "x"); err != nil {
		t.Fatalf("registering over corrupt users failed: %s", err)
	}
	p, err := svc.GetProgress(ctx, "ana", "1")
	if err != nil || len(p.ReadChapters) != 0 {
		t.Errorf("expected empty progress, got %v %v", p, err)
	}
	seq, err := svc.ListComments(ctx, "1", "1")
	if err != nil {
		t.Fatal(err)
	}
	if n := len(slices.Collect(seq)); n != 0 {
		t.Errorf("expected no comments, got %d", n)
	}
}

func TestCatalog(t *testing.T) {
	svc, _ := newService(t)

	if n := len(svc.Catalog(ctx).Novels); n != 2 {
		t.Errorf("expected 2 novels, got %d", n)
	}
	if _, err := svc.FindNovel(ctx, "missing"); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected %s, got %v", service.ErrNotFound, err)
	}
	n, i, err := svc.FindChapter(ctx, "1", "3")
	if err != nil {
		t.Fatal(err)
	}
	if !n.Chapters[i].Premium {
		t.Error("expected chapter 3 to be premium")
	}
	if got := svc.Search(ctx, "zzz"); len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}
