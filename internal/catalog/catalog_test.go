package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sidereusnuntius/gonovel/internal/domain"
)

var ctx = context.Background()

func TestLoadFromFile(t *testing.T) {
	l := New("testdata/catalog.json", nil)
	c := l.Load(ctx)
	if len(c.Novels) != 2 {
		t.Fatalf("expected 2 novels, got %d", len(c.Novels))
	}
	if c.Novels[0].ID != "1" || c.Novels[1].ID != "lantern" {
		t.Errorf("unexpected ids %q and %q", c.Novels[0].ID, c.Novels[1].ID)
	}
	if !c.Novels[0].Chapters[2].Premium {
		t.Error("expected third chapter to be premium")
	}
}

func TestLoadFailuresDegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"novels": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	noID := filepath.Join(dir, "noid.json")
	if err := os.WriteFile(noID, []byte(`{"novels": [{"title": "x"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name   string
		source string
	}{
		{"missing file", filepath.Join(dir, "none.json")},
		{"malformed", bad},
		{"novel without id", noID},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := New(c.source, nil).Load(ctx)
			if got.Novels == nil || len(got.Novels) != 0 {
				t.Errorf("expected an empty, non nil novel list, got %#v", got.Novels)
			}
		})
	}
}

func TestLoadCachesOverHTTP(t *testing.T) {
	data, err := os.ReadFile("testdata/catalog.json")
	if err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	l := New(srv.URL+"/catalog.json", srv.Client())
	for i := 0; i < 3; i++ {
		if n := len(l.Load(ctx).Novels); n != 2 {
			t.Fatalf("expected 2 novels, got %d", n)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected a single fetch, got %d", hits.Load())
	}

	l.Reset()
	l.Load(ctx)
	if hits.Load() != 2 {
		t.Errorf("expected a new fetch after reset, got %d fetches", hits.Load())
	}
}

func TestLoadRetriesAfterFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"novels":[{"id":"a","title":"A","chapters":[]}]}`))
	}))
	defer srv.Close()

	l := New(srv.URL, srv.Client())
	if n := len(l.Load(ctx).Novels); n != 0 {
		t.Fatalf("expected empty catalog while source is down, got %d novels", n)
	}
	fail.Store(false)
	if n := len(l.Load(ctx).Novels); n != 1 {
		t.Errorf("expected catalog once source is back, got %d novels", n)
	}
}

func TestFind(t *testing.T) {
	l := New("testdata/catalog.json", nil)

	if _, ok := l.Find(ctx, "nope"); ok {
		t.Error("found a novel that does not exist")
	}
	n, ok := l.Find(ctx, "lantern")
	if !ok || n.Title != "Lantern Street" {
		t.Errorf("unexpected result %v %v", n.Title, ok)
	}

	n, i, ok := l.FindChapter(ctx, "1", "2")
	if !ok || i != 1 || n.Chapters[i].Title != "Roots" {
		t.Errorf("unexpected chapter lookup result: %d %v", i, ok)
	}
	if _, _, ok := l.FindChapter(ctx, "1", "l1"); ok {
		t.Error("found a chapter of another novel")
	}
}

func TestSearch(t *testing.T) {
	l := New("testdata/catalog.json", nil)
	cases := []struct {
		name     string
		query    string
		expected []domain.ID
	}{
		{"empty query", "", []domain.ID{"1", "lantern"}},
		{"whitespace query", "   ", []domain.ID{"1", "lantern"}},
		{"title", "glass", []domain.ID{"1"}},
		{"author", "TAKEDA", []domain.ID{"lantern"}},
		{"description", "lantern that", []domain.ID{"lantern"}},
		{"no match", "submarine", []domain.ID{}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			found := l.Search(ctx, c.query)
			ids := []domain.ID{}
			for _, n := range found {
				ids = append(ids, n.ID)
			}
			if diff := cmp.Diff(c.expected, ids); diff != "" {
				t.Error(diff)
			}
		})
	}
}

func TestResultsDoNotAliasCache(t *testing.T) {
	l := New("testdata/catalog.json", nil)

	all := l.Search(ctx, "")
	all[0] = domain.Novel{ID: "x", Title: "Replaced"}
	loaded := l.Load(ctx)
	loaded.Novels[1] = domain.Novel{ID: "y"}

	again := l.Search(ctx, "")
	if again[0].Title != "The Glass Orchard" || again[1].ID != "lantern" {
		t.Errorf("cached catalog was modified through a returned slice: %v", again)
	}
}
