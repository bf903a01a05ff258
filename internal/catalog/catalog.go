// Package catalog loads the read-only novel catalog and answers lookups and searches over it.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/gonovel/internal/domain"
	"golang.org/x/text/cases"
)

// ErrFetch wraps every failure to obtain or parse the catalog. Callers of Load never see it; it is logged.
var ErrFetch = errors.New("catalog unavailable")

const maxCatalogSize = 32 << 20

type Loader struct {
	source string
	client *http.Client

	mu      sync.Mutex
	loaded  bool
	catalog domain.Catalog
}

// New returns a loader for source, which is either a file path or an http(s) URL. client is used for URLs; if
// nil, http.DefaultClient is used.
func New(source string, client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		source: source,
		client: client,
	}
}

// Load returns the catalog, fetching it on first use. When the catalog cannot be fetched or parsed the failure is
// logged and an empty catalog is returned; the failure is not cached, so the next call tries again.
func (l *Loader) Load(ctx context.Context) domain.Catalog {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.snapshot()
	}

	c, err := l.fetch(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", l.source).Msg("failed to load catalog")
		return domain.Catalog{Novels: []domain.Novel{}}
	}
	if c.Novels == nil {
		c.Novels = []domain.Novel{}
	}

	log.Info().Int("novels", len(c.Novels)).Str("source", l.source).Msg("catalog loaded")
	l.catalog = c
	l.loaded = true
	return l.snapshot()
}

// snapshot copies the cached novel list so callers cannot reorder or replace the cached entries.
func (l *Loader) snapshot() domain.Catalog {
	return domain.Catalog{Novels: slices.Clone(l.catalog.Novels)}
}

// Fetch reads and parses the catalog without touching the cache.
func (l *Loader) Fetch(ctx context.Context) (domain.Catalog, error) {
	return l.fetch(ctx)
}

// Reset drops the cached catalog.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded = false
	l.catalog = domain.Catalog{}
}

func (l *Loader) fetch(ctx context.Context) (c domain.Catalog, err error) {
	body, err := l.open(ctx)
	if err != nil {
		return c, fmt.Errorf("%w: %s", ErrFetch, err)
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxCatalogSize))
	if err != nil {
		return c, fmt.Errorf("%w: %s", ErrFetch, err)
	}
	if err = json.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: malformed catalog: %s", ErrFetch, err)
	}
	if err = c.Validate(); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %s", ErrFetch, err)
	}
	return c, nil
}

func (l *Loader) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(l.source, "http://") && !strings.HasPrefix(l.source, "https://") {
		return os.Open(l.source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

func (l *Loader) Find(ctx context.Context, novelID domain.ID) (domain.Novel, bool) {
	for _, n := range l.Load(ctx).Novels {
		if n.ID == novelID {
			return n, true
		}
	}
	return domain.Novel{}, false
}

// FindChapter returns the novel and the position of the chapter within it.
func (l *Loader) FindChapter(ctx context.Context, novelID, chapterID domain.ID) (domain.Novel, int, bool) {
	n, ok := l.Find(ctx, novelID)
	if !ok {
		return domain.Novel{}, -1, false
	}
	i := n.ChapterIndex(chapterID)
	if i < 0 {
		return domain.Novel{}, -1, false
	}
	return n, i, true
}

// Search returns the novels whose title, author or description contain query, ignoring case. A blank query
// matches every novel.
func (l *Loader) Search(ctx context.Context, query string) []domain.Novel {
	novels := l.Load(ctx).Novels
	query = strings.TrimSpace(query)
	if query == "" {
		return novels
	}

	fold := cases.Fold()
	query = fold.String(query)
	found := []domain.Novel{}
	for _, n := range novels {
		if strings.Contains(fold.String(n.Title), query) ||
			strings.Contains(fold.String(n.Author), query) ||
			strings.Contains(fold.String(n.Description), query) {
			found = append(found, n)
		}
	}
	return found
}
