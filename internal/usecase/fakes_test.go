package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/internal/repository"
	"github.com/user/review-harvester/pkg/metrics"
)

const testReviewTemplate = "https://films.test/reviews/{page}/{id}.html"

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	return metrics.New(prometheus.NewRegistry())
}

// fakeFetcher serves bodies by URL. Unknown URLs answer 404.
type fakeFetcher struct {
	mu       sync.Mutex
	bodies   map[string]string
	statuses map[string]int
	requests []string
	// onFetch runs before every fetch, e.g. to cancel a context mid-walk.
	onFetch func(url string)
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{bodies: map[string]string{}, statuses: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*repository.Page, error) {
	if f.onFetch != nil {
		f.onFetch(url)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, url)

	if err := ctx.Err(); err != nil {
		return nil, errors.Join(repository.ErrPageUnavailable, err)
	}
	if status, ok := f.statuses[url]; ok {
		return nil, &repository.StatusError{StatusCode: status}
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, &repository.StatusError{StatusCode: 404}
	}
	return &repository.Page{URL: url, StatusCode: 200, Body: []byte(body)}, nil
}

func (f *fakeFetcher) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

type sinkRow struct {
	FilmID int
	Review entity.Review
}

type memorySink struct {
	rows      []sinkRow
	failAfter int // reject appends once this many rows exist; zero disables
	closed    bool
}

func (s *memorySink) Append(_ context.Context, filmID int, review entity.Review) error {
	if s.failAfter > 0 && len(s.rows) >= s.failAfter {
		return errors.New("disk full")
	}
	s.rows = append(s.rows, sinkRow{FilmID: filmID, Review: review})
	return nil
}

func (s *memorySink) Close() error {
	s.closed = true
	return nil
}

func (s *memorySink) filmIDs() []int {
	var ids []int
	for _, r := range s.rows {
		ids = append(ids, r.FilmID)
	}
	return ids
}

type memoryCheckpoint struct {
	id      int
	ok      bool
	history []int
	loadErr error
}

func (c *memoryCheckpoint) Load(context.Context) (int, bool, error) {
	return c.id, c.ok, c.loadErr
}

func (c *memoryCheckpoint) Save(_ context.Context, filmID int) error {
	c.id, c.ok = filmID, true
	c.history = append(c.history, filmID)
	return nil
}

type memoryCatalog struct {
	films []entity.Film
	saved int
}

func (c *memoryCatalog) Load(context.Context) ([]entity.Film, error) {
	if c.films == nil {
		return nil, repository.ErrCatalogNotFound
	}
	return append([]entity.Film(nil), c.films...), nil
}

func (c *memoryCatalog) Save(_ context.Context, films []entity.Film) error {
	c.films = append([]entity.Film{}, films...)
	c.saved++
	return nil
}

type memoryFailedPages struct {
	recorded []*entity.FailedPage
	deleted  [][2]int
}

func (r *memoryFailedPages) Record(_ context.Context, page *entity.FailedPage) error {
	r.recorded = append(r.recorded, page)
	return nil
}

func (r *memoryFailedPages) Delete(_ context.Context, filmID, page int) error {
	r.deleted = append(r.deleted, [2]int{filmID, page})
	return nil
}
