package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/review-harvester/internal/repository"
	"github.com/user/review-harvester/pkg/metrics"
)

// fetchDocument fetches url and parses it, recording the outcome under kind.
// Failures caused by ctx cancellation are not counted as failed pages.
func fetchDocument(ctx context.Context, fetcher repository.Fetcher, m *metrics.Metrics, kind, url string) (*goquery.Document, error) {
	start := time.Now()
	page, err := fetcher.Fetch(ctx, url)
	m.FetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() == nil {
			m.PagesFailedTotal.WithLabelValues(kind).Inc()
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		m.PagesFailedTotal.WithLabelValues(kind).Inc()
		return nil, fmt.Errorf("%w: parse %s: %w", repository.ErrPageUnavailable, url, err)
	}

	m.PagesFetchedTotal.WithLabelValues(kind).Inc()
	return doc, nil
}
