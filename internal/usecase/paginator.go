package usecase

import (
	"context"
	"strconv"

	"github.com/user/review-harvester/internal/extract"
	"github.com/user/review-harvester/internal/repository"
	"github.com/user/review-harvester/pkg/metrics"
	"github.com/user/review-harvester/pkg/utils"
	"go.uber.org/zap"
)

// Paginator determines how many review pages a film has.
type Paginator interface {
	// PageCount never fails; anything unexpected degrades to a single page.
	PageCount(ctx context.Context, filmID int) int
}

type paginatorUseCase struct {
	fetcher           repository.Fetcher
	reviewURLTemplate string
	pagerSelector     string
	metrics           *metrics.Metrics
	logger            *zap.Logger
}

// NewPaginator creates a new Paginator reading the pager of review page 1.
func NewPaginator(fetcher repository.Fetcher, reviewURLTemplate string, m *metrics.Metrics, logger *zap.Logger) Paginator {
	return &paginatorUseCase{
		fetcher:           fetcher,
		reviewURLTemplate: reviewURLTemplate,
		pagerSelector:     extract.PagerSelector,
		metrics:           m,
		logger:            logger.Named("paginator"),
	}
}

func (uc *paginatorUseCase) PageCount(ctx context.Context, filmID int) int {
	url := utils.ReviewPageURL(uc.reviewURLTemplate, filmID, 1)

	doc, err := fetchDocument(ctx, uc.fetcher, uc.metrics, metrics.KindPagination, url)
	if err != nil {
		if ctx.Err() != nil {
			return 1
		}
		uc.logger.Warn("failed to fetch first review page, assuming one page",
			zap.Int("film_id", filmID), zap.String("url", url), zap.Error(err))
		return 1
	}

	entries := extract.PagerEntries(doc.Selection, uc.pagerSelector)
	pages := lastPage(entries)
	uc.logger.Debug("counted review pages",
		zap.Int("film_id", filmID), zap.Strings("pager", entries), zap.Int("pages", pages))
	return pages
}

// lastPage reads the page count from the pager entries. A trailing
// non-numeric entry is the "next" arrow and is dropped first. The final
// remaining entry is a forward affordance too, so the count is the
// second-to-last remaining entry. Anything else yields 1.
func lastPage(entries []string) int {
	if n := len(entries); n > 0 {
		if _, err := strconv.Atoi(entries[n-1]); err != nil {
			entries = entries[:n-1]
		}
	}
	if len(entries) < 2 {
		return 1
	}

	pages, err := strconv.Atoi(entries[len(entries)-2])
	if err != nil || pages < 1 {
		return 1
	}
	return pages
}
