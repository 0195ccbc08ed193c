package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/internal/extract"
	"github.com/user/review-harvester/internal/repository"
	"github.com/user/review-harvester/pkg/metrics"
	"github.com/user/review-harvester/pkg/utils"
	"go.uber.org/zap"
)

// WalkStats counts the outcome of one film's walk.
type WalkStats struct {
	PagesFetched int
	PagesFailed  int
	Reviews      int
}

// ReviewWalker appends every review of one film to a sink.
type ReviewWalker interface {
	// Walk visits pages 1..pageCount in order. A page that cannot be fetched
	// is logged and skipped. The returned error is non-nil only when ctx is
	// done or the sink rejects a review; the film is then incomplete.
	Walk(ctx context.Context, filmID, pageCount int, sink repository.ReviewSink) (WalkStats, error)
}

type reviewWalkerUseCase struct {
	fetcher           repository.Fetcher
	failedPageRepo    repository.FailedPageRepository
	reviewURLTemplate string
	rules             extract.Rules
	metrics           *metrics.Metrics
	logger            *zap.Logger
}

// NewReviewWalker creates a new ReviewWalker. failedPageRepo may be nil, in
// which case skipped pages are only logged.
func NewReviewWalker(
	fetcher repository.Fetcher,
	failedPageRepo repository.FailedPageRepository,
	reviewURLTemplate string,
	m *metrics.Metrics,
	logger *zap.Logger,
) ReviewWalker {
	return &reviewWalkerUseCase{
		fetcher:           fetcher,
		failedPageRepo:    failedPageRepo,
		reviewURLTemplate: reviewURLTemplate,
		rules:             extract.ReviewRules,
		metrics:           m,
		logger:            logger.Named("walker"),
	}
}

func (uc *reviewWalkerUseCase) Walk(ctx context.Context, filmID, pageCount int, sink repository.ReviewSink) (WalkStats, error) {
	var stats WalkStats

	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		url := utils.ReviewPageURL(uc.reviewURLTemplate, filmID, page)
		doc, err := fetchDocument(ctx, uc.fetcher, uc.metrics, metrics.KindReview, url)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			stats.PagesFailed++
			uc.handlePageFailure(ctx, filmID, page, url, err)
			continue
		}
		stats.PagesFetched++
		uc.clearPageFailure(ctx, filmID, page)

		reviews := extract.Reviews(doc.Selection, uc.rules)
		for _, review := range reviews {
			if err := sink.Append(ctx, filmID, review); err != nil {
				return stats, fmt.Errorf("film %d page %d: %w", filmID, page, err)
			}
			stats.Reviews++
			uc.metrics.ReviewsAppended.Inc()
		}

		uc.logger.Debug("review page processed",
			zap.Int("film_id", filmID),
			zap.Int("page", page),
			zap.Int("reviews", len(reviews)),
		)
	}

	return stats, nil
}

func (uc *reviewWalkerUseCase) handlePageFailure(ctx context.Context, filmID, page int, url string, fetchErr error) {
	uc.logger.Warn("skipping review page",
		zap.Int("film_id", filmID),
		zap.Int("page", page),
		zap.String("url", url),
		zap.Error(fetchErr),
	)
	if uc.failedPageRepo == nil {
		return
	}

	failed := &entity.FailedPage{
		FilmID:         filmID,
		Page:           page,
		URL:            url,
		FailureReason:  fetchErr.Error(),
		HTTPStatusCode: repository.StatusCodeOf(fetchErr),
		AttemptedAt:    time.Now(),
	}
	if err := uc.failedPageRepo.Record(ctx, failed); err != nil {
		// The page is already logged above; losing the audit row is not fatal.
		uc.logger.Error("failed to record skipped page", zap.Int("film_id", filmID), zap.Int("page", page), zap.Error(err))
	}
}

// clearPageFailure drops the audit row of a page that was skipped on an earlier run.
func (uc *reviewWalkerUseCase) clearPageFailure(ctx context.Context, filmID, page int) {
	if uc.failedPageRepo == nil {
		return
	}
	if err := uc.failedPageRepo.Delete(ctx, filmID, page); err != nil {
		uc.logger.Warn("failed to clear skipped page record", zap.Int("film_id", filmID), zap.Int("page", page), zap.Error(err))
	}
}
