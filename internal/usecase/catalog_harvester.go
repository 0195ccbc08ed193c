package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/user/review-harvester/internal/entity"
	"github.com/user/review-harvester/internal/extract"
	"github.com/user/review-harvester/internal/repository"
	"github.com/user/review-harvester/pkg/metrics"
	"go.uber.org/zap"
)

// ErrListingUnavailable aborts a harvest: a catalog with gaps would corrupt every later resume.
var ErrListingUnavailable = errors.New("catalog listing unavailable")

// HarvestResult is a complete catalog plus the number of listing entries dropped.
type HarvestResult struct {
	Films   []entity.Film
	Skipped int
}

// CatalogHarvester builds the catalog from the listing page.
type CatalogHarvester interface {
	Harvest(ctx context.Context) (*HarvestResult, error)
}

type catalogHarvesterUseCase struct {
	fetcher    repository.Fetcher
	paginator  Paginator
	listingURL string
	rules      extract.Rules
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewCatalogHarvester creates a new CatalogHarvester for the listing at listingURL.
func NewCatalogHarvester(
	fetcher repository.Fetcher,
	paginator Paginator,
	listingURL string,
	m *metrics.Metrics,
	logger *zap.Logger,
) CatalogHarvester {
	return &catalogHarvesterUseCase{
		fetcher:    fetcher,
		paginator:  paginator,
		listingURL: listingURL,
		rules:      extract.CatalogRules,
		metrics:    m,
		logger:     logger.Named("harvester"),
	}
}

// Harvest fetches the listing once and annotates every entry with its page
// count. Films keep listing order. Only a listing failure or cancellation is
// returned as an error; no partial catalog is ever returned.
func (uc *catalogHarvesterUseCase) Harvest(ctx context.Context) (*HarvestResult, error) {
	uc.logger.Info("harvesting catalog", zap.String("url", uc.listingURL))

	doc, err := fetchDocument(ctx, uc.fetcher, uc.metrics, metrics.KindListing, uc.listingURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}

	base, _ := url.Parse(uc.listingURL)
	films, failures := extract.Films(doc.Selection, uc.rules, base)

	result := &HarvestResult{Skipped: len(failures)}
	for _, failure := range failures {
		uc.logger.Warn("skipping catalog entry", zap.Error(failure))
	}

	seen := make(map[int]struct{}, len(films))
	for _, film := range films {
		if _, dup := seen[film.ID]; dup {
			uc.logger.Warn("skipping duplicate catalog entry", zap.Int("film_id", film.ID), zap.String("title", film.Title))
			result.Skipped++
			continue
		}
		seen[film.ID] = struct{}{}

		film.Pages = uc.paginator.PageCount(ctx, film.ID)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Films = append(result.Films, film)
	}
	uc.metrics.CatalogEntriesSkipped.Add(float64(result.Skipped))

	uc.logger.Info("catalog harvested",
		zap.Int("films", len(result.Films)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}
