package repository

import (
	"context"

	"github.com/user/review-harvester/internal/entity"
)

// FailedPageRepository keeps an audit trail of skipped review pages.
type FailedPageRepository interface {
	// Record stores one skipped page. Re-recording the same film and page updates it.
	Record(ctx context.Context, page *entity.FailedPage) error
	// Delete removes the record of a page, typically after it was fetched on a later run.
	Delete(ctx context.Context, filmID, page int) error
}
