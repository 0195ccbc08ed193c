package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/review-harvester/internal/entity"
)

// FailedPageRepoImpl provides a concrete implementation for the FailedPageRepository interface using PostgreSQL.
type FailedPageRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedPageRepo creates a new instance of FailedPageRepoImpl.
func NewFailedPageRepo(db *pgxpool.Pool) *FailedPageRepoImpl {
	return &FailedPageRepoImpl{db: db}
}

// Record creates or updates the row for a skipped page.
// It increments attempt_count on conflict.
func (r *FailedPageRepoImpl) Record(ctx context.Context, page *entity.FailedPage) error {
	query := `
		INSERT INTO failed_pages (film_id, page, url, failure_reason, http_status_code, attempted_at, attempt_count)
		VALUES ($1, $2, $3, $4, $5, $6, 1)
		ON CONFLICT (film_id, page) DO UPDATE SET
			url = EXCLUDED.url,
			failure_reason = EXCLUDED.failure_reason,
			http_status_code = EXCLUDED.http_status_code,
			attempted_at = EXCLUDED.attempted_at,
			attempt_count = failed_pages.attempt_count + 1;
	`
	_, err := r.db.Exec(ctx, query,
		page.FilmID,
		page.Page,
		page.URL,
		page.FailureReason,
		page.HTTPStatusCode,
		page.AttemptedAt,
	)
	return err
}

// Delete removes a failed page record, typically after a successful fetch.
func (r *FailedPageRepoImpl) Delete(ctx context.Context, filmID, page int) error {
	query := `DELETE FROM failed_pages WHERE film_id = $1 AND page = $2;`
	_, err := r.db.Exec(ctx, query, filmID, page)
	return err
}
