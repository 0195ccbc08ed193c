package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/review-harvester/internal/entity"
)

// ReviewSinkImpl appends reviews to the reviews table. Absent fields are stored as NULL.
type ReviewSinkImpl struct {
	db *pgxpool.Pool
}

// NewReviewSink creates a new instance of ReviewSinkImpl.
func NewReviewSink(db *pgxpool.Pool) *ReviewSinkImpl {
	return &ReviewSinkImpl{db: db}
}

// Append inserts one review row for filmID.
func (s *ReviewSinkImpl) Append(ctx context.Context, filmID int, review entity.Review) error {
	query := `INSERT INTO reviews (film_id, rating, comment) VALUES ($1, $2, $3);`
	if _, err := s.db.Exec(ctx, query, filmID, review.Rating, review.Comment); err != nil {
		return fmt.Errorf("insert review for film %d: %w", filmID, err)
	}
	return nil
}

// Close is a no-op; the pool is owned by the caller.
func (s *ReviewSinkImpl) Close() error {
	return nil
}
