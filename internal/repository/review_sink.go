package repository

import (
	"context"

	"github.com/user/review-harvester/internal/entity"
)

// ReviewSink is the append-only destination for reviews.
type ReviewSink interface {
	// Append durably adds one review of filmID before returning.
	Append(ctx context.Context, filmID int, review entity.Review) error
	Close() error
}
