package repository

import (
	"context"
	"errors"

	"github.com/user/review-harvester/internal/entity"
)

// ErrCatalogNotFound is returned by Load when no snapshot has been persisted yet.
var ErrCatalogNotFound = errors.New("catalog snapshot not found")

// CatalogRepository persists the harvested catalog snapshot.
type CatalogRepository interface {
	// Load returns the films in persisted order.
	Load(ctx context.Context) ([]entity.Film, error)
	// Save writes the snapshot. It is called once, after a fresh harvest.
	Save(ctx context.Context, films []entity.Film) error
}
