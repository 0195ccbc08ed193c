package repository

import "context"

// CheckpointRepository stores the id of the last film whose pages were all attempted.
type CheckpointRepository interface {
	// Load reports ok=false when no checkpoint exists yet.
	Load(ctx context.Context) (filmID int, ok bool, err error)
	// Save overwrites the previous checkpoint.
	Save(ctx context.Context, filmID int) error
}
