package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/user/review-harvester/pkg/utils"
)

const checkpointKeyPrefix = "harvester:checkpoint:"

// CheckpointRepoImpl provides a concrete implementation for the CheckpointRepository interface using Redis.
// Each listing URL gets its own key, so several catalogs can share one Redis.
type CheckpointRepoImpl struct {
	client *redis.Client
	key    string
}

// NewCheckpointRepo creates a new instance of CheckpointRepoImpl for the catalog at listingURL.
func NewCheckpointRepo(client *redis.Client, listingURL string) *CheckpointRepoImpl {
	return &CheckpointRepoImpl{
		client: client,
		key:    checkpointKeyPrefix + utils.HashURL(listingURL),
	}
}

// Load returns ok=false when the key does not exist.
func (r *CheckpointRepoImpl) Load(ctx context.Context) (int, bool, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get checkpoint: %w", err)
	}
	id, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("checkpoint key %s holds %q: %w", r.key, val, err)
	}
	return id, true, nil
}

// Save overwrites the checkpoint. The key never expires.
func (r *CheckpointRepoImpl) Save(ctx context.Context, filmID int) error {
	if err := r.client.Set(ctx, r.key, filmID, 0).Err(); err != nil {
		return fmt.Errorf("set checkpoint: %w", err)
	}
	return nil
}
