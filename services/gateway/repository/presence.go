package repository

import (
	"context"
	"fmt"

	"github.com/jadwalin/realtime-gateway/internal/pkg/constants"
	"github.com/jadwalin/realtime-gateway/internal/pkg/database"
)

type presenceRepo struct {
	redisClient *database.RedisClient
}

// NewPresenceRepository creates a Redis-backed presence store.
//
// Each online user is tracked by a counter key so that multiple
// concurrent connections from the same user keep them marked online
// until the last one disconnects. Keys carry a TTL so presence decays
// on its own if a gateway dies without cleaning up.
func NewPresenceRepository(redisClient *database.RedisClient) *presenceRepo {
	return &presenceRepo{
		redisClient: redisClient,
	}
}

// MarkOnline increments the user's connection counter and refreshes its TTL
func (r *presenceRepo) MarkOnline(ctx context.Context, role string, userID int64) error {
	key := fmt.Sprintf(constants.KeyPresence, role, userID)

	if _, err := r.redisClient.Incr(ctx, key); err != nil {
		return fmt.Errorf("failed to mark user online: %w", err)
	}

	if err := r.redisClient.Expire(ctx, key, constants.PresenceTTL); err != nil {
		return fmt.Errorf("failed to set presence TTL: %w", err)
	}

	return nil
}

// MarkOffline decrements the user's connection counter and removes the key
// once the last connection is gone
func (r *presenceRepo) MarkOffline(ctx context.Context, role string, userID int64) error {
	key := fmt.Sprintf(constants.KeyPresence, role, userID)

	remaining, err := r.redisClient.Decr(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to mark user offline: %w", err)
	}

	if remaining <= 0 {
		if err := r.redisClient.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to clear presence key: %w", err)
		}
	}

	return nil
}

// Refresh extends the TTL of an existing presence key without touching
// its connection count
func (r *presenceRepo) Refresh(ctx context.Context, role string, userID int64) error {
	key := fmt.Sprintf(constants.KeyPresence, role, userID)

	if err := r.redisClient.Expire(ctx, key, constants.PresenceTTL); err != nil {
		return fmt.Errorf("failed to refresh presence TTL: %w", err)
	}

	return nil
}
