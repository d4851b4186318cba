// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "blacklist:"

// RevocationStore remembers signed-out session token ids until they would
// have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisRevocationStore struct {
	rdb *redis.Client
}

func NewRevocationStore(rdb *redis.Client) RevocationStore {
	return &redisRevocationStore{rdb: rdb}
}

func (s *redisRevocationStore) Revoke(
	ctx context.Context,
	tokenID string,
	ttl time.Duration,
) error {
	if ttl <= 0 {
		return nil
	}

	if err := s.rdb.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *redisRevocationStore) IsRevoked(
	ctx context.Context,
	tokenID string,
) (bool, error) {
	err := s.rdb.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return true, nil
}
