package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/martijn/inkwell/internal/core/repository"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "inkwell:revoked:"

type revocationStore struct {
	client *redis.Client
}

// NewRevocationStore keeps revoked session ids as keys that expire together
// with the session token.
func NewRevocationStore(client *redis.Client) repository.RevocationStore {
	return &revocationStore{client: client}
}

func (s *revocationStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *revocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up session: %w", err)
	}
	return true, nil
}

func (s *revocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
