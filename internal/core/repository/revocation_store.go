package repository

import (
	"context"
	"time"
)

// RevocationStore remembers session token ids that were logged out before
// they expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Ping(ctx context.Context) error
}
