package session

import (
	"context"
)

// Repository stores revoked token IDs until the token would have expired.
type Repository interface {
	Revoke(ctx context.Context, rev Revocation) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	CleanupExpired(ctx context.Context) (int64, error)
}
