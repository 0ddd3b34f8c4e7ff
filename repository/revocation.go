package repository

import (
	"context"
	"time"
)

// RevocationRepository is a denylist of session token ids.
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
