// Package graph stores the follow relationships between users.
package graph

import (
	"context"

	"github.com/google/uuid"
)

// Store edits and queries the follow graph. Each edge is stored once, so the
// followers of B and the following of A always agree.
type Store interface {
	// Toggle adds the edge follower->followee if absent, removes it otherwise,
	// and reports whether the edge exists afterwards.
	Toggle(ctx context.Context, follower, followee uuid.UUID) (bool, error)
	IsFollowing(ctx context.Context, follower, followee uuid.UUID) (bool, error)
	Followers(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error)
	Following(ctx context.Context, userID uuid.UUID, offset, limit int) ([]uuid.UUID, int64, error)
	Counts(ctx context.Context, userID uuid.UUID) (followers, following int64, err error)
}
