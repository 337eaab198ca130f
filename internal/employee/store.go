package employee

import (
	"context"
	"errors"
)

// ErrDuplicate is returned by Save when the write would violate the
// uniqueness of email or external id.
var ErrDuplicate = errors.New("employee: duplicate email or external id")

// Store is the durable employee repository. Lookups return (nil, nil)
// when no record matches.
type Store interface {
	FindByID(ctx context.Context, id int64) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	FindByExternalID(ctx context.Context, externalID string) (*Employee, error)

	// Save inserts e when e.ID is zero and updates it otherwise.
	// The returned record carries the store-assigned id and timestamps.
	Save(ctx context.Context, e *Employee) (*Employee, error)
}
