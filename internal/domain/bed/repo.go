package bed

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	List(ctx context.Context, limit, offset int) ([]*Bed, int, error)
	ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Bed, int, error)
	// UpdateStatus performs a compare-and-set write. It returns
	// ErrStatusConflict when the bed is no longer in the from state.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error
}
