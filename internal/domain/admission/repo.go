package admission

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Admission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admission, error)
	// GetByIDForUpdate row-locks the admission; callers must hold a tx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Admission, error)
	Update(ctx context.Context, a *Admission) error
	List(ctx context.Context, limit, offset int) ([]*Admission, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error)
	// ActiveByBed returns the live admission holding the bed, or
	// ErrNotFound.
	ActiveByBed(ctx context.Context, bedID uuid.UUID) (*Admission, error)
	// CountLive counts reserved and active admissions for the
	// (patient, bed) pair.
	CountLive(ctx context.Context, patientID, bedID uuid.UUID) (int, error)
}
