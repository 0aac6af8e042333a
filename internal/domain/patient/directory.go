package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("patient not found")

// Directory is the narrow view of patient records the admission flow
// depends on.
type Directory interface {
	DisplayName(ctx context.Context, id uuid.UUID) (string, error)
	SetCareType(ctx context.Context, id uuid.UUID, careType CareType) error
}
