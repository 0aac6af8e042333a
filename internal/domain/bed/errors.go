package bed

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("bed not found")
	ErrStatusConflict = errors.New("bed status changed concurrently")
)

// InvalidTransitionError reports an attempt to move a bed between two
// states the lifecycle does not connect.
type InvalidTransitionError struct {
	Bed  uuid.UUID
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("bed %s: cannot transition from %s to %s", e.Bed, e.From, e.To)
}
