package admission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wardops/wardops/internal/domain/bed"
)

var (
	ErrNotFound        = errors.New("admission not found")
	ErrInvalidState    = errors.New("admission is not in the required state")
	ErrPatientNotFound = errors.New("patient not found")
	ErrDuplicateLive   = errors.New("patient already has a live admission for this bed")
)

// BedUnavailableError reports a reservation attempt against a bed that
// is not available, carrying the bed's current status for the caller.
type BedUnavailableError struct {
	Status bed.Status
}

func (e *BedUnavailableError) Error() string {
	return fmt.Sprintf("bed is not available (currently %s)", e.Status)
}

// DepositUnpaidError blocks confirmation while the deposit invoice has
// money outstanding.
type DepositUnpaidError struct {
	Remaining decimal.Decimal
}

func (e *DepositUnpaidError) Error() string {
	return fmt.Sprintf("deposit invoice has %s outstanding", e.Remaining.StringFixed(2))
}

// OutstandingBalanceError blocks discharge while the patient owes more
// than the settled tolerance.
type OutstandingBalanceError struct {
	Amount decimal.Decimal
}

func (e *OutstandingBalanceError) Error() string {
	return fmt.Sprintf("patient has an outstanding balance of %s", e.Amount.StringFixed(2))
}
