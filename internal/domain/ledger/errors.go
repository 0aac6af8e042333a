package ledger

import "errors"

var (
	ErrNotFound       = errors.New("invoice not found")
	ErrInvalidAmount  = errors.New("payment amount must be positive")
	ErrOverpayment    = errors.New("payment exceeds amount due")
	ErrInvoiceClosed  = errors.New("invoice is cancelled or refunded")
	ErrStatusConflict = errors.New("invoice status changed concurrently")
)
