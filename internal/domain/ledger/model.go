package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks where an invoice sits in its payment lifecycle.
// cancelled and refunded are terminal.
type InvoiceStatus string

const (
	StatusPending   InvoiceStatus = "pending"
	StatusPartial   InvoiceStatus = "partial"
	StatusPaid      InvoiceStatus = "paid"
	StatusCancelled InvoiceStatus = "cancelled"
	StatusRefunded  InvoiceStatus = "refunded"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether an invoice in this status can take payments.
func (s InvoiceStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// BalanceTolerance is the largest residual treated as settled. Amounts
// are stored as NUMERIC(12,2), so one cent is the smallest
// representable difference.
var BalanceTolerance = decimal.NewFromFloat(0.01)

// Invoice maps to the invoices table. Invoices are never hard-deleted;
// cancellation and refunds flip status only.
type Invoice struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Number    string          `db:"number" json:"number"`
	PatientID uuid.UUID       `db:"patient_id" json:"patient_id"`
	Total     decimal.Decimal `db:"total" json:"total"`
	Paid      decimal.Decimal `db:"paid" json:"paid"`
	Status    InvoiceStatus   `db:"status" json:"status"`
	IssuedAt  time.Time       `db:"issued_at" json:"issued_at"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Due returns the unpaid remainder.
func (i *Invoice) Due() decimal.Decimal {
	return i.Total.Sub(i.Paid)
}

// LineItem maps to the invoice_items table.
type LineItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	InvoiceID   uuid.UUID       `db:"invoice_id" json:"invoice_id"`
	Sequence    int             `db:"sequence" json:"sequence"`
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}

// statusFor derives the payment status from the running totals.
func statusFor(total, paid decimal.Decimal) InvoiceStatus {
	switch {
	case paid.IsZero():
		return StatusPending
	case paid.GreaterThanOrEqual(total):
		return StatusPaid
	default:
		return StatusPartial
	}
}
