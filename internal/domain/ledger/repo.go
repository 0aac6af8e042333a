package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create stores the invoice with its line items and assigns the
	// invoice number.
	Create(ctx context.Context, inv *Invoice, items []*LineItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	// GetByIDForUpdate row-locks the invoice; callers must hold a tx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*LineItem, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error)
	// ListOpenByPatient returns pending and partial invoices. Inside a
	// tx the rows come back locked FOR UPDATE.
	ListOpenByPatient(ctx context.Context, patientID uuid.UUID) ([]*Invoice, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status InvoiceStatus) error
	// UpdateStatus performs a compare-and-set write, returning
	// ErrStatusConflict when the invoice left the from status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to InvoiceStatus) error
	OutstandingBalance(ctx context.Context, patientID uuid.UUID) (decimal.Decimal, error)
}
