package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wardops/wardops/internal/platform/db"
)

type Service struct {
	invoices Repository
	tx       db.Transactor
}

func NewService(invoices Repository, tx db.Transactor) *Service {
	return &Service{invoices: invoices, tx: tx}
}

// CreateInvoice issues a pending invoice whose total is the sum of its
// line items.
func (s *Service) CreateInvoice(ctx context.Context, patientID uuid.UUID, items []*LineItem) (*Invoice, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one line item is required")
	}
	total := decimal.Zero
	for _, item := range items {
		if item.Description == "" {
			return nil, fmt.Errorf("line item description is required")
		}
		if item.Amount.IsNegative() {
			return nil, fmt.Errorf("line item amount must not be negative")
		}
		total = total.Add(item.Amount)
	}

	inv := &Invoice{
		PatientID: patientID,
		Total:     total,
		Paid:      decimal.Zero,
		Status:    StatusPending,
	}
	if err := s.invoices.Create(ctx, inv, items); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) GetLineItems(ctx context.Context, invoiceID uuid.UUID) ([]*LineItem, error) {
	if _, err := s.invoices.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.invoices.GetItems(ctx, invoiceID)
}

func (s *Service) ListInvoicesByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	return s.invoices.ListByPatient(ctx, patientID, limit, offset)
}

// RecordPayment applies a payment against an invoice. The invoice row
// is locked for the duration so concurrent payments serialize. The
// payment must be positive, the invoice must be open, and the amount
// must not exceed what is due beyond the one-cent tolerance.
func (s *Service) RecordPayment(ctx context.Context, invoiceID uuid.UUID, amount decimal.Decimal) (*Invoice, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var result *Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status.Terminal() {
			return ErrInvoiceClosed
		}
		newPaid := inv.Paid.Add(amount)
		if newPaid.Sub(inv.Total).GreaterThan(BalanceTolerance) {
			return ErrOverpayment
		}
		newStatus := statusFor(inv.Total, newPaid)
		if err := s.invoices.UpdatePayment(ctx, inv.ID, newPaid, newStatus); err != nil {
			return err
		}
		inv.Paid = newPaid
		inv.Status = newStatus
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RefundInvoice marks a paid or partially paid invoice refunded. This
// is the money path for unwinding a paid deposit; the row survives for
// the audit trail.
func (s *Service) RefundInvoice(ctx context.Context, invoiceID uuid.UUID) (*Invoice, error) {
	var result *Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != StatusPaid && inv.Status != StatusPartial {
			return fmt.Errorf("invoice %s is %s: %w", inv.Number, inv.Status, ErrInvoiceClosed)
		}
		if err := s.invoices.UpdateStatus(ctx, inv.ID, inv.Status, StatusRefunded); err != nil {
			return err
		}
		inv.Status = StatusRefunded
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelInvoice voids an invoice nobody has paid against. Anything
// with money on it goes through RefundInvoice instead.
func (s *Service) CancelInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		inv, err := s.invoices.GetByIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != StatusPending {
			return fmt.Errorf("invoice %s is %s: %w", inv.Number, inv.Status, ErrInvoiceClosed)
		}
		return s.invoices.UpdateStatus(ctx, inv.ID, StatusPending, StatusCancelled)
	})
}

// OutstandingBalance sums total minus paid over every invoice that is
// neither cancelled nor refunded.
func (s *Service) OutstandingBalance(ctx context.Context, patientID uuid.UUID) (decimal.Decimal, error) {
	return s.invoices.OutstandingBalance(ctx, patientID)
}

// CanDischarge reports whether the patient's outstanding balance is
// within the settled tolerance.
func (s *Service) CanDischarge(ctx context.Context, patientID uuid.UUID) (bool, decimal.Decimal, error) {
	balance, err := s.invoices.OutstandingBalance(ctx, patientID)
	if err != nil {
		return false, decimal.Zero, err
	}
	return balance.LessThanOrEqual(BalanceTolerance), balance, nil
}

// Consolidate rolls every open invoice for the patient into a single
// settlement invoice. Each superseded invoice is cancelled and
// contributes one line item carrying its exact due amount, so the sum
// owed is conserved. With no open invoices the call is a no-op and
// returns nil.
func (s *Service) Consolidate(ctx context.Context, patientID uuid.UUID) (*Invoice, error) {
	var settlement *Invoice
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		open, err := s.invoices.ListOpenByPatient(ctx, patientID)
		if err != nil {
			return err
		}
		if len(open) == 0 {
			return nil
		}

		var items []*LineItem
		total := decimal.Zero
		for _, inv := range open {
			due := inv.Due()
			if err := s.invoices.UpdateStatus(ctx, inv.ID, inv.Status, StatusCancelled); err != nil {
				return err
			}
			items = append(items, &LineItem{
				Description: fmt.Sprintf("Settlement of %s, due %s", inv.Number, due.StringFixed(2)),
				Amount:      due,
			})
			total = total.Add(due)
		}

		inv := &Invoice{
			PatientID: patientID,
			Total:     total,
			Paid:      decimal.Zero,
			Status:    StatusPending,
		}
		if err := s.invoices.Create(ctx, inv, items); err != nil {
			return err
		}
		settlement = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}
