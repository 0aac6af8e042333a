package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wardops/wardops/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const invCols = `id, number, patient_id, total, paid, status, issued_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.PatientID, &inv.Total, &inv.Paid,
		&inv.Status, &inv.IssuedAt, &inv.CreatedAt, &inv.UpdatedAt)
	return &inv, err
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice, items []*LineItem) error {
	inv.ID = uuid.New()

	var seq int64
	if err := r.conn(ctx).QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return fmt.Errorf("next invoice number: %w", err)
	}
	inv.Number = fmt.Sprintf("INV-%06d", seq)

	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO invoices (id, number, patient_id, total, paid, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING issued_at, created_at, updated_at`,
		inv.ID, inv.Number, inv.PatientID, inv.Total, inv.Paid, inv.Status).
		Scan(&inv.IssuedAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return err
	}

	for i, item := range items {
		item.ID = uuid.New()
		item.InvoiceID = inv.ID
		item.Sequence = i + 1
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO invoice_items (id, invoice_id, sequence, description, amount)
			VALUES ($1, $2, $3, $4, $5)`,
			item.ID, item.InvoiceID, item.Sequence, item.Description, item.Amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invCols+` FROM invoices WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invCols+` FROM invoices WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx,
		`SELECT `+invCols+` FROM invoices WHERE number = $1`, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repoPG) GetItems(ctx context.Context, invoiceID uuid.UUID) ([]*LineItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, invoice_id, sequence, description, amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY sequence`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*LineItem
	for rows.Next() {
		var item LineItem
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Sequence, &item.Description, &item.Amount); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+invCols+` FROM invoices WHERE patient_id = $1 ORDER BY issued_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invs []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	return invs, total, rows.Err()
}

func (r *repoPG) ListOpenByPatient(ctx context.Context, patientID uuid.UUID) ([]*Invoice, error) {
	q := `SELECT ` + invCols + ` FROM invoices
		WHERE patient_id = $1 AND status IN ('pending', 'partial')
		ORDER BY issued_at`
	if db.TxFromContext(ctx) != nil {
		q += ` FOR UPDATE`
	}
	rows, err := r.conn(ctx).Query(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *repoPG) UpdatePayment(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status InvoiceStatus) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoices SET paid = $2, status = $3, updated_at = NOW()
		WHERE id = $1`,
		id, paid, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from, to InvoiceStatus) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoices SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *repoPG) OutstandingBalance(ctx context.Context, patientID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(total - paid), 0) FROM invoices
		WHERE patient_id = $1 AND status NOT IN ('cancelled', 'refunded')`,
		patientID).Scan(&balance)
	return balance, err
}
