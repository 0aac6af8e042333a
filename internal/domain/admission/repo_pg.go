package admission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

const admCols = `id, patient_id, bed_id, physician_id, entry_date, planned_discharge,
	discharged_at, status, projected_cost, deposit_invoice_id,
	notes, discharge_notes, discharge_outcome, created_at, updated_at`

func scanAdmission(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.BedID, &a.PhysicianID, &a.EntryDate, &a.PlannedDischarge,
		&a.DischargedAt, &a.Status, &a.ProjectedCost, &a.DepositInvoiceID,
		&a.Notes, &a.DischargeNotes, &a.DischargeOutcome, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO admissions (id, patient_id, bed_id, physician_id, entry_date,
			planned_discharge, status, projected_cost, deposit_invoice_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.BedID, a.PhysicianID, a.EntryDate,
		a.PlannedDischarge, a.Status, a.ProjectedCost, a.DepositInvoiceID, a.Notes).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	a, err := scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admCols+` FROM admissions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Admission, error) {
	a, err := scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admCols+` FROM admissions WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Admission) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE admissions SET status=$2, planned_discharge=$3, discharged_at=$4,
			notes=$5, discharge_notes=$6, discharge_outcome=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Status, a.PlannedDischarge, a.DischargedAt,
		a.Notes, a.DischargeNotes, a.DischargeOutcome)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admissions`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+admCols+` FROM admissions ORDER BY entry_date DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAdmissions(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM admissions WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+admCols+` FROM admissions WHERE patient_id = $1 ORDER BY entry_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAdmissions(rows, total)
}

func collectAdmissions(rows pgx.Rows, total int) ([]*Admission, int, error) {
	var result []*Admission
	for rows.Next() {
		a, err := scanAdmission(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}
	return result, total, rows.Err()
}

func (r *repoPG) ActiveByBed(ctx context.Context, bedID uuid.UUID) (*Admission, error) {
	a, err := scanAdmission(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admCols+` FROM admissions
		WHERE bed_id = $1 AND status IN ('reserved', 'active')`, bedID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) CountLive(ctx context.Context, patientID, bedID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM admissions
		WHERE patient_id = $1 AND bed_id = $2 AND status IN ('reserved', 'active')`,
		patientID, bedID).Scan(&count)
	return count, err
}
