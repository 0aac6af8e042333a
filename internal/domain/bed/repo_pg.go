package bed

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

const bedCols = `id, room, category, cost_per_day, status, created_at, updated_at`

func scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.Room, &b.Category, &b.CostPerDay, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *repoPG) Create(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	if b.Status == "" {
		b.Status = StatusAvailable
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO beds (id, room, category, cost_per_day, status)
		VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Room, b.Category, b.CostPerDay, b.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	b, err := scanBed(r.conn(ctx).QueryRow(ctx,
		`SELECT `+bedCols+` FROM beds WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Bed, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM beds`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM beds ORDER BY room LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBeds(rows, total)
}

func (r *repoPG) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Bed, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM beds WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+bedCols+` FROM beds WHERE status = $1 ORDER BY room LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBeds(rows, total)
}

func collectBeds(rows pgx.Rows, total int) ([]*Bed, int, error) {
	var beds []*Bed
	for rows.Next() {
		b, err := scanBed(rows)
		if err != nil {
			return nil, 0, err
		}
		beds = append(beds, b)
	}
	return beds, total, rows.Err()
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE beds SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the bed does not exist or a concurrent writer moved it.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStatusConflict
	}
	return nil
}
