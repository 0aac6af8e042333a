package patient

import (
	"context"
	"errors"
	"fmt"

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

type directoryPG struct{ pool *pgxpool.Pool }

func NewDirectoryPG(pool *pgxpool.Pool) Directory { return &directoryPG{pool: pool} }

func (r *directoryPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *directoryPG) DisplayName(ctx context.Context, id uuid.UUID) (string, error) {
	var first, last string
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT first_name, last_name FROM patients WHERE id = $1`, id).Scan(&first, &last)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return first + " " + last, nil
}

func (r *directoryPG) SetCareType(ctx context.Context, id uuid.UUID, careType CareType) error {
	if !careType.Valid() {
		return fmt.Errorf("invalid care type: %s", careType)
	}
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET care_type = $2, updated_at = NOW() WHERE id = $1`, id, careType)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
