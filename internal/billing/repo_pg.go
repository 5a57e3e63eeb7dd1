package billing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, inv Invoice) error {
	const query = `
INSERT INTO invoices (id, user_id, number, period, amount_cents, currency, status, issued_at, due_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		inv.ID,
		inv.UserID,
		inv.Number,
		inv.Period,
		inv.AmountCents,
		inv.Currency,
		inv.Status,
		inv.IssuedAt,
		inv.DueAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Invoice, error) {
	const query = `
SELECT id, user_id, number, period, amount_cents, currency, status, issued_at, due_at
FROM invoices
WHERE id = $1
LIMIT 1`
	var inv Invoice
	var dueAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&inv.ID,
		&inv.UserID,
		&inv.Number,
		&inv.Period,
		&inv.AmountCents,
		&inv.Currency,
		&inv.Status,
		&inv.IssuedAt,
		&dueAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	if dueAt.Valid {
		t := dueAt.Time
		inv.DueAt = &t
	}
	return inv, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Invoice, error) {
	const query = `
SELECT id, user_id, number, period, amount_cents, currency, status, issued_at, due_at
FROM invoices
WHERE user_id = $1
ORDER BY issued_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Invoice{}
	for rows.Next() {
		var inv Invoice
		var dueAt sql.NullTime
		if err := rows.Scan(
			&inv.ID,
			&inv.UserID,
			&inv.Number,
			&inv.Period,
			&inv.AmountCents,
			&inv.Currency,
			&inv.Status,
			&inv.IssuedAt,
			&dueAt,
		); err != nil {
			return nil, err
		}
		if dueAt.Valid {
			t := dueAt.Time
			inv.DueAt = &t
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
