package questions

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, q Question) error {
	const query = `
INSERT INTO questions (id, user_id, subject, message, status, answer, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		q.ID,
		q.UserID,
		q.Subject,
		q.Message,
		q.Status,
		nullableString(q.Answer),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Question, error) {
	const query = `
SELECT id, user_id, subject, message, status, answer, created_at, updated_at
FROM questions
WHERE id = $1
LIMIT 1`
	var q Question
	var answer sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&q.ID,
		&q.UserID,
		&q.Subject,
		&q.Message,
		&q.Status,
		&answer,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	if answer.Valid {
		q.Answer = answer.String
	}
	return q, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Question, error) {
	const query = `
SELECT id, user_id, subject, message, status, answer, created_at, updated_at
FROM questions
WHERE user_id = $1
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		var q Question
		var answer sql.NullString
		if err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.Subject,
			&q.Message,
			&q.Status,
			&answer,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if answer.Valid {
			q.Answer = answer.String
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, q Question) error {
	const query = `
UPDATE questions
SET status = $2, answer = $3, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, q.ID, q.Status, nullableString(q.Answer))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
