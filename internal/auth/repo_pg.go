package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGUserRepo struct {
	DB *sql.DB
}

func (r *PGUserRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, password_hash, google_sub, is_staff, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.PasswordHash),
		nullableString(user.GoogleSub),
		user.Staff,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PGUserRepo) GetByID(ctx context.Context, id string) (User, error) {
	const query = `
SELECT id, email, password_hash, google_sub, is_staff, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, email, password_hash, google_sub, is_staff, created_at, updated_at
FROM users
WHERE lower(email) = lower($1)
LIMIT 1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGUserRepo) GetByGoogleSub(ctx context.Context, sub string) (User, error) {
	const query = `
SELECT id, email, password_hash, google_sub, is_staff, created_at, updated_at
FROM users
WHERE google_sub = $1
LIMIT 1`
	return r.scanUser(r.DB.QueryRowContext(ctx, query, sub))
}

func (r *PGUserRepo) LinkGoogle(ctx context.Context, userID, sub string) error {
	const query = `UPDATE users SET google_sub = $2, updated_at = now() WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, userID, sub)
	return err
}

func (r *PGUserRepo) scanUser(row *sql.Row) (User, error) {
	var user User
	var passwordHash sql.NullString
	var googleSub sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Email,
		&passwordHash,
		&googleSub,
		&user.Staff,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if googleSub.Valid {
		user.GoogleSub = googleSub.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

type PGSessionRepo struct {
	DB *sql.DB
}

func (r *PGSessionRepo) Create(ctx context.Context, session Session) error {
	const query = `
INSERT INTO sessions (jti, user_id, expires_at, created_at)
VALUES ($1, $2, $3, now())`
	_, err := r.DB.ExecContext(ctx, query, session.JTI, session.UserID, session.ExpiresAt)
	return err
}

func (r *PGSessionRepo) Get(ctx context.Context, jti string) (Session, error) {
	const query = `
SELECT jti, user_id, expires_at, revoked_at, created_at
FROM sessions
WHERE jti = $1
LIMIT 1`
	var session Session
	var revokedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, jti).Scan(
		&session.JTI,
		&session.UserID,
		&session.ExpiresAt,
		&revokedAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		session.RevokedAt = &t
	}
	return session, nil
}

func (r *PGSessionRepo) Revoke(ctx context.Context, jti string) error {
	const query = `UPDATE sessions SET revoked_at = now() WHERE jti = $1 AND revoked_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, jti)
	return err
}

func (r *PGSessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	const query = `UPDATE sessions SET revoked_at = now() WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := r.DB.ExecContext(ctx, query, userID)
	return err
}
