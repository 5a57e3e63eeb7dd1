package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, file_name, service_type, mime_type, size_bytes, storage_key, uploaded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.ServiceType,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.UploadedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT id, user_id, file_name, service_type, mime_type, size_bytes, storage_key, uploaded_at
FROM documents
WHERE id = $1
LIMIT 1`
	var doc Document
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.ServiceType,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, f ListFilter) ([]Document, error) {
	query := `
SELECT id, user_id, file_name, service_type, mime_type, size_bytes, storage_key, uploaded_at
FROM documents
WHERE user_id = $1`
	args := []any{userID}
	if f.ServiceType != "" {
		args = append(args, f.ServiceType)
		query += fmt.Sprintf(" AND service_type = $%d", len(args))
	}
	if f.Year > 0 {
		args = append(args, f.Year)
		query += fmt.Sprintf(" AND EXTRACT(YEAR FROM uploaded_at AT TIME ZONE 'UTC') = $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY uploaded_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.FileName,
			&doc.ServiceType,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.StorageKey,
			&doc.UploadedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM documents WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
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
