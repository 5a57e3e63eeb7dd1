package documents

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ListFilter narrows a document listing. Zero values mean "no filter".
type ListFilter struct {
	ServiceType string
	Year        int
	Limit       int
	Offset      int
}

// Repo defines persistence operations for document metadata.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	ListByUser(ctx context.Context, userID string, f ListFilter) ([]Document, error)
	// Delete removes a row scoped by both id and owner. It reports
	// ErrNotFound when no such row exists for that owner.
	Delete(ctx context.Context, id, userID string) error
}
