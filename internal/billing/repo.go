package billing

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("invoice not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrDuplicateNumber = errors.New("invoice number already used")
)

type Repo interface {
	Create(ctx context.Context, inv Invoice) error
	GetByID(ctx context.Context, id string) (Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]Invoice, error)
}
