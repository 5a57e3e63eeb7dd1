package questions

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("question not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Repo interface {
	Create(ctx context.Context, q Question) error
	GetByID(ctx context.Context, id string) (Question, error)
	ListByUser(ctx context.Context, userID string) ([]Question, error)
	Update(ctx context.Context, q Question) error
}
