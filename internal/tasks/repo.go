package tasks

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("task not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Repo interface {
	Create(ctx context.Context, task Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	ListByUser(ctx context.Context, userID string) ([]Task, error)
	Update(ctx context.Context, task Task) error
	Delete(ctx context.Context, id, userID string) error
}
