package billing

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	invoices map[string]Invoice
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{invoices: make(map[string]Invoice)}
}

func (r *MemoryRepo) Create(ctx context.Context, inv Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.invoices {
		if existing.Number == inv.Number {
			return ErrDuplicateNumber
		}
	}
	r.invoices[inv.ID] = inv
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Invoice, error) {
	if err := ctx.Err(); err != nil {
		return Invoice{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Invoice, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Invoice{}
	for _, inv := range r.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].Number > out[j].Number
		}
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	return out, nil
}
