package questions

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	questions map[string]Question
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{questions: make(map[string]Question)}
}

func (r *MemoryRepo) Create(ctx context.Context, q Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	r.questions[q.ID] = q
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Question{}
	for _, q := range r.questions {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, q Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.questions[q.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Status = q.Status
	existing.Answer = q.Answer
	existing.UpdatedAt = time.Now().UTC()
	r.questions[q.ID] = existing
	return nil
}
