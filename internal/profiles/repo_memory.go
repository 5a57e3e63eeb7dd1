package profiles

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, profile Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.profiles[profile.UserID]
	now := time.Now().UTC()
	if !ok {
		profile.CreatedAt = now
	} else {
		profile.CreatedAt = existing.CreatedAt
	}
	profile.UpdatedAt = now
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *MemoryRepo) GetByUserID(ctx context.Context, userID string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}
