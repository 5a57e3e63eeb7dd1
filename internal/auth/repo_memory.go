package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]User)}
}

func (r *MemoryUserRepo) Create(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryUserRepo) GetByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryUserRepo) GetByGoogleSub(ctx context.Context, sub string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.GoogleSub != "" && user.GoogleSub == sub {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryUserRepo) LinkGoogle(ctx context.Context, userID, sub string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	user.GoogleSub = sub
	user.UpdatedAt = time.Now().UTC()
	r.users[userID] = user
	return nil
}

type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]Session)}
}

func (r *MemorySessionRepo) Create(ctx context.Context, session Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	session.CreatedAt = time.Now().UTC()
	r.sessions[session.JTI] = session
	return nil
}

func (r *MemorySessionRepo) Get(ctx context.Context, jti string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[jti]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (r *MemorySessionRepo) Revoke(ctx context.Context, jti string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[jti]
	if !ok || session.RevokedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	session.RevokedAt = &now
	r.sessions[jti] = session
	return nil
}

func (r *MemorySessionRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for jti, session := range r.sessions {
		if session.UserID == userID && session.RevokedAt == nil {
			session.RevokedAt = &now
			r.sessions[jti] = session
		}
	}
	return nil
}
