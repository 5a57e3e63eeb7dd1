package content

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

// ContactMessage is a submission from the public contact form.
type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

type ContactRepo interface {
	Create(ctx context.Context, msg ContactMessage) error
}

type PGContactRepo struct {
	DB *sql.DB
}

func (r *PGContactRepo) Create(ctx context.Context, msg ContactMessage) error {
	const query = `
INSERT INTO contact_messages (id, name, email, message, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt)
	return err
}

type MemoryContactRepo struct {
	mu   sync.Mutex
	msgs []ContactMessage
}

func NewMemoryContactRepo() *MemoryContactRepo {
	return &MemoryContactRepo{}
}

func (r *MemoryContactRepo) Create(ctx context.Context, msg ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

// Messages returns a copy of the stored submissions, oldest first.
func (r *MemoryContactRepo) Messages() []ContactMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ContactMessage, len(r.msgs))
	copy(out, r.msgs)
	return out
}

func newContactMessage(name, email, message string) ContactMessage {
	return ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
