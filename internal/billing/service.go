package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput is the staff-entered invoice. Zero IssuedAt means now.
type CreateInput struct {
	UserID      string
	Number      string
	Period      string
	AmountCents int64
	Currency    string
	Status      string
	IssuedAt    time.Time
	DueAt       *time.Time
}

// Create records an invoice against a user's account.
func (s *Service) Create(ctx context.Context, input CreateInput) (Invoice, error) {
	input.Number = strings.TrimSpace(input.Number)
	if input.UserID == "" {
		return Invoice{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if input.Number == "" {
		return Invoice{}, fmt.Errorf("%w: number is required", ErrInvalidInput)
	}
	if input.AmountCents <= 0 {
		return Invoice{}, fmt.Errorf("%w: amountCents must be positive", ErrInvalidInput)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "GBP"
	}
	if len(currency) != 3 {
		return Invoice{}, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}

	status := strings.ToLower(strings.TrimSpace(input.Status))
	if status == "" {
		status = StatusOpen
	}
	if !ValidStatus(status) {
		return Invoice{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	issuedAt := input.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now().UTC()
	}

	inv := Invoice{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Number:      input.Number,
		Period:      strings.TrimSpace(input.Period),
		AmountCents: input.AmountCents,
		Currency:    currency,
		Status:      status,
		IssuedAt:    issuedAt,
		DueAt:       input.DueAt,
	}
	if err := s.Repo.Create(ctx, inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

// List returns a user's invoices, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Invoice, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Get returns one invoice the user owns.
func (s *Service) Get(ctx context.Context, userID, id string) (Invoice, error) {
	inv, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	if inv.UserID != userID {
		return Invoice{}, ErrNotFound
	}
	return inv, nil
}
