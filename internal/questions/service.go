package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"portal-backend/internal/shared/util"
)

const (
	maxSubjectLen = 200
	maxMessageLen = 5000
	maxAnswerLen  = 10000
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Create records a new client question in pending state.
func (s *Service) Create(ctx context.Context, userID, subject, message string) (Question, error) {
	subject = util.SanitizeText(subject)
	message = util.SanitizeText(message)

	if subject == "" {
		return Question{}, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	if len(subject) > maxSubjectLen {
		return Question{}, fmt.Errorf("%w: subject too long", ErrInvalidInput)
	}
	if message == "" {
		return Question{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(message) > maxMessageLen {
		return Question{}, fmt.Errorf("%w: message too long", ErrInvalidInput)
	}

	q := Question{
		ID:      uuid.NewString(),
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  StatusPending,
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		return Question{}, err
	}
	return s.Repo.GetByID(ctx, q.ID)
}

// List returns the user's questions, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Question, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Get returns one question the user owns.
func (s *Service) Get(ctx context.Context, userID, id string) (Question, error) {
	q, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Question{}, err
	}
	if q.UserID != userID {
		return Question{}, ErrNotFound
	}
	return q, nil
}

// Answer is the staff update: set the status and optionally the answer
// text. Owners never reach this path.
func (s *Service) Answer(ctx context.Context, id, status, answer string) (Question, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !ValidStatus(status) {
		return Question{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	answer = util.SanitizeText(answer)
	if len(answer) > maxAnswerLen {
		return Question{}, fmt.Errorf("%w: answer too long", ErrInvalidInput)
	}

	q, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Question{}, err
	}
	q.Status = status
	if answer != "" {
		q.Answer = answer
	}
	if err := s.Repo.Update(ctx, q); err != nil {
		return Question{}, err
	}
	return s.Repo.GetByID(ctx, id)
}
