package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portal-backend/internal/shared/util"
)

const maxTitleLen = 300

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpdateInput is a partial task update. Nil fields are left unchanged.
type UpdateInput struct {
	Title  *string
	Status *string
	DueAt  *time.Time
}

func (s *Service) Create(ctx context.Context, userID, title string, dueAt *time.Time) (Task, error) {
	title = util.SanitizeText(title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(title) > maxTitleLen {
		return Task{}, fmt.Errorf("%w: title too long", ErrInvalidInput)
	}

	task := Task{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Status: StatusTodo,
		DueAt:  dueAt,
	}
	if err := s.Repo.Create(ctx, task); err != nil {
		return Task{}, err
	}
	return s.Repo.GetByID(ctx, task.ID)
}

func (s *Service) List(ctx context.Context, userID string) ([]Task, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// Update applies a partial update to a task the user owns. Any status
// transition between the known states is allowed.
func (s *Service) Update(ctx context.Context, userID, id string, input UpdateInput) (Task, error) {
	task, err := s.owned(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}

	if input.Title != nil {
		title := util.SanitizeText(*input.Title)
		if title == "" {
			return Task{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		if len(title) > maxTitleLen {
			return Task{}, fmt.Errorf("%w: title too long", ErrInvalidInput)
		}
		task.Title = title
	}
	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !ValidStatus(status) {
			return Task{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
		}
		task.Status = status
	}
	if input.DueAt != nil {
		task.DueAt = input.DueAt
	}

	if err := s.Repo.Update(ctx, task); err != nil {
		return Task{}, err
	}
	return s.Repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.Repo.Delete(ctx, id, userID)
}

func (s *Service) owned(ctx context.Context, userID, id string) (Task, error) {
	task, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if task.UserID != userID {
		return Task{}, ErrNotFound
	}
	return task, nil
}
