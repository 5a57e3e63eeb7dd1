package profiles

import (
	"context"
	"errors"
	"strings"

	"portal-backend/internal/shared/util"
	"portal-backend/internal/validate"
)

// ValidationError carries per-field issues back to the handler.
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string { return "invalid profile fields" }

// Patch holds a partial profile update. Nil fields are left unchanged.
type Patch struct {
	FirstName *string
	LastName  *string
	Company   *string
	Phone     *string
}

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Get loads the profile for a user. A user without a saved profile gets an
// empty one back rather than an error.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}
	profile, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Profile{UserID: userID}, nil
		}
		return Profile{}, err
	}
	return profile, nil
}

// Update merges the patch over the stored profile, validating and
// sanitizing only the fields present.
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return Profile{}, errors.New("user id is required")
	}

	if fieldErrs := validate.ProfileFields(patch.FirstName, patch.LastName, patch.Company, patch.Phone); len(fieldErrs) > 0 {
		return Profile{}, &ValidationError{Fields: fieldErrs}
	}

	current, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}
	current.UserID = userID

	if patch.FirstName != nil {
		current.FirstName = util.SanitizeText(strings.TrimSpace(*patch.FirstName))
	}
	if patch.LastName != nil {
		current.LastName = util.SanitizeText(strings.TrimSpace(*patch.LastName))
	}
	if patch.Company != nil {
		current.Company = util.SanitizeText(strings.TrimSpace(*patch.Company))
	}
	if patch.Phone != nil {
		current.Phone = strings.TrimSpace(*patch.Phone)
	}

	if err := s.Repo.Upsert(ctx, current); err != nil {
		return Profile{}, err
	}
	return s.Get(ctx, userID)
}
