package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"
	"ideahub/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxNameLen = 120
	maxBioLen  = 2000
)

type ProfileService struct {
	users repository.UserRepository
}

// UpdateProfileInput carries a full profile replacement. Empty optional
// fields clear the stored value; a nil IsPublic means public.
type UpdateProfileInput struct {
	UserID   uint
	Name     string
	Email    string
	Phone    string
	Website  string
	Location string
	Bio      string
	LinkedIn string
	Twitter  string
	GitHub   string
	IsPublic *bool
}

func NewProfileService(users repository.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

// GetPublicProfile returns a profile only if its owner made it public.
// Private profiles are reported as missing.
func (s *ProfileService) GetPublicProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPublic {
		return nil, models.NewNotFoundError("User", userID)
	}
	return user.ToProfile(), nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (profile *models.Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "UpdateProfile", attribute.Int64("user.id", int64(in.UserID)))
	defer func() { span.Finish(err) }()

	name := strings.TrimSpace(in.Name)
	email := validation.NormalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, models.NewValidationError("Name and email are required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return nil, models.NewValidationError("Name too long (max 120 characters)")
	}
	if err = validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if utf8.RuneCountInString(in.Bio) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 2000 characters)")
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if owner != nil && owner.ID != user.ID {
		return nil, models.NewConflictError("Email already in use")
	}

	user.Name = name
	user.Email = email
	user.Phone = optional(in.Phone)
	user.Website = optional(in.Website)
	user.Location = optional(in.Location)
	user.Bio = optional(in.Bio)
	user.LinkedIn = optional(in.LinkedIn)
	user.Twitter = optional(in.Twitter)
	user.GitHub = optional(in.GitHub)
	user.IsPublic = in.IsPublic == nil || *in.IsPublic

	if err = s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

// optional maps blank input to NULL.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
