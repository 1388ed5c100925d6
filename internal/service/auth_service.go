package service

import (
	"context"
	"strings"

	"ideahub/internal/models"
	"ideahub/internal/repository"
	"ideahub/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// errInvalidCredentials covers both an unknown email and a wrong password.
var errInvalidCredentials = models.NewUnauthorizedError("Invalid credentials")

type AuthService struct {
	users    repository.UserRepository
	hashCost int
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users, hashCost: bcrypt.DefaultCost}
}

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.hashCost = cost
	return s
}

// Register creates an account. Role defaults to REGULAR.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := validation.NormalizeEmail(in.Email)

	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	role := in.Role
	if role == "" {
		role = models.RoleRegular
	}
	if !role.Valid() {
		return nil, models.NewValidationError("Role must be DEVELOPER or REGULAR")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:             name,
		Email:            email,
		Password:         string(hash),
		Role:             role,
		SubscriptionTier: "FREE",
		IsPublic:         true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = validation.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	return user, nil
}
