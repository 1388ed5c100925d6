package service

import (
	"context"
	"testing"

	"ideahub/internal/models"
	"ideahub/internal/repository"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewAuthService(repository.NewUserRepository(db)).WithHashCost(bcrypt.MinCost)
}

func TestAuthService_RegisterAndAuthenticate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Ada", Email: "Ada@Example.com", Password: "Str0ng!pass", Role: models.RoleDeveloper})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, models.RoleDeveloper, user.Role)
	assert.True(t, user.IsPublic)
	assert.NotEqual(t, "Str0ng!pass", user.Password)

	got, err := svc.Authenticate(ctx, "ADA@example.com", "Str0ng!pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = svc.Authenticate(ctx, "nobody@example.com", "Str0ng!pass")
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
}

func TestAuthService_Register_DefaultsAndErrors(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Name: "Reg", Email: "reg@example.com", Password: "Str0ng!pass"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleRegular, user.Role)

	tests := []struct {
		name string
		in   RegisterInput
		code string
	}{
		{"duplicate", RegisterInput{Name: "Reg", Email: "REG@example.com", Password: "Str0ng!pass"}, models.CodeConflict},
		{"weak password", RegisterInput{Name: "W", Email: "w@example.com", Password: "short"}, models.CodeValidation},
		{"bad email", RegisterInput{Name: "W", Email: "nope", Password: "Str0ng!pass"}, models.CodeValidation},
		{"missing name", RegisterInput{Email: "n@example.com", Password: "Str0ng!pass"}, models.CodeValidation},
		{"unknown role", RegisterInput{Name: "R", Email: "r@example.com", Password: "Str0ng!pass", Role: "ADMIN"}, models.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.True(t, models.IsCode(err, tt.code), "got %v", err)
		})
	}
}
