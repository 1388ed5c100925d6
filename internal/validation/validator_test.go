package validation

import (
	"testing"

	"ideahub/internal/models"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name        string   `json:"name" validate:"notblank,max=10"`
	Email       string   `json:"email" validate:"required,email"`
	Role        string   `json:"role" validate:"omitempty,role"`
	Screenshots []string `json:"screenshots" validate:"max=2"`
}

func TestStruct(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		req     sampleRequest
		wantMsg string
	}{
		{"valid", sampleRequest{Name: "Ada", Email: "ada@example.com", Role: "DEVELOPER"}, ""},
		{"blank name", sampleRequest{Name: "   ", Email: "ada@example.com"}, "name is required"},
		{"bad email", sampleRequest{Name: "Ada", Email: "nope"}, "email must be a valid email"},
		{"bad role", sampleRequest{Name: "Ada", Email: "ada@example.com", Role: "ADMIN"}, "role must be DEVELOPER or REGULAR"},
		{"long name", sampleRequest{Name: "Ada Lovelace Byron", Email: "ada@example.com"}, "name must be at most 10 characters"},
		{"too many items", sampleRequest{Name: "Ada", Email: "ada@example.com", Screenshots: []string{"a", "b", "c"}}, "screenshots must have at most 2 items"},
		{"several fields sorted", sampleRequest{}, "email is required; name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}
