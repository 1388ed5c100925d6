package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const classesMsg = "password must contain upper and lower case letters, a digit and a special character"

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{"demo account password", "Demo123!", ""},
		{"long passphrase", "Correct-Horse-Battery-9", ""},
		{"non-ascii letters", "Ünïcødé-Idea7", ""},
		{"max length", "Aa1!" + strings.Repeat("x", PasswordMaxLength-4), ""},
		{"seven characters", "Ab1!xyz", "password must be at least 8 characters"},
		{"counts runes not bytes", "Åb1!ééé", "password must be at least 8 characters"},
		{"over max length", "Aa1!" + strings.Repeat("x", PasswordMaxLength-3), "password must be at most 128 characters"},
		{"lowercase only", "ideasforall", classesMsg},
		{"missing digit", "Ideas-For-All", classesMsg},
		{"missing symbol", "IdeasForAll42", classesMsg},
		{"missing upper", "ideas-for-all-42", classesMsg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 64 + 1 + 189 = 254 characters, with every domain label under 64.
	domain := strings.Join([]string{
		strings.Repeat("b", 60), strings.Repeat("c", 60), strings.Repeat("d", 60), "ee", "com",
	}, ".")
	longest := strings.Repeat("a", 64) + "@" + domain

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"demo user", "alice@example.com", false},
		{"plus tag", "bob+ideas@example.co.uk", false},
		{"254 characters", longest, false},
		{"255 characters", "a" + longest, true},
		{"no at sign", "alice.example.com", true},
		{"no domain", "alice@", true},
		{"blank", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, ValidateEmail(tt.email) != nil)
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "carol@example.com", NormalizeEmail("  Carol@Example.COM \t"))
	assert.Equal(t, "", NormalizeEmail("   "))
}
