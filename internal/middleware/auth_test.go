package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func TestParseIdentity(t *testing.T) {
	valid, err := IssueToken(testSecret, 123, "DEVELOPER", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, 123, "DEVELOPER", -time.Hour)
	require.NoError(t, err)
	otherSecret, err := IssueToken("another-secret-another-secret-0000", 123, "DEVELOPER", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "123",
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "123",
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"Happy Path", valid.Token, false},
		{"Malformed Token", "malformed.token.here", true},
		{"Expired Token", expired.Token, true},
		{"Wrong Secret", otherSecret.Token, true},
		{"Wrong Issuer", wrongIssuer, true},
		{"Unsigned Token", noneAlg, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, claims, err := ParseIdentity(tt.token, testSecret)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				assert.Nil(t, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, uint(123), id.UserID)
			assert.Equal(t, "DEVELOPER", id.Role)
			assert.Equal(t, valid.JTI, claims.ID)
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc.def", "abc.def", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		token, ok := BearerToken(tt.header)
		assert.Equal(t, tt.ok, ok, tt.header)
		assert.Equal(t, tt.token, token, tt.header)
	}
}

func TestSetIdentity_RoundTrip(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := IdentityFrom(c)
		assert.False(t, ok)

		SetIdentity(c, Identity{UserID: 9, Role: "REGULAR"})
		id, ok := IdentityFrom(c)
		assert.True(t, ok)
		assert.Equal(t, uint(9), id.UserID)
		assert.Equal(t, uint(9), c.UserContext().Value(UserIDKey))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
