package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenIssuer   = "ideahub-api"
	TokenAudience = "ideahub-client"
)

// ErrInvalidToken is returned for any token that fails parsing or validation.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated caller resolved from a request.
type Identity struct {
	UserID uint
	Role   string
}

// Claims are the JWT claims issued to signed-in users.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is a freshly signed access token.
type IssuedToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

func newJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// IssueToken signs an HS256 access token for the given user.
func IssueToken(secret string, userID uint, role string, ttl time.Duration) (*IssuedToken, error) {
	now := time.Now()
	exp := now.Add(ttl)
	jti := newJTI()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: signed, JTI: jti, ExpiresAt: exp}, nil
}

// ParseToken validates signature, issuer, audience and expiry and returns the claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ParseIdentity resolves the caller identity carried by a token.
func ParseIdentity(tokenString, secret string) (*Identity, *Claims, error) {
	claims, err := ParseToken(tokenString, secret)
	if err != nil {
		return nil, nil, err
	}
	uid, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || uid == 0 {
		return nil, nil, ErrInvalidToken
	}
	return &Identity{UserID: uint(uid), Role: claims.Role}, claims, nil
}

// BearerToken extracts the token from an "Authorization: Bearer" header value.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SetIdentity stores the caller on the Fiber context and its user context.
func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals("userID", id.UserID)
	c.Locals("role", id.Role)

	ctx := context.WithValue(c.UserContext(), UserIDKey, id.UserID)
	ctx = context.WithValue(ctx, RoleKey, id.Role)
	c.SetUserContext(ctx)
}

// IdentityFrom returns the caller previously stored by SetIdentity.
func IdentityFrom(c *fiber.Ctx) (Identity, bool) {
	uid, ok := c.Locals("userID").(uint)
	if !ok || uid == 0 {
		return Identity{}, false
	}
	role, _ := c.Locals("role").(string)
	return Identity{UserID: uid, Role: role}, true
}
