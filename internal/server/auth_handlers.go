package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	blacklistKeyPrefix = "blacklist:"
	wsTicketKeyPrefix  = "ws_ticket:"
	wsTicketTTL        = 30 * time.Second
)

type registerRequest struct {
	Name     string `json:"name" validate:"max=120"`
	Email    string `json:"email" validate:"max=255"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is returned by register and login.
type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func (s *Server) tokenTTL() time.Duration {
	hours := s.config.JWTTTLHours
	if hours <= 0 {
		hours = 24 * 7
	}
	return time.Duration(hours) * time.Hour
}

func (s *Server) issueSession(c *fiber.Ctx, status int, user *models.User) error {
	if s.config.JWTSecret == "" {
		return respondServiceError(c, models.NewInternalError(errors.New("JWT secret not configured")))
	}
	issued, err := middleware.IssueToken(s.config.JWTSecret, user.ID, string(user.Role), s.tokenTTL())
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.Status(status).JSON(authResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt, User: user})
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an account as a DEVELOPER or REGULAR user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration"
// @Success 201 {object} authResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(strings.ToUpper(strings.TrimSpace(req.Role))),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.issueSession(c, fiber.StatusCreated, user)
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Authenticate and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} authResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := decodeJSON(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.issueSession(c, fiber.StatusOK, user)
}

// Logout handles POST /api/auth/logout by revoking the presented token.
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*middleware.Claims)
	if ok && claims.ID != "" && s.redis != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			if err := s.redis.Set(c.UserContext(), blacklistKeyPrefix+claims.ID, "1", ttl).Err(); err != nil {
				return respondServiceError(c, models.NewInternalError(err))
			}
		}
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// AuthRequired returns the authentication middleware. The websocket route
// accepts a one-time ticket; every other route requires a bearer token.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ticket := c.Query("ticket"); ticket != "" && strings.HasPrefix(c.Path(), "/api/ws") {
			id, err := s.consumeWSTicket(c.UserContext(), ticket)
			if err != nil {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
			middleware.SetIdentity(c, *id)
			return c.Next()
		}

		tokenString, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		id, claims, err := middleware.ParseIdentity(tokenString, s.config.JWTSecret)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		if s.isRevoked(c.UserContext(), claims.ID) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		middleware.SetIdentity(c, *id)
		c.Locals("claims", claims)
		return c.Next()
	}
}

// isRevoked reports whether jti was blacklisted by a logout. Lookups fail
// open when Redis is unavailable.
func (s *Server) isRevoked(ctx context.Context, jti string) bool {
	if jti == "" || s.redis == nil {
		return false
	}
	n, err := s.redis.Exists(ctx, blacklistKeyPrefix+jti).Result()
	if err != nil {
		middleware.Logger.WarnContext(ctx, "revocation check failed", slog.String("error", err.Error()))
		return false
	}
	return n > 0
}

// optionalIdentity resolves the caller from a bearer token without enforcing it.
func (s *Server) optionalIdentity(c *fiber.Ctx) (middleware.Identity, bool) {
	tokenString, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return middleware.Identity{}, false
	}
	id, claims, err := middleware.ParseIdentity(tokenString, s.config.JWTSecret)
	if err != nil || s.isRevoked(c.UserContext(), claims.ID) {
		return middleware.Identity{}, false
	}
	return *id, true
}

// IssueWSTicket handles POST /api/ws/ticket
// @Summary Issue websocket ticket
// @Description Returns a single-use ticket valid for 30 seconds for GET /api/ws?ticket=
// @Tags realtime
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{ticket=string,expires_in=int}
// @Failure 503 {object} models.ErrorResponse
// @Router /ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			&models.AppError{Code: models.CodeInternal, Message: "Realtime tickets unavailable"})
	}

	ticket := uuid.NewString()
	value := fmt.Sprintf("%d:%s", id.UserID, id.Role)
	if err := s.redis.Set(c.UserContext(), wsTicketKeyPrefix+ticket, value, wsTicketTTL).Err(); err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// consumeWSTicket atomically redeems a ticket.
func (s *Server) consumeWSTicket(ctx context.Context, ticket string) (*middleware.Identity, error) {
	if s.redis == nil {
		return nil, redis.Nil
	}
	value, err := s.redis.GetDel(ctx, wsTicketKeyPrefix+ticket).Result()
	if err != nil {
		return nil, err
	}

	rawID, role, _ := strings.Cut(value, ":")
	uid, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || uid == 0 {
		return nil, middleware.ErrInvalidToken
	}
	return &middleware.Identity{UserID: uint(uid), Role: role}, nil
}
