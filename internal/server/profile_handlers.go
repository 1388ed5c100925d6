package server

import (
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type updateProfileRequest struct {
	Name     string `json:"name" validate:"max=120"`
	Email    string `json:"email" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=64"`
	Website  string `json:"website" validate:"max=2048"`
	Location string `json:"location" validate:"max=255"`
	Bio      string `json:"bio" validate:"max=2000"`
	LinkedIn string `json:"linkedin" validate:"max=2048"`
	Twitter  string `json:"twitter" validate:"max=2048"`
	GitHub   string `json:"github" validate:"max=2048"`
	IsPublic *bool  `json:"is_public"`
}

// GetProfile handles GET /api/profile
// @Summary Get own profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{profile=models.Profile}
// @Router /profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	profile, err := s.profileService.GetProfile(c.UserContext(), id.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// UpdateProfile handles PUT /api/profile
// @Summary Update own profile
// @Description Replaces the profile. Omitted optional fields are cleared and is_public defaults to true.
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body updateProfileRequest true "Profile"
// @Success 200 {object} object{profile=models.Profile}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /profile [put]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	profile, err := s.profileService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:   id.UserID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Website:  req.Website,
		Location: req.Location,
		Bio:      req.Bio,
		LinkedIn: req.LinkedIn,
		Twitter:  req.Twitter,
		GitHub:   req.GitHub,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}

// GetPublicProfile handles GET /api/users/:id
// @Summary Get public profile
// @Tags profile
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} object{profile=models.Profile}
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetPublicProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	profile, err := s.profileService.GetPublicProfile(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"profile": profile})
}
