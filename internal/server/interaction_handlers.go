package server

import (
	"ideahub/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/ideas/:id/like
// @Summary Toggle like
// @Description Likes the idea, or removes the like when already present
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Idea ID"
// @Success 200 {object} service.ToggleResult
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.interactionService.ToggleLike(c.UserContext(), id.UserID, ideaID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishReaction(ideaID, res.Likes)
	eventType := notifications.EventFavoriteRemoved
	if res.Liked {
		eventType = notifications.EventFavoriteAdded
	}
	s.publishUserEvent(id.UserID, eventType, map[string]any{"idea_id": ideaID})

	return c.JSON(res)
}

// AddFavorite handles POST /api/ideas/:id/favorite
// @Summary Add favorite
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Idea ID"
// @Success 201 {object} object{message=string,favorite=models.Favorite}
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /ideas/{id}/favorite [post]
func (s *Server) AddFavorite(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.interactionService.AddFavorite(c.UserContext(), id.UserID, ideaID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishReaction(ideaID, res.Likes)
	s.publishUserEvent(id.UserID, notifications.EventFavoriteAdded, map[string]any{"idea_id": ideaID})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Added to favorites",
		"favorite": res.Favorite,
	})
}

// RemoveFavorite handles DELETE /api/ideas/:id/favorite
// @Summary Remove favorite
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Idea ID"
// @Success 200 {object} object{message=string}
// @Failure 409 {object} models.ErrorResponse
// @Router /ideas/{id}/favorite [delete]
func (s *Server) RemoveFavorite(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	likes, err := s.interactionService.RemoveFavorite(c.UserContext(), id.UserID, ideaID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishReaction(ideaID, likes)
	s.publishUserEvent(id.UserID, notifications.EventFavoriteRemoved, map[string]any{"idea_id": ideaID})

	return c.JSON(fiber.Map{"message": "Removed from favorites"})
}

// GetFavorites handles GET /api/favorites
// @Summary List favorites
// @Description The caller's favorited ideas, most recently favorited first
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{favorites=[]models.FavoriteIdea}
// @Router /favorites [get]
func (s *Server) GetFavorites(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	favorites, err := s.interactionService.ListFavorites(c.UserContext(), id.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"favorites": favorites})
}
