package server

import (
	"ideahub/internal/models"
	"ideahub/internal/notifications"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ideaRequest struct {
	Title       string   `json:"title" validate:"max=200"`
	Description string   `json:"description" validate:"max=10000"`
	Screenshots []string `json:"screenshots" validate:"max=10,dive,max=2048"`
}

// ListIdeas handles GET /api/ideas?search=&page=&limit=
// @Summary List ideas
// @Description Newest first. search matches title or description, case-insensitively.
// @Tags ideas
// @Produce json
// @Param search query string false "Search text"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 12, max 100)"
// @Success 200 {object} service.IdeaPage
// @Router /ideas [get]
func (s *Server) ListIdeas(c *fiber.Ctx) error {
	page, err := s.ideaService.ListIdeas(c.UserContext(), service.ListIdeasInput{
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("limit", service.DefaultPageSize),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(page)
}

// GetMyIdeas handles GET /api/ideas/my
// @Summary List the caller's ideas
// @Tags ideas
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{ideas=[]models.Idea}
// @Router /ideas/my [get]
func (s *Server) GetMyIdeas(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	ideas, err := s.ideaService.ListMyIdeas(c.UserContext(), id.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"ideas": ideas})
}

// GetIdea handles GET /api/ideas/:id and records a view.
// @Summary Get idea
// @Tags ideas
// @Produce json
// @Param id path int true "Idea ID"
// @Success 200 {object} object{idea=models.Idea}
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{id} [get]
func (s *Server) GetIdea(c *fiber.Ctx) error {
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	idea, err := s.ideaService.GetIdea(c.UserContext(), ideaID)
	if err != nil {
		return respondServiceError(c, err)
	}

	resp := fiber.Map{"idea": idea}
	if caller, ok := s.optionalIdentity(c); ok {
		favorited, err := s.interactionService.IsFavorited(c.UserContext(), caller.UserID, ideaID)
		if err != nil {
			return respondServiceError(c, err)
		}
		resp["is_favorited"] = favorited
	}
	return c.JSON(resp)
}

// CreateIdea handles POST /api/ideas
// @Summary Create idea
// @Tags ideas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ideaRequest true "Idea"
// @Success 201 {object} object{idea=models.Idea}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /ideas [post]
func (s *Server) CreateIdea(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	var req ideaRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	idea, err := s.ideaService.CreateIdea(c.UserContext(), service.CreateIdeaInput{
		OwnerID:     id.UserID,
		OwnerRole:   models.Role(id.Role),
		Title:       req.Title,
		Description: req.Description,
		Screenshots: req.Screenshots,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(notifications.EventIdeaCreated, ideaEventPayload(idea))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"idea": idea})
}

// UpdateIdea handles PUT /api/ideas/:id
// @Summary Update idea
// @Tags ideas
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Idea ID"
// @Param request body ideaRequest true "Idea"
// @Success 200 {object} object{idea=models.Idea}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{id} [put]
func (s *Server) UpdateIdea(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req ideaRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}

	idea, err := s.ideaService.UpdateIdea(c.UserContext(), service.UpdateIdeaInput{
		CallerID:    id.UserID,
		IdeaID:      ideaID,
		Title:       req.Title,
		Description: req.Description,
		Screenshots: req.Screenshots,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(notifications.EventIdeaUpdated, ideaEventPayload(idea))
	return c.JSON(fiber.Map{"idea": idea})
}

// DeleteIdea handles DELETE /api/ideas/:id
// @Summary Delete idea
// @Tags ideas
// @Security BearerAuth
// @Produce json
// @Param id path int true "Idea ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /ideas/{id} [delete]
func (s *Server) DeleteIdea(c *fiber.Ctx) error {
	id, err := currentIdentity(c)
	if err != nil {
		return nil
	}
	ideaID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ideaService.DeleteIdea(c.UserContext(), service.DeleteIdeaInput{CallerID: id.UserID, IdeaID: ideaID}); err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(notifications.EventIdeaDeleted, map[string]any{"idea_id": ideaID})
	return c.JSON(fiber.Map{"message": "Idea deleted successfully"})
}
