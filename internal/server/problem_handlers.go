package server

import (
	"ideahub/internal/models"
	"ideahub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListProblems handles GET /api/problems?category=&min_severity=&keywords=&limit=
// @Summary List catalog problems
// @Description Most severe first. keywords is comma-separated and matches any of them.
// @Tags problems
// @Produce json
// @Param category query string false "Category"
// @Param min_severity query number false "Minimum severity (0-10)"
// @Param keywords query string false "Comma-separated keywords"
// @Param limit query int false "Max results (default 20, max 100)"
// @Success 200 {object} service.ProblemList
// @Failure 400 {object} models.ErrorResponse
// @Router /problems [get]
func (s *Server) ListProblems(c *fiber.Ctx) error {
	list, err := s.problemService.ListProblems(c.UserContext(), service.ListProblemsInput{
		Category:    c.Query("category"),
		MinSeverity: c.QueryFloat("min_severity", 0),
		Keywords:    c.Query("keywords"),
		Limit:       c.QueryInt("limit", service.DefaultProblemLimit),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(list)
}

// GetProblemCategories handles GET /api/problems/categories
// @Summary List problem categories with counts
// @Tags problems
// @Produce json
// @Success 200 {object} object{categories=[]service.CategorySummary}
// @Router /problems/categories [get]
func (s *Server) GetProblemCategories(c *fiber.Ctx) error {
	categories, err := s.problemService.Categories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetProblemSources handles GET /api/problems/sources
// @Summary List the communities problems come from
// @Tags problems
// @Produce json
// @Success 200 {object} object{sources=[]string}
// @Router /problems/sources [get]
func (s *Server) GetProblemSources(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sources": models.ProblemSources})
}

// GetTrendingProblems handles GET /api/problems/trending
// @Summary Trending problems
// @Description Severity 7+ with 5+ mentions, ranked by severity times mentions. At most 10.
// @Tags problems
// @Produce json
// @Success 200 {object} object{problems=[]models.Problem,count=int}
// @Router /problems/trending [get]
func (s *Server) GetTrendingProblems(c *fiber.Ctx) error {
	problems, err := s.problemService.Trending(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"problems": problems, "count": len(problems)})
}

// SearchProblems handles GET /api/problems/search?q=&limit=
// @Summary Search problems
// @Tags problems
// @Produce json
// @Param q query string true "Text to find in title or description"
// @Param limit query int false "Max results (default 20, max 100)"
// @Success 200 {object} service.ProblemSearchResult
// @Failure 400 {object} models.ErrorResponse
// @Router /problems/search [get]
func (s *Server) SearchProblems(c *fiber.Ctx) error {
	res, err := s.problemService.Search(c.UserContext(), c.Query("q"), c.QueryInt("limit", service.DefaultProblemLimit))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(res)
}

// GetProblem handles GET /api/problems/:id
// @Summary Get problem
// @Tags problems
// @Produce json
// @Param id path int true "Problem ID"
// @Success 200 {object} object{problem=models.Problem}
// @Failure 404 {object} models.ErrorResponse
// @Router /problems/{id} [get]
func (s *Server) GetProblem(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	problem, err := s.problemService.GetProblem(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"problem": problem})
}
