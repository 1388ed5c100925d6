// Package service holds the business rules of the idea marketplace. Handlers
// call into it; it calls repositories.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ideahub/internal/cache"
	"ideahub/internal/featureflags"
	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100

	maxTitleLen       = 200
	maxDescriptionLen = 10000
	maxScreenshots    = 10
)

type IdeaService struct {
	ideas repository.IdeaRepository
	flags *featureflags.Manager
}

type ListIdeasInput struct {
	Search   string
	Page     int
	PageSize int
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// IdeaPage is one page of ideas plus its pagination metadata.
type IdeaPage struct {
	Ideas      []models.Idea `json:"ideas"`
	Pagination Pagination    `json:"pagination"`
}

type CreateIdeaInput struct {
	OwnerID     uint
	OwnerRole   models.Role
	Title       string
	Description string
	Screenshots []string
}

type UpdateIdeaInput struct {
	CallerID    uint
	IdeaID      uint
	Title       string
	Description string
	Screenshots []string
}

type DeleteIdeaInput struct {
	CallerID uint
	IdeaID   uint
}

func NewIdeaService(ideas repository.IdeaRepository, flags *featureflags.Manager) *IdeaService {
	if flags == nil {
		flags = featureflags.NewManager("")
	}
	return &IdeaService{ideas: ideas, flags: flags}
}

// normalizePage applies listing defaults: page 1, page size 12, capped at 100.
func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func totalPages(total int64, limit int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func (s *IdeaService) ListIdeas(ctx context.Context, in ListIdeasInput) (page *IdeaPage, err error) {
	pageNum, size := normalizePage(in.Page, in.PageSize)
	search := strings.TrimSpace(in.Search)

	ctx, span := observability.StartSpan(ctx, "service", "ListIdeas",
		attribute.String("idea.search", search),
		attribute.Int("page", pageNum),
		attribute.Int("page_size", size),
	)
	defer func() { span.Finish(err) }()

	load := func(dest *IdeaPage) error {
		filter := repository.IdeaFilter{Search: search}
		var (
			ideas []models.Idea
			total int64
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			ideas, err = s.ideas.List(gctx, filter, size, (pageNum-1)*size)
			return err
		})
		g.Go(func() error {
			var err error
			total, err = s.ideas.Count(gctx, filter)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		*dest = IdeaPage{
			Ideas: ideas,
			Pagination: Pagination{
				Page:       pageNum,
				Limit:      size,
				Total:      total,
				TotalPages: totalPages(total, size),
			},
		}
		return nil
	}

	page = &IdeaPage{}
	version, ok := cache.IdeasListVersion(ctx)
	if !ok {
		err = load(page)
	} else {
		err = cache.Aside(ctx, cache.IdeasListKey(version, search, pageNum, size), page, cache.IdeasListTTL,
			func() error { return load(page) })
	}
	if err != nil {
		return nil, err
	}
	if page.Ideas == nil {
		page.Ideas = []models.Idea{}
	}
	return page, nil
}

// GetIdea returns an idea and records one view.
func (s *IdeaService) GetIdea(ctx context.Context, id uint) (idea *models.Idea, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "GetIdea", attribute.Int64("idea.id", int64(id)))
	defer func() { span.Finish(err) }()

	idea, err = s.ideas.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	observability.IdeaViews.Inc()
	return idea, nil
}

func (s *IdeaService) CreateIdea(ctx context.Context, in CreateIdeaInput) (idea *models.Idea, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "CreateIdea", attribute.Int64("user.id", int64(in.OwnerID)))
	defer func() { span.Finish(err) }()

	if s.flags.Enabled(featureflags.DeveloperOnlyPosting, in.OwnerID) && in.OwnerRole != models.RoleDeveloper {
		return nil, models.NewForbiddenError("Only developers can post ideas")
	}

	title, description, screenshots, err := validateIdeaFields(in.Title, in.Description, in.Screenshots)
	if err != nil {
		return nil, err
	}

	idea = &models.Idea{
		Title:       title,
		Description: description,
		Screenshots: screenshots,
		OwnerID:     in.OwnerID,
	}
	if err = s.ideas.Create(ctx, idea); err != nil {
		return nil, err
	}

	observability.IdeaMutations.WithLabelValues("create").Inc()
	cache.BumpIdeasListVersion(ctx)
	return idea, nil
}

// loadOwned fetches an idea and checks that callerID owns it.
func (s *IdeaService) loadOwned(ctx context.Context, ideaID, callerID uint, action string) (*models.Idea, error) {
	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !idea.OwnedBy(callerID) {
		return nil, models.NewForbiddenError("You can only " + action + " your own ideas")
	}
	return idea, nil
}

func (s *IdeaService) UpdateIdea(ctx context.Context, in UpdateIdeaInput) (idea *models.Idea, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "UpdateIdea",
		attribute.Int64("idea.id", int64(in.IdeaID)),
		attribute.Int64("user.id", int64(in.CallerID)),
	)
	defer func() { span.Finish(err) }()

	idea, err = s.loadOwned(ctx, in.IdeaID, in.CallerID, "edit")
	if err != nil {
		return nil, err
	}

	title, description, screenshots, err := validateIdeaFields(in.Title, in.Description, in.Screenshots)
	if err != nil {
		return nil, err
	}

	idea.Title = title
	idea.Description = description
	idea.Screenshots = screenshots
	if err = s.ideas.Update(ctx, idea); err != nil {
		return nil, err
	}

	observability.IdeaMutations.WithLabelValues("update").Inc()
	cache.BumpIdeasListVersion(ctx)
	return idea, nil
}

func (s *IdeaService) DeleteIdea(ctx context.Context, in DeleteIdeaInput) (err error) {
	ctx, span := observability.StartSpan(ctx, "service", "DeleteIdea",
		attribute.Int64("idea.id", int64(in.IdeaID)),
		attribute.Int64("user.id", int64(in.CallerID)),
	)
	defer func() { span.Finish(err) }()

	if _, err = s.loadOwned(ctx, in.IdeaID, in.CallerID, "delete"); err != nil {
		return err
	}
	if err = s.ideas.Delete(ctx, in.IdeaID); err != nil {
		return err
	}

	observability.IdeaMutations.WithLabelValues("delete").Inc()
	cache.BumpIdeasListVersion(ctx)
	return nil
}

// ListMyIdeas returns every idea owned by ownerID, newest first.
func (s *IdeaService) ListMyIdeas(ctx context.Context, ownerID uint) ([]models.Idea, error) {
	return s.ideas.List(ctx, repository.IdeaFilter{OwnerID: ownerID}, 0, 0)
}

func validateIdeaFields(title, description string, screenshots []string) (string, string, []string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" || description == "" {
		return "", "", nil, models.NewValidationError("Title and description are required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "", "", nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "", "", nil, models.NewValidationError("Description too long (max 10000 characters)")
	}
	if len(screenshots) > maxScreenshots {
		return "", "", nil, models.NewValidationError("Too many screenshots (max 10)")
	}

	cleaned := make([]string, 0, len(screenshots))
	for _, shot := range screenshots {
		if shot = strings.TrimSpace(shot); shot != "" {
			cleaned = append(cleaned, shot)
		}
	}
	return title, description, cleaned, nil
}
