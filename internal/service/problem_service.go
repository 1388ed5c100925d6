package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"ideahub/internal/cache"
	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultProblemLimit = 20
	MaxProblemLimit     = 100
	TrendingLimit       = 10

	trendingMinSeverity = 7.0
	trendingMinMentions = 5
	maxQueryLen         = 200
	maxKeywords         = 10
)

// ProblemService serves the read-only problem catalog.
type ProblemService struct {
	problems repository.ProblemRepository
}

func NewProblemService(problems repository.ProblemRepository) *ProblemService {
	return &ProblemService{problems: problems}
}

type ListProblemsInput struct {
	Category    string
	MinSeverity float64
	// Keywords is a comma-separated list.
	Keywords string
	Limit    int
}

// ProblemFilters echoes the filters a listing was built with.
type ProblemFilters struct {
	Category    string   `json:"category,omitempty"`
	MinSeverity float64  `json:"min_severity,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// ProblemList is a capped listing. Total counts every match, Count only the returned ones.
type ProblemList struct {
	Problems []models.Problem `json:"problems"`
	Count    int              `json:"count"`
	Total    int64            `json:"total"`
	Filters  ProblemFilters   `json:"filters_applied"`
}

type ProblemSearchResult struct {
	Query    string           `json:"query"`
	Problems []models.Problem `json:"problems"`
	Count    int              `json:"count"`
}

type CategorySummary struct {
	Name     string `json:"name"`
	Problems int64  `json:"problems"`
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultProblemLimit
	}
	return min(limit, MaxProblemLimit)
}

func splitKeywords(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, kw := range strings.Split(raw, ",") {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

func (s *ProblemService) ListProblems(ctx context.Context, in ListProblemsInput) (list *ProblemList, err error) {
	category := strings.ToLower(strings.TrimSpace(in.Category))
	limit := normalizeLimit(in.Limit)

	ctx, span := observability.StartSpan(ctx, "service", "ListProblems",
		attribute.String("problem.category", category),
		attribute.Float64("problem.min_severity", in.MinSeverity),
		attribute.Int("limit", limit),
	)
	defer func() { span.Finish(err) }()

	if category != "" && !models.IsProblemCategory(category) {
		return nil, models.NewValidationError(fmt.Sprintf("Unknown category %q", category))
	}
	if in.MinSeverity < 0 || in.MinSeverity > models.MaxSeverity {
		return nil, models.NewValidationError("min_severity must be between 0 and 10")
	}
	keywords := splitKeywords(in.Keywords)
	if len(keywords) > maxKeywords {
		return nil, models.NewValidationError("Too many keywords (max 10)")
	}

	filter := repository.ProblemFilter{Category: category, MinSeverity: in.MinSeverity, Keywords: keywords}
	var (
		problems []models.Problem
		total    int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		problems, err = s.problems.List(gctx, filter, limit)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.problems.Count(gctx, filter)
		return err
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return &ProblemList{
		Problems: problems,
		Count:    len(problems),
		Total:    total,
		Filters:  ProblemFilters{Category: category, MinSeverity: in.MinSeverity, Keywords: keywords},
	}, nil
}

// Categories lists the whole taxonomy in display order with per-category
// problem counts. Categories found only in the data are appended.
func (s *ProblemService) Categories(ctx context.Context) (out []CategorySummary, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "ProblemCategories")
	defer func() { span.Finish(err) }()

	err = cache.Aside(ctx, cache.ProblemCategoriesKey, &out, cache.ProblemsTTL, func() error {
		counts, err := s.problems.CountByCategory(ctx)
		if err != nil {
			return err
		}
		byName := make(map[string]int64, len(counts))
		for _, c := range counts {
			byName[c.Category] = c.Problems
		}

		out = make([]CategorySummary, 0, len(models.ProblemCategories))
		for _, name := range models.ProblemCategories {
			out = append(out, CategorySummary{Name: name, Problems: byName[name]})
		}
		for _, c := range counts {
			if !models.IsProblemCategory(c.Category) {
				out = append(out, CategorySummary{Name: c.Category, Problems: c.Problems})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Trending returns up to ten problems with severity of at least 7 and at least
// five mentions, ranked by severity times mentions.
func (s *ProblemService) Trending(ctx context.Context) (out []models.Problem, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "TrendingProblems")
	defer func() { span.Finish(err) }()

	err = cache.Aside(ctx, cache.ProblemTrendingKey, &out, cache.ProblemsTTL, func() error {
		var err error
		out, err = s.problems.Trending(ctx, repository.ProblemFilter{
			MinSeverity: trendingMinSeverity,
			MinMentions: trendingMinMentions,
		}, TrendingLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Problem{}
	}
	return out, nil
}

// Search matches query against problem titles and descriptions.
func (s *ProblemService) Search(ctx context.Context, query string, limit int) (res *ProblemSearchResult, err error) {
	query = strings.TrimSpace(query)
	limit = normalizeLimit(limit)

	ctx, span := observability.StartSpan(ctx, "service", "SearchProblems",
		attribute.String("problem.query", query),
		attribute.Int("limit", limit),
	)
	defer func() { span.Finish(err) }()

	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if utf8.RuneCountInString(query) > maxQueryLen {
		return nil, models.NewValidationError("Search query too long (max 200 characters)")
	}

	problems, err := s.problems.List(ctx, repository.ProblemFilter{Search: query}, limit)
	if err != nil {
		return nil, err
	}
	return &ProblemSearchResult{Query: query, Problems: problems, Count: len(problems)}, nil
}

func (s *ProblemService) GetProblem(ctx context.Context, id uint) (p *models.Problem, err error) {
	ctx, span := observability.StartSpan(ctx, "service", "GetProblem", attribute.Int64("problem.id", int64(id)))
	defer func() { span.Finish(err) }()

	return s.problems.GetByID(ctx, id)
}
