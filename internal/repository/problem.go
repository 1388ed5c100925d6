package repository

import (
	"context"
	"errors"
	"strings"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/observability"

	"gorm.io/gorm"
)

const mostSevereFirst = "problems.severity_score DESC, problems.mention_count DESC, problems.id ASC"

// ProblemFilter narrows catalog listings. Zero values match everything.
type ProblemFilter struct {
	Category    string
	MinSeverity float64
	MinMentions int64
	// Keywords match when any of them appears in the problem's keyword list.
	Keywords []string
	// Search matches title or description, case-insensitively.
	Search string
}

func (f ProblemFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Category != "" {
		db = db.Where("problems.category = ?", f.Category)
	}
	if f.MinSeverity > 0 {
		db = db.Where("problems.severity_score >= ?", f.MinSeverity)
	}
	if f.MinMentions > 0 {
		db = db.Where("problems.mention_count >= ?", f.MinMentions)
	}
	if len(f.Keywords) > 0 {
		// keywords is a JSON array; its text form is enough for a contains match.
		clauses := make([]string, 0, len(f.Keywords))
		args := make([]any, 0, len(f.Keywords))
		for _, kw := range f.Keywords {
			clauses = append(clauses, `LOWER(CAST(problems.keywords AS TEXT)) LIKE ? ESCAPE '\'`)
			args = append(args, containsPattern(kw))
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		db = db.Where(`(LOWER(problems.title) LIKE ? ESCAPE '\') OR (LOWER(problems.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	return db
}

// CategoryCount is the number of catalog problems filed under one category.
type CategoryCount struct {
	Category string
	Problems int64
}

// ProblemRepository reads the problem catalog.
type ProblemRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Problem, error)
	List(ctx context.Context, filter ProblemFilter, limit int) ([]models.Problem, error)
	Count(ctx context.Context, filter ProblemFilter) (int64, error)
	// Trending orders by severity times mentions, highest first.
	Trending(ctx context.Context, filter ProblemFilter, limit int) ([]models.Problem, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
}

type problemRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

func NewProblemRepository(db *gorm.DB) ProblemRepository {
	return &problemRepository{db: db, log: observability.NewRepoLogger(middleware.Logger, "problems")}
}

func (r *problemRepository) GetByID(ctx context.Context, id uint) (*models.Problem, error) {
	defer observability.TrackQuery("get_by_id", "problems")()

	var p models.Problem
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Problem", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &p, nil
}

func (r *problemRepository) List(ctx context.Context, filter ProblemFilter, limit int) ([]models.Problem, error) {
	defer observability.TrackQuery("list", "problems")()
	return r.find(ctx, filter, mostSevereFirst, limit)
}

func (r *problemRepository) Trending(ctx context.Context, filter ProblemFilter, limit int) ([]models.Problem, error) {
	defer observability.TrackQuery("trending", "problems")()
	return r.find(ctx, filter, "problems.severity_score * problems.mention_count DESC, problems.id ASC", limit)
}

func (r *problemRepository) find(ctx context.Context, filter ProblemFilter, order string, limit int) ([]models.Problem, error) {
	q := filter.apply(r.db.WithContext(ctx).Model(&models.Problem{})).Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}

	problems := []models.Problem{}
	if err := q.Find(&problems).Error; err != nil {
		r.log.LogError(ctx, "list", err)
		return nil, models.NewInternalError(err)
	}
	return problems, nil
}

func (r *problemRepository) Count(ctx context.Context, filter ProblemFilter) (int64, error) {
	defer observability.TrackQuery("count", "problems")()

	var total int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Problem{})).Count(&total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

// CountByCategory returns only categories that have at least one problem.
func (r *problemRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	defer observability.TrackQuery("count_by_category", "problems")()

	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&models.Problem{}).
		Select("category, COUNT(*) AS problems").
		Group("category").
		Order("category").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}
