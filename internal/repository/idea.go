package repository

import (
	"context"
	"errors"
	"time"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/observability"

	"gorm.io/gorm"
)

const newestFirst = "ideas.created_at DESC, ideas.id DESC"

// IdeaFilter narrows idea listings.
type IdeaFilter struct {
	// Search matches title or description, case-insensitively.
	Search  string
	OwnerID uint
}

func (f IdeaFilter) apply(db *gorm.DB) *gorm.DB {
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		db = db.Where(`(LOWER(ideas.title) LIKE ? ESCAPE '\') OR (LOWER(ideas.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if f.OwnerID != 0 {
		db = db.Where("ideas.owner_id = ?", f.OwnerID)
	}
	return db
}

// IdeaRepository defines persistence operations for idea listings.
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) error
	GetByID(ctx context.Context, id uint) (*models.Idea, error)
	IncrementViews(ctx context.Context, id uint) (*models.Idea, error)
	List(ctx context.Context, filter IdeaFilter, limit, offset int) ([]models.Idea, error)
	Count(ctx context.Context, filter IdeaFilter) (int64, error)
	Update(ctx context.Context, idea *models.Idea) error
	Delete(ctx context.Context, id uint) error
}

type ideaRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewIdeaRepository returns a new IdeaRepository implementation.
func NewIdeaRepository(db *gorm.DB) IdeaRepository {
	return &ideaRepository{db: db, log: observability.NewRepoLogger(middleware.Logger, "ideas")}
}

func notFoundOr(err error, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Idea", id)
	}
	return models.NewInternalError(err)
}

// Create inserts idea and reloads it with its owner.
func (r *ideaRepository) Create(ctx context.Context, idea *models.Idea) error {
	defer observability.TrackQuery("create", "ideas")()

	db := r.db.WithContext(ctx)
	if err := db.Omit("User").Create(idea).Error; err != nil {
		r.log.LogError(ctx, "create", err)
		return models.NewInternalError(err)
	}
	if err := db.Preload("User").First(idea, idea.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, idea.ID, "owner_id", idea.OwnerID)
	return nil
}

func (r *ideaRepository) GetByID(ctx context.Context, id uint) (*models.Idea, error) {
	defer observability.TrackQuery("get_by_id", "ideas")()

	var idea models.Idea
	if err := r.db.WithContext(ctx).Preload("User").First(&idea, id).Error; err != nil {
		return nil, notFoundOr(err, id)
	}
	return &idea, nil
}

// IncrementViews adds one view and returns the updated idea, in one transaction.
func (r *ideaRepository) IncrementViews(ctx context.Context, id uint) (*models.Idea, error) {
	defer observability.TrackQuery("increment_views", "ideas")()

	var idea models.Idea
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// UpdateColumn leaves updated_at alone; a view is not an edit.
		res := tx.Model(&models.Idea{}).Where("id = ?", id).UpdateColumn("views", gorm.Expr("views + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Preload("User").First(&idea, id).Error
	})
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	return &idea, nil
}

func (r *ideaRepository) List(ctx context.Context, filter IdeaFilter, limit, offset int) ([]models.Idea, error) {
	defer observability.TrackQuery("list", "ideas")()

	q := filter.apply(r.db.WithContext(ctx).Model(&models.Idea{})).
		Preload("User").
		Order(newestFirst)
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	ideas := []models.Idea{}
	if err := q.Find(&ideas).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ideas, nil
}

func (r *ideaRepository) Count(ctx context.Context, filter IdeaFilter) (int64, error) {
	defer observability.TrackQuery("count", "ideas")()

	var total int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Idea{})).Count(&total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

// Update overwrites the editable fields of idea.
func (r *ideaRepository) Update(ctx context.Context, idea *models.Idea) error {
	defer observability.TrackQuery("update", "ideas")()

	idea.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Idea{ID: idea.ID}).
		Select("title", "description", "screenshots", "updated_at").
		Updates(idea)
	if res.Error != nil {
		r.log.LogError(ctx, "update", res.Error)
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Idea", idea.ID)
	}
	r.log.LogUpdate(ctx, idea.ID)
	return nil
}

// Delete removes the idea and every favorite that references it.
func (r *ideaRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "ideas")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("idea_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Idea{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.LogError(ctx, "delete", err)
		}
		return notFoundOr(err, id)
	}
	r.log.LogDelete(ctx, id)
	return nil
}
