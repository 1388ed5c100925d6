package repository

import (
	"context"
	"errors"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errAlreadyFavorited = models.NewConflictError("Already favorited")
	errNotFavorited     = models.NewConflictError("Not favorited")
)

// FavoriteRepository maintains the favorite relation together with the
// idea like counter. Every mutation changes both in one transaction.
type FavoriteRepository interface {
	Toggle(ctx context.Context, userID, ideaID uint) (liked bool, likes int64, err error)
	Add(ctx context.Context, userID, ideaID uint) (*models.Favorite, int64, error)
	Remove(ctx context.Context, userID, ideaID uint) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]models.FavoriteIdea, error)
	Exists(ctx context.Context, userID, ideaID uint) (bool, error)
}

type favoriteRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db, log: observability.NewRepoLogger(middleware.Logger, "favorites")}
}

// lockIdea takes a row lock on the idea for the rest of tx. SQLite has no row
// locks; its single writer serializes the transaction instead.
func lockIdea(tx *gorm.DB, ideaID uint) error {
	var idea models.Idea
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&idea, ideaID).Error
}

func findFavorite(tx *gorm.DB, userID, ideaID uint) (*models.Favorite, error) {
	var favs []models.Favorite
	if err := tx.Where("user_id = ? AND idea_id = ?", userID, ideaID).Limit(1).Find(&favs).Error; err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return nil, nil
	}
	return &favs[0], nil
}

func insertFavorite(tx *gorm.DB, userID, ideaID uint) (*models.Favorite, error) {
	fav := &models.Favorite{UserID: userID, IdeaID: ideaID}
	if err := tx.Create(fav).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, errAlreadyFavorited
		}
		return nil, err
	}
	if err := tx.Model(&models.Idea{}).Where("id = ?", ideaID).
		UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error; err != nil {
		return nil, err
	}
	return fav, nil
}

// deleteFavorite removes the row and decrements likes without going below zero.
func deleteFavorite(tx *gorm.DB, userID, ideaID uint) error {
	res := tx.Where("user_id = ? AND idea_id = ?", userID, ideaID).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFavorited
	}
	return tx.Model(&models.Idea{}).Where("id = ? AND likes > 0", ideaID).
		UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error
}

func currentLikes(tx *gorm.DB, ideaID uint) (int64, error) {
	var idea models.Idea
	if err := tx.Select("likes").First(&idea, ideaID).Error; err != nil {
		return 0, err
	}
	return idea.Likes, nil
}

func (r *favoriteRepository) mapError(ctx context.Context, op string, err error, ideaID uint) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Idea", ideaID)
	}
	r.log.LogError(ctx, op, err, "idea_id", ideaID)
	return models.NewInternalError(err)
}

func (r *favoriteRepository) Toggle(ctx context.Context, userID, ideaID uint) (bool, int64, error) {
	defer observability.TrackQuery("toggle", "favorites")()

	var (
		liked bool
		likes int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockIdea(tx, ideaID); err != nil {
			return err
		}
		existing, err := findFavorite(tx, userID, ideaID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := deleteFavorite(tx, userID, ideaID); err != nil {
				return err
			}
		} else {
			if _, err := insertFavorite(tx, userID, ideaID); err != nil {
				return err
			}
			liked = true
		}
		likes, err = currentLikes(tx, ideaID)
		return err
	})
	if err != nil {
		return false, 0, r.mapError(ctx, "toggle", err, ideaID)
	}
	return liked, likes, nil
}

func (r *favoriteRepository) Add(ctx context.Context, userID, ideaID uint) (*models.Favorite, int64, error) {
	defer observability.TrackQuery("add", "favorites")()

	var (
		fav   *models.Favorite
		likes int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockIdea(tx, ideaID); err != nil {
			return err
		}
		existing, err := findFavorite(tx, userID, ideaID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errAlreadyFavorited
		}
		if fav, err = insertFavorite(tx, userID, ideaID); err != nil {
			return err
		}
		likes, err = currentLikes(tx, ideaID)
		return err
	})
	if err != nil {
		return nil, 0, r.mapError(ctx, "add", err, ideaID)
	}
	r.log.LogCreate(ctx, fav.ID, "user_id", userID, "idea_id", ideaID)
	return fav, likes, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, ideaID uint) (int64, error) {
	defer observability.TrackQuery("remove", "favorites")()

	var likes int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockIdea(tx, ideaID); err != nil {
			return err
		}
		if err := deleteFavorite(tx, userID, ideaID); err != nil {
			return err
		}
		var err error
		likes, err = currentLikes(tx, ideaID)
		return err
	})
	if err != nil {
		return 0, r.mapError(ctx, "remove", err, ideaID)
	}
	return likes, nil
}

// ListByUser returns the user's favorited ideas, most recently favorited first.
func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint) ([]models.FavoriteIdea, error) {
	defer observability.TrackQuery("list_by_user", "favorites")()

	var favs []models.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Idea.User").
		Order("created_at DESC, id DESC").
		Find(&favs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	out := make([]models.FavoriteIdea, 0, len(favs))
	for _, f := range favs {
		if f.Idea == nil {
			continue
		}
		idea := *f.Idea
		idea.Owner = idea.User.ToOwner()
		out = append(out, models.FavoriteIdea{Idea: idea, FavoritedAt: f.CreatedAt})
	}
	return out, nil
}

func (r *favoriteRepository) Exists(ctx context.Context, userID, ideaID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
