package service

import (
	"context"

	"ideahub/internal/cache"
	"ideahub/internal/models"
	"ideahub/internal/observability"
	"ideahub/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// InteractionService manages the like/favorite relation between users and
// ideas. Liking and favoriting are the same row.
type InteractionService struct {
	favorites repository.FavoriteRepository
}

// ToggleResult is the relation state after a toggle.
type ToggleResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// FavoriteResult is a newly created favorite and the idea's like count.
type FavoriteResult struct {
	Favorite *models.Favorite
	Likes    int64
}

func NewInteractionService(favorites repository.FavoriteRepository) *InteractionService {
	return &InteractionService{favorites: favorites}
}

func interactionSpan(ctx context.Context, op string, userID, ideaID uint) (context.Context, *observability.Span) {
	return observability.StartSpan(ctx, "service", op,
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("idea.id", int64(ideaID)),
	)
}

// ToggleLike flips the caller's like on an idea.
func (s *InteractionService) ToggleLike(ctx context.Context, userID, ideaID uint) (res ToggleResult, err error) {
	ctx, span := interactionSpan(ctx, "ToggleLike", userID, ideaID)
	defer func() { span.Finish(err) }()

	liked, likes, err := s.favorites.Toggle(ctx, userID, ideaID)
	if err != nil {
		return ToggleResult{}, err
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	observability.FavoriteChanges.WithLabelValues(action).Inc()
	cache.BumpIdeasListVersion(ctx)
	return ToggleResult{Liked: liked, Likes: likes}, nil
}

// AddFavorite favorites an idea. It fails with Conflict when the caller
// already has.
func (s *InteractionService) AddFavorite(ctx context.Context, userID, ideaID uint) (res *FavoriteResult, err error) {
	ctx, span := interactionSpan(ctx, "AddFavorite", userID, ideaID)
	defer func() { span.Finish(err) }()

	fav, likes, err := s.favorites.Add(ctx, userID, ideaID)
	if err != nil {
		return nil, err
	}

	observability.FavoriteChanges.WithLabelValues("add").Inc()
	cache.BumpIdeasListVersion(ctx)
	return &FavoriteResult{Favorite: fav, Likes: likes}, nil
}

// RemoveFavorite drops the caller's favorite and returns the new like count.
func (s *InteractionService) RemoveFavorite(ctx context.Context, userID, ideaID uint) (likes int64, err error) {
	ctx, span := interactionSpan(ctx, "RemoveFavorite", userID, ideaID)
	defer func() { span.Finish(err) }()

	likes, err = s.favorites.Remove(ctx, userID, ideaID)
	if err != nil {
		return 0, err
	}

	observability.FavoriteChanges.WithLabelValues("remove").Inc()
	cache.BumpIdeasListVersion(ctx)
	return likes, nil
}

func (s *InteractionService) ListFavorites(ctx context.Context, userID uint) ([]models.FavoriteIdea, error) {
	return s.favorites.ListByUser(ctx, userID)
}

func (s *InteractionService) IsFavorited(ctx context.Context, userID, ideaID uint) (bool, error) {
	return s.favorites.Exists(ctx, userID, ideaID)
}
