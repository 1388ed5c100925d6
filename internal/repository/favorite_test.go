package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"ideahub/internal/models"
	"ideahub/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func likesOf(t *testing.T, db *gorm.DB, ideaID uint) int64 {
	t.Helper()
	var idea models.Idea
	require.NoError(t, db.First(&idea, ideaID).Error)
	return idea.Likes
}

func TestFavoriteRepository_Toggle(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "dev", models.RoleDeveloper)
	user := testutil.CreateUser(t, db, "user", models.RoleRegular)
	idea := testutil.CreateIdea(t, db, owner, "X", "x")

	liked, likes, err := repo.Toggle(ctx, user.ID, idea.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, int64(1), likes)

	exists, err := repo.Exists(ctx, user.ID, idea.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	liked, likes, err = repo.Toggle(ctx, user.ID, idea.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, int64(0), likes)
	assert.Equal(t, int64(0), likesOf(t, db, idea.ID))

	_, _, err = repo.Toggle(ctx, user.ID, 9999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestFavoriteRepository_AddRemoveConflicts(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "dev", models.RoleDeveloper)
	user := testutil.CreateUser(t, db, "user", models.RoleRegular)
	idea := testutil.CreateIdea(t, db, owner, "X", "x")

	fav, likes, err := repo.Add(ctx, user.ID, idea.ID)
	require.NoError(t, err)
	assert.NotZero(t, fav.ID)
	assert.Equal(t, int64(1), likes)

	_, _, err = repo.Add(ctx, user.ID, idea.ID)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.Equal(t, int64(1), likesOf(t, db, idea.ID))

	likes, err = repo.Remove(ctx, user.ID, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)

	_, err = repo.Remove(ctx, user.ID, idea.ID)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	_, _, err = repo.Add(ctx, user.ID, 9999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	_, err = repo.Remove(ctx, user.ID, 9999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestFavoriteRepository_LikesNeverNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "dev", models.RoleDeveloper)
	user := testutil.CreateUser(t, db, "user", models.RoleRegular)
	idea := testutil.CreateIdea(t, db, owner, "X", "x")

	require.NoError(t, db.Create(&models.Favorite{UserID: user.ID, IdeaID: idea.ID}).Error)

	likes, err := repo.Remove(ctx, user.ID, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), likes)
}

func TestFavoriteRepository_ConcurrentAddsKeepCounterConsistent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "dev", models.RoleDeveloper)
	idea := testutil.CreateIdea(t, db, owner, "X", "x")

	const n = 8
	users := make([]*models.User, n)
	for i := range users {
		users[i] = testutil.CreateUser(t, db, "fan", models.RoleRegular)
	}

	var wg sync.WaitGroup
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, _, err := repo.Add(ctx, userID, idea.ID)
			assert.NoError(t, err)
		}(u.ID)
	}
	wg.Wait()

	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("idea_id = ?", idea.ID).Count(&rows).Error)
	assert.Equal(t, int64(n), rows)
	assert.Equal(t, rows, likesOf(t, db, idea.ID))
}

func TestFavoriteRepository_ListByUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewFavoriteRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "dev", models.RoleDeveloper)
	user := testutil.CreateUser(t, db, "user", models.RoleRegular)
	older := testutil.CreateIdea(t, db, owner, "Older", "x")
	newer := testutil.CreateIdea(t, db, owner, "Newer", "x")

	_, _, err := repo.Add(ctx, user.ID, older.ID)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, _, err = repo.Add(ctx, user.ID, newer.ID)
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
	assert.False(t, list[0].FavoritedAt.IsZero())
	require.NotNil(t, list[0].Owner)
	assert.Equal(t, owner.ID, list[0].Owner.ID)

	empty, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
