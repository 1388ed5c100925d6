// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"ideahub/internal/cache"
	"ideahub/internal/database"
	"ideahub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DemoPassword is the plaintext password of users created by CreateUser.
const DemoPassword = "Demo123!"

// NewTestDB returns an isolated in-memory SQLite database with the full schema.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := database.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	db, err := gorm.Open(database.SQLiteDialector(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// NewTestRedis starts a miniredis server and installs a client for it as the
// cache client for the duration of the test.
func NewTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)

	cache.SetClient(client)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = client.Close()
	})
	return mr, client
}

// CreateUser inserts a public user with DemoPassword.
func CreateUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		Name:     name,
		Email:    strings.ToLower(fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])),
		Password: string(hash),
		Role:     role,
		IsPublic: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateIdea inserts an idea owned by owner.
func CreateIdea(t *testing.T, db *gorm.DB, owner *models.User, title, description string) *models.Idea {
	t.Helper()

	idea := &models.Idea{
		Title:       title,
		Description: description,
		Screenshots: []string{},
		OwnerID:     owner.ID,
	}
	require.NoError(t, db.Create(idea).Error)
	return idea
}

// CreateProblem inserts a catalog problem.
func CreateProblem(t *testing.T, db *gorm.DB, p models.Problem) *models.Problem {
	t.Helper()

	if p.Source == "" {
		p.Source = "reddit"
	}
	if p.Category == "" {
		p.Category = "general"
	}
	if p.Description == "" {
		p.Description = p.Title
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}
