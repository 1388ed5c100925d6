//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("ideahub"),
		postgres.WithUsername("ideahub"),
		postgres.WithPassword("ideahub"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db
}

func TestRunMigrations_Postgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	m := NewMigrator(db)
	n, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(GetMigrations()), n)

	// Re-running is a no-op.
	n, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	applied, err := m.Applied(ctx)
	require.NoError(t, err)
	require.Len(t, applied, len(GetMigrations()))
	assert.Equal(t, GetMigrationByVersion(1).Checksum(), applied[0].Checksum)
	assert.Equal(t, GetMigrationByVersion(2).Checksum(), applied[1].Checksum)

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// The schema rejects negative counters.
	require.NoError(t, db.Exec(`INSERT INTO users (name, email, password) VALUES ('A', 'a@example.com', 'x')`).Error)
	err = db.Exec(`INSERT INTO ideas (title, description, owner_id, likes) VALUES ('t', 'd', 1, -1)`).Error
	assert.Error(t, err)

	// AutoMigrate on top of SQL migrations must not fail.
	require.NoError(t, AutoMigrate(ctx, db))

	// Severity stays on the 0-10 scale.
	err = db.Exec(`INSERT INTO problems (title, description, source, category, severity_score) VALUES ('p', 'd', 'g2', 'general', 11)`).Error
	assert.Error(t, err)

	require.NoError(t, m.Down(ctx, 2))
	assert.False(t, db.Migrator().HasTable("problems"))
	assert.True(t, db.Migrator().HasTable("ideas"))

	require.NoError(t, m.Down(ctx, 1))
	assert.False(t, db.Migrator().HasTable("ideas"))
	assert.Error(t, m.Down(ctx, 1))
}

func TestSchemaConstraints_Postgres(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	_, err := NewMigrator(db).Up(ctx)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`INSERT INTO users (name, email, password, role) VALUES ('Dev', 'dev@example.com', 'x', 'DEVELOPER')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO users (name, email, password) VALUES ('Reg', 'reg@example.com', 'x')`).Error)

	err = db.Exec(`INSERT INTO users (name, email, password) VALUES ('Dup', 'dev@example.com', 'x')`).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = db.Exec(`INSERT INTO users (name, email, password, role) VALUES ('Bad', 'bad@example.com', 'x', 'ADMIN')`).Error
	assert.Error(t, err)

	require.NoError(t, db.Exec(`INSERT INTO ideas (title, description, owner_id) VALUES ('Idea', 'Desc', 1)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO favorites (user_id, idea_id) VALUES (2, 1)`).Error)

	err = db.Exec(`INSERT INTO favorites (user_id, idea_id) VALUES (2, 1)`).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var screenshots string
	require.NoError(t, db.Raw(`SELECT screenshots::text FROM ideas WHERE id = 1`).Scan(&screenshots).Error)
	assert.Equal(t, "[]", screenshots)

	// Deleting the owner removes their ideas and every favorite pointing at them.
	require.NoError(t, db.Exec(`DELETE FROM users WHERE id = 1`).Error)

	var ideas, favorites int64
	require.NoError(t, db.Table("ideas").Count(&ideas).Error)
	require.NoError(t, db.Table("favorites").Count(&favorites).Error)
	assert.Zero(t, ideas)
	assert.Zero(t, favorites)
}
