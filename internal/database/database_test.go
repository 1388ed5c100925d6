package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"ideahub/internal/config"
	"ideahub/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                      "test",
		DBDriver:                 "sqlite",
		DBSQLitePath:             filepath.Join(t.TempDir(), "ideahub.db"),
		DBSchemaMode:             SchemaModeHybrid,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
}

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBDriver:                 "postgres",
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)

	cfg.DBDriver = "sqlite"
	require.NoError(t, configurePool(db, cfg))
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on&_busy_timeout=5000", SQLiteDSN("app.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on&_busy_timeout=5000", SQLiteDSN("file:x?mode=memory"))
}

func TestSQLiteDialector_LowerFoldsUnicode(t *testing.T) {
	db, err := gorm.Open(SQLiteDialector(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	var got struct {
		Word  string
		Empty *string
	}
	require.NoError(t, db.Raw("SELECT LOWER('ÜBER Café') AS word, LOWER(NULL) AS empty").Scan(&got).Error)
	assert.Equal(t, "über café", got.Word)
	assert.Nil(t, got.Empty)
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.Config
		wantSQL     bool
		wantAuto    bool
		expectError bool
	}{
		{"hybrid development", config.Config{Env: "development", DBSchemaMode: "hybrid"}, true, true, false},
		{"hybrid production", config.Config{Env: "production", DBSchemaMode: "hybrid"}, true, false, false},
		{"empty mode defaults to hybrid", config.Config{Env: "staging"}, true, false, false},
		{"sql only", config.Config{Env: "development", DBSchemaMode: "SQL"}, true, false, false},
		{"auto in production refused", config.Config{Env: "prod", DBSchemaMode: "auto"}, false, false, true},
		{"auto in production allowed", config.Config{Env: "prod", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"sqlite always auto", config.Config{Env: "development", DBDriver: "sqlite", DBSchemaMode: "sql"}, false, true, false},
		{"unknown mode", config.Config{Env: "development", DBSchemaMode: "magic"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := planSchema(&tt.cfg)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, plan.SQL)
			assert.Equal(t, tt.wantAuto, plan.AutoMigrate)
		})
	}
}

func TestLoadMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000002_second.up.sql":   {Data: []byte("SELECT 2;")},
		"migrations/000002_second.down.sql": {Data: []byte("SELECT -2;")},
		"migrations/000001_first.up.sql":    {Data: []byte("SELECT 1;")},
		"migrations/000001_first.down.sql":  {Data: []byte("SELECT -1;")},
	}

	got, err := LoadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Version)
	assert.Equal(t, "first", got[0].Name)
	assert.Equal(t, "000002_second", got[1].String())
	assert.Equal(t, "SELECT -2;", got[1].DownScript)
}

func TestLoadMigrations_Errors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"missing down", fstest.MapFS{"migrations/000001_first.up.sql": {Data: []byte("SELECT 1;")}}},
		{"bad version", fstest.MapFS{
			"migrations/abc_first.up.sql":   {Data: []byte("SELECT 1;")},
			"migrations/abc_first.down.sql": {Data: []byte("SELECT 1;")},
		}},
		{"no name", fstest.MapFS{"migrations/000001.up.sql": {Data: []byte("SELECT 1;")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMigrations(tt.fsys)
			assert.Error(t, err)
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	all := GetMigrations()
	require.NotEmpty(t, all)
	assert.Equal(t, 1, all[0].Version)
	assert.Contains(t, all[0].UpScript, "CREATE TABLE IF NOT EXISTS favorites")
	assert.NotNil(t, GetMigrationByVersion(1))
	assert.Nil(t, GetMigrationByVersion(999999))
}

func TestCheckHistory(t *testing.T) {
	registered := []Migration{
		{Version: 1, Name: "init", UpScript: "CREATE TABLE a (id INT);"},
		{Version: 2, Name: "more", UpScript: "CREATE TABLE b (id INT);"},
	}
	logs := func(versions ...int) []MigrationLog {
		out := make([]MigrationLog, 0, len(versions))
		for _, v := range versions {
			out = append(out, MigrationLog{Version: v, Checksum: registered[0].Checksum()})
		}
		return out
	}

	assert.NoError(t, checkHistory(nil, registered))
	assert.NoError(t, checkHistory(logs(1), registered))
	// Rows written before checksums were recorded are accepted.
	assert.NoError(t, checkHistory([]MigrationLog{{Version: 2}}, registered))

	err := checkHistory(logs(1, 7), registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")

	err = checkHistory(logs(1, 2), registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002_more")
}

func TestConnectWithOptions_SQLiteAppliesSchema(t *testing.T) {
	cfg := sqliteConfig(t)

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, table := range []string{"users", "ideas", "favorites"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("favorites", "idx_favorites_user_idea"))
	require.NoError(t, Ping(context.Background(), db))

	status, err := GetSchemaStatus(context.Background(), db, cfg)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Driver)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
}

func TestConnectWithOptions_SkipsSchema(t *testing.T) {
	db, err := ConnectWithOptions(sqliteConfig(t), ConnectOptions{ApplySchema: false})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.False(t, db.Migrator().HasTable("ideas"))
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(middleware.Logger)
	silent := l.LogMode(logger.Silent).(*CustomGormLogger)

	assert.Equal(t, logger.Silent, silent.Config.LogLevel)
	assert.Equal(t, logger.Warn, l.Config.LogLevel)
	assert.Equal(t, 200*time.Millisecond, l.Config.SlowThreshold)

	// Silent mode must not invoke the SQL callback.
	called := false
	silent.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "", 0
	}, nil)
	assert.False(t, called)
}
