package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"ideahub/internal/config"
	"ideahub/internal/database"
	"ideahub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRuntime_SQLiteWithDemoData(t *testing.T) {
	cfg := &config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "ideahub.db"),
		DBSchemaMode: database.SchemaModeAuto,
	}

	rt, err := InitRuntime(context.Background(), cfg, Options{SeedDemoData: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = rt.ShutdownTracing(context.Background())
		_ = database.Close(rt.DB)
	})

	assert.Nil(t, rt.Redis)

	var ideas int64
	require.NoError(t, rt.DB.Model(&models.Idea{}).Count(&ideas).Error)
	assert.EqualValues(t, 8, ideas)
}
