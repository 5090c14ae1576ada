package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/field-insights/internal/config"
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, files)
}

func TestMigrationFilesMissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	err := RunMigrations(context.Background(), nil, "does-not-matter", zaptest.NewLogger(t))
	assert.NoError(t, err)
}

func TestApplyPoolLimits(t *testing.T) {
	poolCfg, err := pgxpool.ParseConfig("postgres://u:p@localhost:5432/db")
	require.NoError(t, err)

	applyPoolLimits(poolCfg, config.PostgresConfig{MaxConns: 7, MinConns: 2, ConnMaxIdleSec: 5, ConnMaxLifeSec: 60})

	assert.EqualValues(t, 7, poolCfg.MaxConns)
	assert.EqualValues(t, 2, poolCfg.MinConns)
	assert.Equal(t, 5*time.Second, poolCfg.MaxConnIdleTime)
	assert.Equal(t, time.Minute, poolCfg.MaxConnLifetime)
}
