package migrate

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
)

const (
	createKVVersion = 20261001120000
	indexKVVersion  = 20261001120500
)

func memoryDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestDialectFor(t *testing.T) {
	for driver, want := range map[string]goose.Dialect{
		"":         goose.DialectPostgres,
		"postgres": goose.DialectPostgres,
		"SQLite":   goose.DialectSQLite3,
		"sqlite3":  goose.DialectSQLite3,
	} {
		got, err := DialectFor(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, got, driver)
	}
	_, err := DialectFor("mysql")
	assert.Error(t, err)
}

func TestMigratorUpStatusAndTo(t *testing.T) {
	ctx := context.Background()
	sqlDB := memoryDB(t)
	m, err := New(sqlDB, "sqlite", Embedded(), nil)
	require.NoError(t, err)

	require.NoError(t, m.Up(ctx))
	_, err = sqlDB.Exec(`INSERT INTO kv_entries (entry_key, value) VALUES ('products', '[]')`)
	require.NoError(t, err)

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 2)
	for _, s := range status {
		assert.Equal(t, goose.StateApplied, s.State, s.Source.Path)
	}

	require.NoError(t, m.To(ctx, "20261001120000"))
	status, err = m.Status(ctx)
	require.NoError(t, err)
	states := map[int64]goose.State{}
	for _, s := range status {
		states[s.Source.Version] = s.State
	}
	assert.Equal(t, goose.StateApplied, states[createKVVersion])
	assert.Equal(t, goose.StatePending, states[indexKVVersion])

	assert.Error(t, m.To(ctx, "yesterday"))
}

func TestMaybeRunDev(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		Store:        config.StoreConfig{Backend: config.StoreBackendSQL},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	require.NoError(t, MaybeRunDev(ctx, cfg, nil, client))

	var count int
	require.NoError(t, client.DB().Raw(`SELECT COUNT(*) FROM kv_entries`).Scan(&count).Error)
	assert.Zero(t, count)
}

func TestShouldAutoRun(t *testing.T) {
	base := config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		Store:        config.StoreConfig{Backend: config.StoreBackendSQL},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	assert.True(t, shouldAutoRun(&base))

	prod := base
	prod.App.Env = config.AppEnvProd
	assert.False(t, shouldAutoRun(&prod))

	memory := base
	memory.Store.Backend = config.StoreBackendMemory
	assert.False(t, shouldAutoRun(&memory))

	optedOut := base
	optedOut.FeatureFlags.AutoMigrate = false
	assert.False(t, shouldAutoRun(&optedOut))
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Wishlist Index!")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{14}_add_wishlist_index\.sql$`, filepath.Base(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "postgres and sqlite")
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	require.NoError(t, ValidateEmbedded())
	require.NoError(t, ValidateDir("migrations"))

	bad := fstest.MapFS{
		"20260101000000_first.sql":  {Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20260101000000_second.sql": {Data: []byte("-- +goose Up\n")},
		"Bad Name.sql":              {Data: []byte("")},
		"README.md":                 {Data: []byte("ignored")},
	}
	err := ValidateFS(bad, ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used by")
	assert.Contains(t, err.Error(), `missing "-- +goose Down"`)
	assert.Contains(t, err.Error(), "Bad Name.sql")
}

func TestOpenSQLiteRunsEmbeddedMigrations(t *testing.T) {
	ctx := context.Background()
	conn, err := Open(ctx, config.DBConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	assert.Equal(t, db.DriverSQLite, conn.Driver)

	migrator, err := New(conn.DB, conn.Driver, Embedded(), nil)
	require.NoError(t, err)
	require.NoError(t, migrator.Up(ctx))

	var name string
	require.NoError(t, conn.DB.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'kv_entries'`).Scan(&name))
	assert.Equal(t, "kv_entries", name)
}

func TestOpenRejectsBadTargets(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, config.DBConfig{Driver: "postgres"}, nil)
	assert.Error(t, err, "empty dsn")

	_, err = Open(ctx, config.DBConfig{Driver: "postgres", DSN: "postgres://%zz"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres")

	var nilConn *Conn
	assert.NoError(t, nilConn.Close())
}
