package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

func TestNewOpensSQLite(t *testing.T) {
	ctx := context.Background()
	client, err := New(ctx, config.DBConfig{Driver: "SQLite", DSN: ":memory:", MaxOpenConns: 1}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.Equal(t, DriverSQLite, client.Driver())
	require.NoError(t, client.Ping(ctx))

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{Driver: "sqlite"}, nil)
	assert.Error(t, err, "dsn is required")

	_, err = New(context.Background(), config.DBConfig{Driver: "mysql", DSN: "root@/shop"}, nil)
	assert.ErrorContains(t, err, `unsupported driver "mysql"`)
}

func TestDriver(t *testing.T) {
	assert.Equal(t, DriverPostgres, Driver(""))
	assert.Equal(t, DriverPostgres, Driver(" Postgres "))
	assert.Equal(t, DriverSQLite, Driver("sqlite"))

	d, err := dialectorFor(DriverPostgres, "postgres://localhost/marketplace")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}

func TestQueryLoggerReportsSlowAndFailedStatements(t *testing.T) {
	buf := &bytes.Buffer{}
	q := newQueryLogger(logger.New(logger.Options{ServiceName: "test", Output: buf}), 50*time.Millisecond)
	ctx := context.Background()
	stmt := func() (string, int64) { return `SELECT value FROM kv_entries WHERE entry_key = 'cart'`, 0 }

	q.Trace(ctx, time.Now(), stmt, nil)
	assert.Zero(t, buf.Len(), "fast successful statements are not logged")

	q.Trace(ctx, time.Now(), stmt, gorm.ErrRecordNotFound)
	assert.Zero(t, buf.Len(), "missing rows are not failures")

	q.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	assert.Contains(t, buf.String(), "db.query_slow")

	buf.Reset()
	q.Trace(ctx, time.Now(), stmt, errors.New("database is locked"))
	assert.Contains(t, buf.String(), "db.query_failed")
	assert.Contains(t, buf.String(), "kv_entries")

	buf.Reset()
	q.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), stmt, errors.New("ignored"))
	assert.Zero(t, buf.Len())
}
