package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// registers the "postgres" database/sql driver
	_ "github.com/lib/pq"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// Conn is the pool a migration run uses.
type Conn struct {
	DB     *sql.DB
	Driver string
	close  func() error
}

func (c *Conn) Close() error {
	if c == nil || c.close == nil {
		return nil
	}
	return c.close()
}

// Open gives cmd/migrate its pool. Postgres goes through lib/pq outside gorm's pgx pool; sqlite
// goes through the gorm client.
func Open(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Conn, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("migrate: dsn required")
	}
	driver := db.Driver(cfg.Driver)
	if driver == db.DriverPostgres {
		sqlDB, err := openPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return &Conn{DB: sqlDB, Driver: driver, close: sqlDB.Close}, nil
	}

	client, err := db.New(ctx, cfg, logg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := client.SQL()
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Conn{DB: sqlDB, Driver: client.Driver(), close: client.Close}, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("migrate: open postgres: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: ping postgres: %w", err)
	}
	return sqlDB, nil
}
