// Package bundb opens the Postgres connection backing the league reporting mirror.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	leaguedb "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/torn-league/config"
)

// DBService holds the mirror repository and its connection pool.
type DBService struct {
	LeagueDB *leaguedb.Impl
	db       *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close closes the connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService connects to Postgres with the given configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("failed to connect to database: empty DSN")
	}

	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := BunDB(sqldb)
	logger.Info("Connected to league mirror database")

	return &DBService{
		LeagueDB: leaguedb.NewRepository(db),
		db:       db,
	}, nil
}

// BunDB returns a new bun.DB for given sql.DB connection pool.
func BunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

// NewTestDBService wraps an already open connection, as integration tests do.
func NewTestDBService(db *bun.DB) *DBService {
	return &DBService{
		LeagueDB: leaguedb.NewRepository(db),
		db:       db,
	}
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
