package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Black-And-White-Club/torn-league/config"
	"github.com/Black-And-White-Club/torn-league/db/bundb"
	"github.com/Black-And-White-Club/torn-league/integration_tests/containers"
)

// TestEnvironment holds the resources shared by one integration test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	ConnStr       string
	DB            *bun.DB
	DBService     *bundb.DBService
	Config        *config.Config
}

// NewTestEnvironment starts Postgres, runs the league migrations and opens a bun connection.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pgContainer, connStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	db := bundb.BunDB(sqlDB)

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		PgContainer:   pgContainer,
		ConnStr:       connStr,
		DB:            db,
		DBService:     bundb.NewTestDBService(db),
		Config: &config.Config{
			Postgres: config.PostgresConfig{DSN: connStr},
			Server:   config.ServerConfig{Kind: "laserforce", DSN: connStr},
		},
	}, nil
}

// Cleanup closes the connection and terminates the container.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(context.Background()); err != nil {
			log.Printf("Error terminating postgres container: %v", err)
		}
	}
	env.CancelContext()
}
