package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	leaguemigrations "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories/migrations"
)

// RunMigrations applies the league mirror migrations.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, leaguemigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run league migrations: %w", err)
	}
	if group.IsZero() {
		log.Println("No league migrations to run")
	} else {
		log.Printf("Ran league migrations group #%d", group.ID)
	}
	return nil
}

// Mirror tables, children first.
var leagueTables = []string{
	"league_standings",
	"league_game_players",
	"league_game_teams",
	"league_games",
	"league_players",
	"league_teams",
	"leagues",
}

// CleanLeagueTables truncates every mirror table.
func CleanLeagueTables(ctx context.Context, db *bun.DB) error {
	return TruncateTables(ctx, db, leagueTables...)
}

// TruncateTables truncates the specified tables
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}

	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}
