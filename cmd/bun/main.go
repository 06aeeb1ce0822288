package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Black-And-White-Club/torn-league/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	leaguemigrations "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories/migrations"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("postgres.dsn (or DATABASE_URL) is required to manage the league mirror")
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	db := bun.NewDB(pgdb, pgdialect.New())
	defer db.Close()

	cliApp := &cli.App{
		Name:  "torn-mirror",
		Usage: "manage the Postgres schema that mirrors league files",
		Commands: []*cli.Command{
			newMirrorSchemaCommand(migrate.NewMigrator(db, leaguemigrations.Migrations), os.Stdout),
		},
	}

	if err := cliApp.Run(append([]string{os.Args[0]}, flag.Args()...)); err != nil {
		log.Fatal(err)
	}
}

// newMirrorSchemaCommand wires the mirror migrations to "schema" subcommands.
func newMirrorSchemaCommand(migrator *migrate.Migrator, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "schema",
		Usage: "league mirror schema",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the migration bookkeeping tables",
				Action: func(c *cli.Context) error {
					if err := migrator.Init(c.Context); err != nil {
						return fmt.Errorf("failed to prepare league mirror: %w", err)
					}
					fmt.Fprintln(out, "League mirror bookkeeping ready")
					return nil
				},
			},
			{
				Name:  "up",
				Usage: "create or upgrade the league, team, player, game and standings tables",
				Action: func(c *cli.Context) error {
					group, err := migrator.Migrate(c.Context)
					if err != nil {
						return fmt.Errorf("failed to upgrade league mirror: %w", err)
					}
					fmt.Fprintln(out, describeGroup("upgraded", group))
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "undo the last mirror upgrade",
				Action: func(c *cli.Context) error {
					group, err := migrator.Rollback(c.Context)
					if err != nil {
						return fmt.Errorf("failed to roll back league mirror: %w", err)
					}
					fmt.Fprintln(out, describeGroup("rolled back", group))
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "scaffold a new SQL migration for the mirror",
				ArgsUsage: "<words describing the change>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return fmt.Errorf("a migration name is required")
					}
					files, err := migrator.CreateSQLMigrations(c.Context, strings.Join(c.Args().Slice(), "_"))
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Fprintf(out, "Created %s (%s)\n", mf.Name, mf.Path)
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "show which mirror migrations are applied",
				Action: func(c *cli.Context) error {
					ms, err := migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return fmt.Errorf("failed to read league mirror status: %w", err)
					}
					writeStatus(out, ms)
					return nil
				},
			},
		},
	}
}

func describeGroup(verb string, group *migrate.MigrationGroup) string {
	if group == nil || group.IsZero() {
		return "League mirror already up to date"
	}
	return fmt.Sprintf("League mirror %s: %s", verb, group)
}

// writeStatus lists every mirror migration with an applied/pending marker.
func writeStatus(out io.Writer, ms migrate.MigrationSlice) {
	applied := len(ms.Applied())
	fmt.Fprintf(out, "League mirror schema: %d of %d migrations applied\n", applied, len(ms))
	for _, m := range ms {
		state := "pending"
		if m.IsApplied() {
			state = fmt.Sprintf("applied (group %d)", m.GroupID)
		}
		fmt.Fprintf(out, "  %s  %s\n", m.Name, state)
	}
}
