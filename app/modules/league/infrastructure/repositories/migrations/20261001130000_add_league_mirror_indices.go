package leaguemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding indices for league mirror tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_league_games_league_played ON league_games(league_id, played_at);
				CREATE INDEX IF NOT EXISTS idx_league_game_players_player ON league_game_players(player_id);
				CREATE INDEX IF NOT EXISTS idx_league_game_teams_league ON league_game_teams(league_id);
				CREATE INDEX IF NOT EXISTS idx_league_game_players_league ON league_game_players(league_id);
			`); err != nil {
				return fmt.Errorf("failed to add league mirror indices: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back league mirror indices...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP INDEX IF EXISTS idx_league_games_league_played;
				DROP INDEX IF EXISTS idx_league_game_players_player;
				DROP INDEX IF EXISTS idx_league_game_teams_league;
				DROP INDEX IF EXISTS idx_league_game_players_league;
			`); err != nil {
				return fmt.Errorf("failed to drop league mirror indices: %w", err)
			}
			return nil
		})
	})
}
