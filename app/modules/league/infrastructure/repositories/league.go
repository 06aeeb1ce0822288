package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl is the bun-backed Repository.
type Impl struct {
	db *bun.DB
}

// NewRepository returns a Repository using db for calls made without a transaction.
func NewRepository(db *bun.DB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

// childModels lists every table keyed by league_id, children first.
var childModels = []any{
	(*Standing)(nil),
	(*GamePlayer)(nil),
	(*GameTeam)(nil),
	(*Game)(nil),
	(*Player)(nil),
	(*Team)(nil),
}

// SyncLeague upserts the league row, then deletes and re-inserts all of its children.
// Run it inside a transaction to make the replacement atomic.
func (r *Impl) SyncLeague(ctx context.Context, db bun.IDB, snapshot *Snapshot) error {
	if db == nil {
		db = r.db
	}

	league := snapshot.League
	_, err := db.NewInsert().
		Model(&league).
		On("CONFLICT (title) DO UPDATE").
		Set("handicap_style = EXCLUDED.handicap_style").
		Set("source_path = EXCLUDED.source_path").
		Set("synced_at = current_timestamp").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: upsert league: %w", err)
	}
	snapshot.setLeagueID(league.ID)

	if err := deleteChildren(ctx, db, league.ID); err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: %w", err)
	}

	if err := insertRows(ctx, db, &snapshot.Teams, len(snapshot.Teams)); err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: insert teams: %w", err)
	}
	if err := insertRows(ctx, db, &snapshot.Players, len(snapshot.Players)); err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: insert players: %w", err)
	}
	if err := insertRows(ctx, db, &snapshot.Games, len(snapshot.Games)); err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: insert games: %w", err)
	}
	if err := insertRows(ctx, db, &snapshot.GameTeams, len(snapshot.GameTeams)); err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: insert game teams: %w", err)
	}
	if err := insertRows(ctx, db, &snapshot.GamePlayers, len(snapshot.GamePlayers)); err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: insert game players: %w", err)
	}
	if err := insertRows(ctx, db, &snapshot.Standings, len(snapshot.Standings)); err != nil {
		return fmt.Errorf("leaguedb.SyncLeague: insert standings: %w", err)
	}
	return nil
}

func deleteChildren(ctx context.Context, db bun.IDB, leagueID int64) error {
	for _, model := range childModels {
		if _, err := db.NewDelete().Model(model).Where("league_id = ?", leagueID).Exec(ctx); err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// insertRows bulk inserts a slice of models; empty slices are skipped since
// bun rejects an empty bulk insert.
func insertRows(ctx context.Context, db bun.IDB, rows any, n int) error {
	if n == 0 {
		return nil
	}
	_, err := db.NewInsert().Model(rows).Exec(ctx)
	return err
}

// GetLeague returns the mirrored league row for title.
func (r *Impl) GetLeague(ctx context.Context, db bun.IDB, title string) (*League, error) {
	if db == nil {
		db = r.db
	}
	league := new(League)
	err := db.NewSelect().
		Model(league).
		Where("title = ?", title).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leaguedb.GetLeague: %w", err)
	}
	return league, nil
}

// GetStandings returns the mirrored standings for title, best first.
func (r *Impl) GetStandings(ctx context.Context, db bun.IDB, title string) ([]Standing, error) {
	if db == nil {
		db = r.db
	}
	league, err := r.GetLeague(ctx, db, title)
	if err != nil {
		return nil, err
	}

	var standings []Standing
	err = db.NewSelect().
		Model(&standings).
		Where("league_id = ?", league.ID).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaguedb.GetStandings: %w", err)
	}
	return standings, nil
}

// GetGames returns the mirrored games for title in chronological order.
func (r *Impl) GetGames(ctx context.Context, db bun.IDB, title string, includeSecret bool) ([]Game, error) {
	if db == nil {
		db = r.db
	}
	league, err := r.GetLeague(ctx, db, title)
	if err != nil {
		return nil, err
	}

	var games []Game
	q := db.NewSelect().
		Model(&games).
		Where("league_id = ?", league.ID).
		Order("played_at ASC")
	if !includeSecret {
		q = q.Where("secret = FALSE")
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("leaguedb.GetGames: %w", err)
	}
	return games, nil
}

// DeleteLeague removes a mirrored league and all of its rows.
func (r *Impl) DeleteLeague(ctx context.Context, db bun.IDB, title string) error {
	if db == nil {
		db = r.db
	}
	league, err := r.GetLeague(ctx, db, title)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNoRowsAffected
		}
		return err
	}

	if err := deleteChildren(ctx, db, league.ID); err != nil {
		return fmt.Errorf("leaguedb.DeleteLeague: %w", err)
	}
	res, err := db.NewDelete().Model((*League)(nil)).Where("id = ?", league.ID).Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaguedb.DeleteLeague: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
