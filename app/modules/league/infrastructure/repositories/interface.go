package leaguedb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository mirrors league documents into Postgres for reporting.
// Every method accepts an optional bun.IDB so callers can run it inside a
// transaction; a nil db uses the repository's own connection.
//
// Error semantics:
//   - ErrNotFound: no league with that title is mirrored
//   - ErrNoRowsAffected: DELETE matched no rows
//   - Other errors: infrastructure failures
type Repository interface {
	// SyncLeague replaces every mirrored row of the snapshot's league.
	SyncLeague(ctx context.Context, db bun.IDB, snapshot *Snapshot) error

	// GetLeague returns the mirrored league row for title.
	GetLeague(ctx context.Context, db bun.IDB, title string) (*League, error)

	// GetStandings returns the mirrored standings for title, best first.
	GetStandings(ctx context.Context, db bun.IDB, title string) ([]Standing, error)

	// GetGames returns the mirrored games for title in chronological order.
	GetGames(ctx context.Context, db bun.IDB, title string, includeSecret bool) ([]Game, error)

	// DeleteLeague removes a mirrored league and all of its rows.
	DeleteLeague(ctx context.Context, db bun.IDB, title string) error
}
