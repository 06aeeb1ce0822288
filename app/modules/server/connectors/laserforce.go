package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

// DefaultGamesLimit caps how many missions ListGames reads.
const DefaultGamesLimit = 1000

const laserforceGamesQuery = `
SELECT m.ref, m.start, COALESCE(mt.desc1, mt.desc0, mg."desc", '')
FROM mission m
LEFT JOIN missiongroup mg ON mg.ref = m."group"
LEFT JOIN missiontype mt ON mt.ref = m."type"
ORDER BY m.start DESC
LIMIT $1`

const laserforceRosterQuery = `
SELECT COALESCE(mat.colourteam, -1), mp.score, COALESCE(u."desc", ''),
       c.region::text || '-' || c.site::text || '-' || mb.id::text,
       COALESCE(mb.codename, ''), COALESCE(mp.team, 0), mp.ref
FROM missionplayer mp
LEFT JOIN unit u ON u.ref = mp.unit
LEFT JOIN member mb ON mb.ref = mp.member
LEFT JOIN centre c ON c.ref = mb.centre
LEFT JOIN mission m ON m.ref = mp.mission
LEFT JOIN missiontype mt ON mt.ref = m."type"
LEFT JOIN missionalignmentteam mat ON mat.alignment = mt.alignment AND mat.seq = mp.team
WHERE m.ref = $1 AND u.unittype = 0
ORDER BY mp.score DESC`

// querier is the part of *pgx.Conn the connector uses.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close(ctx context.Context) error
}

// LaserforceConnector reads missions from a Laserforce game database.
// Missions carry scores per player but no in-game events or time remaining.
type LaserforceConnector struct {
	GamesLimit int

	logger   *slog.Logger
	location *time.Location

	mu   sync.Mutex
	conn querier
}

// DialLaserforce connects to the Laserforce database at dsn. Mission times are
// stored as wall clock times and are read in loc.
func DialLaserforce(ctx context.Context, dsn string, loc *time.Location, logger *slog.Logger) (*LaserforceConnector, error) {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to laserforce server: %w", err)
	}
	return newLaserforceConnector(conn, loc, logger), nil
}

func newLaserforceConnector(conn querier, loc *time.Location, logger *slog.Logger) *LaserforceConnector {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LaserforceConnector{
		GamesLimit: DefaultGamesLimit,
		logger:     logger,
		location:   loc,
		conn:       conn,
	}
}

func (l *LaserforceConnector) connection() (querier, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil, ErrNotConnected
	}
	return l.conn, nil
}

// ListGames returns up to GamesLimit missions, most recent first.
func (l *LaserforceConnector) ListGames(ctx context.Context) ([]leaguedomain.ServerGame, error) {
	conn, err := l.connection()
	if err != nil {
		return nil, err
	}

	limit := l.GamesLimit
	if limit <= 0 {
		limit = DefaultGamesLimit
	}

	rows, err := conn.Query(ctx, laserforceGamesQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query missions: %w", err)
	}
	defer rows.Close()

	var games []leaguedomain.ServerGame
	for rows.Next() {
		var (
			id    int
			start time.Time
			desc  string
		)
		if err := rows.Scan(&id, &start, &desc); err != nil {
			return nil, fmt.Errorf("failed to read mission: %w", err)
		}
		games = append(games, leaguedomain.ServerGame{
			GameID:      id,
			Description: desc,
			Time:        l.wallClock(start),
			OnServer:    true,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read missions: %w", err)
	}

	l.logger.Debug("Listed laserforce missions", "count", len(games))
	return games, nil
}

// PopulateRoster reads the players of one mission, best score first.
func (l *LaserforceConnector) PopulateRoster(ctx context.Context, game *leaguedomain.ServerGame) error {
	conn, err := l.connection()
	if err != nil {
		return err
	}

	rows, err := conn.Query(ctx, laserforceRosterQuery, game.GameID)
	if err != nil {
		return fmt.Errorf("failed to query mission %d players: %w", game.GameID, err)
	}
	defer rows.Close()

	var players []*leaguedomain.ServerPlayer
	for rows.Next() {
		var (
			colourTeam int
			score      int
			pack       string
			playerID   *string
			alias      string
			team       int
			ref        int
		)
		if err := rows.Scan(&colourTeam, &score, &pack, &playerID, &alias, &team, &ref); err != nil {
			return fmt.Errorf("failed to read mission %d player: %w", game.GameID, err)
		}

		sp := &leaguedomain.ServerPlayer{
			GamePlayer: leaguedomain.GamePlayer{
				Score:  score,
				Pack:   pack,
				Colour: laserforceColour(colourTeam),
			},
			Alias:          alias,
			ServerPlayerID: ref,
			ServerTeamID:   team,
			PackName:       pack,
		}
		if playerID != nil {
			sp.PlayerID = leaguedomain.PlayerID(*playerID)
		} else {
			// Unregistered players have no member record; the pack is the best identity available.
			sp.PlayerID = leaguedomain.PlayerID("pack-" + pack)
		}
		players = append(players, sp)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read mission %d players: %w", game.GameID, err)
	}

	game.Players = players
	return nil
}

// Close closes the database connection. Closing twice is a no-op.
func (l *LaserforceConnector) Close() error {
	l.mu.Lock()
	conn := l.conn
	l.conn = nil
	l.mu.Unlock()

	if conn == nil {
		return nil
	}
	return conn.Close(context.Background())
}

// wallClock reinterprets a timestamp read without zone as a time in l.location.
func (l *LaserforceConnector) wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), l.location)
}

// laserforceColour maps the zero-based alignment colour to a Colour.
func laserforceColour(n int) leaguedomain.Colour {
	c := leaguedomain.Colour(n + 1)
	if n < 0 || !c.Valid() {
		return leaguedomain.ColourNone
	}
	return c
}

var _ Connector = (*LaserforceConnector)(nil)
