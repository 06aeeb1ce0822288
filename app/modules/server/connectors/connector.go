// Package connectors talks to laser game servers: it lists the games a server
// holds and fetches the player results for one of them.
package connectors

//go:generate mockgen -source=connector.go -destination=mocks/mock_connector.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
	"github.com/Black-And-White-Club/torn-league/config"
)

var (
	// ErrUnknownConnector is returned for a server kind with no implementation.
	ErrUnknownConnector = errors.New("unknown server kind")
	// ErrNotConnected is returned when a connector is used after Close.
	ErrNotConnected = errors.New("server not connected")
)

// Connector is a laser game server.
type Connector interface {
	// ListGames returns the games held on the server, most recent first.
	ListGames(ctx context.Context) ([]leaguedomain.ServerGame, error)
	// PopulateRoster replaces game.Players with the players of that game.
	PopulateRoster(ctx context.Context, game *leaguedomain.ServerGame) error
	// Close releases the server connection.
	Close() error
}

// NewConnector builds the connector selected by cfg.Kind.
func NewConnector(ctx context.Context, cfg config.ServerConfig, loc *time.Location, logger *slog.Logger) (Connector, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "demo":
		return NewDemoConnector(nil), nil
	case "laserforce":
		c, err := DialLaserforce(ctx, cfg.DSN, loc, logger)
		if err != nil {
			return nil, err
		}
		if cfg.GamesLimit > 0 {
			c.GamesLimit = cfg.GamesLimit
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConnector, cfg.Kind)
	}
}

// RostersByServerTeam fetches a game's players when needed and splits them into
// one roster per server team.
func RostersByServerTeam(ctx context.Context, c Connector, game *leaguedomain.ServerGame) ([]leaguedomain.TeamRoster, error) {
	if len(game.Players) == 0 {
		if err := c.PopulateRoster(ctx, game); err != nil {
			return nil, fmt.Errorf("failed to populate game %d: %w", game.GameID, err)
		}
	}
	return leaguedomain.RostersFromServerGame(game), nil
}
