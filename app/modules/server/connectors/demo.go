package connectors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

var (
	demoAdjectives = []string{"Actual ", "Battle ", "Cyber ", "Dark ", "Delta ", "Elite ", "Inter ", "Laser ", "Mega ", "Phasor ", "Super ", "Ultra ", "Vector ", "Zone "}
	demoNouns      = []string{"Ace", "Blaster", "Blazer", "Chaser", "Crystal", "Dueller", "Max", "Rogue", "Runner", "Shark", "Star", "Stunner", "Trekker", "Warrior"}
)

const (
	demoGames       = 10
	demoPlayers     = 10
	demoGameSpacing = 15 * time.Minute
	demoGameLength  = 12 * time.Minute
)

// DemoConnector is an in-memory server producing repeatable fake games.
type DemoConnector struct {
	now func() time.Time

	mu     sync.Mutex
	closed bool
}

// NewDemoConnector returns a demo server. A nil now uses the wall clock.
func NewDemoConnector(now func() time.Time) *DemoConnector {
	if now == nil {
		now = time.Now
	}
	return &DemoConnector{now: now}
}

// ListGames returns ten games fifteen minutes apart, the last one starting a
// quarter hour before now. Times are aligned to the quarter hour so repeated
// calls within the same quarter agree.
func (d *DemoConnector) ListGames(ctx context.Context) ([]leaguedomain.ServerGame, error) {
	if err := d.check(ctx); err != nil {
		return nil, err
	}

	anchor := d.now().Truncate(demoGameSpacing)
	games := make([]leaguedomain.ServerGame, 0, demoGames)
	for i := demoGames - 1; i >= 0; i-- {
		start := anchor.Add(time.Duration(i-demoGames) * demoGameSpacing)
		games = append(games, leaguedomain.ServerGame{
			GameID:      i,
			Description: "Demo Game",
			Time:        start,
			EndTime:     start.Add(demoGameLength),
			OnServer:    true,
		})
	}
	return games, nil
}

// PopulateRoster fills in ten players. The roster depends only on the game id.
func (d *DemoConnector) PopulateRoster(ctx context.Context, game *leaguedomain.ServerGame) error {
	if err := d.check(ctx); err != nil {
		return err
	}

	f := gofakeit.New(uint64(game.GameID) + 1)
	game.Players = make([]*leaguedomain.ServerPlayer, 0, demoPlayers)
	for i := range demoPlayers {
		colour := leaguedomain.Colour(f.Number(int(leaguedomain.ColourRed), int(leaguedomain.ColourOrange)))
		score := f.Number(-100, 999)*10 + f.Number(0, 2)*2001
		pack := fmt.Sprintf("Pack%02d", f.Number(1, 29))
		x := f.Number(0, len(demoAdjectives)-1)
		y := f.Number(0, len(demoNouns)-1)

		game.Players = append(game.Players, &leaguedomain.ServerPlayer{
			GamePlayer: leaguedomain.GamePlayer{
				PlayerID: leaguedomain.PlayerID(fmt.Sprintf("demo%d%d", x*10, y)),
				Pack:     pack,
				Score:    score,
				Colour:   colour,
				HitsBy:   f.Number(0, 40),
				HitsOn:   f.Number(0, 40),
			},
			Alias:          demoAdjectives[x] + demoNouns[y],
			ServerPlayerID: i,
			ServerTeamID:   int(colour),
			PackName:       pack,
		})
	}
	return nil
}

// Close marks the connector closed.
func (d *DemoConnector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *DemoConnector) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrNotConnected
	}
	return nil
}

var _ Connector = (*DemoConnector)(nil)
