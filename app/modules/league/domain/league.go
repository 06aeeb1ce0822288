package leaguedomain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateTeam indicates a team id is already taken in the league.
	ErrDuplicateTeam = errors.New("duplicate team id")
	// ErrDuplicatePlayer indicates a player id is already known to the league.
	ErrDuplicatePlayer = errors.New("duplicate player id")
)

// GridConfig holds display settings carried in the league document. The engine
// does not interpret them beyond preserving them across load and save.
type GridConfig struct {
	High           int
	Wide           int
	Players        int
	SortMode       int
	SortByRank     int
	AutoUpdate     int
	UpdateTeams    int
	ElimMultiplier int
}

// DefaultGridConfig is the grid layout of a freshly created league.
func DefaultGridConfig() GridConfig {
	return GridConfig{High: 3, Wide: 1, Players: 6}
}

// League is the aggregate root: teams, players, games and scoring configuration.
type League struct {
	Title         string
	Grid          GridConfig
	HandicapStyle HandicapStyle

	VictoryPoints             []float64
	VictoryPointsHighScore    float64
	VictoryPointsProportional float64

	teams   []*LeagueTeam
	players []*LeaguePlayer
	games   []*Game

	teamIndex   map[TeamID]*LeagueTeam
	playerIndex map[PlayerID]*LeaguePlayer
	gameIndex   map[uuid.UUID]*Game

	links *Links
}

// NewLeague returns an empty league with default display settings.
func NewLeague() *League {
	l := &League{
		Grid:          DefaultGridConfig(),
		HandicapStyle: HandicapPercent,
	}
	l.Clear()
	return l
}

// Clear empties every collection and resets the victory point settings.
func (l *League) Clear() {
	l.Title = ""
	l.teams = nil
	l.players = nil
	l.games = nil
	l.teamIndex = make(map[TeamID]*LeagueTeam)
	l.playerIndex = make(map[PlayerID]*LeaguePlayer)
	l.gameIndex = make(map[uuid.UUID]*Game)
	l.VictoryPoints = nil
	l.VictoryPointsHighScore = 0
	l.VictoryPointsProportional = 0
	l.links = nil
}

// Teams returns the league teams in stored order.
func (l *League) Teams() []*LeagueTeam { return l.teams }

// Players returns the league players in stored order.
func (l *League) Players() []*LeaguePlayer { return l.players }

// AllGames returns every game, secret or not, in chronological order.
func (l *League) AllGames() []*Game { return l.games }

// Team looks up a league team by id.
func (l *League) Team(id TeamID) *LeagueTeam {
	return l.teamIndex[id]
}

// Player looks up a league player by id.
func (l *League) Player(id PlayerID) *LeaguePlayer {
	return l.playerIndex[id]
}

// Game looks up a game by its in-memory handle.
func (l *League) Game(id uuid.UUID) *Game {
	return l.gameIndex[id]
}

// GameAt returns the first game played at exactly t, or nil.
func (l *League) GameAt(t time.Time) *Game {
	for _, g := range l.games {
		if g.Time.Equal(t) {
			return g
		}
	}
	return nil
}

// AddTeam registers a team. Team ids must be unique.
func (l *League) AddTeam(t *LeagueTeam) error {
	if _, ok := l.teamIndex[t.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateTeam, t.ID)
	}
	l.teams = append(l.teams, t)
	l.teamIndex[t.ID] = t
	return nil
}

// NewTeam creates and registers a team with the next free id.
func (l *League) NewTeam() *LeagueTeam {
	t := &LeagueTeam{ID: l.NextTeamID()}
	l.teams = append(l.teams, t)
	l.teamIndex[t.ID] = t
	return t
}

// NextTeamID is one more than the highest team id, or 0 for a league without teams.
func (l *League) NextTeamID() TeamID {
	if len(l.teams) == 0 {
		return 0
	}
	highest := l.teams[0].ID
	for _, t := range l.teams[1:] {
		highest = max(highest, t.ID)
	}
	return highest + 1
}

// AddPlayer registers a player. Player ids must be unique.
func (l *League) AddPlayer(p *LeaguePlayer) error {
	if _, ok := l.playerIndex[p.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
	}
	l.players = append(l.players, p)
	l.playerIndex[p.ID] = p
	return nil
}

// EnsurePlayer returns the player with id, creating it with name when unknown.
func (l *League) EnsurePlayer(id PlayerID, name string) (*LeaguePlayer, bool) {
	if p := l.playerIndex[id]; p != nil {
		return p, false
	}
	p := &LeaguePlayer{ID: id, Name: name}
	l.players = append(l.players, p)
	l.playerIndex[id] = p
	return p, true
}

// AddGame inserts g after every game played at or before g.Time. Adding a game
// that is already present is a no-op.
func (l *League) AddGame(g *Game) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if _, ok := l.gameIndex[g.ID]; ok {
		return
	}
	i, _ := slices.BinarySearchFunc(l.games, g.Time, func(e *Game, t time.Time) int {
		if e.Time.After(t) {
			return 1
		}
		return -1
	})
	l.games = slices.Insert(l.games, i, g)
	l.gameIndex[g.ID] = g
}

// sortGames restores chronological order after a game's time changed.
func (l *League) sortGames() {
	slices.SortStableFunc(l.games, func(a, b *Game) int {
		return a.Time.Compare(b.Time)
	})
}

// TeamName is the team's own name or, when blank, one derived from its members.
func (l *League) TeamName(t *LeagueTeam) string {
	if t.Name != "" {
		return t.Name
	}
	switch len(t.Members) {
	case 0:
		return "Team " + t.ID.String()
	case 2:
		return l.playerName(t.Members[0]) + " and " + l.playerName(t.Members[1])
	default:
		return l.playerName(t.Members[0]) + "'s team"
	}
}

func (l *League) playerName(id PlayerID) string {
	if p := l.playerIndex[id]; p != nil && p.Name != "" {
		return p.Name
	}
	return string(id)
}

// GameTeamName names a game team after its league team, or its id for orphans.
func (l *League) GameTeamName(gt *GameTeam) string {
	if t := l.Team(gt.TeamID); t != nil {
		return l.TeamName(t)
	}
	return gt.TeamID.String()
}

// GameDescription lists the game's team names. Secret games list them
// alphabetically so the finishing order is not revealed.
func (l *League) GameDescription(g *Game) string {
	names := make([]string, len(g.Teams))
	for i, gt := range g.Teams {
		names[i] = l.GameTeamName(gt)
	}
	if g.Secret {
		slices.Sort(names)
	}
	return strings.Join(names, ", ")
}

// SortTeams orders teams by display name. The sort is stable.
func (l *League) SortTeams() {
	slices.SortStableFunc(l.teams, func(a, b *LeagueTeam) int {
		return cmp.Compare(l.TeamName(a), l.TeamName(b))
	})
}

// Games returns the games visible to the caller, in chronological order.
func (l *League) Games(includeSecret bool) []*Game {
	if includeSecret {
		return l.games
	}
	out := make([]*Game, 0, len(l.games))
	for _, g := range l.games {
		if !g.Secret {
			out = append(out, g)
		}
	}
	return out
}

// MostRecent is the time of the latest game.
func (l *League) MostRecent() (time.Time, bool) {
	if len(l.games) == 0 {
		return time.Time{}, false
	}
	latest := l.games[0].Time
	for _, g := range l.games[1:] {
		if g.Time.After(latest) {
			latest = g.Time
		}
	}
	return latest, true
}

// IsPointsBased reports whether any game team in history has been awarded points.
func (l *League) IsPointsBased() bool {
	for _, g := range l.games {
		for _, gt := range g.Teams {
			if gt.Points != 0 {
				return true
			}
		}
	}
	return false
}

// HasVictoryPoints reports whether the league awards victory points on commit.
func (l *League) HasVictoryPoints() bool {
	return len(l.VictoryPoints) > 0 || l.VictoryPointsHighScore != 0 || l.VictoryPointsProportional != 0
}

// Clone deep-copies teams, players and victory points. Game data is shared.
func (l *League) Clone() *League {
	c := NewLeague()
	c.Title = l.Title
	c.Grid = l.Grid
	c.HandicapStyle = l.HandicapStyle
	c.VictoryPoints = slices.Clone(l.VictoryPoints)
	c.VictoryPointsHighScore = l.VictoryPointsHighScore
	c.VictoryPointsProportional = l.VictoryPointsProportional

	for _, t := range l.teams {
		tc := t.clone()
		c.teams = append(c.teams, tc)
		c.teamIndex[tc.ID] = tc
	}
	for _, p := range l.players {
		pc := *p
		c.players = append(c.players, &pc)
		c.playerIndex[pc.ID] = &pc
	}
	for _, g := range l.games {
		c.games = append(c.games, g)
		c.gameIndex[g.ID] = g
	}

	c.Relink()
	return c
}
