package leaguedomain

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// PlayerID is the under-the-hood laser game system identifier, e.g. "P11-JP9" or "1-50-50".
type PlayerID string

// TeamID identifies a LeagueTeam within a league.
type TeamID int

func (id TeamID) String() string {
	return strconv.Itoa(int(id))
}

// LeaguePlayer is a durable player identity tracked across many games.
type LeaguePlayer struct {
	Name     string
	ID       PlayerID
	Handicap Handicap
	// Comment is user-defined, often a player grade.
	Comment string
}

// LeagueTeam is a durable team identity tracked across many games.
type LeagueTeam struct {
	ID TeamID
	// Name is user-set. When blank the league derives one from the members.
	Name     string
	Handicap Handicap
	Comment  string
	Members  []PlayerID
}

// HasMember reports whether id is one of the team's members.
func (t *LeagueTeam) HasMember(id PlayerID) bool {
	return slices.Contains(t.Members, id)
}

// AddMember appends id unless it is already a member. It reports whether it was added.
func (t *LeagueTeam) AddMember(id PlayerID) bool {
	if t.HasMember(id) {
		return false
	}
	t.Members = append(t.Members, id)
	return true
}

func (t *LeagueTeam) clone() *LeagueTeam {
	c := *t
	c.Members = slices.Clone(t.Members)
	return &c
}

// GameTeam is one team's participation in one game.
type GameTeam struct {
	// TeamID links to LeagueTeam.ID. It is also the id GamePlayer.GameTeamID refers to.
	TeamID TeamID
	// Colour is the explicit team colour; ColourNone means "use the players' majority colour".
	Colour           Colour
	Score            int
	Adjustment       int
	Points           int
	PointsAdjustment int
}

// GamePlayer is one player's participation in one game.
type GamePlayer struct {
	GameTeamID   TeamID
	PlayerID     PlayerID
	Pack         string
	Score        int
	Rank         uint
	Colour       Colour
	HitsBy       int
	HitsOn       int
	BaseHits     int
	BaseDestroys int
	BaseDenies   int
	BaseDenied   int
	YellowCards  int
	RedCards     int
}

type gameTotals struct {
	hits  int
	score int
}

// Game is one played event.
type Game struct {
	// ID is an in-memory handle; it is never persisted.
	ID    uuid.UUID
	Title string
	Time  time.Time
	// Secret games are left out of every externally-facing listing.
	Secret  bool
	Teams   []*GameTeam
	Players []*GamePlayer

	totals *gameTotals
}

// NewGame returns an empty game with a fresh handle.
func NewGame() *Game {
	return &Game{ID: uuid.New()}
}

func (g *Game) computeTotals() *gameTotals {
	if g.totals == nil {
		t := &gameTotals{}
		for _, p := range g.Players {
			t.hits += p.HitsOn
		}
		for _, gt := range g.Teams {
			t.score += gt.Score
		}
		g.totals = t
	}
	return g.totals
}

// Hits is the total of hits received by every player in the game.
func (g *Game) Hits() int {
	return g.computeTotals().hits
}

// TotalScore is the sum of the team scores.
func (g *Game) TotalScore() int {
	return g.computeTotals().score
}

// Invalidate drops the cached totals. Call it after mutating players or teams.
func (g *Game) Invalidate() {
	g.totals = nil
}

// Player returns the game player with the given id, or nil.
func (g *Game) Player(id PlayerID) *GamePlayer {
	for _, p := range g.Players {
		if p.PlayerID == id {
			return p
		}
	}
	return nil
}

// Team returns the first game team fielded by the given league team, or nil.
func (g *Game) Team(id TeamID) *GameTeam {
	for _, gt := range g.Teams {
		if gt.TeamID == id {
			return gt
		}
	}
	return nil
}

// TeamPlayers returns the players whose GameTeamID matches id, in game order.
func (g *Game) TeamPlayers(id TeamID) []*GamePlayer {
	var out []*GamePlayer
	for _, p := range g.Players {
		if p.GameTeamID == id {
			out = append(out, p)
		}
	}
	return out
}

// TeamColour returns the team's explicit colour or, when unset, the majority
// colour among its players. Ties go to the lowest colour.
func (g *Game) TeamColour(gt *GameTeam) Colour {
	if gt.Colour != ColourNone {
		return gt.Colour
	}
	return majorityColour(g.TeamPlayers(gt.TeamID))
}

func majorityColour(players []*GamePlayer) Colour {
	var counts [colourCount]int
	for _, p := range players {
		if p.Colour.Valid() {
			counts[p.Colour]++
		}
	}
	best := ColourNone
	for c := 1; c < colourCount; c++ {
		if counts[c] > counts[best] {
			best = Colour(c)
		}
	}
	return best
}

// comparePlayers orders by score descending.
func comparePlayers(a, b *GamePlayer) int {
	return cmp.Compare(b.Score, a.Score)
}

// compareTeams orders by points descending, then score descending.
func compareTeams(a, b *GameTeam) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	return cmp.Compare(b.Score, a.Score)
}

// SortPlayers sorts players by score descending and reassigns ranks 1..N.
func (g *Game) SortPlayers() {
	slices.SortStableFunc(g.Players, comparePlayers)
	for i, p := range g.Players {
		p.Rank = uint(i + 1)
	}
}

// SortTeams sorts teams by points descending, then score descending.
func (g *Game) SortTeams() {
	slices.SortStableFunc(g.Teams, compareTeams)
}

// ServerPlayer is a player as reported by a game server. It is consumed while
// committing a game and never persisted.
type ServerPlayer struct {
	GamePlayer
	Alias string
	// ServerPlayerID and ServerTeamID are the server's internal table ids.
	ServerPlayerID int
	ServerTeamID   int
	PackName       string
}

// ServerGame is a game as stored on the laser game server.
type ServerGame struct {
	GameID      int
	Description string
	Time        time.Time
	EndTime     time.Time
	InProgress  bool
	OnServer    bool
	Players     []*ServerPlayer
	// Game is the committed league game for this server game, if any.
	Game *Game
}

// CompareServerGames orders server games chronologically.
func CompareServerGames(a, b ServerGame) int {
	return a.Time.Compare(b.Time)
}
