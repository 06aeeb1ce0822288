package leaguedb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// League is one mirrored league document, keyed by its title.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:lg"`

	ID            int64     `bun:"id,pk,autoincrement"`
	Title         string    `bun:"title,notnull,unique"`
	HandicapStyle string    `bun:"handicap_style,notnull"`
	SourcePath    string    `bun:"source_path"`
	SyncedAt      time.Time `bun:"synced_at,nullzero,notnull,default:current_timestamp"`
}

// Team mirrors a league team.
type Team struct {
	bun.BaseModel `bun:"table:league_teams,alias:lt"`

	LeagueID int64  `bun:"league_id,pk"`
	TeamID   int    `bun:"team_id,pk"`
	Name     string `bun:"name,notnull"`
	Handicap string `bun:"handicap"`
	Comment  string `bun:"comment"`
}

// Player mirrors a league player together with the team it is listed under.
type Player struct {
	bun.BaseModel `bun:"table:league_players,alias:lp"`

	LeagueID int64  `bun:"league_id,pk"`
	PlayerID string `bun:"player_id,pk"`
	TeamID   int    `bun:"team_id,pk"`
	Name     string `bun:"name,notnull"`
	Handicap string `bun:"handicap"`
	Comment  string `bun:"comment"`
}

// Game mirrors one game. Rows are replaced wholesale on every sync.
type Game struct {
	bun.BaseModel `bun:"table:league_games,alias:lgm"`

	ID       uuid.UUID `bun:"id,pk,type:uuid"`
	LeagueID int64     `bun:"league_id,notnull"`
	Title    string    `bun:"title"`
	PlayedAt time.Time `bun:"played_at,notnull"`
	Secret   bool      `bun:"secret,notnull"`
	Hits     int       `bun:"hits,notnull"`
}

// GameTeam mirrors a team's result in a game.
type GameTeam struct {
	bun.BaseModel `bun:"table:league_game_teams,alias:lgt"`

	GameID           uuid.UUID `bun:"game_id,pk,type:uuid"`
	TeamID           int       `bun:"team_id,pk"`
	LeagueID         int64     `bun:"league_id,notnull"`
	Colour           string    `bun:"colour"`
	Score            int       `bun:"score,notnull"`
	Points           int       `bun:"points,notnull"`
	Adjustment       int       `bun:"adjustment,notnull"`
	PointsAdjustment int       `bun:"points_adjustment,notnull"`
}

// GamePlayer mirrors a player's result in a game.
type GamePlayer struct {
	bun.BaseModel `bun:"table:league_game_players,alias:lgp"`

	GameID       uuid.UUID `bun:"game_id,pk,type:uuid"`
	PlayerID     string    `bun:"player_id,pk"`
	LeagueID     int64     `bun:"league_id,notnull"`
	TeamID       int       `bun:"team_id,notnull"`
	Pack         string    `bun:"pack"`
	Score        int       `bun:"score,notnull"`
	Rank         int       `bun:"rank,notnull"`
	Colour       string    `bun:"colour"`
	HitsBy       int       `bun:"hits_by,notnull"`
	HitsOn       int       `bun:"hits_on,notnull"`
	BaseHits     int       `bun:"base_hits,notnull"`
	BaseDestroys int       `bun:"base_destroys,notnull"`
	BaseDenies   int       `bun:"base_denies,notnull"`
	BaseDenied   int       `bun:"base_denied,notnull"`
	YellowCards  int       `bun:"yellow_cards,notnull"`
	RedCards     int       `bun:"red_cards,notnull"`
}

// Standing is a team's standing at the time of the last sync. Secret games are excluded.
type Standing struct {
	bun.BaseModel `bun:"table:league_standings,alias:ls"`

	LeagueID      int64   `bun:"league_id,pk"`
	TeamID        int     `bun:"team_id,pk"`
	Position      int     `bun:"position,notnull"`
	Name          string  `bun:"name,notnull"`
	Played        int     `bun:"played,notnull"`
	TotalScore    int     `bun:"total_score,notnull"`
	TotalPoints   int     `bun:"total_points,notnull"`
	AverageScore  float64 `bun:"average_score,notnull"`
	AveragePoints float64 `bun:"average_points,notnull"`
}

// Snapshot is the full set of rows describing one league.
type Snapshot struct {
	League      League
	Teams       []*Team
	Players     []*Player
	Games       []*Game
	GameTeams   []*GameTeam
	GamePlayers []*GamePlayer
	Standings   []*Standing
}
