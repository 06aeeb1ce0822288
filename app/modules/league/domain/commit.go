package leaguedomain

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrEmptyRoster is returned when a commit carries no team rosters.
	ErrEmptyRoster = errors.New("no team rosters to commit")
	// ErrUnknownTeam is returned when a roster names a league team that does not exist.
	ErrUnknownTeam = errors.New("unknown league team")
	// ErrNilServerGame is returned when no server game is supplied.
	ErrNilServerGame = errors.New("server game is nil")
)

// TeamRoster is one server team's players in a finished game.
type TeamRoster struct {
	// TeamID forces the roster onto a league team. When nil the team is guessed.
	TeamID           *TeamID
	Colour           Colour
	Adjustment       int
	Points           int
	PointsAdjustment int
	Players          []*ServerPlayer
}

// CommitResult reports what a commit created.
type CommitResult struct {
	Game           *Game
	CreatedTeams   []TeamID
	CreatedPlayers []PlayerID
}

// RostersFromServerGame splits a populated server game into one roster per
// server team, in first-seen order. Each roster takes its players' majority colour.
func RostersFromServerGame(game *ServerGame) []TeamRoster {
	parts := partitionByServerTeam(game.Players)
	rosters := make([]TeamRoster, 0, len(parts))
	for _, part := range parts {
		gps := make([]*GamePlayer, len(part))
		for i, sp := range part {
			gps[i] = &sp.GamePlayer
		}
		rosters = append(rosters, TeamRoster{
			Colour:  majorityColour(gps),
			Players: part,
		})
	}
	return rosters
}

// CommitGame ingests a finished game's rosters into the league.
//
// The game's teams and players are rebuilt from the rosters on every commit, so
// committing the same server game again replaces the earlier result. League
// teams and players are created as needed. The commit is not rolled back if it
// fails part way; only argument errors are detected before anything changes.
func (l *League) CommitGame(serverGame *ServerGame, rosters []TeamRoster) (CommitResult, error) {
	if serverGame == nil {
		return CommitResult{}, ErrNilServerGame
	}
	if len(rosters) == 0 {
		return CommitResult{}, ErrEmptyRoster
	}
	for _, r := range rosters {
		if r.TeamID != nil && l.Team(*r.TeamID) == nil {
			return CommitResult{}, fmt.Errorf("%w: %d", ErrUnknownTeam, *r.TeamID)
		}
	}

	game := serverGame.Game
	if game == nil {
		game = l.GameAt(serverGame.Time)
	}
	if game == nil {
		game = NewGame()
		game.Title = serverGame.Description
	}
	serverGame.Game = game

	timeChanged := !game.Time.Equal(serverGame.Time)
	game.Time = serverGame.Time
	game.Teams = nil

	previous := make(map[PlayerID]*GamePlayer, len(game.Players))
	for _, gp := range game.Players {
		previous[gp.PlayerID] = gp
	}
	players := make([]*GamePlayer, 0, len(game.Players))
	placed := make(map[PlayerID]struct{})

	var result CommitResult
	for _, r := range rosters {
		team := l.resolveRosterTeam(r, &result)

		gt := &GameTeam{
			TeamID:           team.ID,
			Colour:           r.Colour,
			Adjustment:       r.Adjustment,
			Points:           r.Points,
			PointsAdjustment: r.PointsAdjustment,
		}
		game.Teams = append(game.Teams, gt)

		teamPlayers := make([]*GamePlayer, 0, len(r.Players))
		for _, sp := range r.Players {
			if _, dup := placed[sp.PlayerID]; dup {
				continue
			}
			placed[sp.PlayerID] = struct{}{}

			gp := previous[sp.PlayerID]
			if gp == nil {
				gp = &sp.GamePlayer
			} else {
				*gp = sp.GamePlayer
			}
			gp.GameTeamID = team.ID

			name := sp.Alias
			if name == "" {
				name = string(sp.PlayerID)
			}
			if _, created := l.EnsurePlayer(sp.PlayerID, name); created {
				result.CreatedPlayers = append(result.CreatedPlayers, sp.PlayerID)
			}
			team.AddMember(sp.PlayerID)

			teamPlayers = append(teamPlayers, gp)
			players = append(players, gp)
		}

		slices.SortStableFunc(teamPlayers, comparePlayers)
		gt.Score = l.teamScore(team, teamPlayers, gt.Adjustment)
	}

	game.Players = players
	if l.HasVictoryPoints() {
		l.awardVictoryPoints(game)
	}
	game.SortPlayers()
	game.SortTeams()
	game.Invalidate()

	if l.Game(game.ID) == nil {
		l.AddGame(game)
	} else if timeChanged {
		l.sortGames()
	}

	l.Relink()
	result.Game = game
	return result, nil
}

func (l *League) resolveRosterTeam(r TeamRoster, result *CommitResult) *LeagueTeam {
	if r.TeamID != nil {
		return l.Team(*r.TeamID)
	}

	ids := make([]PlayerID, len(r.Players))
	for i, sp := range r.Players {
		ids[i] = sp.PlayerID
	}
	if team := l.GuessTeam(ids); team != nil {
		return team
	}

	team := l.NewTeam()
	result.CreatedTeams = append(result.CreatedTeams, team.ID)
	return team
}

// teamScore is the handicapped sum of player scores plus the adjustment. The
// team's stored handicap value is applied under the league-wide style.
func (l *League) teamScore(team *LeagueTeam, players []*GamePlayer, adjustment int) int {
	total := 0
	for _, gp := range players {
		total += gp.Score
	}
	total += adjustment
	return int(math.Round(team.Handicap.WithStyle(l.HandicapStyle).Apply(float64(total))))
}

// awardVictoryPoints sets each team's points from the victory point table, the
// high score bonus and the proportional share, plus its points adjustment.
// Teams tied on score share the mean of the table entries they span.
func (l *League) awardVictoryPoints(g *Game) {
	if len(g.Teams) == 0 {
		return
	}

	order := slices.Clone(g.Teams)
	slices.SortStableFunc(order, func(a, b *GameTeam) int {
		return b.Score - a.Score
	})

	awards := make(map[*GameTeam]float64, len(order))
	for i := 0; i < len(order); {
		j := i
		for j+1 < len(order) && order[j+1].Score == order[i].Score {
			j++
		}
		sum := 0.0
		for k := i; k <= j; k++ {
			if k < len(l.VictoryPoints) {
				sum += l.VictoryPoints[k]
			}
		}
		share := sum / float64(j-i+1)
		for k := i; k <= j; k++ {
			awards[order[k]] = share
		}
		i = j + 1
	}

	total := 0
	for _, gt := range order {
		total += gt.Score
	}
	high := order[0].Score
	for _, gt := range order {
		pts := awards[gt]
		if gt.Score == high {
			pts += l.VictoryPointsHighScore
		}
		if total != 0 {
			pts += l.VictoryPointsProportional * float64(gt.Score) / float64(total)
		}
		gt.Points = int(math.Round(pts)) + gt.PointsAdjustment
	}
}
