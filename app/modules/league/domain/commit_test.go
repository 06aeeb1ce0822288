package leaguedomain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var gameTime = time.Date(2024, time.March, 9, 19, 30, 0, 0, time.UTC)

func serverPlayer(id string, serverTeam, score int, colour Colour) *ServerPlayer {
	return &ServerPlayer{
		GamePlayer:   GamePlayer{PlayerID: PlayerID(id), Score: score, Colour: colour},
		Alias:        "alias-" + id,
		ServerTeamID: serverTeam,
	}
}

func leagueWithTeams(t *testing.T, teams ...*LeagueTeam) *League {
	t.Helper()
	l := NewLeague()
	for _, team := range teams {
		require.NoError(t, l.AddTeam(team))
		for _, m := range team.Members {
			l.EnsurePlayer(m, "name-"+string(m))
		}
	}
	l.Relink()
	return l
}

func TestCommitGame_ScoresAndRanks(t *testing.T) {
	l := leagueWithTeams(t, &LeagueTeam{
		ID:       1,
		Name:     "Lasers",
		Handicap: NewHandicap(0, HandicapPlus),
		Members:  []PlayerID{"p1", "p2"},
	})
	l.HandicapStyle = HandicapPlus

	sg := &ServerGame{
		Time:        gameTime,
		Description: "Saturday",
		Players: []*ServerPlayer{
			serverPlayer("p2", 7, 300, ColourRed),
			serverPlayer("p1", 7, 500, ColourRed),
		},
	}

	result, err := l.CommitGame(sg, RostersFromServerGame(sg))
	require.NoError(t, err)
	require.NotNil(t, result.Game)
	assert.Empty(t, result.CreatedTeams)
	assert.Empty(t, result.CreatedPlayers)

	g := result.Game
	require.Len(t, g.Teams, 1)
	assert.Equal(t, 800, g.Teams[0].Score)
	assert.Equal(t, TeamID(1), g.Teams[0].TeamID)
	assert.Equal(t, ColourRed, g.Teams[0].Colour)
	assert.Equal(t, "Saturday", g.Title)

	require.Len(t, g.Players, 2)
	assert.Equal(t, PlayerID("p1"), g.Players[0].PlayerID)
	assert.Equal(t, uint(1), g.Players[0].Rank)
	assert.Equal(t, PlayerID("p2"), g.Players[1].PlayerID)
	assert.Equal(t, uint(2), g.Players[1].Rank)
	for _, gp := range g.Players {
		assert.Equal(t, TeamID(1), gp.GameTeamID)
	}

	assert.Len(t, l.TeamPlayed(1, true), 1)
	assert.Len(t, l.PlayerPlayed("p1", true), 1)
	assert.Equal(t, 800, g.TotalScore())
}

func TestCommitGame_HandicapUsesLeagueStyle(t *testing.T) {
	tests := []struct {
		name     string
		style    HandicapStyle
		handicap Handicap
		want     int
	}{
		{name: "no handicap", style: HandicapPercent, handicap: Handicap{}, want: 1000},
		{name: "percent", style: HandicapPercent, handicap: NewHandicap(110, HandicapPercent), want: 1100},
		{name: "plus", style: HandicapPlus, handicap: NewHandicap(250, HandicapPlus), want: 1250},
		{name: "minus", style: HandicapMinus, handicap: NewHandicap(250, HandicapMinus), want: 750},
		{name: "rounds", style: HandicapPercent, handicap: NewHandicap(33.35, HandicapPercent), want: 334},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := leagueWithTeams(t, &LeagueTeam{ID: 1, Handicap: tt.handicap, Members: []PlayerID{"p1"}})
			l.HandicapStyle = tt.style

			sg := &ServerGame{Time: gameTime, Players: []*ServerPlayer{serverPlayer("p1", 1, 1000, ColourBlue)}}
			result, err := l.CommitGame(sg, RostersFromServerGame(sg))
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Game.Teams[0].Score)
		})
	}
}

func TestCommitGame_RecommitReplaces(t *testing.T) {
	l := leagueWithTeams(t, &LeagueTeam{ID: 1, Members: []PlayerID{"p1", "p2"}})

	first := &ServerGame{
		Time: gameTime,
		Players: []*ServerPlayer{
			serverPlayer("p1", 1, 500, ColourRed),
			serverPlayer("p2", 1, 300, ColourRed),
		},
	}
	res1, err := l.CommitGame(first, RostersFromServerGame(first))
	require.NoError(t, err)

	// The same game fetched again from the server has no league game attached.
	second := &ServerGame{
		Time: gameTime,
		Players: []*ServerPlayer{
			serverPlayer("p1", 1, 500, ColourRed),
			serverPlayer("p2", 1, 400, ColourRed),
		},
	}
	res2, err := l.CommitGame(second, RostersFromServerGame(second))
	require.NoError(t, err)

	assert.Same(t, res1.Game, res2.Game)
	assert.Len(t, l.AllGames(), 1)
	assert.Len(t, res2.Game.Players, 2)
	assert.Len(t, res2.Game.Teams, 1)
	assert.Equal(t, 900, res2.Game.Teams[0].Score)

	played := l.TeamPlayed(1, true)
	require.Len(t, played, 1)
	assert.Equal(t, 900, played[0].Score)
	assert.Len(t, l.PlayerPlayed("p2", true), 1)
	assert.Equal(t, 400, l.PlayerPlayed("p2", true)[0].Score)
}

func TestCommitGame_RecommitMovesPlayerBetweenTeams(t *testing.T) {
	l := leagueWithTeams(t,
		&LeagueTeam{ID: 1, Members: []PlayerID{"p1"}},
		&LeagueTeam{ID: 2, Members: []PlayerID{"p2"}},
	)
	one, two := TeamID(1), TeamID(2)

	sg := &ServerGame{Time: gameTime, Players: []*ServerPlayer{
		serverPlayer("p1", 1, 100, ColourRed),
		serverPlayer("p2", 2, 200, ColourBlue),
		serverPlayer("p3", 1, 300, ColourRed),
	}}
	_, err := l.CommitGame(sg, []TeamRoster{
		{TeamID: &one, Players: []*ServerPlayer{sg.Players[0], sg.Players[2]}},
		{TeamID: &two, Players: []*ServerPlayer{sg.Players[1]}},
	})
	require.NoError(t, err)
	assert.Equal(t, one, sg.Game.Player("p3").GameTeamID)

	_, err = l.CommitGame(sg, []TeamRoster{
		{TeamID: &one, Players: []*ServerPlayer{sg.Players[0]}},
		{TeamID: &two, Players: []*ServerPlayer{sg.Players[1], sg.Players[2]}},
	})
	require.NoError(t, err)

	assert.Equal(t, two, sg.Game.Player("p3").GameTeamID)
	assert.Equal(t, 500, sg.Game.Team(2).Score)
	assert.Equal(t, 100, sg.Game.Team(1).Score)
	assert.Len(t, sg.Game.Players, 3)
}

func TestCommitGame_CreatesTeamsAndPlayers(t *testing.T) {
	l := NewLeague()
	sg := &ServerGame{Time: gameTime, Players: []*ServerPlayer{
		serverPlayer("p1", 1, 100, ColourGreen),
		serverPlayer("p2", 1, 200, ColourGreen),
		serverPlayer("p3", 2, 300, ColourYellow),
	}}
	sg.Players[1].Alias = ""

	result, err := l.CommitGame(sg, RostersFromServerGame(sg))
	require.NoError(t, err)

	assert.Equal(t, []TeamID{0, 1}, result.CreatedTeams)
	assert.ElementsMatch(t, []PlayerID{"p1", "p2", "p3"}, result.CreatedPlayers)
	require.Len(t, l.Teams(), 2)
	assert.Equal(t, "alias-p1", l.Player("p1").Name)
	assert.Equal(t, "p2", l.Player("p2").Name)
	assert.Equal(t, []PlayerID{"p1", "p2"}, l.Team(0).Members)
	assert.Equal(t, []PlayerID{"p3"}, l.Team(1).Members)

	// Every team and player is linked into the history.
	assert.Len(t, l.TeamPlayed(0, true), 1)
	assert.Len(t, l.TeamPlayed(1, true), 1)
	for _, id := range []PlayerID{"p1", "p2", "p3"} {
		assert.Len(t, l.PlayerPlayed(id, true), 1, id)
	}

	// A second game with the same players lands on the teams created above.
	next := &ServerGame{Time: gameTime.Add(time.Hour), Players: []*ServerPlayer{
		serverPlayer("p3", 4, 100, ColourRed),
		serverPlayer("p1", 5, 100, ColourBlue),
	}}
	result, err = l.CommitGame(next, RostersFromServerGame(next))
	require.NoError(t, err)
	assert.Empty(t, result.CreatedTeams)
	assert.Empty(t, result.CreatedPlayers)
	assert.Len(t, l.TeamPlayed(0, true), 2)
}

func TestCommitGame_Errors(t *testing.T) {
	l := leagueWithTeams(t, &LeagueTeam{ID: 1, Members: []PlayerID{"p1"}})
	missing := TeamID(42)

	tests := []struct {
		name    string
		game    *ServerGame
		rosters []TeamRoster
		wantErr error
	}{
		{name: "nil game", game: nil, rosters: []TeamRoster{{}}, wantErr: ErrNilServerGame},
		{name: "no rosters", game: &ServerGame{Time: gameTime}, wantErr: ErrEmptyRoster},
		{
			name:    "unknown team",
			game:    &ServerGame{Time: gameTime},
			rosters: []TeamRoster{{TeamID: &missing, Players: []*ServerPlayer{serverPlayer("p1", 1, 10, ColourRed)}}},
			wantErr: ErrUnknownTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CommitGame(tt.game, tt.rosters)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			assert.Empty(t, l.AllGames())
		})
	}
}

func TestCommitGame_InsertsChronologically(t *testing.T) {
	l := leagueWithTeams(t, &LeagueTeam{ID: 1, Members: []PlayerID{"p1"}})

	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		sg := &ServerGame{Time: gameTime.Add(offset), Players: []*ServerPlayer{serverPlayer("p1", 1, 10, ColourRed)}}
		_, err := l.CommitGame(sg, RostersFromServerGame(sg))
		require.NoError(t, err)
	}

	games := l.AllGames()
	require.Len(t, games, 3)
	for i := 1; i < len(games); i++ {
		assert.True(t, games[i-1].Time.Before(games[i].Time))
	}
	last, ok := l.MostRecent()
	require.True(t, ok)
	assert.Equal(t, gameTime.Add(2*time.Hour), last)
}

func TestCommitGame_VictoryPoints(t *testing.T) {
	tests := []struct {
		name         string
		vp           []float64
		highScore    float64
		proportional float64
		scores       []int
		adjustments  []int
		want         []int
	}{
		{name: "table", vp: []float64{3, 1}, scores: []int{800, 500}, want: []int{3, 1}},
		{name: "tie shares average", vp: []float64{3, 1}, scores: []int{600, 600}, want: []int{2, 2}},
		{name: "three way with tie for second", vp: []float64{5, 3, 1}, scores: []int{900, 400, 400}, want: []int{5, 2, 2}},
		{name: "high score bonus", vp: []float64{2}, highScore: 1, scores: []int{800, 500}, want: []int{3, 0}},
		{name: "proportional", proportional: 10, scores: []int{800, 500}, want: []int{6, 4}},
		{name: "points adjustment", vp: []float64{3, 1}, scores: []int{800, 500}, adjustments: []int{-1, 2}, want: []int{2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLeague()
			l.VictoryPoints = tt.vp
			l.VictoryPointsHighScore = tt.highScore
			l.VictoryPointsProportional = tt.proportional

			sg := &ServerGame{Time: gameTime}
			rosters := make([]TeamRoster, len(tt.scores))
			for i, score := range tt.scores {
				sp := serverPlayer(string(rune('a'+i)), i, score, ColourRed)
				sg.Players = append(sg.Players, sp)
				rosters[i] = TeamRoster{Players: []*ServerPlayer{sp}}
				if tt.adjustments != nil {
					rosters[i].PointsAdjustment = tt.adjustments[i]
				}
			}

			result, err := l.CommitGame(sg, rosters)
			require.NoError(t, err)

			got := make([]int, len(tt.scores))
			for i := range tt.scores {
				got[i] = result.Game.Team(TeamID(i)).Points
			}
			assert.Equal(t, tt.want, got)
			assert.True(t, l.IsPointsBased())
		})
	}
}

func TestCommitGame_PointsKeptWithoutVictoryPoints(t *testing.T) {
	l := leagueWithTeams(t, &LeagueTeam{ID: 1, Members: []PlayerID{"p1"}})
	one := TeamID(1)
	sg := &ServerGame{Time: gameTime, Players: []*ServerPlayer{serverPlayer("p1", 1, 10, ColourRed)}}

	result, err := l.CommitGame(sg, []TeamRoster{{TeamID: &one, Points: 4, PointsAdjustment: 1, Players: sg.Players}})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Game.Teams[0].Points)
	assert.Equal(t, 1, result.Game.Teams[0].PointsAdjustment)
}
