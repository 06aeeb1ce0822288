package leaguedb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

func TestNewSnapshot(t *testing.T) {
	l := leaguedomain.NewLeague()
	l.Title = "Winter League"
	require.NoError(t, l.AddTeam(&leaguedomain.LeagueTeam{ID: 1, Name: "Aces", Handicap: leaguedomain.NewHandicap(110, leaguedomain.HandicapPercent), Members: []leaguedomain.PlayerID{"p1"}}))
	l.EnsurePlayer("p1", "Ann")
	l.EnsurePlayer("loner", "")

	at := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	one := leaguedomain.TeamID(1)
	sg := &leaguedomain.ServerGame{Time: at, Players: []*leaguedomain.ServerPlayer{
		{GamePlayer: leaguedomain.GamePlayer{PlayerID: "p1", Score: 1000, HitsOn: 3, Colour: leaguedomain.ColourBlue}},
	}}
	_, err := l.CommitGame(sg, []leaguedomain.TeamRoster{{TeamID: &one, Players: sg.Players}})
	require.NoError(t, err)

	s := NewSnapshot(l, "/data/Winter_League.Torn")

	assert.Equal(t, "Winter League", s.League.Title)
	assert.Equal(t, "%", s.League.HandicapStyle)
	assert.Equal(t, "/data/Winter_League.Torn", s.League.SourcePath)

	require.Len(t, s.Teams, 1)
	assert.Equal(t, "110%", s.Teams[0].Handicap)

	require.Len(t, s.Players, 2)
	assert.Equal(t, &Player{PlayerID: "p1", TeamID: 1, Name: "Ann"}, s.Players[0])
	assert.Equal(t, &Player{PlayerID: "loner", TeamID: NoTeam, Name: "loner"}, s.Players[1])

	require.Len(t, s.Games, 1)
	assert.Equal(t, at, s.Games[0].PlayedAt)
	assert.Equal(t, 3, s.Games[0].Hits)

	require.Len(t, s.GameTeams, 1)
	assert.Equal(t, 1100, s.GameTeams[0].Score)
	assert.Equal(t, "Blue", s.GameTeams[0].Colour)
	require.Len(t, s.GamePlayers, 1)
	assert.Equal(t, s.Games[0].ID, s.GamePlayers[0].GameID)
	assert.Equal(t, 1, s.GamePlayers[0].Rank)

	require.Len(t, s.Standings, 1)
	assert.Equal(t, 1, s.Standings[0].Position)
	assert.Equal(t, 1100.0, s.Standings[0].AverageScore)

	s.setLeagueID(42)
	assert.Equal(t, int64(42), s.League.ID)
	assert.Equal(t, int64(42), s.Teams[0].LeagueID)
	assert.Equal(t, int64(42), s.GamePlayers[0].LeagueID)
	assert.Equal(t, int64(42), s.Standings[0].LeagueID)
}
