package leagueservice

import (
	"bytes"
	"context"
	"image/png"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
)

func committedService(t *testing.T, games int) *LeagueService {
	t.Helper()
	f := gofakeit.New(21)
	s, _ := newTestService(nil)
	require.NoError(t, s.New(context.Background(), "Export.Torn"))

	first := fakeServerGame(f, time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC))
	for i := range games {
		sg := &leaguedomain.ServerGame{
			Description: "League Night",
			Time:        first.Time.Add(time.Duration(i) * time.Hour),
		}
		for _, p := range first.Players {
			sp := *p
			sp.Score = f.Number(0, 200) * 10
			sg.Players = append(sg.Players, &sp)
		}
		_, err := s.CommitGame(context.Background(), sg, leaguedomain.RostersFromServerGame(sg))
		require.NoError(t, err)
	}
	return s
}

func TestLeagueService_ExportWorkbook(t *testing.T) {
	s := committedService(t, 3)

	var buf bytes.Buffer
	require.NoError(t, s.ExportWorkbook(&buf, false))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{standingsSheet, gamesSheet}, f.GetSheetList())

	standings, err := f.GetRows(standingsSheet)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, []string{"Position", "Team", "Played", "Total Score", "Average Score", "Total Points", "Average Points"}, standings[0])
	assert.Equal(t, "1", standings[1][0])
	assert.Equal(t, s.Standings(false)[0].Name, standings[1][1])
	assert.Equal(t, "3", standings[1][2])

	games, err := f.GetRows(gamesSheet)
	require.NoError(t, err)
	require.Len(t, games, 1+3*2)
	assert.Equal(t, "2024-06-01 18:00", games[1][0])
	assert.Equal(t, "League Night", games[1][1])
}

func TestLeagueService_ExportWorkbookHidesSecretGames(t *testing.T) {
	s := committedService(t, 2)
	s.Games(true)[0].Secret = true
	s.League().Relink()

	var buf bytes.Buffer
	require.NoError(t, s.ExportWorkbook(&buf, false))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	games, err := f.GetRows(gamesSheet)
	require.NoError(t, err)
	assert.Len(t, games, 1+2)
}

func TestScoreHistory(t *testing.T) {
	s := committedService(t, 3)

	history := ScoreHistory(s.League(), true)
	require.Len(t, history, 2)
	for _, h := range history {
		assert.Len(t, h.Times, 3)
		assert.Len(t, h.Scores, 3)
		assert.True(t, h.Times[0].Before(h.Times[2]))
		assert.NotEqual(t, leaguedomain.ColourNone, h.Colour)
	}
}

func TestScoreHistoryChart(t *testing.T) {
	tests := []struct {
		name      string
		games     int
		wantWidth int
	}{
		{name: "No games renders placeholder", games: 0, wantWidth: 400},
		{name: "Single game renders placeholder", games: 1, wantWidth: 400},
		{name: "History", games: 3, wantWidth: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := committedService(t, tt.games)

			data, err := s.ScoreHistoryChart(true, DefaultChartPalette)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, tt.wantWidth, img.Bounds().Dx())
		})
	}
}
