package leagueservice

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
	leaguedoc "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/document"
	"github.com/Black-And-White-Club/torn-league/app/modules/server/connectors"
	"github.com/Black-And-White-Club/torn-league/app/modules/server/connectors/mocks"
	"github.com/Black-And-White-Club/torn-league/app/observability/logging"
)

func TestWatcher_PollDemo(t *testing.T) {
	now := time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "Demo.Torn")

	repo := NewFakeLeagueRepository()
	s, _ := newTestService(repo)
	s.AutoSave = true
	require.NoError(t, s.New(context.Background(), path))

	metrics := NewFakeLeagueMetrics()
	w := NewWatcher(s, connectors.NewDemoConnector(func() time.Time { return now }), time.Second, logging.NoOpLogger(), metrics)
	w.now = func() time.Time { return now }

	n, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Len(t, s.Games(true), 10)
	assert.Equal(t, []string{"SyncLeague"}, repo.Trace(), "league should be saved once per poll")
	assert.True(t, s.AutoSave)

	n, err = w.Poll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, s.Games(true), 10)
	assert.Equal(t, []string{"SyncLeague"}, repo.Trace())

	assert.Equal(t, 2, metrics.Polls)
	assert.Equal(t, 10, metrics.PolledGames)
	assert.Zero(t, metrics.PollErrors)
}

func TestWatcher_Poll(t *testing.T) {
	now := time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)
	players := func(id string) []*leaguedomain.ServerPlayer {
		return []*leaguedomain.ServerPlayer{
			{GamePlayer: leaguedomain.GamePlayer{PlayerID: leaguedomain.PlayerID(id + "-a"), Score: 100}, ServerTeamID: 1},
			{GamePlayer: leaguedomain.GamePlayer{PlayerID: leaguedomain.PlayerID(id + "-b"), Score: 200}, ServerTeamID: 2},
		}
	}

	tests := []struct {
		name        string
		setup       func(m *mocks.MockConnector, s *LeagueService)
		wantCount   int
		wantErr     bool
		wantGames   int
		wantPollErr int
	}{
		{
			name: "Skips running and unfinished games",
			setup: func(m *mocks.MockConnector, _ *LeagueService) {
				m.EXPECT().ListGames(gomock.Any()).Return([]leaguedomain.ServerGame{
					{GameID: 3, Time: now.Add(-5 * time.Minute), EndTime: now.Add(5 * time.Minute)},
					{GameID: 2, Time: now.Add(-20 * time.Minute), InProgress: true},
					{GameID: 1, Time: now.Add(-40 * time.Minute)},
				}, nil)
				m.EXPECT().PopulateRoster(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, g *leaguedomain.ServerGame) error {
						assert.Equal(t, 1, g.GameID)
						g.Players = players("one")
						return nil
					})
			},
			wantCount: 1,
			wantGames: 1,
		},
		{
			name: "Skips games at or before the latest committed game",
			setup: func(m *mocks.MockConnector, s *LeagueService) {
				sg := &leaguedomain.ServerGame{Time: now.Add(-30 * time.Minute), Players: players("old")}
				_, err := s.CommitGame(context.Background(), sg, leaguedomain.RostersFromServerGame(sg))
				require.NoError(t, err)

				m.EXPECT().ListGames(gomock.Any()).Return([]leaguedomain.ServerGame{
					{GameID: 9, Time: now.Add(-10 * time.Minute)},
					{GameID: 8, Time: now.Add(-30 * time.Minute)},
					{GameID: 7, Time: now.Add(-50 * time.Minute)},
				}, nil)
				m.EXPECT().PopulateRoster(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, g *leaguedomain.ServerGame) error {
						assert.Equal(t, 9, g.GameID)
						g.Players = players("new")
						return nil
					})
			},
			wantCount: 1,
			wantGames: 2,
		},
		{
			name: "Skips games without players",
			setup: func(m *mocks.MockConnector, _ *LeagueService) {
				m.EXPECT().ListGames(gomock.Any()).Return([]leaguedomain.ServerGame{
					{GameID: 1, Time: now.Add(-40 * time.Minute)},
				}, nil)
				m.EXPECT().PopulateRoster(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantCount: 0,
			wantGames: 0,
		},
		{
			name: "List error",
			setup: func(m *mocks.MockConnector, _ *LeagueService) {
				m.EXPECT().ListGames(gomock.Any()).Return(nil, errors.New("server unreachable"))
			},
			wantErr:     true,
			wantPollErr: 1,
		},
		{
			name: "Roster error",
			setup: func(m *mocks.MockConnector, _ *LeagueService) {
				m.EXPECT().ListGames(gomock.Any()).Return([]leaguedomain.ServerGame{
					{GameID: 1, Time: now.Add(-40 * time.Minute)},
				}, nil)
				m.EXPECT().PopulateRoster(gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
			},
			wantErr:     true,
			wantPollErr: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockConnector := mocks.NewMockConnector(ctrl)
			s, _ := newTestService(nil)
			tt.setup(mockConnector, s)

			metrics := NewFakeLeagueMetrics()
			w := NewWatcher(s, mockConnector, time.Second, logging.NoOpLogger(), metrics)
			w.now = func() time.Time { return now }

			n, err := w.Poll(context.Background())
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCount, n)
			assert.Len(t, s.Games(true), tt.wantGames)
			assert.Equal(t, tt.wantPollErr, metrics.PollErrors)
		})
	}
}

func TestWatcher_PollSavesGamesCommittedBeforeFailure(t *testing.T) {
	now := time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "Partial.Torn")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockConnector := mocks.NewMockConnector(ctrl)

	s, _ := newTestService(nil)
	s.AutoSave = true
	require.NoError(t, s.New(context.Background(), path))

	listed := []leaguedomain.ServerGame{
		{GameID: 2, Time: now.Add(-10 * time.Minute)},
		{GameID: 1, Time: now.Add(-40 * time.Minute)},
	}
	mockConnector.EXPECT().ListGames(gomock.Any()).Return(listed, nil).Times(2)
	mockConnector.EXPECT().PopulateRoster(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *leaguedomain.ServerGame) error {
			if g.GameID == 2 {
				return errors.New("server hiccup")
			}
			g.Players = []*leaguedomain.ServerPlayer{
				{GamePlayer: leaguedomain.GamePlayer{PlayerID: "a", Score: 100}, ServerTeamID: 1},
				{GamePlayer: leaguedomain.GamePlayer{PlayerID: "b", Score: 200}, ServerTeamID: 2},
			}
			return nil
		}).Times(3)

	w := NewWatcher(s, mockConnector, time.Second, logging.NoOpLogger(), NewFakeLeagueMetrics())
	w.now = func() time.Time { return now }

	n, err := w.Poll(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, s.AutoSave)

	saved, err := leaguedoc.Codec{Location: time.UTC}.LoadFile(path)
	require.NoError(t, err)
	require.Len(t, saved.AllGames(), 1)
	assert.Equal(t, now.Add(-40*time.Minute), saved.AllGames()[0].Time)

	n, err = w.Poll(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Len(t, s.Games(true), 1)
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, _ := newTestService(nil)
	w := NewWatcher(s, connectors.NewDemoConnector(nil), time.Minute, logging.NoOpLogger(), NewFakeLeagueMetrics())
	assert.NoError(t, w.Run(ctx))
}
