package leagueservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
	leaguedoc "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/document"
	leaguedb "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories"
)

// New replaces the held league with an empty one that will be saved to path.
// Nothing is written until Save.
func (s *LeagueService) New(ctx context.Context, path string) error {
	_, err := withTelemetry(s, ctx, "NewLeague", func(ctx context.Context) (struct{}, error) {
		l := leaguedomain.NewLeague()
		l.Title = leaguedoc.TitleFromPath(path)
		l.HandicapStyle = s.HandicapStyle
		s.league = l
		s.path = path
		s.logger.InfoContext(ctx, "Created league", "path", path, "title", l.Title)
		return struct{}{}, nil
	})
	return err
}

// Load replaces the held league with the document at path. On failure the
// held league is left unchanged.
func (s *LeagueService) Load(ctx context.Context, path string) error {
	_, err := withTelemetry(s, ctx, "LoadLeague", func(ctx context.Context) (struct{}, error) {
		l, err := s.codec.LoadFile(path)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to load league: %w", err)
		}
		s.league = l
		s.path = path
		s.logger.InfoContext(ctx, "Loaded league",
			"path", path,
			"title", l.Title,
			"teams", len(l.Teams()),
			"games", len(l.AllGames()),
		)
		return struct{}{}, nil
	})
	return err
}

// Save writes the league to path, or to the path it was loaded from when path
// is empty. After the document is written the reporting mirror is synced; a
// mirror failure is returned but the document stays saved.
func (s *LeagueService) Save(ctx context.Context, path string) error {
	_, err := withTelemetry(s, ctx, "SaveLeague", func(ctx context.Context) (struct{}, error) {
		if path == "" {
			path = s.path
		}
		if path == "" {
			return struct{}{}, ErrNoLeagueFile
		}

		if err := s.codec.SaveFile(path, s.league); err != nil {
			return struct{}{}, fmt.Errorf("failed to save league: %w", err)
		}
		s.path = path
		s.logger.InfoContext(ctx, "Saved league", "path", path, "title", s.league.Title)

		if err := s.syncMirror(ctx); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	return err
}

// SyncMirror writes the held league to the reporting mirror. It is a no-op
// without a repository.
func (s *LeagueService) SyncMirror(ctx context.Context) error {
	_, err := withTelemetry(s, ctx, "SyncMirror", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.syncMirror(ctx)
	})
	return err
}

func (s *LeagueService) syncMirror(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snapshot := leaguedb.NewSnapshot(s.league, s.path)
	_, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
		return struct{}{}, s.repo.SyncLeague(ctx, db, snapshot)
	})
	if err != nil {
		return fmt.Errorf("failed to sync league mirror: %w", err)
	}
	s.logger.InfoContext(ctx, "Synced league mirror",
		"title", s.league.Title,
		"games", len(snapshot.Games),
	)
	return nil
}

// CommitGame ingests a finished server game. When AutoSave is set and the
// league has a file, the document is saved afterwards.
func (s *LeagueService) CommitGame(ctx context.Context, serverGame *leaguedomain.ServerGame, rosters []leaguedomain.TeamRoster) (leaguedomain.CommitResult, error) {
	return withTelemetry(s, ctx, "CommitGame", func(ctx context.Context) (leaguedomain.CommitResult, error) {
		result, err := s.league.CommitGame(serverGame, rosters)
		if err != nil {
			return leaguedomain.CommitResult{}, fmt.Errorf("failed to commit game: %w", err)
		}

		s.metrics.RecordTeamsCreated(ctx, len(result.CreatedTeams))
		s.metrics.RecordPlayersCreated(ctx, len(result.CreatedPlayers))
		s.logger.InfoContext(ctx, "Committed game",
			"game_time", result.Game.Time,
			"teams", len(result.Game.Teams),
			"players", len(result.Game.Players),
			"created_teams", len(result.CreatedTeams),
			"created_players", len(result.CreatedPlayers),
		)

		if s.AutoSave && s.path != "" {
			if err := s.Save(ctx, ""); err != nil {
				return result, err
			}
		}
		return result, nil
	})
}

// Games returns the league's games in chronological order.
func (s *LeagueService) Games(includeSecret bool) []*leaguedomain.Game {
	return s.league.Games(includeSecret)
}

// IsPointsBased reports whether any game team has been awarded points.
func (s *LeagueService) IsPointsBased() bool {
	return s.league.IsPointsBased()
}

// Teams returns the league teams in stored order.
func (s *LeagueService) Teams() []*leaguedomain.LeagueTeam {
	return s.league.Teams()
}

// Players returns the league players in stored order.
func (s *LeagueService) Players() []*leaguedomain.LeaguePlayer {
	return s.league.Players()
}

// Team looks up a league team.
func (s *LeagueService) Team(id leaguedomain.TeamID) *leaguedomain.LeagueTeam {
	return s.league.Team(id)
}

// Player looks up a league player.
func (s *LeagueService) Player(id leaguedomain.PlayerID) *leaguedomain.LeaguePlayer {
	return s.league.Player(id)
}

// Standings ranks the league teams.
func (s *LeagueService) Standings(includeSecret bool) []leaguedomain.Standing {
	return s.league.Standings(includeSecret)
}

// GuessTeams suggests a league team for each server team in the game.
func (s *LeagueService) GuessTeams(serverGame *leaguedomain.ServerGame) []*leaguedomain.LeagueTeam {
	return s.league.GuessTeams(serverGame)
}

// Clear empties the held league. The file path is kept.
func (s *LeagueService) Clear() {
	s.league.Clear()
}

// MirrorStandings reads the standings last synced to the reporting mirror.
func (s *LeagueService) MirrorStandings(ctx context.Context) ([]leaguedb.Standing, error) {
	if s.repo == nil {
		return nil, ErrNoMirror
	}
	return s.repo.GetStandings(ctx, nil, s.league.Title)
}

// MirrorGames reads the games last synced to the reporting mirror.
func (s *LeagueService) MirrorGames(ctx context.Context, includeSecret bool) ([]leaguedb.Game, error) {
	if s.repo == nil {
		return nil, ErrNoMirror
	}
	return s.repo.GetGames(ctx, nil, s.league.Title, includeSecret)
}

// DropMirror removes the held league from the reporting mirror.
func (s *LeagueService) DropMirror(ctx context.Context) error {
	if s.repo == nil {
		return ErrNoMirror
	}
	_, err := withTelemetry(s, ctx, "DropMirror", func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			return struct{}{}, s.repo.DeleteLeague(ctx, db, s.league.Title)
		})
	})
	return err
}
