package leagueservice

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	leaguedb "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories"
)

// ------------------------
// Fake League Repo
// ------------------------

// FakeLeagueRepository provides a programmable stub for the leaguedb.Repository interface.
type FakeLeagueRepository struct {
	trace []string

	SyncLeagueFunc   func(ctx context.Context, db bun.IDB, snapshot *leaguedb.Snapshot) error
	GetLeagueFunc    func(ctx context.Context, db bun.IDB, title string) (*leaguedb.League, error)
	GetStandingsFunc func(ctx context.Context, db bun.IDB, title string) ([]leaguedb.Standing, error)
	GetGamesFunc     func(ctx context.Context, db bun.IDB, title string, includeSecret bool) ([]leaguedb.Game, error)
	DeleteLeagueFunc func(ctx context.Context, db bun.IDB, title string) error

	LastSnapshot *leaguedb.Snapshot
}

// NewFakeLeagueRepository initializes a new FakeLeagueRepository with an empty trace.
func NewFakeLeagueRepository() *FakeLeagueRepository {
	return &FakeLeagueRepository{
		trace: []string{},
	}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeLeagueRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeagueRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeagueRepository) SyncLeague(ctx context.Context, db bun.IDB, snapshot *leaguedb.Snapshot) error {
	f.record("SyncLeague")
	f.LastSnapshot = snapshot
	if f.SyncLeagueFunc != nil {
		return f.SyncLeagueFunc(ctx, db, snapshot)
	}
	return nil
}

func (f *FakeLeagueRepository) GetLeague(ctx context.Context, db bun.IDB, title string) (*leaguedb.League, error) {
	f.record("GetLeague")
	if f.GetLeagueFunc != nil {
		return f.GetLeagueFunc(ctx, db, title)
	}
	return nil, leaguedb.ErrNotFound
}

func (f *FakeLeagueRepository) GetStandings(ctx context.Context, db bun.IDB, title string) ([]leaguedb.Standing, error) {
	f.record("GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx, db, title)
	}
	return []leaguedb.Standing{}, nil
}

func (f *FakeLeagueRepository) GetGames(ctx context.Context, db bun.IDB, title string, includeSecret bool) ([]leaguedb.Game, error) {
	f.record("GetGames")
	if f.GetGamesFunc != nil {
		return f.GetGamesFunc(ctx, db, title, includeSecret)
	}
	return []leaguedb.Game{}, nil
}

func (f *FakeLeagueRepository) DeleteLeague(ctx context.Context, db bun.IDB, title string) error {
	f.record("DeleteLeague")
	if f.DeleteLeagueFunc != nil {
		return f.DeleteLeagueFunc(ctx, db, title)
	}
	return nil
}

var _ leaguedb.Repository = (*FakeLeagueRepository)(nil)

// ------------------------
// Fake League Metrics
// ------------------------

// FakeLeagueMetrics counts calls so tests can assert what was recorded.
type FakeLeagueMetrics struct {
	Attempts       map[string]int
	Successes      map[string]int
	Failures       map[string]int
	TeamsCreated   int
	PlayersCreated int
	Polls          int
	PolledGames    int
	PollErrors     int
}

func NewFakeLeagueMetrics() *FakeLeagueMetrics {
	return &FakeLeagueMetrics{
		Attempts:  map[string]int{},
		Successes: map[string]int{},
		Failures:  map[string]int{},
	}
}

func (m *FakeLeagueMetrics) RecordOperationAttempt(_ context.Context, op string) { m.Attempts[op]++ }
func (m *FakeLeagueMetrics) RecordOperationSuccess(_ context.Context, op string) { m.Successes[op]++ }
func (m *FakeLeagueMetrics) RecordOperationFailure(_ context.Context, op string) { m.Failures[op]++ }
func (m *FakeLeagueMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (m *FakeLeagueMetrics) RecordTeamsCreated(_ context.Context, n int)   { m.TeamsCreated += n }
func (m *FakeLeagueMetrics) RecordPlayersCreated(_ context.Context, n int) { m.PlayersCreated += n }
func (m *FakeLeagueMetrics) RecordServerPoll(_ context.Context, n int, err error) {
	m.Polls++
	m.PolledGames += n
	if err != nil {
		m.PollErrors++
	}
}
