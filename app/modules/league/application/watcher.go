package leagueservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/time/rate"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
	"github.com/Black-And-White-Club/torn-league/app/modules/server/connectors"
	leaguemetrics "github.com/Black-And-White-Club/torn-league/app/observability/metrics/league"
)

// Watcher polls a game server and commits finished games the league has not
// seen yet.
type Watcher struct {
	service   *LeagueService
	connector connectors.Connector
	limiter   *rate.Limiter
	logger    *slog.Logger
	metrics   leaguemetrics.LeagueMetrics
	now       func() time.Time
}

// NewWatcher returns a Watcher that polls at most once per interval.
func NewWatcher(service *LeagueService, connector connectors.Connector, interval time.Duration, logger *slog.Logger, metrics leaguemetrics.LeagueMetrics) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Watcher{
		service:   service,
		connector: connector,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Run polls until ctx is cancelled. Poll errors are logged and polling continues.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Watching game server", "league", w.service.Title())
	for {
		if err := w.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if _, err := w.Poll(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			w.logger.ErrorContext(ctx, "Failed to poll game server", "error", err)
		}
	}
}

// Poll commits every finished server game newer than the league's latest game,
// oldest first, then saves the league once. Games committed before a failure
// are still saved. It returns the number committed.
func (w *Watcher) Poll(ctx context.Context) (committed int, err error) {
	defer func() {
		w.metrics.RecordServerPoll(ctx, committed, err)
	}()

	games, err := w.connector.ListGames(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list server games: %w", err)
	}

	committed, err = w.commitPending(ctx, w.pendingGames(games))
	if committed > 0 && w.service.AutoSave && w.service.Path() != "" {
		if saveErr := w.service.Save(ctx, ""); saveErr != nil {
			err = errors.Join(err, saveErr)
		}
	}
	if committed > 0 {
		w.logger.InfoContext(ctx, "Committed server games", "count", committed)
	}
	return committed, err
}

// commitPending commits games in order with autosave suspended and stops at the first failure.
func (w *Watcher) commitPending(ctx context.Context, pending []leaguedomain.ServerGame) (int, error) {
	autoSave := w.service.AutoSave
	w.service.AutoSave = false
	defer func() { w.service.AutoSave = autoSave }()

	committed := 0
	for i := range pending {
		sg := &pending[i]
		rosters, err := connectors.RostersByServerTeam(ctx, w.connector, sg)
		if err != nil {
			return committed, err
		}
		if len(rosters) == 0 {
			w.logger.WarnContext(ctx, "Skipping server game without players", "game_id", sg.GameID, "game_time", sg.Time)
			continue
		}
		if _, err := w.service.CommitGame(ctx, sg, rosters); err != nil {
			return committed, err
		}
		committed++
	}
	return committed, nil
}

// pendingGames keeps finished games after the league's most recent game that
// are not already committed, in chronological order.
func (w *Watcher) pendingGames(games []leaguedomain.ServerGame) []leaguedomain.ServerGame {
	l := w.service.League()
	latest, hasGames := l.MostRecent()
	now := w.now()

	var out []leaguedomain.ServerGame
	for _, g := range games {
		if g.InProgress || (!g.EndTime.IsZero() && g.EndTime.After(now)) {
			continue
		}
		if hasGames && !g.Time.After(latest) {
			continue
		}
		if l.GameAt(g.Time) != nil {
			continue
		}
		out = append(out, g)
	}
	slices.SortStableFunc(out, leaguedomain.CompareServerGames)
	return out
}
