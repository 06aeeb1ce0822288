package leagueservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
	leaguedoc "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/document"
	leaguedb "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories"
	leaguemetrics "github.com/Black-And-White-Club/torn-league/app/observability/metrics/league"
)

var (
	// ErrNoLeagueFile is returned when saving a league that has never had a path.
	ErrNoLeagueFile = errors.New("league has no file")
	// ErrNoMirror is returned by mirror queries when no repository is configured.
	ErrNoMirror = errors.New("league mirror not configured")
)

// LeagueService owns one league document and its file.
// It is not safe for concurrent use; callers serialise access.
type LeagueService struct {
	repo    leaguedb.Repository
	logger  *slog.Logger
	metrics leaguemetrics.LeagueMetrics
	tracer  trace.Tracer
	db      *bun.DB
	codec   leaguedoc.Codec

	// AutoSave writes the document after every successful commit.
	AutoSave bool
	// HandicapStyle is applied to leagues created with New.
	HandicapStyle leaguedomain.HandicapStyle

	league *leaguedomain.League
	path   string
}

// NewLeagueService creates a LeagueService holding an empty, unsaved league.
// repo and db are optional; without them the reporting mirror is skipped.
func NewLeagueService(
	repo leaguedb.Repository,
	logger *slog.Logger,
	metrics leaguemetrics.LeagueMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	codec leaguedoc.Codec,
) *LeagueService {
	return &LeagueService{
		repo:          repo,
		logger:        logger,
		metrics:       metrics,
		tracer:        tracer,
		db:            db,
		codec:         codec,
		HandicapStyle: leaguedomain.HandicapPercent,
		league:        leaguedomain.NewLeague(),
	}
}

// operationFunc is the signature for service operations run under withTelemetry.
type operationFunc[T any] func(ctx context.Context) (T, error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[T any](
	s *LeagueService,
	ctx context.Context,
	operationName string,
	op operationFunc[T],
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("league", s.league.Title),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, operationName+" triggered",
		"operation", operationName,
		"league", s.league.Title,
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				"operation", operationName,
				"error", err,
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			"operation", operationName,
			"league", s.league.Title,
			"error", wrappedErr,
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.DebugContext(ctx, operationName+" completed successfully",
		"operation", operationName,
		"league", s.league.Title,
	)
	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

// runInTx runs fn inside a transaction when a database is configured.
func runInTx[T any](
	s *LeagueService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (T, error),
) (T, error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result T
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}

// League returns the league the service holds.
func (s *LeagueService) League() *leaguedomain.League { return s.league }

// Path returns the file the league was loaded from or last saved to.
func (s *LeagueService) Path() string { return s.path }

// Title returns the league title.
func (s *LeagueService) Title() string { return s.league.Title }
