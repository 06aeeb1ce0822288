package leagueintegrationtests

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	leagueservice "github.com/Black-And-White-Club/torn-league/app/modules/league/application"
	leaguedoc "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/document"
	leaguedb "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/torn-league/app/observability/logging"
	leaguemetrics "github.com/Black-And-White-Club/torn-league/app/observability/metrics/league"
	"github.com/Black-And-White-Club/torn-league/integration_tests/testutils"
)

// TestDeps holds dependencies needed by individual tests.
type TestDeps struct {
	Ctx     context.Context
	DB      *leaguedb.Impl
	BunDB   *bun.DB
	Service *leagueservice.LeagueService
	Path    string
}

// SetupTestLeagueService returns a service backed by the shared database with empty mirror tables.
func SetupTestLeagueService(t *testing.T) TestDeps {
	t.Helper()

	ctx := testEnv.Ctx
	if err := testutils.CleanLeagueTables(ctx, testEnv.DB); err != nil {
		t.Fatalf("Failed to clean league tables: %v", err)
	}

	repo := testEnv.DBService.LeagueDB
	service := leagueservice.NewLeagueService(
		repo,
		logging.NoOpLogger(),
		leaguemetrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		testEnv.DB,
		leaguedoc.Codec{Location: time.UTC},
	)

	path := filepath.Join(t.TempDir(), "Integration_League.Torn")
	if err := service.New(ctx, path); err != nil {
		t.Fatalf("Failed to create league: %v", err)
	}

	return TestDeps{
		Ctx:     ctx,
		DB:      repo,
		BunDB:   testEnv.DB,
		Service: service,
		Path:    path,
	}
}
