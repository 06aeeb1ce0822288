package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"

	leagueservice "github.com/Black-And-White-Club/torn-league/app/modules/league/application"
	leaguedomain "github.com/Black-And-White-Club/torn-league/app/modules/league/domain"
	leaguedoc "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/document"
	leaguedb "github.com/Black-And-White-Club/torn-league/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/torn-league/app/modules/server/connectors"
	"github.com/Black-And-White-Club/torn-league/app/observability/logging"
	leaguemetrics "github.com/Black-And-White-Club/torn-league/app/observability/metrics/league"
	"github.com/Black-And-White-Club/torn-league/config"
	"github.com/Black-And-White-Club/torn-league/db/bundb"
)

// App wires the league service to its configuration and infrastructure.
type App struct {
	Cfg           *config.Config
	Logger        *slog.Logger
	Registry      *prometheus.Registry
	Metrics       *leaguemetrics.PrometheusMetrics
	Location      *time.Location
	LeagueService *leagueservice.LeagueService

	db *bundb.DBService
}

// NewApp builds the application from cfg. The reporting mirror is connected
// only when a Postgres DSN is configured.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewLogger(cfg.Observability)

	loc, err := cfg.League.Location()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := leaguemetrics.NewPrometheusMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	app := &App{
		Cfg:      cfg,
		Logger:   logger,
		Registry: registry,
		Metrics:  metrics,
		Location: loc,
	}

	var repo leaguedb.Repository
	if cfg.Postgres.DSN != "" {
		dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		app.db = dbService
		repo = dbService.LeagueDB
	}

	app.LeagueService = leagueservice.NewLeagueService(
		repo,
		logger.With("module", "league"),
		metrics,
		otel.Tracer("league"),
		app.bunDB(),
		leaguedoc.Codec{Location: loc},
	)
	app.LeagueService.AutoSave = cfg.League.AutoSave
	app.LeagueService.HandicapStyle = leaguedomain.ParseHandicapStyle(cfg.League.HandicapStyle)

	return app, nil
}

func (app *App) bunDB() *bun.DB {
	if app.db == nil {
		return nil
	}
	return app.db.GetDB()
}

// Connector opens the configured game server connector.
func (app *App) Connector(ctx context.Context) (connectors.Connector, error) {
	return connectors.NewConnector(ctx, app.Cfg.Server, app.Location, app.Logger.With("module", "server"))
}

// OpenLeague loads path, or the configured league file when path is empty.
// A file that does not exist yet starts a new league at that path.
func (app *App) OpenLeague(ctx context.Context, path string) error {
	if path == "" {
		path = app.Cfg.League.File
	}
	if path == "" {
		return leagueservice.ErrNoLeagueFile
	}
	if !fileExists(path) {
		return app.LeagueService.New(ctx, path)
	}
	return app.LeagueService.Load(ctx, path)
}

// Close releases the database connection.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
