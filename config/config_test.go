package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
league:
  file: /data/Winter_League.Torn
  handicap_style: "+"
  auto_save: true
  timezone: Australia/Perth
server:
  kind: laserforce
  dsn: postgres://lf@server/laserforce
  games_limit: 50
  poll_interval: 10s
postgres:
  dsn: postgres://mirror@localhost/league
observability:
  metrics_address: ":9090"
  log_format: json
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/Winter_League.Torn", cfg.League.File)
	assert.Equal(t, "+", cfg.League.HandicapStyle)
	assert.True(t, cfg.League.AutoSave)
	assert.Equal(t, "laserforce", cfg.Server.Kind)
	assert.Equal(t, 50, cfg.Server.GamesLimit)
	assert.Equal(t, 10*time.Second, cfg.Server.PollInterval)
	assert.Equal(t, "postgres://mirror@localhost/league", cfg.Postgres.DSN)
	assert.Equal(t, ":9090", cfg.Observability.MetricsAddress)
	assert.Equal(t, "json", cfg.Observability.LogFormat)
	assert.Equal(t, DefaultLogLevel, cfg.Observability.LogLevel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "server:\n  kind: laserforce\n")
	t.Setenv("SERVER_KIND", "demo")
	t.Setenv("LEAGUE_FILE", "override.Torn")
	t.Setenv("SERVER_POLL_INTERVAL", "1m")
	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Server.Kind)
	assert.Equal(t, "override.Torn", cfg.League.File)
	assert.Equal(t, time.Minute, cfg.Server.PollInterval)
	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
}

func TestLoadConfig_FallsBackToEnv(t *testing.T) {
	t.Setenv("LEAGUE_FILE", "env.Torn")
	t.Setenv("SERVER_GAMES_LIMIT", "25")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env.Torn", cfg.League.File)
	assert.Equal(t, 25, cfg.Server.GamesLimit)
	assert.Equal(t, DefaultServerKind, cfg.Server.Kind)
	assert.Equal(t, DefaultPollInterval, cfg.Server.PollInterval)
}

func TestLoadConfig_FromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("SERVER_GAMES_LIMIT", "lots")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "league: [unclosed")

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLeagueConfigLocation(t *testing.T) {
	loc, err := LeagueConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LeagueConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LeagueConfig{Timezone: "Nowhere/Special"}.Location()
	require.Error(t, err)
}
