package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when a setting is left empty.
const (
	DefaultServerKind   = "demo"
	DefaultGamesLimit   = 1000
	DefaultPollInterval = 30 * time.Second
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Config struct to hold the configuration settings
type Config struct {
	League        LeagueConfig        `yaml:"league"`
	Server        ServerConfig        `yaml:"server"`
	Postgres      PostgresConfig      `yaml:"postgres"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// LeagueConfig holds settings for the league document.
type LeagueConfig struct {
	File string `yaml:"file"`
	// HandicapStyle is used for newly created leagues: "%", "+" or "-".
	HandicapStyle string `yaml:"handicap_style"`
	// AutoSave writes the document after every committed game.
	AutoSave bool `yaml:"auto_save"`
	// Timezone names the zone game times are written in. Empty means local time.
	Timezone string `yaml:"timezone"`
}

// ServerConfig selects and configures the laser game server connector.
type ServerConfig struct {
	Kind         string        `yaml:"kind"` // demo|laserforce
	DSN          string        `yaml:"dsn"`
	GamesLimit   int           `yaml:"games_limit"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// PostgresConfig holds Postgres configuration for the reporting mirror.
// An empty DSN disables the mirror.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // text|json
}

// Location resolves the configured timezone.
func (c LeagueConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid league timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("LEAGUE_FILE"); v != "" {
		cfg.League.File = v
	}
	if v := os.Getenv("LEAGUE_HANDICAP_STYLE"); v != "" {
		cfg.League.HandicapStyle = v
	}
	if v := os.Getenv("LEAGUE_AUTO_SAVE"); v != "" {
		cfg.League.AutoSave = v == "true"
	}
	if v := os.Getenv("LEAGUE_TIMEZONE"); v != "" {
		cfg.League.Timezone = v
	}
	if v := os.Getenv("SERVER_KIND"); v != "" {
		cfg.Server.Kind = v
	}
	if v := os.Getenv("SERVER_DSN"); v != "" {
		cfg.Server.DSN = v
	}
	if v := os.Getenv("SERVER_GAMES_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.GamesLimit = n
		}
	}
	if v := os.Getenv("SERVER_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.PollInterval = d
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.League.File = os.Getenv("LEAGUE_FILE")
	cfg.League.HandicapStyle = os.Getenv("LEAGUE_HANDICAP_STYLE")
	cfg.League.AutoSave = os.Getenv("LEAGUE_AUTO_SAVE") == "true"
	cfg.League.Timezone = os.Getenv("LEAGUE_TIMEZONE")

	cfg.Server.Kind = os.Getenv("SERVER_KIND")
	cfg.Server.DSN = os.Getenv("SERVER_DSN")
	if v := os.Getenv("SERVER_GAMES_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_GAMES_LIMIT value: %v", err)
		}
		cfg.Server.GamesLimit = n
	}
	if v := os.Getenv("SERVER_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_POLL_INTERVAL value: %v", err)
		}
		cfg.Server.PollInterval = d
	}

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL") // optional; empty disables the mirror

	cfg.Observability.MetricsAddress = os.Getenv("METRICS_ADDRESS") // optional; empty disables metrics
	cfg.Observability.Environment = os.Getenv("ENV")
	cfg.Observability.LogLevel = os.Getenv("LOG_LEVEL")
	cfg.Observability.LogFormat = os.Getenv("LOG_FORMAT")

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Kind == "" {
		c.Server.Kind = DefaultServerKind
	}
	if c.Server.GamesLimit <= 0 {
		c.Server.GamesLimit = DefaultGamesLimit
	}
	if c.Server.PollInterval <= 0 {
		c.Server.PollInterval = DefaultPollInterval
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = DefaultLogLevel
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = DefaultLogFormat
	}
}
