package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Server holds all configuration for the tycoon daemon.
type Server struct {
	LogLevel string `yaml:"log_level"`

	Engine   EngineConfig   `yaml:"engine"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
}

// EngineConfig holds simulation tunables.
type EngineConfig struct {
	TickInterval        time.Duration `yaml:"tick_interval"`         // default: 1s
	PriceUpdateInterval time.Duration `yaml:"price_update_interval"` // default: 30s
	StartingMoney       float64       `yaml:"starting_money"`
}

// HTTPConfig holds the command/query API settings.
type HTTPConfig struct {
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Command rate limit (token bucket, requests per second).
	CommandRate  float64 `yaml:"command_rate"`
	CommandBurst int     `yaml:"command_burst"`

	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Addr returns host:port for net.Listen.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.BindAddress, strconv.Itoa(h.Port))
}

// DatabaseConfig selects and configures save storage.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // none | postgres | sqlite

	// PostgreSQL
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	// SQLite
	SQLitePath string `yaml:"sqlite_path"`

	SaveSlot         string        `yaml:"save_slot"`
	AutosaveInterval time.Duration `yaml:"autosave_interval"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Enabled reports whether a storage driver is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Driver != "" && d.Driver != DriverNone
}

// DefaultServer returns Server config with sensible defaults.
func DefaultServer() Server {
	return Server{
		LogLevel: "info",
		Engine: EngineConfig{
			TickInterval:        time.Second,
			PriceUpdateInterval: 30 * time.Second,
			StartingMoney:       50,
		},
		HTTP: HTTPConfig{
			BindAddress:    "127.0.0.1",
			Port:           8080,
			CommandRate:    20,
			CommandBurst:   40,
			AllowedOrigins: []string{"http://localhost:3000"},
			RequestTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:           DriverNone,
			Host:             "127.0.0.1",
			Port:             5432,
			User:             "tycoon",
			Password:         "tycoon",
			DBName:           "tycoon",
			SSLMode:          "disable",
			SQLitePath:       "data/tycoon.db",
			SaveSlot:         "default",
			AutosaveInterval: time.Minute,
		},
	}
}

// LoadServer loads server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadServer(path string) (Server, error) {
	cfg := DefaultServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks value ranges that would otherwise fail at startup.
func (s Server) Validate() error {
	var errs []error

	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", s.LogLevel))
	}
	if s.Engine.TickInterval <= 0 {
		errs = append(errs, errors.New("engine.tick_interval must be positive"))
	}
	if s.Engine.PriceUpdateInterval <= 0 {
		errs = append(errs, errors.New("engine.price_update_interval must be positive"))
	}
	if s.Engine.StartingMoney < 0 {
		errs = append(errs, errors.New("engine.starting_money must not be negative"))
	}
	if s.HTTP.Port < 0 || s.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", s.HTTP.Port))
	}
	if s.HTTP.CommandRate <= 0 || s.HTTP.CommandBurst <= 0 {
		errs = append(errs, errors.New("http.command_rate and http.command_burst must be positive"))
	}

	switch s.Database.Driver {
	case "", DriverNone:
	case DriverPostgres, DriverSQLite:
		if s.Database.SaveSlot == "" {
			errs = append(errs, errors.New("database.save_slot must not be empty"))
		}
		if s.Database.AutosaveInterval <= 0 {
			errs = append(errs, errors.New("database.autosave_interval must be positive"))
		}
		if s.Database.Driver == DriverSQLite && s.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q: want none, postgres or sqlite", s.Database.Driver))
	}

	return errors.Join(errs...)
}
