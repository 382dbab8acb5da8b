package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Stream   StreamConfig   `yaml:"stream"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:""`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"55s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"55s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	GinMode         string        `yaml:"gin_mode"         env:"GIN_MODE"                env-default:"release"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig selects the storage engine. SQLite is the default; the
// MySQL settings keep the REAL_DB_* names used by earlier deployments.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"            env:"DB_DRIVER"            env-default:"sqlite"`
	Path            string        `yaml:"path"              env:"DB_PATH"              env-default:"devdesk.db"`
	Host            string        `yaml:"host"              env:"REAL_DB_HOST"`
	Port            string        `yaml:"port"              env:"REAL_DB_PORT"         env-default:"3306"`
	User            string        `yaml:"user"              env:"REAL_DB_USER"`
	Pass            string        `yaml:"pass"              env:"REAL_DB_PASS"`
	Name            string        `yaml:"name"              env:"REAL_DB_NAME"`
	MaxIdleConns    int           `yaml:"max_idle_conns"    env:"DB_MAX_IDLE_CONNS"    env-default:"10"`
	MaxOpenConns    int           `yaml:"max_open_conns"    env:"DB_MAX_OPEN_CONNS"    env-default:"100"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `yaml:"level"       env:"LOG_LEVEL"       env-default:"info"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT" env-default:"false"`
}

// StreamConfig tunes chunked list and CSV responses.
type StreamConfig struct {
	ChunkThreshold int `yaml:"chunk_threshold" env:"STREAM_CHUNK_THRESHOLD" env-default:"32768"`
	BufferSize     int `yaml:"buffer_size"     env:"STREAM_BUFFER_SIZE"     env-default:"51200"`
}

// Validate checks cross-field constraints that env-default tags cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}

	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.gin_mode must be debug, release or test, got %q", c.Server.GinMode)
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case DriverMySQL:
		if c.Database.Host == "" || c.Database.Port == "" || c.Database.User == "" ||
			c.Database.Pass == "" || c.Database.Name == "" {
			return fmt.Errorf("missing required mysql settings (REAL_DB_HOST, REAL_DB_PORT, REAL_DB_USER, REAL_DB_PASS, REAL_DB_NAME)")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverMySQL, c.Database.Driver)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if c.Stream.ChunkThreshold < 0 || c.Stream.BufferSize < 0 {
		return fmt.Errorf("stream sizes must not be negative")
	}

	return nil
}
