// Package config loads the importer settings from defaults, an optional TOML
// file and LANCER_NPC_ environment variables, in that order
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/entities/lancer"
	"github.com/Agraael/Lancer-vtt-NPC-import-Macro/internal/errors"
)

// EnvPrefix namespaces every environment variable
const EnvPrefix = "LANCER_NPC_"

// Store backends
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Library sources
const (
	LibraryDirectory = "directory"
	LibraryRedis     = "redis"
)

// Config is the full importer configuration
type Config struct {
	Server  ServerConfig  `toml:"server" envPrefix:"SERVER_"`
	Store   StoreConfig   `toml:"store" envPrefix:"STORE_"`
	Library LibraryConfig `toml:"library" envPrefix:"LIBRARY_"`
	Roster  RosterConfig  `toml:"roster" envPrefix:"ROSTER_"`
	Import  ImportConfig  `toml:"import" envPrefix:"IMPORT_"`
	Logging LoggingConfig `toml:"logging" envPrefix:"LOG_"`
}

// ServerConfig configures the gRPC listener
type ServerConfig struct {
	Port            int           `toml:"port" env:"PORT"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// StoreConfig selects where actors are persisted
type StoreConfig struct {
	Backend       string `toml:"backend" env:"BACKEND"`
	RedisAddr     string `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"REDIS_DB"`
	SQLitePath    string `toml:"sqlite_path" env:"SQLITE_PATH"`
}

// LibraryConfig selects where compendium partitions are read from
type LibraryConfig struct {
	Source string `toml:"source" env:"SOURCE"`
	// Dir holds one YAML or JSON file per partition
	Dir string `toml:"dir" env:"DIR"`
}

// RosterConfig points at the Comp/Con roster export
type RosterConfig struct {
	Dir        string `toml:"dir" env:"DIR"`
	ActiveOnly bool   `toml:"active_only" env:"ACTIVE_ONLY"`
}

// ImportConfig holds the merge defaults
type ImportConfig struct {
	UpdateExisting  bool          `toml:"update_existing" env:"UPDATE_EXISTING"`
	Scaling         string        `toml:"scaling" env:"SCALING"`
	SettleDelay     time.Duration `toml:"settle_delay" env:"SETTLE_DELAY"`
	DefaultPortrait string        `toml:"default_portrait" env:"DEFAULT_PORTRAIT"`
}

// LoggingConfig configures the slog handler
type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"`
}

// Default returns the built in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            50051,
			ShutdownTimeout: 30 * time.Second,
		},
		Store: StoreConfig{
			Backend:    StoreSQLite,
			RedisAddr:  "localhost:6379",
			SQLitePath: "lancer-npcs.db",
		},
		Library: LibraryConfig{
			Source: LibraryDirectory,
			Dir:    "library",
		},
		Roster: RosterConfig{
			Dir:        "roster",
			ActiveOnly: true,
		},
		Import: ImportConfig{
			UpdateExisting:  true,
			Scaling:         lancer.ScalingScaled.String(),
			SettleDelay:     500 * time.Millisecond,
			DefaultPortrait: lancer.DefaultPortrait,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NotFoundf("config file %s not found", path)
			}
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse config file "+path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, key := range undecoded {
				keys[i] = key.String()
			}
			return nil, errors.InvalidArgumentf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		vb.Field("server.port", "must be between 0 and 65535")
	}
	if c.Server.ShutdownTimeout < 0 {
		vb.Field("server.shutdown_timeout", "must not be negative")
	}

	errors.ValidateEnum("store.backend", c.Store.Backend, []string{StoreMemory, StoreRedis, StoreSQLite}, vb)
	switch c.Store.Backend {
	case StoreRedis:
		errors.ValidateRequired("store.redis_addr", c.Store.RedisAddr, vb)
	case StoreSQLite:
		errors.ValidateRequired("store.sqlite_path", c.Store.SQLitePath, vb)
	}

	errors.ValidateEnum("library.source", c.Library.Source, []string{LibraryDirectory, LibraryRedis}, vb)
	if c.Library.Source == LibraryDirectory {
		errors.ValidateRequired("library.dir", c.Library.Dir, vb)
	}
	if c.Library.Source == LibraryRedis && c.Store.RedisAddr == "" {
		vb.Field("store.redis_addr", "is required for the redis library")
	}

	errors.ValidateEnum("import.scaling", c.Import.Scaling,
		[]string{lancer.ScalingScaled.String(), lancer.ScalingFlat.String()}, vb)
	if c.Import.SettleDelay < 0 {
		vb.Field("import.settle_delay", "must not be negative")
	}

	errors.ValidateEnum("logging.level", strings.ToLower(c.Logging.Level), []string{"debug", "info", "warn", "error"}, vb)
	errors.ValidateEnum("logging.format", c.Logging.Format, []string{"text", "json"}, vb)

	return vb.Build()
}

// ScalingPolicy returns the configured default policy
func (c *Config) ScalingPolicy() lancer.ScalingPolicy {
	return lancer.ScalingPolicy(c.Import.Scaling)
}

// NewLogger builds the slog logger described by the logging settings
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
