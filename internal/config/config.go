// Package config loads contagion settings from defaults, an optional YAML
// file and CONTAGION_* environment variables through viper.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/scenario"
)

// EnvPrefix is prepended to every environment override, e.g.
// CONTAGION_GAME_DIFFICULTY for game.difficulty.
const EnvPrefix = "CONTAGION"

// Config represents the complete contagion configuration
type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	World   WorldConfig   `mapstructure:"world"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Server  ServerConfig  `mapstructure:"server"`
	Steward StewardConfig `mapstructure:"steward"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// GameConfig controls the session rules
type GameConfig struct {
	// Difficulty is one of "easy", "normal", "expert"
	Difficulty string `mapstructure:"difficulty"`
	// Seed makes a session replayable. 0 draws from crypto/rand.
	Seed int64 `mapstructure:"seed"`
	// MaxDays stops a headless run early (0 = play until an end condition)
	MaxDays int `mapstructure:"max_days"`
}

// WorldConfig selects the starting regions
type WorldConfig struct {
	// Regions overrides the built-in world when non-empty
	Regions []scenario.RegionConfig `mapstructure:"regions"`
	// Generate builds a procedural world instead
	Generate GenerateConfig `mapstructure:"generate"`
}

// GenerateConfig mirrors scenario.GenConfig
type GenerateConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Regions       int     `mapstructure:"regions"`
	MinPopulation int     `mapstructure:"min_population"`
	MaxPopulation int     `mapstructure:"max_population"`
	SeedFraction  float64 `mapstructure:"seed_fraction"`
}

// ArchiveConfig controls the SQLite run archive
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServerConfig controls the HTTP API and the real-time day loop
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	// AdminKey is the bearer token for POST endpoints (empty disables them)
	AdminKey string   `mapstructure:"admin_key"`
	Origins  []string `mapstructure:"origins"`
	// DayIntervalMs is wall time per simulated day at speed 1
	DayIntervalMs int `mapstructure:"day_interval_ms"`
	// Speed multiplies the day rate; 0 starts paused
	Speed float64 `mapstructure:"speed"`
	// AdvancePerMinute limits manual POST /advance calls per client
	AdvancePerMinute int `mapstructure:"advance_per_minute"`
}

// StewardConfig controls the rule-based autopilot
type StewardConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// URL points a standalone steward at a running server
	URL             string `mapstructure:"url"`
	IntervalSeconds int    `mapstructure:"interval_seconds"`
	MemoryFile      string `mapstructure:"memory_file"`
}

// LoggingConfig controls slog output
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Format is "auto" (text on a terminal, JSON otherwise), "text" or "json"
	Format string `mapstructure:"format"`
}

// Default returns the default configuration
func Default() *Config {
	gen := scenario.DefaultGenConfig()
	return &Config{
		Game: GameConfig{
			Difficulty: string(epidemic.DifficultyNormal),
			Seed:       0,
			MaxDays:    0,
		},
		World: WorldConfig{
			Generate: GenerateConfig{
				Enabled:       false,
				Regions:       gen.Regions,
				MinPopulation: gen.MinPopulation,
				MaxPopulation: gen.MaxPopulation,
				SeedFraction:  gen.SeedFraction,
			},
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    filepath.Join(DataDir(), "runs.db"),
		},
		Server: ServerConfig{
			Addr:             ":8080",
			Origins:          []string{},
			DayIntervalMs:    1000,
			Speed:            1,
			AdvancePerMinute: 60,
		},
		Steward: StewardConfig{
			Enabled:         false,
			URL:             "http://localhost:8080",
			IntervalSeconds: 5,
			MemoryFile:      filepath.Join(DataDir(), "steward_memory.json"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("game.difficulty", d.Game.Difficulty)
	v.SetDefault("game.seed", d.Game.Seed)
	v.SetDefault("game.max_days", d.Game.MaxDays)

	v.SetDefault("world.regions", d.World.Regions)
	v.SetDefault("world.generate.enabled", d.World.Generate.Enabled)
	v.SetDefault("world.generate.regions", d.World.Generate.Regions)
	v.SetDefault("world.generate.min_population", d.World.Generate.MinPopulation)
	v.SetDefault("world.generate.max_population", d.World.Generate.MaxPopulation)
	v.SetDefault("world.generate.seed_fraction", d.World.Generate.SeedFraction)

	v.SetDefault("archive.enabled", d.Archive.Enabled)
	v.SetDefault("archive.path", d.Archive.Path)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.admin_key", d.Server.AdminKey)
	v.SetDefault("server.origins", d.Server.Origins)
	v.SetDefault("server.day_interval_ms", d.Server.DayIntervalMs)
	v.SetDefault("server.speed", d.Server.Speed)
	v.SetDefault("server.advance_per_minute", d.Server.AdvancePerMinute)

	v.SetDefault("steward.enabled", d.Steward.Enabled)
	v.SetDefault("steward.url", d.Steward.URL)
	v.SetDefault("steward.interval_seconds", d.Steward.IntervalSeconds)
	v.SetDefault("steward.memory_file", d.Steward.MemoryFile)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// BindEnv makes v read CONTAGION_* variables, with dots in keys replaced
// by underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// DataDir is where the archive and steward memory live by default
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "contagion")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "contagion")
	}
	return "data"
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "contagion")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "contagion")
	}
	return "."
}

// Difficulty returns the parsed game difficulty
func (c *Config) Difficulty() epidemic.Difficulty {
	d, err := epidemic.ParseDifficulty(c.Game.Difficulty)
	if err != nil {
		return epidemic.DifficultyNormal
	}
	return d
}

// Regions returns the starting world: generated, configured, or built in.
func (c *Config) Regions() ([]scenario.RegionConfig, error) {
	if c.World.Generate.Enabled {
		return scenario.Generate(c.genConfig())
	}
	if len(c.World.Regions) > 0 {
		return append([]scenario.RegionConfig(nil), c.World.Regions...), nil
	}
	return scenario.BuiltIn(), nil
}

func (c *Config) genConfig() scenario.GenConfig {
	g := c.World.Generate
	return scenario.GenConfig{
		Regions:       g.Regions,
		Seed:          c.Game.Seed,
		MinPopulation: g.MinPopulation,
		MaxPopulation: g.MaxPopulation,
		SeedFraction:  g.SeedFraction,
	}
}

// DayInterval returns the day loop interval as a time.Duration
func (c *ServerConfig) DayInterval() time.Duration {
	return time.Duration(c.DayIntervalMs) * time.Millisecond
}

// Interval returns the steward cycle interval as a time.Duration
func (c *StewardConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// SlogLevel maps the configured level to a slog.Level
func (c *LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
