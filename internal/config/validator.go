package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/talgya/contagion/internal/epidemic"
	"github.com/talgya/contagion/internal/scenario"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "server.day_interval_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

var (
	validLogLevels  = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats = []string{"auto", "text", "json"}
)

// Validate checks every section and returns all problems found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateGame()...)
	errs = append(errs, c.validateWorld()...)
	errs = append(errs, c.validateArchive()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateSteward()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateGame() []ValidationError {
	var errs []ValidationError

	if _, err := epidemic.ParseDifficulty(c.Game.Difficulty); err != nil {
		names := make([]string, 0, 3)
		for _, d := range epidemic.Difficulties() {
			names = append(names, string(d))
		}
		errs = append(errs, ValidationError{
			Field:   "game.difficulty",
			Value:   c.Game.Difficulty,
			Message: "must be one of: " + strings.Join(names, ", "),
		})
	}
	if c.Game.MaxDays < 0 {
		errs = append(errs, ValidationError{
			Field:   "game.max_days",
			Value:   c.Game.MaxDays,
			Message: "must be non-negative (0 = until the session ends)",
		})
	}

	return errs
}

func (c *Config) validateWorld() []ValidationError {
	var errs []ValidationError

	if c.World.Generate.Enabled {
		if err := c.genConfig().Validate(); err != nil {
			errs = append(errs, ValidationError{
				Field:   "world.generate",
				Value:   c.World.Generate,
				Message: err.Error(),
			})
		}
		return errs
	}

	if len(c.World.Regions) > 0 {
		if err := scenario.Validate(c.World.Regions); err != nil {
			errs = append(errs, ValidationError{
				Field:   "world.regions",
				Value:   len(c.World.Regions),
				Message: err.Error(),
			})
		}
	}

	return errs
}

func (c *Config) validateArchive() []ValidationError {
	if c.Archive.Enabled && strings.TrimSpace(c.Archive.Path) == "" {
		return []ValidationError{{
			Field:   "archive.path",
			Value:   c.Archive.Path,
			Message: "is required when the archive is enabled",
		}}
	}
	return nil
}

func (c *Config) validateServer() []ValidationError {
	var errs []ValidationError

	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}
	if c.Server.DayIntervalMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.day_interval_ms",
			Value:   c.Server.DayIntervalMs,
			Message: "must be positive",
		})
	}
	if c.Server.Speed < 0 || c.Server.Speed > 1000 {
		errs = append(errs, ValidationError{
			Field:   "server.speed",
			Value:   c.Server.Speed,
			Message: "must be between 0 and 1000",
		})
	}
	if c.Server.AdvancePerMinute < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.advance_per_minute",
			Value:   c.Server.AdvancePerMinute,
			Message: "must be at least 1",
		})
	}

	return errs
}

func (c *Config) validateSteward() []ValidationError {
	var errs []ValidationError

	if c.Steward.IntervalSeconds < 1 {
		errs = append(errs, ValidationError{
			Field:   "steward.interval_seconds",
			Value:   c.Steward.IntervalSeconds,
			Message: "must be at least 1",
		})
	}
	if c.Steward.URL != "" && !strings.HasPrefix(c.Steward.URL, "http://") && !strings.HasPrefix(c.Steward.URL, "https://") {
		errs = append(errs, ValidationError{
			Field:   "steward.url",
			Value:   c.Steward.URL,
			Message: "must be an http or https URL",
		})
	}

	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(validLogLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of: debug, info, warn, error",
		})
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: "must be one of: " + strings.Join(validLogFormats, ", "),
		})
	}

	return errs
}
