package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "server.port")
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
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLanguages returns the languages the toast table is translated into
func ValidLanguages() []string {
	return []string{"en", "de", "nl", "fr"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateFeed()...)
	errors = append(errors, c.validateAudio()...)
	errors = append(errors, c.validateUI()...)
	errors = append(errors, c.validateI18n()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Server.Host) == "" {
		errors = append(errors, ValidationError{
			Field:   "server.host",
			Value:   c.Server.Host,
			Message: "must not be empty",
		})
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be between 1 and 65535",
		})
	}

	return errors
}

func (c *Config) validateFeed() []ValidationError {
	var errors []ValidationError

	positive := map[string]time.Duration{
		"feed.retry_delay":           c.Feed.RetryDelay,
		"feed.initial_failure_delay": c.Feed.InitialFailureDelay,
		"feed.handshake_timeout":     c.Feed.HandshakeTimeout,
	}
	for _, field := range []string{"feed.retry_delay", "feed.initial_failure_delay", "feed.handshake_timeout"} {
		if positive[field] <= 0 {
			errors = append(errors, ValidationError{
				Field:   field,
				Value:   positive[field],
				Message: "must be positive",
			})
		}
	}

	// Ping interval can be 0 (disabled) but not negative
	if c.Feed.PingInterval < 0 {
		errors = append(errors, ValidationError{
			Field:   "feed.ping_interval",
			Value:   c.Feed.PingInterval,
			Message: "must be non-negative (0 disables)",
		})
	}

	return errors
}

func (c *Config) validateAudio() []ValidationError {
	var errors []ValidationError

	if c.Audio.CueTimeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "audio.cue_timeout",
			Value:   c.Audio.CueTimeout,
			Message: "must be positive",
		})
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		errors = append(errors, ValidationError{
			Field:   "audio.sample_rate",
			Value:   c.Audio.SampleRate,
			Message: "must be between 8000 and 192000",
		})
	}

	return errors
}

func (c *Config) validateUI() []ValidationError {
	var errors []ValidationError

	if c.UI.Width <= 0 {
		errors = append(errors, ValidationError{Field: "ui.width", Value: c.UI.Width, Message: "must be positive"})
	}
	if c.UI.Height <= 0 {
		errors = append(errors, ValidationError{Field: "ui.height", Value: c.UI.Height, Message: "must be positive"})
	}
	if c.Clip.DefaultDuration <= 0 {
		errors = append(errors, ValidationError{
			Field:   "clip.default_duration",
			Value:   c.Clip.DefaultDuration,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateI18n() []ValidationError {
	if c.I18n.Lang != "" && !slices.Contains(ValidLanguages(), c.I18n.Lang) {
		return []ValidationError{{
			Field:   "i18n.lang",
			Value:   c.I18n.Lang,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLanguages(), ", ")),
		}}
	}
	return nil
}

func (c *Config) validateLogging() []ValidationError {
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		return []ValidationError{{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		}}
	}
	return nil
}
