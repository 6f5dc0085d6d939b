package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete overlay configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Feed    FeedConfig    `mapstructure:"feed"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Clip    ClipConfig    `mapstructure:"clip"`
	UI      UIConfig      `mapstructure:"ui"`
	I18n    I18nConfig    `mapstructure:"i18n"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig locates the ThrowSync backend that broadcasts the event feed
type ServerConfig struct {
	// Host is substituted at deployment time (default: "localhost")
	Host string `mapstructure:"host"`
	// Port of the backend HTTP/WebSocket listener (default: 8420)
	Port int `mapstructure:"port"`
	// Secure switches to wss:// and https://
	Secure bool `mapstructure:"secure"`
}

// FeedConfig controls the connection manager
type FeedConfig struct {
	// RetryDelay is the pause before reconnecting after a lost session
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	// InitialFailureDelay is the pause when a session could not be established at all
	InitialFailureDelay time.Duration `mapstructure:"initial_failure_delay"`
	// PingInterval sends {"type":"ping"} keep-alives (0 disables)
	PingInterval time.Duration `mapstructure:"ping_interval"`
	// HandshakeTimeout bounds the WebSocket handshake
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

// AudioConfig controls the caller and crowd channels
type AudioConfig struct {
	// Enabled toggles the caller (queued) channel
	Enabled bool `mapstructure:"enabled"`
	// CrowdEnabled toggles the fire-and-forget crowd channel
	CrowdEnabled bool `mapstructure:"crowd_enabled"`
	// CueTimeout is the hard cap on a single cue's playback
	CueTimeout time.Duration `mapstructure:"cue_timeout"`
	// SampleRate of the output device
	SampleRate int `mapstructure:"sample_rate"`
}

// ClipConfig controls the media overlay
type ClipConfig struct {
	// DefaultDuration is used when a clip message carries no usable duration
	DefaultDuration time.Duration `mapstructure:"default_duration"`
}

// UIConfig controls the presentation renderer
type UIConfig struct {
	// Headless renders to the terminal instead of opening a window
	Headless   bool `mapstructure:"headless"`
	Width      int  `mapstructure:"width"`
	Height     int  `mapstructure:"height"`
	HUDVisible bool `mapstructure:"hud_visible"`
}

// I18nConfig selects the toast language
type I18nConfig struct {
	// Lang forces a language ("en", "de", "nl", "fr"); empty detects from the system locale
	Lang string `mapstructure:"lang"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// File is the log destination; empty means stderr
	File string `mapstructure:"file"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8420,
		},
		Feed: FeedConfig{
			RetryDelay:          2 * time.Second,
			InitialFailureDelay: 3 * time.Second,
			PingInterval:        20 * time.Second,
			HandshakeTimeout:    5 * time.Second,
		},
		Audio: AudioConfig{
			Enabled:      true,
			CrowdEnabled: true,
			CueTimeout:   4 * time.Second,
			SampleRate:   44100,
		},
		Clip: ClipConfig{
			DefaultDuration: 5 * time.Second,
		},
		UI: UIConfig{
			Width:      420,
			Height:     260,
			HUDVisible: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("server.host", defaults.Server.Host)
	viper.SetDefault("server.port", defaults.Server.Port)
	viper.SetDefault("server.secure", defaults.Server.Secure)

	viper.SetDefault("feed.retry_delay", defaults.Feed.RetryDelay)
	viper.SetDefault("feed.initial_failure_delay", defaults.Feed.InitialFailureDelay)
	viper.SetDefault("feed.ping_interval", defaults.Feed.PingInterval)
	viper.SetDefault("feed.handshake_timeout", defaults.Feed.HandshakeTimeout)

	viper.SetDefault("audio.enabled", defaults.Audio.Enabled)
	viper.SetDefault("audio.crowd_enabled", defaults.Audio.CrowdEnabled)
	viper.SetDefault("audio.cue_timeout", defaults.Audio.CueTimeout)
	viper.SetDefault("audio.sample_rate", defaults.Audio.SampleRate)

	viper.SetDefault("clip.default_duration", defaults.Clip.DefaultDuration)

	viper.SetDefault("ui.headless", defaults.UI.Headless)
	viper.SetDefault("ui.width", defaults.UI.Width)
	viper.SetDefault("ui.height", defaults.UI.Height)
	viper.SetDefault("ui.hud_visible", defaults.UI.HUDVisible)

	viper.SetDefault("i18n.lang", defaults.I18n.Lang)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "throwoverlay")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".throwoverlay"
	}
	return filepath.Join(home, ".config", "throwoverlay")
}

// FeedURL is the WebSocket endpoint; the path is fixed.
func (s ServerConfig) FeedURL() string {
	scheme := "ws"
	if s.Secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: fmt.Sprintf("%s:%d", s.Host, s.Port), Path: "/ws"}
	return u.String()
}

// AssetBase is the HTTP origin that serves /sounds and /clips.
func (s ServerConfig) AssetBase() string {
	scheme := "http"
	if s.Secure {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: fmt.Sprintf("%s:%d", s.Host, s.Port)}
	return u.String()
}
