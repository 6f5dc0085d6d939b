package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8420 {
		t.Errorf("Server = %+v, want localhost:8420", cfg.Server)
	}
	if cfg.Feed.RetryDelay != 2*time.Second {
		t.Errorf("Feed.RetryDelay = %v, want 2s", cfg.Feed.RetryDelay)
	}
	if cfg.Feed.InitialFailureDelay != 3*time.Second {
		t.Errorf("Feed.InitialFailureDelay = %v, want 3s", cfg.Feed.InitialFailureDelay)
	}
	if cfg.Audio.CueTimeout != 4*time.Second {
		t.Errorf("Audio.CueTimeout = %v, want 4s", cfg.Audio.CueTimeout)
	}
	if !cfg.Audio.Enabled || !cfg.Audio.CrowdEnabled {
		t.Error("audio channels should be enabled by default")
	}
	if !cfg.UI.HUDVisible {
		t.Error("UI.HUDVisible should be true by default")
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v, want no errors", errs)
	}
}

func TestServerURLs(t *testing.T) {
	tests := []struct {
		name      string
		server    ServerConfig
		wantFeed  string
		wantAsset string
	}{
		{
			name:      "plain",
			server:    ServerConfig{Host: "192.168.1.20", Port: 8420},
			wantFeed:  "ws://192.168.1.20:8420/ws",
			wantAsset: "http://192.168.1.20:8420",
		},
		{
			name:      "secure",
			server:    ServerConfig{Host: "darts.local", Port: 443, Secure: true},
			wantFeed:  "wss://darts.local:443/ws",
			wantAsset: "https://darts.local:443",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.server.FeedURL(); got != tt.wantFeed {
				t.Errorf("FeedURL() = %q, want %q", got, tt.wantFeed)
			}
			if got := tt.server.AssetBase(); got != tt.wantAsset {
				t.Errorf("AssetBase() = %q, want %q", got, tt.wantAsset)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty host", func(c *Config) { c.Server.Host = " " }, "server.host"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero retry delay", func(c *Config) { c.Feed.RetryDelay = 0 }, "feed.retry_delay"},
		{"negative ping", func(c *Config) { c.Feed.PingInterval = -time.Second }, "feed.ping_interval"},
		{"zero cue timeout", func(c *Config) { c.Audio.CueTimeout = 0 }, "audio.cue_timeout"},
		{"bad sample rate", func(c *Config) { c.Audio.SampleRate = 100 }, "audio.sample_rate"},
		{"bad clip duration", func(c *Config) { c.Clip.DefaultDuration = 0 }, "clip.default_duration"},
		{"unknown language", func(c *Config) { c.I18n.Lang = "xx" }, "i18n.lang"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "server.port", Value: 0, Message: "must be between 1 and 65535"},
		{Field: "ui.width", Value: -1, Message: "must be positive"},
	}
	msg := errs.Error()
	if !strings.HasPrefix(msg, "2 validation errors") {
		t.Errorf("Error() = %q", msg)
	}
	if !strings.Contains(msg, "server.port") || !strings.Contains(msg, "ui.width") {
		t.Errorf("Error() missing fields: %q", msg)
	}
}

func TestLoadFromViper(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	SetDefaults()
	viper.Set("server.host", "10.0.0.5")
	viper.Set("feed.retry_delay", "500ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Host != "10.0.0.5" {
		t.Errorf("Server.Host = %q, want 10.0.0.5", cfg.Server.Host)
	}
	if cfg.Feed.RetryDelay != 500*time.Millisecond {
		t.Errorf("Feed.RetryDelay = %v, want 500ms", cfg.Feed.RetryDelay)
	}
	if cfg.Server.Port != 8420 {
		t.Errorf("Server.Port = %d, want default 8420", cfg.Server.Port)
	}

	viper.Set("server.port", 0)
	if _, err := Load(); err == nil {
		t.Error("Load() with invalid port should fail")
	}
}
