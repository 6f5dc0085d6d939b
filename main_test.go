package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"ThrowOverlay/config"
)

func TestVersionCommand(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "throwoverlay "+version {
		t.Errorf("output = %q", got)
	}
}

func TestInitConfigReadsEnvironment(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("THROWOVERLAY_SERVER_HOST", "board.local")
	t.Setenv("THROWOVERLAY_SERVER_PORT", "9000")
	t.Setenv("THROWOVERLAY_AUDIO_CROWD_ENABLED", "false")

	initConfig()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.Server.FeedURL(); got != "ws://board.local:9000/ws" {
		t.Errorf("FeedURL() = %q", got)
	}
	if cfg.Audio.CrowdEnabled {
		t.Error("crowd audio still enabled")
	}
	if !cfg.Audio.Enabled {
		t.Error("audio default lost")
	}
}
