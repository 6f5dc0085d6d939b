package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ThrowOverlay/audio"
	"ThrowOverlay/config"
	"ThrowOverlay/i18n"
	"ThrowOverlay/logging"
	"ThrowOverlay/overlay"
	"ThrowOverlay/render"
	"ThrowOverlay/ui"
)

func runOverlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer log.Close()

	lang := cfg.I18n.Lang
	if lang == "" {
		lang = i18n.Detect()
	}
	i18n.SetLang(lang)
	log.Info("starting overlay",
		"version", version,
		"config", viper.ConfigFileUsed(),
		"feed", cfg.Server.FeedURL(),
		"lang", i18n.GetLang(),
		"headless", cfg.UI.Headless)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := overlay.Options{
		Config: cfg,
		Logger: log,
		Player: audio.NewBeepPlayer(cfg.Audio.SampleRate, log),
	}

	if cfg.UI.Headless {
		opts.Renderer = render.NewTerminal(os.Stdout)
		a, _, err := overlay.Attach(ctx, opts)
		if err != nil {
			return err
		}
		defer overlay.Shutdown()
		watchConfig(a, log)
		<-ctx.Done()
		return nil
	}

	fyneApp := app.NewWithID("com.throwsync.overlay")
	fyneApp.Settings().SetTheme(ui.NewOverlayTheme())

	view := ui.NewOverlay(nil, fyneApp, fyne.NewSize(float32(cfg.UI.Width), float32(cfg.UI.Height)), log)
	opts.Renderer = view
	a, _, err := overlay.Attach(ctx, opts)
	if err != nil {
		return err
	}
	defer overlay.Shutdown()
	view.Bind(a)
	view.OnReattach = func() {
		if _, _, err := overlay.Attach(ctx, opts); err != nil {
			log.Warn("re-attach failed", "error", err)
		}
	}
	watchConfig(a, log)

	w := view.Window()
	w.SetOnClosed(stop)
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()
	w.ShowAndRun()
	return nil
}

// watchConfig applies edits of the config file while running. Only the
// audio switches, language and log level take effect without a restart.
func watchConfig(a *overlay.AppManager, log *logging.Logger) {
	if viper.ConfigFileUsed() == "" {
		return
	}
	viper.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := config.Load()
		if err != nil {
			log.Warn("ignoring invalid config change", "file", e.Name, "error", err)
			return
		}
		log.SetLevel(cfg.Logging.Level)
		a.ApplySettings(cfg)
		log.Info("config reloaded", "file", e.Name, "op", e.Op.String())
	})
	viper.WatchConfig()
}
