// Package overlay wires the connection manager, state synchronizer,
// presenters and audio orchestrator into one running session.
//
// Maintenance notes:
//   - Concurrency model: every inbound frame, connection transition and
//     user command goes through a single command-loop goroutine
//     (commandLoop), so routing and state merges happen in arrival order.
//   - cmdCh is buffered. EnqueueCommand drops a command when the channel
//     stays full for enqueueTimeout; the feed is best-effort and a stalled
//     loop must not block the socket reader.
//   - Presenter timers fire on the clock's goroutines. They only touch
//     their own presenter (mutex guarded) and then ask for a redraw, which
//     is serialized by renderMu.
package overlay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"ThrowOverlay/assets"
	"ThrowOverlay/audio"
	"ThrowOverlay/config"
	"ThrowOverlay/control"
	"ThrowOverlay/display"
	"ThrowOverlay/feed"
	"ThrowOverlay/i18n"
	"ThrowOverlay/logging"
	"ThrowOverlay/presenter"
	"ThrowOverlay/render"
)

const (
	commandBuffer  = 256
	enqueueTimeout = 150 * time.Millisecond
)

// Options configures an AppManager. Config is required; the rest default.
type Options struct {
	Config   *config.Config
	Logger   *logging.Logger
	Player   audio.Player
	Renderer render.Renderer
	Clock    clock.Clock
	Toasts   presenter.ToastTable
}

// AppManager is one overlay session.
type AppManager struct {
	id       string
	log      *logging.Logger
	resolver *assets.Resolver

	feed     *feed.Manager
	display  *display.Synchronizer
	audio    *audio.Orchestrator
	toast    *presenter.Toast
	clip     *presenter.ClipPresenter
	renderer render.Renderer
	renderMu sync.Mutex

	audioEnabled atomic.Bool
	crowdEnabled atomic.Bool
	feedSessions atomic.Int64

	connMu sync.RWMutex
	conn   feed.State

	cmdCh     chan control.Command
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewAppManager builds a session and starts its command loop. The feed is
// not dialed until Start.
func NewAppManager(ctx context.Context, opts Options) (*AppManager, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("overlay: config is required")
	}
	cfg := opts.Config
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}
	if opts.Renderer == nil {
		opts.Renderer = render.RendererFunc(func(render.View) {})
	}
	if opts.Toasts == nil {
		table, err := presenter.LoadToastTable(assets.Content, assets.ToastTablePath)
		if err != nil {
			return nil, err
		}
		opts.Toasts = table
	}

	resolver, err := assets.NewResolver(cfg.Server.AssetBase())
	if err != nil {
		return nil, fmt.Errorf("overlay: asset base: %w", err)
	}

	id := uuid.NewString()
	a := &AppManager{
		id:       id,
		log:      opts.Logger.WithSession(id),
		resolver: resolver,
		display:  display.NewSynchronizer(cfg.UI.HUDVisible),
		toast:    presenter.NewToast(opts.Clock, opts.Toasts),
		clip:     presenter.NewClipPresenter(opts.Clock, resolver, cfg.Clip.DefaultDuration),
		renderer: opts.Renderer,
		cmdCh:    make(chan control.Command, commandBuffer),
	}
	a.ctx, a.cancel = context.WithCancel(ctx)
	a.audioEnabled.Store(cfg.Audio.Enabled)
	a.crowdEnabled.Store(cfg.Audio.CrowdEnabled)

	a.audio = audio.NewOrchestrator(a.ctx, audio.Options{
		Player:     opts.Player,
		Clock:      opts.Clock,
		CueTimeout: cfg.Audio.CueTimeout,
		Logger:     a.log,
	})
	a.feed = feed.New(feed.Options{
		URL:                 cfg.Server.FeedURL(),
		RetryDelay:          cfg.Feed.RetryDelay,
		InitialFailureDelay: cfg.Feed.InitialFailureDelay,
		PingInterval:        cfg.Feed.PingInterval,
		HandshakeTimeout:    cfg.Feed.HandshakeTimeout,
		Logger:              a.log,
		OnOpen:              a.feedOpened,
		OnClose:             func() { a.log.Info("feed session closed") },
		OnMessage:           func(raw []byte) { a.EnqueueCommand(control.Frame(raw)) },
		OnStateChange:       func(s feed.State) { a.EnqueueCommand(control.Connection(s)) },
	})

	a.display.OnChange(a.refresh)
	a.toast.OnChange(a.refresh)
	a.clip.OnChange(a.refresh)

	a.wg.Add(1)
	go a.commandLoop()
	a.refresh()

	a.log.Info("overlay session created", "feed", cfg.Server.FeedURL())
	return a, nil
}

// ID returns the session id.
func (a *AppManager) ID() string {
	return a.id
}

// Start dials the feed in the background.
func (a *AppManager) Start() {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.feed.Run(a.ctx)
	}()
}

// Close stops the feed, the command loop and any playing audio.
func (a *AppManager) Close() {
	a.closeOnce.Do(func() {
		a.cancel()
		a.feed.Stop()
		a.wg.Wait()
		a.audio.Wait()
		a.log.Info("overlay session closed")
	})
}

// EnqueueCommand posts a command to the command loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	select {
	case a.cmdCh <- cmd:
	case <-a.ctx.Done():
	case <-time.After(enqueueTimeout):
		a.log.Warn("command loop busy, dropping command", "type", cmd.Type.String())
	}
}

func (a *AppManager) commandLoop() {
	defer a.wg.Done()
	for {
		select {
		case <-a.ctx.Done():
			return
		case cmd := <-a.cmdCh:
			switch cmd.Type {
			case control.CmdFrame:
				a.route(cmd.Payload)
			case control.CmdConnection:
				a.setConnection(cmd.State)
			case control.CmdToggleHUD:
				a.ToggleHUD()
			case control.CmdDismissClip:
				a.clip.Dismiss()
			}
			if cmd.Reply != nil {
				select {
				case cmd.Reply <- nil:
				default:
				}
			}
		}
	}
}

// ToggleHUD flips HUD visibility and returns the new value.
func (a *AppManager) ToggleHUD() bool {
	v := a.display.ToggleHUD()
	a.log.Debug("hud toggled", "visible", v)
	return v
}

func (a *AppManager) feedOpened() {
	n := a.feedSessions.Add(1)
	a.log.Info("feed session opened", "sessions", n)
}

// FeedSessions returns how many feed sessions have opened so far.
func (a *AppManager) FeedSessions() int64 {
	return a.feedSessions.Load()
}

// Connection returns the last reported connection state.
func (a *AppManager) Connection() feed.State {
	a.connMu.RLock()
	defer a.connMu.RUnlock()
	return a.conn
}

func (a *AppManager) setConnection(s feed.State) {
	a.connMu.Lock()
	a.conn = s
	a.connMu.Unlock()
	a.refresh()
}

// View returns the current projection.
func (a *AppManager) View() render.View {
	return render.Project(a.Connection(), a.display.Snapshot(), a.toast.Text(), a.clip.Current())
}

func (a *AppManager) refresh() {
	a.renderMu.Lock()
	defer a.renderMu.Unlock()
	a.renderer.Render(a.View())
}

// ApplySettings applies the settings that can change while running.
func (a *AppManager) ApplySettings(cfg *config.Config) {
	a.audioEnabled.Store(cfg.Audio.Enabled)
	a.crowdEnabled.Store(cfg.Audio.CrowdEnabled)
	if cfg.I18n.Lang != "" {
		i18n.SetLang(cfg.I18n.Lang)
	}
	a.log.Info("settings applied",
		"audio", cfg.Audio.Enabled,
		"crowd", cfg.Audio.CrowdEnabled,
		"lang", i18n.GetLang())
	a.refresh()
}
