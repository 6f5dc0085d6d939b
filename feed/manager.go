// Package feed owns the WebSocket session to the backend's event feed.
//
// The Manager keeps exactly one session open and reconnects forever: a fixed
// delay after a session is lost, a slightly longer one while no session has
// ever been established. Once a session has opened, every later redial,
// failed or not, waits the shorter delay. There is no backoff growth and no retry cap;
// the only way to end the loop is to cancel Run's context or call Stop.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ThrowOverlay/logging"
	"ThrowOverlay/protocol"
)

// State is the connection status shown by the overlay.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

const writeWait = 5 * time.Second

// Options configures a Manager. Callbacks are invoked from the manager's
// goroutine and must not block for long.
type Options struct {
	URL                 string
	RetryDelay          time.Duration
	InitialFailureDelay time.Duration
	PingInterval        time.Duration
	HandshakeTimeout    time.Duration
	Logger              *logging.Logger

	OnOpen        func()
	OnClose       func()
	OnMessage     func(raw []byte)
	OnStateChange func(State)
}

// Manager is the connection manager. Create it with New and start it with Run.
type Manager struct {
	opts   Options
	dialer *websocket.Dialer
	log    *logging.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// New creates a Manager. Zero delays fall back to 2s/3s.
func New(opts Options) *Manager {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 2 * time.Second
	}
	if opts.InitialFailureDelay <= 0 {
		opts.InitialFailureDelay = 3 * time.Second
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 5 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	return &Manager{
		opts:   opts,
		dialer: &websocket.Dialer{HandshakeTimeout: opts.HandshakeTimeout},
		log:    log.WithComponent("feed"),
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connected reports whether a session is open.
func (m *Manager) Connected() bool {
	return m.State() == StateConnected
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	changed := m.state != s
	m.state = s
	m.mu.Unlock()
	if changed && m.opts.OnStateChange != nil {
		m.opts.OnStateChange(s)
	}
}

// Stop ends a running Run loop and closes the open session, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run connects and keeps reconnecting until ctx is canceled or Stop is called.
func (m *Manager) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()
	defer cancel()
	defer m.setState(StateDisconnected)

	opened := false
	for {
		m.setState(StateConnecting)
		delay := m.opts.RetryDelay

		conn, _, err := m.dialer.DialContext(ctx, m.opts.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.log.Debug("feed dial failed", "url", m.opts.URL, "error", err)
			m.setState(StateDisconnected)
			if !opened {
				delay = m.opts.InitialFailureDelay
			}
		} else {
			opened = true
			m.log.Info("feed connected", "url", m.opts.URL)
			m.setState(StateConnected)
			if m.opts.OnOpen != nil {
				m.opts.OnOpen()
			}
			err := m.serve(ctx, conn)
			m.setState(StateDisconnected)
			if m.opts.OnClose != nil {
				m.opts.OnClose()
			}
			if ctx.Err() != nil {
				return
			}
			m.log.Info("feed lost, reconnecting", "error", err, "delay", delay)
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}
}

// serve pumps frames from conn until it fails or ctx ends.
func (m *Manager) serve(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	var wg sync.WaitGroup
	var writeMu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			writeMu.Lock()
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			writeMu.Unlock()
			conn.Close()
		case <-done:
		}
	}()

	if m.opts.PingInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(m.opts.PingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					writeMu.Lock()
					_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
					err := conn.WriteMessage(websocket.TextMessage, protocol.Ping())
					writeMu.Unlock()
					if err != nil {
						// the read loop will see the broken session
						m.log.Debug("feed ping failed", "error", err)
						return
					}
				}
			}
		}()
	}

	var readErr error
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			readErr = err
			break
		}
		if m.opts.OnMessage != nil {
			m.opts.OnMessage(raw)
		}
	}

	close(done)
	conn.Close()
	wg.Wait()
	return readErr
}
