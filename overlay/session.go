package overlay

import (
	"context"
	"sync"
)

var (
	sessionMu sync.Mutex
	session   *AppManager
)

// Attach starts the process-wide overlay session. If one is already
// running it toggles that session's HUD and returns it; created reports
// which of the two happened.
func Attach(ctx context.Context, opts Options) (a *AppManager, created bool, err error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if session != nil {
		session.ToggleHUD()
		return session, false, nil
	}
	a, err = NewAppManager(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	a.Start()
	session = a
	return a, true, nil
}

// Current returns the running session, or nil.
func Current() *AppManager {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return session
}

// Shutdown closes the running session, if any, and frees the slot.
func Shutdown() {
	sessionMu.Lock()
	a := session
	session = nil
	sessionMu.Unlock()

	if a != nil {
		a.Close()
	}
}
