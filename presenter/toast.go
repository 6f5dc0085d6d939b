// Package presenter shows transient overlay content: toast messages and
// clips. Both presenters hold at most one item, replace it on every new
// request and clear it from a timer.
//
// Timer callbacks carry the generation they were armed for. A callback
// whose generation is stale does nothing, so a replaced timer that fires
// anyway cannot clear newer content.
package presenter

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"ThrowOverlay/i18n"
)

// ToastTTL is how long a toast stays visible after its last Show.
const ToastTTL = 3500 * time.Millisecond

// Toast is the single-slot toast presenter.
type Toast struct {
	clock    clock.Clock
	table    ToastTable
	onChange func()

	mu    sync.Mutex
	text  string
	gen   uint64
	timer *clock.Timer
}

// NewToast creates a toast presenter. clk may be nil for the wall clock.
func NewToast(clk clock.Clock, table ToastTable) *Toast {
	if clk == nil {
		clk = clock.New()
	}
	return &Toast{clock: clk, table: table}
}

// OnChange registers fn to run after the visible text changes. fn runs
// without the presenter lock held.
func (t *Toast) OnChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Show makes text visible and restarts the dismissal timer.
func (t *Toast) Show(text string) {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.text = text
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.clock.AfterFunc(ToastTTL, func() { t.expire(gen) })
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// ShowEvent shows the translated literal mapped to key. It reports whether
// key is mapped.
func (t *Toast) ShowEvent(key string) bool {
	literal, ok := t.table.Lookup(key)
	if !ok {
		return false
	}
	t.Show(i18n.T(literal))
	return true
}

// Text returns the visible text, or "" when hidden.
func (t *Toast) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

func (t *Toast) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.text = ""
	t.timer = nil
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn()
	}
}
