package presenter

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"ThrowOverlay/assets"
)

// DefaultClipDuration applies when a clip request has no positive duration.
const DefaultClipDuration = 5 * time.Second

// Clip is the clip on screen.
type Clip struct {
	URL      string
	Kind     assets.Kind
	Duration time.Duration
}

// ClipPresenter is the single-slot clip presenter. The most recent request
// always wins.
type ClipPresenter struct {
	clock    clock.Clock
	resolver *assets.Resolver
	fallback time.Duration
	onChange func()

	mu      sync.Mutex
	current *Clip
	gen     uint64
	timer   *clock.Timer
}

// NewClipPresenter creates a clip presenter. A non-positive fallback uses
// DefaultClipDuration.
func NewClipPresenter(clk clock.Clock, resolver *assets.Resolver, fallback time.Duration) *ClipPresenter {
	if clk == nil {
		clk = clock.New()
	}
	if fallback <= 0 {
		fallback = DefaultClipDuration
	}
	return &ClipPresenter{clock: clk, resolver: resolver, fallback: fallback}
}

// OnChange registers fn to run after the active clip changes.
func (p *ClipPresenter) OnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Show resolves ref, replaces the active clip and schedules its dismissal.
// An empty ref is ignored and reported as false.
func (p *ClipPresenter) Show(ref string, duration time.Duration) bool {
	url := ref
	if p.resolver != nil {
		url = p.resolver.Clip(ref)
	}
	if url == "" {
		return false
	}
	if duration <= 0 {
		duration = p.fallback
	}

	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.current = &Clip{URL: url, Kind: assets.Classify(url), Duration: duration}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = p.clock.AfterFunc(duration, func() { p.clear(gen) })
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Dismiss clears the active clip immediately.
func (p *ClipPresenter) Dismiss() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
	}
	gen := p.gen
	p.mu.Unlock()
	p.clear(gen)
}

// Current returns a copy of the active clip, or nil.
func (p *ClipPresenter) Current() *Clip {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	c := *p.current
	return &c
}

func (p *ClipPresenter) clear(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.current == nil {
		p.mu.Unlock()
		return
	}
	p.current = nil
	p.timer = nil
	p.gen++
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn()
	}
}
