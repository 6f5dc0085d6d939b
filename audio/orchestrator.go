// Package audio plays caller and crowd sound cues.
//
// The Orchestrator owns a single playback loop. Caller batches are queued
// and played one at a time; a batch with a base priority of 1 or more
// interrupts whatever is playing and discards the backlog. Crowd cues bypass
// the queue entirely and play concurrently.
//
// Maintenance notes:
//   - Only the loop goroutine dequeues. The queue, the loop state and the
//     cancel handle of the active cue are touched only under mu.
//   - Every cue is bounded by a hard timeout, so a cue whose completion
//     never arrives cannot stall the queue.
package audio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"ThrowOverlay/logging"
)

// LoopState is the state of the caller playback loop.
type LoopState int

const (
	StateIdle LoopState = iota
	StatePlaying
)

func (s LoopState) String() string {
	if s == StatePlaying {
		return "playing"
	}
	return "idle"
}

const (
	// DefaultCueTimeout caps how long a single cue may hold the loop.
	DefaultCueTimeout = 4 * time.Second

	maxBacklog  = 3
	keepBacklog = 2
)

// Player renders one cue at the given effective volume. Play blocks until
// the cue completes, fails, or ctx is done.
type Player interface {
	Play(ctx context.Context, cue Cue, volume float64) error
}

// Options configures an Orchestrator.
type Options struct {
	Player     Player
	Clock      clock.Clock
	CueTimeout time.Duration
	Logger     *logging.Logger
}

type queued struct {
	cue    Cue
	volume float64
}

// Orchestrator is the priority-preemptive caller queue plus the ambient
// crowd channel.
type Orchestrator struct {
	player  Player
	clock   clock.Clock
	timeout time.Duration
	log     *logging.Logger
	ctx     context.Context

	mu      sync.Mutex
	state   LoopState
	queue   []queued
	stopCue context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates an orchestrator whose cues all end when ctx ends.
func NewOrchestrator(ctx context.Context, opts Options) *Orchestrator {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.CueTimeout <= 0 {
		opts.CueTimeout = DefaultCueTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}
	return &Orchestrator{
		player:  opts.Player,
		clock:   opts.Clock,
		timeout: opts.CueTimeout,
		log:     log.WithComponent("audio"),
		ctx:     ctx,
	}
}

// State returns the loop state.
func (o *Orchestrator) State() LoopState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Pending returns the cues waiting behind the active one.
func (o *Orchestrator) Pending() []Cue {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Cue, len(o.queue))
	for i, q := range o.queue {
		out[i] = q.cue
	}
	return out
}

// Submit accepts one caller batch. basePriority >= 1 preempts a playing
// loop. globalVolume scales every cue of the batch.
func (o *Orchestrator) Submit(cues []Cue, basePriority int, globalVolume float64) {
	if len(cues) == 0 {
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if basePriority >= 1 && o.state == StatePlaying {
		o.queue = nil
		if o.stopCue != nil {
			o.stopCue()
			o.stopCue = nil
		}
		o.log.Debug("caller batch preempted playback", "priority", basePriority)
	}

	if len(o.queue) > maxBacklog {
		dropped := len(o.queue) - keepBacklog
		o.queue = append([]queued(nil), o.queue[len(o.queue)-keepBacklog:]...)
		o.log.Debug("caller backlog truncated", "dropped", dropped)
	}

	for _, c := range sortByPriority(cues) {
		o.queue = append(o.queue, queued{cue: c, volume: EffectiveVolume(globalVolume, c.Volume)})
	}

	if o.state == StateIdle {
		o.state = StatePlaying
		o.wg.Add(1)
		go o.loop()
	}
}

// PlayAmbient plays every cue immediately and concurrently, outside the
// caller queue.
func (o *Orchestrator) PlayAmbient(cues []Cue, globalVolume float64) {
	for _, c := range cues {
		o.wg.Add(1)
		go func(c Cue) {
			defer o.wg.Done()
			ctx, cancel := context.WithCancel(o.ctx)
			defer cancel()
			o.play(ctx, cancel, c, EffectiveVolume(globalVolume, c.Volume))
		}(c)
	}
}

// Wait blocks until the loop and all ambient cues have finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) loop() {
	defer o.wg.Done()
	for {
		o.mu.Lock()
		if len(o.queue) == 0 || o.ctx.Err() != nil {
			o.queue = nil
			o.state = StateIdle
			o.stopCue = nil
			o.mu.Unlock()
			return
		}
		next := o.queue[0]
		o.queue = o.queue[1:]
		ctx, cancel := context.WithCancel(o.ctx)
		o.stopCue = cancel
		o.mu.Unlock()

		o.play(ctx, cancel, next.cue, next.volume)
		cancel()
	}
}

// play runs one cue to completion or to the hard timeout. Failures count
// as completion.
func (o *Orchestrator) play(ctx context.Context, cancel context.CancelFunc, c Cue, volume float64) {
	if o.player == nil {
		return
	}
	timer := o.clock.AfterFunc(o.timeout, cancel)
	defer timer.Stop()

	err := o.player.Play(ctx, c, volume)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		o.log.Debug("cue stopped", "key", c.Key, "url", c.URL)
	default:
		o.log.Debug("cue failed", "key", c.Key, "url", c.URL, "error", err)
	}
}
