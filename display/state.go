// Package display holds the overlay's single DisplayState and the
// Synchronizer that applies partial updates from the feed to it.
//
// Maintenance notes:
//   - Fields are pointers so that "never received" and "zero" stay distinct.
//     An update only touches the keys it carries; an absent key never rolls
//     a field back.
//   - Readers must go through Snapshot(), which copies under the lock. Never
//     hand out the internal pointers.
package display

import (
	"sync"

	"ThrowOverlay/protocol"
)

// State is the fully-merged display state at a point in time.
type State struct {
	Score          *int
	Remaining      *int
	LastThrowLabel *string
	DartsInTurn    *int
	ActivePlayer   *string
	MyTurn         *bool
	HUDVisible     bool
}

// resetEvents start a new scoring phase.
var resetEvents = map[string]bool{
	"game_on":   true,
	"game_won":  true,
	"match_won": true,
}

// Synchronizer owns the DisplayState. Each update is applied atomically.
type Synchronizer struct {
	mu       sync.RWMutex
	state    State
	onChange func()
}

// NewSynchronizer creates a synchronizer with the HUD initially visible or not.
func NewSynchronizer(hudVisible bool) *Synchronizer {
	return &Synchronizer{state: State{HUDVisible: hudVisible}}
}

// OnChange registers a callback invoked after every applied mutation.
func (s *Synchronizer) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Synchronizer) changed() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Apply merges a display_state payload. It reports whether the sub-kind was
// recognized; unknown sub-kinds leave the state untouched.
func (s *Synchronizer) Apply(u protocol.DisplayUpdate) bool {
	s.mu.Lock()
	switch u.Type {
	case protocol.DisplayThrow:
		label := ""
		if u.ThrowText != nil {
			label = *u.ThrowText
		}
		score := 0
		if u.TurnScore != nil {
			score = *u.TurnScore
		}
		s.state.LastThrowLabel = &label
		s.state.Score = &score
		if u.DartsInTurn != nil {
			s.state.DartsInTurn = intPtr(*u.DartsInTurn)
		}
	case protocol.DisplayStateUpdate:
		if u.Remaining != nil {
			s.state.Remaining = intPtr(*u.Remaining)
		}
		s.mergeTurn(u)
	case protocol.DisplayTurnUpdate:
		s.mergeTurn(u)
	default:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	s.changed()
	return true
}

// mergeTurn must be called with mu held.
func (s *Synchronizer) mergeTurn(u protocol.DisplayUpdate) {
	if u.IsMyTurn != nil {
		v := *u.IsMyTurn
		s.state.MyTurn = &v
	}
	if u.ActivePlayer != nil {
		v := *u.ActivePlayer
		s.state.ActivePlayer = &v
	}
}

// ApplyEvent handles a semantic event key. New-phase events reset the score
// to 0; it reports whether the state changed.
func (s *Synchronizer) ApplyEvent(key string) bool {
	if !resetEvents[key] {
		return false
	}
	s.mu.Lock()
	s.state.Score = intPtr(0)
	s.mu.Unlock()
	s.changed()
	return true
}

// ToggleHUD flips HUD visibility and returns the new value.
func (s *Synchronizer) ToggleHUD() bool {
	s.mu.Lock()
	s.state.HUDVisible = !s.state.HUDVisible
	v := s.state.HUDVisible
	s.mu.Unlock()
	s.changed()
	return v
}

// SetHUDVisible sets HUD visibility.
func (s *Synchronizer) SetHUDVisible(v bool) {
	s.mu.Lock()
	s.state.HUDVisible = v
	s.mu.Unlock()
	s.changed()
}

// Snapshot returns a deep copy of the current state.
func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Score:          copyPtr(s.state.Score),
		Remaining:      copyPtr(s.state.Remaining),
		LastThrowLabel: copyPtr(s.state.LastThrowLabel),
		DartsInTurn:    copyPtr(s.state.DartsInTurn),
		ActivePlayer:   copyPtr(s.state.ActivePlayer),
		MyTurn:         copyPtr(s.state.MyTurn),
		HUDVisible:     s.state.HUDVisible,
	}
}

func intPtr(v int) *int { return &v }

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
