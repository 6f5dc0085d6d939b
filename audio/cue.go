package audio

import (
	"sort"

	"ThrowOverlay/protocol"
)

// DefaultCuePriority applies when a sound entry carries no priority.
const DefaultCuePriority = 1

// Cue is one playable sound reference after defaults have been applied.
type Cue struct {
	Key      string
	URL      string
	Volume   float64
	Priority int
}

// CuesFromSounds converts wire sound entries into cues, resolving each
// sound reference with resolve. Entries without a sound reference are skipped.
func CuesFromSounds(sounds []protocol.Sound, resolve func(string) string) []Cue {
	cues := make([]Cue, 0, len(sounds))
	for _, s := range sounds {
		url := s.Sound
		if resolve != nil {
			url = resolve(s.Sound)
		}
		if url == "" {
			continue
		}
		c := Cue{Key: s.Key, URL: url, Volume: 1, Priority: DefaultCuePriority}
		if s.Volume != nil {
			c.Volume = *s.Volume
		}
		if s.Priority != nil {
			c.Priority = *s.Priority
		}
		cues = append(cues, c)
	}
	return cues
}

// EffectiveVolume is the product of the global and cue volume clamped to [0,1].
func EffectiveVolume(global, cue float64) float64 {
	v := global * cue
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// sortByPriority orders a batch ascending by cue priority, keeping arrival
// order for equal priorities.
func sortByPriority(cues []Cue) []Cue {
	out := make([]Cue, len(cues))
	copy(out, cues)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
