package overlay

import (
	"time"

	"ThrowOverlay/audio"
	"ThrowOverlay/protocol"
)

// route decodes one frame and hands it to the component that owns its
// kind. Malformed and unknown frames are dropped.
func (a *AppManager) route(raw []byte) {
	msg, err := protocol.Decode(raw)
	if err != nil {
		a.log.Debug("dropping frame", "error", err)
		return
	}

	switch msg.Type {
	case protocol.TypeCallerPlay:
		if !a.audioEnabled.Load() {
			return
		}
		b := msg.CallerPlay
		cues := audio.CuesFromSounds(b.Sounds, a.resolver.Sound)
		a.log.Debug("caller batch", "event", b.Event, "cues", len(cues), "priority", b.Priority)
		a.audio.Submit(cues, b.Priority, volumeOr(b.Volume, 1))
	case protocol.TypeCrowdPlay:
		if !a.audioEnabled.Load() || !a.crowdEnabled.Load() {
			return
		}
		b := msg.CrowdPlay
		a.audio.PlayAmbient(audio.CuesFromSounds(b.Sounds, a.resolver.Sound), volumeOr(b.Volume, 1))
	case protocol.TypeCallerClip:
		c := msg.CallerClip
		a.clip.Show(c.URL, time.Duration(c.Duration*float64(time.Second)))
	case protocol.TypeDisplayState:
		if !a.display.Apply(*msg.DisplayState) {
			a.log.Debug("ignoring display update", "kind", msg.DisplayState.Type)
		}
	case protocol.TypeEventFired:
		key := msg.EventFired.Event
		a.display.ApplyEvent(key)
		a.toast.ShowEvent(key)
	case protocol.TypePong:
	default:
		a.log.Debug("ignoring frame", "type", msg.Type)
	}
}

func volumeOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
