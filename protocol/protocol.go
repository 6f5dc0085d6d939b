// Package protocol decodes the JSON envelopes broadcast by the ThrowSync
// backend on its /ws feed. Every frame carries a "type" discriminator; the
// overlay consumes the kinds listed below and ignores the rest.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message kinds consumed by the overlay.
const (
	TypeCallerPlay   = "caller_play"
	TypeCallerClip   = "caller_clip"
	TypeCrowdPlay    = "crowd_play"
	TypeDisplayState = "display_state"
	TypeEventFired   = "event_fired"
	TypePing         = "ping"
	TypePong         = "pong"
)

// Sub-kinds of a display_state payload.
const (
	DisplayThrow       = "throw"
	DisplayStateUpdate = "state_update"
	DisplayTurnUpdate  = "turn_update"
)

// ErrMalformed is returned when a frame is not a JSON object with a type.
var ErrMalformed = errors.New("malformed frame")

// Message is one decoded inbound frame. Exactly one of the typed payloads is
// set, matching Type; unknown types leave all of them nil.
type Message struct {
	Type string

	CallerPlay   *SoundBatch
	CrowdPlay    *SoundBatch
	CallerClip   *ClipRequest
	DisplayState *DisplayUpdate
	EventFired   *EventEntry
}

// Sound is one cue reference inside a caller_play or crowd_play batch.
type Sound struct {
	Key      string   `json:"key"`
	Sound    string   `json:"sound"`
	Volume   *float64 `json:"volume"`
	Priority *int     `json:"priority"`
}

// SoundBatch is the payload of caller_play and crowd_play.
type SoundBatch struct {
	Sounds   []Sound  `json:"sounds"`
	Volume   *float64 `json:"volume"`
	Priority int      `json:"priority"`
	Event    string   `json:"event"`
}

// ClipRequest is the payload of caller_clip. Duration is in seconds.
type ClipRequest struct {
	URL      string  `json:"url"`
	Duration float64 `json:"duration"`
}

// DisplayUpdate is the nested data object of display_state. Pointer fields
// distinguish an absent key from a zero value.
type DisplayUpdate struct {
	Type         string  `json:"type"`
	ThrowText    *string `json:"throw_text"`
	Points       *int    `json:"points"`
	TurnScore    *int    `json:"turn_score"`
	DartsInTurn  *int    `json:"darts_in_turn"`
	Remaining    *int    `json:"remaining"`
	IsMyTurn     *bool   `json:"is_my_turn"`
	ActivePlayer *string `json:"active_player_name"`
}

// EventEntry is the entry object of event_fired.
type EventEntry struct {
	Event     string         `json:"event"`
	Board     string         `json:"board"`
	Timestamp float64        `json:"timestamp"`
	Details   map[string]any `json:"details"`
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Entry json.RawMessage `json:"entry"`
}

// Decode parses a raw frame. Frames that are not JSON objects, or carry no
// type, fail with ErrMalformed. Payload fields that do not match their
// expected shape also fail; missing fields are left for callers to default.
func Decode(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return Message{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}

	msg := Message{Type: env.Type}
	var err error
	switch env.Type {
	case TypeCallerPlay:
		msg.CallerPlay = &SoundBatch{}
		err = json.Unmarshal(raw, msg.CallerPlay)
	case TypeCrowdPlay:
		msg.CrowdPlay = &SoundBatch{}
		err = json.Unmarshal(raw, msg.CrowdPlay)
	case TypeCallerClip:
		msg.CallerClip = &ClipRequest{}
		err = json.Unmarshal(raw, msg.CallerClip)
	case TypeDisplayState:
		msg.DisplayState = &DisplayUpdate{}
		if len(env.Data) > 0 && string(env.Data) != "null" {
			err = json.Unmarshal(env.Data, msg.DisplayState)
		}
	case TypeEventFired:
		msg.EventFired = &EventEntry{}
		if len(env.Entry) > 0 && string(env.Entry) != "null" {
			err = json.Unmarshal(env.Entry, msg.EventFired)
		}
	}
	if err != nil {
		return Message{}, fmt.Errorf("%w: %s payload: %v", ErrMalformed, env.Type, err)
	}
	return msg, nil
}

// Ping is the keep-alive frame the backend answers with a pong.
func Ping() []byte {
	return []byte(`{"type":"ping"}`)
}
