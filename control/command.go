// Package control defines the command messages serialized through the
// session's command loop. Frames from the feed, connection transitions and
// user input all become a Command so that state changes happen on a single
// goroutine in arrival order.
package control

import "ThrowOverlay/feed"

// CommandType enumerates supported command operations.
type CommandType int

const (
	// CmdFrame carries one raw inbound feed frame in Payload.
	CmdFrame CommandType = iota
	// CmdConnection reports a connection transition in State.
	CmdConnection
	// CmdToggleHUD flips HUD visibility.
	CmdToggleHUD
	// CmdDismissClip clears the clip on screen.
	CmdDismissClip
)

func (t CommandType) String() string {
	switch t {
	case CmdFrame:
		return "frame"
	case CmdConnection:
		return "connection"
	case CmdToggleHUD:
		return "toggle_hud"
	case CmdDismissClip:
		return "dismiss_clip"
	}
	return "unknown"
}

// Command is the message sent to AppManager.commandLoop. The optional Reply
// channel is signaled once the command has been handled.
type Command struct {
	Type    CommandType
	Payload []byte
	State   feed.State
	Reply   chan error
}

// Frame wraps a raw feed frame.
func Frame(raw []byte) Command {
	return Command{Type: CmdFrame, Payload: raw}
}

// Connection wraps a connection transition.
func Connection(s feed.State) Command {
	return Command{Type: CmdConnection, State: s}
}
