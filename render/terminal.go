package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"ThrowOverlay/feed"
	"ThrowOverlay/i18n"
)

var (
	connectedColor    = lipgloss.Color("#3fb950")
	connectingColor   = lipgloss.Color("#d29922")
	disconnectedColor = lipgloss.Color("#f85149")

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	toastStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#8957e5")).
			Padding(0, 2)
	clipStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#58a6ff"))
)

// Terminal draws views as text lines. Output is styled only when the
// writer is a terminal.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	styled  bool
	last    View
	started bool
}

// NewTerminal creates a terminal renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	styled := false
	if f, ok := w.(*os.File); ok {
		styled = term.IsTerminal(int(f.Fd()))
	}
	return &Terminal{w: w, styled: styled}
}

// Render prints v unless it equals the previously printed view.
func (t *Terminal) Render(v View) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started && v == t.last {
		return
	}
	t.started = true
	t.last = v
	fmt.Fprintln(t.w, t.format(v))
}

func (t *Terminal) style(s lipgloss.Style, text string) string {
	if !t.styled {
		return text
	}
	return s.Render(text)
}

func (t *Terminal) format(v View) string {
	var parts []string

	dot := lipgloss.NewStyle()
	switch v.Connection {
	case feed.StateConnected:
		dot = dot.Foreground(connectedColor)
	case feed.StateConnecting:
		dot = dot.Foreground(connectingColor)
	default:
		dot = dot.Foreground(disconnectedColor)
	}
	parts = append(parts, t.style(dot, "●")+" "+i18n.T(v.Connection.String()))

	if v.HUDVisible {
		field := func(label, value string) string {
			return t.style(labelStyle, i18n.T(label)) + " " + t.style(valueStyle, value)
		}
		hud := []string{
			field("Turn", v.Score),
			field("Remaining", v.Remaining),
			field("Last Throw", v.LastThrow),
			field("Darts", v.Darts),
			field("Player", v.ActivePlayer),
		}
		if v.MyTurn {
			hud = append(hud, t.style(valueStyle, i18n.T("Your turn")))
		}
		parts = append(parts, strings.Join(hud, "  "))
	}

	lines := []string{strings.Join(parts, " | ")}
	if v.Toast != "" {
		lines = append(lines, t.style(toastStyle, v.Toast))
	}
	if v.ClipVisible {
		lines = append(lines, t.style(clipStyle, fmt.Sprintf("[%s] %s", v.ClipKind, v.ClipURL)))
	}
	return strings.Join(lines, "\n")
}
