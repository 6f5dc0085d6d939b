// Package render projects the live overlay state into a flat View and
// draws it.
package render

import (
	"ThrowOverlay/assets"
	"ThrowOverlay/display"
	"ThrowOverlay/feed"
	"ThrowOverlay/presenter"
)

// View is everything a renderer draws. It is comparable, so renderers can
// skip redraws of an unchanged view.
type View struct {
	Connection feed.State
	HUDVisible bool

	Score        string
	Remaining    string
	LastThrow    string
	Darts        string
	ActivePlayer string
	MyTurn       bool

	Toast string

	ClipVisible bool
	ClipURL     string
	ClipKind    assets.Kind
}

// Renderer draws views. Implementations must tolerate the same view twice.
type Renderer interface {
	Render(View)
}

// Project builds the view for the given inputs. It has no side effects.
func Project(conn feed.State, snap display.State, toast string, clip *presenter.Clip) View {
	v := View{
		Connection:   conn,
		HUDVisible:   snap.HUDVisible,
		Score:        display.FormatInt(snap.Score),
		Remaining:    display.FormatInt(snap.Remaining),
		LastThrow:    display.FormatString(snap.LastThrowLabel),
		Darts:        display.FormatInt(snap.DartsInTurn),
		ActivePlayer: display.FormatString(snap.ActivePlayer),
		MyTurn:       snap.MyTurn != nil && *snap.MyTurn,
		Toast:        toast,
	}
	if clip != nil {
		v.ClipVisible = true
		v.ClipURL = clip.URL
		v.ClipKind = clip.Kind
	}
	return v
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }
