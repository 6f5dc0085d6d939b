package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ThrowOverlay/assets"
	"ThrowOverlay/display"
	"ThrowOverlay/feed"
	"ThrowOverlay/i18n"
	"ThrowOverlay/presenter"
)

func ptr[T any](v T) *T { return &v }

func TestProject(t *testing.T) {
	snap := display.State{
		Score:          ptr(60),
		Remaining:      ptr(441),
		LastThrowLabel: ptr("T20"),
		MyTurn:         ptr(true),
		HUDVisible:     true,
	}
	clip := &presenter.Clip{URL: "http://h/clips/a.mp4", Kind: assets.KindVideo, Duration: time.Second}

	got := Project(feed.StateConnected, snap, "180!", clip)
	want := View{
		Connection:   feed.StateConnected,
		HUDVisible:   true,
		Score:        "60",
		Remaining:    "441",
		LastThrow:    "T20",
		Darts:        display.Placeholder,
		ActivePlayer: display.Placeholder,
		MyTurn:       true,
		Toast:        "180!",
		ClipVisible:  true,
		ClipURL:      "http://h/clips/a.mp4",
		ClipKind:     assets.KindVideo,
	}
	if got != want {
		t.Errorf("Project() = %+v\nwant %+v", got, want)
	}
	if again := Project(feed.StateConnected, snap, "180!", clip); again != got {
		t.Error("Project() is not idempotent")
	}
	if *snap.Score != 60 || clip.URL != "http://h/clips/a.mp4" {
		t.Error("Project() mutated its inputs")
	}
}

func TestProjectEmpty(t *testing.T) {
	v := Project(feed.StateDisconnected, display.State{}, "", nil)
	if v.Score != display.Placeholder || v.ClipVisible || v.Toast != "" || v.HUDVisible {
		t.Errorf("Project() of empty state = %+v", v)
	}
}

func TestTerminalPrintsOnlyChanges(t *testing.T) {
	defer i18n.SetLang(i18n.GetLang())
	i18n.SetLang("en")

	var buf bytes.Buffer
	r := NewTerminal(&buf)

	v := Project(feed.StateConnected, display.State{Score: ptr(26), HUDVisible: true}, "", nil)
	r.Render(v)
	r.Render(v)
	if n := strings.Count(buf.String(), "connected"); n != 1 {
		t.Fatalf("printed %d times, want 1:\n%s", n, buf.String())
	}
	out := buf.String()
	for _, want := range []string{"Turn 26", "Remaining –"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain writer received escape sequences")
	}

	buf.Reset()
	v.Toast = "BUST!"
	v.ClipVisible, v.ClipURL, v.ClipKind = true, "http://h/clips/x.gif", assets.KindImage
	r.Render(v)
	out = buf.String()
	if !strings.Contains(out, "BUST!") || !strings.Contains(out, "[image] http://h/clips/x.gif") {
		t.Errorf("output = %q", out)
	}
}

func TestTerminalHidesHUD(t *testing.T) {
	var buf bytes.Buffer
	r := NewTerminal(&buf)
	r.Render(Project(feed.StateDisconnected, display.State{Score: ptr(5)}, "", nil))
	if strings.Contains(buf.String(), "Turn") {
		t.Errorf("hidden HUD was printed: %q", buf.String())
	}
}

func TestRendererFunc(t *testing.T) {
	var got View
	var r Renderer = RendererFunc(func(v View) { got = v })
	r.Render(View{Toast: "x"})
	if got.Toast != "x" {
		t.Error("RendererFunc did not forward the view")
	}
}
