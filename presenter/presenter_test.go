package presenter

import (
	"errors"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/benbjohnson/clock"

	"ThrowOverlay/assets"
	"ThrowOverlay/i18n"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSecondToastReplacesFirstAndRestartsTimer(t *testing.T) {
	mock := clock.NewMock()
	toast := NewToast(mock, nil)

	toast.Show("first")
	mock.Add(time.Second)
	toast.Show("second")
	if got := toast.Text(); got != "second" {
		t.Fatalf("Text() = %q, want second", got)
	}

	// the first toast's deadline passes without effect
	mock.Add(ToastTTL - time.Second)
	time.Sleep(10 * time.Millisecond)
	if got := toast.Text(); got != "second" {
		t.Fatalf("Text() = %q after first deadline, want second", got)
	}

	mock.Add(time.Second)
	waitFor(t, "toast to clear", func() bool { return toast.Text() == "" })
}

func TestShowEvent(t *testing.T) {
	defer i18n.SetLang(i18n.GetLang())
	i18n.SetLang("en")

	table, err := LoadToastTable(assets.Content, assets.ToastTablePath)
	if err != nil {
		t.Fatalf("LoadToastTable() error = %v", err)
	}
	toast := NewToast(clock.NewMock(), table)

	tests := []struct {
		key    string
		want   string
		mapped bool
	}{
		{"score_180", "180!", true},
		{"throw_bullseye", "BULLSEYE!", true},
		{"match_won", "MATCH WON!", true},
		{"game_won", "GAME SHOT!", true},
		{"busted", "BUST!", true},
		{"throw_miss", "MISS", true},
		{"game_on", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			toast.Show("")
			if got := toast.ShowEvent(tt.key); got != tt.mapped {
				t.Fatalf("ShowEvent(%q) = %v, want %v", tt.key, got, tt.mapped)
			}
			if got := toast.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShowEventTranslates(t *testing.T) {
	defer i18n.SetLang(i18n.GetLang())
	i18n.SetLang("de")

	toast := NewToast(clock.NewMock(), ToastTable{"match_won": "MATCH WON!"})
	toast.ShowEvent("match_won")
	if got := toast.Text(); got != "MATCH GEWONNEN!" {
		t.Errorf("Text() = %q, want the German literal", got)
	}
}

func TestLoadToastTableErrors(t *testing.T) {
	fs := fstest.MapFS{
		"bad.yaml":   {Data: []byte("toasts: [unclosed")},
		"empty.yaml": {Data: []byte("toasts:\n  busted: \"\"\n  score_180: \"180!\"\n")},
	}
	if _, err := LoadToastTable(fs, "missing.yaml"); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := LoadToastTable(fs, "bad.yaml"); err == nil {
		t.Error("expected a parse error")
	}
	table, err := LoadToastTable(fs, "empty.yaml")
	if err != nil {
		t.Fatalf("LoadToastTable() error = %v", err)
	}
	if _, ok := table.Lookup("busted"); ok {
		t.Error("empty literal was kept")
	}
	if len(table) != 1 {
		t.Errorf("len(table) = %d, want 1", len(table))
	}
}

func newClipPresenter(t *testing.T, mock *clock.Mock) *ClipPresenter {
	t.Helper()
	r, err := assets.NewResolver("http://localhost:8420")
	if err != nil {
		t.Fatal(err)
	}
	return NewClipPresenter(mock, r, 0)
}

func TestClipShowResolvesAndClassifies(t *testing.T) {
	p := newClipPresenter(t, clock.NewMock())

	tests := []struct {
		ref      string
		url      string
		kind     assets.Kind
		duration time.Duration
	}{
		{"goal.gif", "http://localhost:8420/clips/goal.gif", assets.KindImage, 3 * time.Second},
		{"win.mp4", "http://localhost:8420/clips/win.mp4", assets.KindVideo, DefaultClipDuration},
		{"https://cdn.example.com/x.webm", "https://cdn.example.com/x.webm", assets.KindVideo, time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			d := tt.duration
			if d == DefaultClipDuration {
				d = 0
			}
			if !p.Show(tt.ref, d) {
				t.Fatal("Show() rejected the clip")
			}
			c := p.Current()
			if c == nil {
				t.Fatal("Current() = nil")
			}
			if c.URL != tt.url || c.Kind != tt.kind || c.Duration != tt.duration {
				t.Errorf("Current() = %+v, want url=%s kind=%v duration=%v", *c, tt.url, tt.kind, tt.duration)
			}
		})
	}

	if p.Show("", time.Second) {
		t.Error("Show(\"\") accepted an empty reference")
	}
}

func TestClipLastRequestWins(t *testing.T) {
	mock := clock.NewMock()
	p := newClipPresenter(t, mock)

	p.Show("a.png", 2*time.Second)
	p.Show("b.png", 5*time.Second)

	mock.Add(2 * time.Second)
	time.Sleep(10 * time.Millisecond)
	if c := p.Current(); c == nil || c.URL != "http://localhost:8420/clips/b.png" {
		t.Fatalf("Current() = %+v, want b.png still showing", c)
	}

	mock.Add(3 * time.Second)
	waitFor(t, "clip to clear", func() bool { return p.Current() == nil })
}

func TestClipDismiss(t *testing.T) {
	mock := clock.NewMock()
	p := newClipPresenter(t, mock)
	var changes atomic.Int32
	p.OnChange(func() { changes.Add(1) })

	p.Show("a.png", time.Minute)
	p.Dismiss()
	if p.Current() != nil {
		t.Fatal("Dismiss() left the clip visible")
	}
	if changes.Load() != 2 {
		t.Errorf("OnChange fired %d times, want 2", changes.Load())
	}

	// a clip shown after the dismissal is untouched by the old deadline
	p.Show("b.png", 2*time.Minute)
	mock.Add(time.Minute)
	time.Sleep(10 * time.Millisecond)
	if p.Current() == nil {
		t.Error("stale timer cleared the newer clip")
	}

	p.Dismiss()
	p.Dismiss()
	if changes.Load() != 4 {
		t.Errorf("OnChange fired %d times, want 4", changes.Load())
	}
}

func TestContentReaderErrorWraps(t *testing.T) {
	_, err := LoadToastTable(failingReader{}, "x")
	if !errors.Is(err, errBoom) {
		t.Errorf("error = %v, want it to wrap errBoom", err)
	}
}

var errBoom = errors.New("boom")

type failingReader struct{}

func (failingReader) ReadFile(string) ([]byte, error) { return nil, errBoom }
