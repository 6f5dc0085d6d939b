// Package ui draws the overlay in a fyne window.
//
// Render may be called from any goroutine. It turns the view into a frame
// (plain values) first and applies the frame to the widgets inside
// fyne.Do, so widgets are only touched on the fyne thread.
package ui

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"ThrowOverlay/assets"
	"ThrowOverlay/control"
	"ThrowOverlay/feed"
	"ThrowOverlay/i18n"
	"ThrowOverlay/logging"
	"ThrowOverlay/render"
)

// UI constants
const (
	FontSizeText  float32 = 16.0
	FontSizeHUD   float32 = 22.0
	FontSizeToast float32 = 40.0

	DotSize      = 12
	CornerRadius = 10.0
	maxClipBytes = 32 << 20
)

var (
	// BackgroundColor is the base panel color.
	BackgroundColor = color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	ToastColor      = color.NRGBA{R: 0x89, G: 0x57, B: 0xe5, A: 0xe6}
	MyTurnColor     = color.NRGBA{R: 0xff, G: 0xd3, B: 0x3d, A: 0xff}

	connectionColors = map[feed.State]color.NRGBA{
		feed.StateConnected:    {R: 0x3f, G: 0xb9, B: 0x50, A: 0xff},
		feed.StateConnecting:   {R: 0xd2, G: 0x99, B: 0x22, A: 0xff},
		feed.StateDisconnected: {R: 0xf8, G: 0x51, B: 0x49, A: 0xff},
	}
)

// App is what the window needs from the running session.
type App interface {
	EnqueueCommand(cmd control.Command)
}

// frame is a view reduced to what the widgets display.
type frame struct {
	dot       color.NRGBA
	status    string
	showHUD   bool
	hud       []string
	myTurn    bool
	toast     string
	showClip  bool
	clipURL   string
	clipVideo bool
}

func buildFrame(v render.View) frame {
	f := frame{
		dot:     connectionColors[v.Connection],
		status:  i18n.T(v.Connection.String()),
		showHUD: v.HUDVisible,
		myTurn:  v.MyTurn,
		toast:   v.Toast,
	}
	if v.HUDVisible {
		f.hud = []string{
			fmt.Sprintf("%s: %s", i18n.T("Turn"), v.Score),
			fmt.Sprintf("%s: %s", i18n.T("Remaining"), v.Remaining),
			fmt.Sprintf("%s: %s", i18n.T("Last Throw"), v.LastThrow),
			fmt.Sprintf("%s: %s  %s: %s", i18n.T("Darts"), v.Darts, i18n.T("Player"), v.ActivePlayer),
		}
		if v.MyTurn {
			f.hud = append(f.hud, i18n.T("Your turn"))
		}
	}
	if v.ClipVisible {
		f.showClip = true
		f.clipURL = v.ClipURL
		f.clipVideo = v.ClipKind == assets.KindVideo
	}
	return f
}

// Overlay is the fyne renderer.
type Overlay struct {
	app    App
	window fyne.Window
	client *http.Client
	log    *logging.Logger

	// OnReattach runs when the user presses h.
	OnReattach func()

	dot         *canvas.Circle
	statusText  *canvas.Text
	hudBox      *fyne.Container
	hudLines    []*canvas.Text
	toastText   *canvas.Text
	toastLayer  *fyne.Container
	clipImage   *canvas.Image
	clipCaption *canvas.Text
	clipLayer   *TappableContainer

	mu       sync.Mutex
	clipURL  string
	loadStop context.CancelFunc
}

// NewOverlay builds the overlay widgets into a new window of fyneApp.
// a may be nil and bound later with Bind.
func NewOverlay(a App, fyneApp fyne.App, size fyne.Size, log *logging.Logger) *Overlay {
	if log == nil {
		log = logging.NopLogger()
	}
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "ThrowOverlay"
	}
	o := &Overlay{
		app:    a,
		window: fyneApp.NewWindow(title),
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.WithComponent("ui"),
	}

	o.dot = canvas.NewCircle(connectionColors[feed.StateDisconnected])
	dotBox := canvas.NewRectangle(color.Transparent)
	dotBox.SetMinSize(fyne.NewSize(DotSize, DotSize))
	o.statusText = canvas.NewText(i18n.T("disconnected"), color.White)
	o.statusText.TextSize = FontSizeText
	statusBar := container.NewHBox(container.NewStack(dotBox, o.dot), o.statusText, layout.NewSpacer())

	o.hudBox = container.NewVBox()
	for i := 0; i < 5; i++ {
		line := canvas.NewText("", color.White)
		line.TextSize = FontSizeHUD
		line.TextStyle.Bold = i == 0
		o.hudLines = append(o.hudLines, line)
		o.hudBox.Add(line)
	}

	o.toastText = canvas.NewText("", color.White)
	o.toastText.TextSize = FontSizeToast
	o.toastText.TextStyle.Bold = true
	o.toastText.Alignment = fyne.TextAlignCenter
	toastBg := canvas.NewRectangle(ToastColor)
	toastBg.CornerRadius = CornerRadius
	o.toastLayer = container.NewCenter(container.NewStack(toastBg, container.NewPadded(o.toastText)))
	o.toastLayer.Hide()

	o.clipImage = &canvas.Image{FillMode: canvas.ImageFillContain}
	o.clipCaption = canvas.NewText("", color.White)
	o.clipCaption.Alignment = fyne.TextAlignCenter
	clipBg := canvas.NewRectangle(withAlpha(BackgroundColor, 0xe0))
	hint := canvas.NewText(i18n.T("Tap to dismiss"), color.Gray{Y: 0xa0})
	hint.Alignment = fyne.TextAlignCenter
	clipContent := container.NewStack(clipBg, o.clipImage, container.NewBorder(nil, container.NewVBox(o.clipCaption, hint), nil, nil))
	o.clipLayer = NewTappableContainer(clipContent, func() {
		o.send(control.Command{Type: control.CmdDismissClip})
	}, nil)
	o.clipLayer.Hide()

	base := container.NewBorder(statusBar, nil, nil, nil, container.NewPadded(o.hudBox))
	o.window.SetContent(container.NewStack(base, o.toastLayer, o.clipLayer))
	o.window.Canvas().SetOnTypedRune(o.handleKeyRune)
	o.window.Resize(size)
	return o
}

// Window returns the overlay window.
func (o *Overlay) Window() fyne.Window {
	return o.window
}

// Bind attaches the session that receives the window's commands. Call it
// before the window is shown.
func (o *Overlay) Bind(a App) {
	o.app = a
}

func (o *Overlay) send(cmd control.Command) {
	if o.app != nil {
		o.app.EnqueueCommand(cmd)
	}
}

func (o *Overlay) handleKeyRune(r rune) {
	switch r {
	case 'h', 'H':
		if o.OnReattach != nil {
			o.OnReattach()
		} else {
			o.send(control.Command{Type: control.CmdToggleHUD})
		}
	case 'x', 'X':
		o.send(control.Command{Type: control.CmdDismissClip})
	}
}

// Render applies v to the widgets.
func (o *Overlay) Render(v render.View) {
	f := buildFrame(v)
	o.loadClip(f)

	fyne.Do(func() {
		o.dot.FillColor = f.dot
		o.dot.Refresh()
		o.statusText.Text = f.status
		o.statusText.Refresh()

		for i, line := range o.hudLines {
			line.Text = ""
			if i < len(f.hud) {
				line.Text = f.hud[i]
			}
			line.Color = color.White
			if f.myTurn && i == len(f.hud)-1 {
				line.Color = MyTurnColor
			}
			line.Refresh()
		}
		if f.showHUD {
			o.hudBox.Show()
		} else {
			o.hudBox.Hide()
		}

		if f.toast != "" {
			o.toastText.Text = f.toast
			o.toastText.Refresh()
			o.toastLayer.Show()
		} else {
			o.toastLayer.Hide()
		}

		if f.showClip {
			o.clipCaption.Text = ""
			if f.clipVideo {
				o.clipCaption.Text = i18n.T("Video clip") + ": " + path.Base(f.clipURL)
			}
			o.clipCaption.Refresh()
			o.clipLayer.Show()
		} else {
			o.clipLayer.Hide()
		}
	})
}

// loadClip starts fetching a new clip image. A newer clip, or none,
// cancels the pending fetch.
func (o *Overlay) loadClip(f frame) {
	url := ""
	if f.showClip && !f.clipVideo {
		url = f.clipURL
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if url == o.clipURL {
		return
	}
	o.clipURL = url
	if o.loadStop != nil {
		o.loadStop()
		o.loadStop = nil
	}
	if url == "" {
		fyne.Do(func() {
			o.clipImage.Resource = nil
			o.clipImage.Refresh()
		})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.loadStop = cancel
	go func() {
		res, err := o.fetch(ctx, url)
		if err != nil {
			if ctx.Err() == nil {
				o.log.Debug("clip image unavailable", "url", url, "error", err)
			}
			return
		}
		o.mu.Lock()
		current := o.clipURL == url
		o.mu.Unlock()
		if !current {
			return
		}
		fyne.Do(func() {
			o.clipImage.Resource = res
			o.clipImage.Refresh()
		})
	}()
}

func (o *Overlay) fetch(ctx context.Context, url string) (fyne.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch clip: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxClipBytes))
	if err != nil {
		return nil, err
	}
	name := path.Base(url)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return fyne.NewStaticResource(name, data), nil
}

// TappableContainer wraps content and reports primary and secondary taps.
type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
