package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"ThrowOverlay/logging"
)

var (
	// ErrAudioDisabled is returned by every Play once speaker setup failed.
	ErrAudioDisabled = errors.New("audio disabled")
	// ErrNoDecoder is returned for sound files with an unsupported extension.
	ErrNoDecoder = errors.New("no decoder for sound")
)

const maxSoundBytes = 16 << 20

// BeepPlayer fetches sounds over HTTP and plays them on the system speaker.
// Decoded sounds are buffered in memory keyed by URL.
type BeepPlayer struct {
	client     *http.Client
	sampleRate beep.SampleRate
	enabled    bool
	log        *logging.Logger

	mu      sync.Mutex
	buffers map[string]*beep.Buffer
}

// NewBeepPlayer initializes the speaker. If that fails the player stays
// usable but every cue fails with ErrAudioDisabled.
func NewBeepPlayer(sampleRate int, log *logging.Logger) *BeepPlayer {
	if log == nil {
		log = logging.NopLogger()
	}
	p := &BeepPlayer{
		client:     &http.Client{Timeout: 10 * time.Second},
		sampleRate: beep.SampleRate(sampleRate),
		log:        log.WithComponent("speaker"),
		buffers:    make(map[string]*beep.Buffer),
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/10)); err != nil {
		p.log.Warn("audio disabled: failed to initialize speaker", "error", err)
		return p
	}
	p.enabled = true
	return p
}

// Enabled reports whether the speaker is available.
func (p *BeepPlayer) Enabled() bool {
	return p.enabled
}

// Play plays cue at volume and returns when it ends or ctx is done.
func (p *BeepPlayer) Play(ctx context.Context, cue Cue, volume float64) error {
	if !p.enabled {
		return ErrAudioDisabled
	}
	buf, err := p.load(ctx, cue.URL)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	ctrl := &beep.Ctrl{Streamer: beep.Seq(
		&effects.Gain{Streamer: buf.Streamer(0, buf.Len()), Gain: volume - 1},
		beep.Callback(func() { close(done) }),
	)}
	speaker.Play(ctrl)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Lock()
		ctrl.Streamer = nil
		speaker.Unlock()
		return ctx.Err()
	}
}

// load returns the cached buffer for rawURL, fetching and decoding it on
// first use.
func (p *BeepPlayer) load(ctx context.Context, rawURL string) (*beep.Buffer, error) {
	p.mu.Lock()
	buf, ok := p.buffers[rawURL]
	p.mu.Unlock()
	if ok {
		return buf, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse sound url: %w", err)
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if codecFor(ext) == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoDecoder, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build sound request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sound: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sound %s: %s", rawURL, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSoundBytes))
	if err != nil {
		return nil, fmt.Errorf("read sound: %w", err)
	}

	streamer, format, err := codecFor(ext)(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("decode sound %s: %w", rawURL, err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		src = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}
	buf = beep.NewBuffer(beep.Format{
		SampleRate:  p.sampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buf.Append(src)

	p.mu.Lock()
	p.buffers[rawURL] = buf
	p.mu.Unlock()
	p.log.Debug("sound cached", "url", rawURL, "samples", buf.Len())
	return buf, nil
}

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

func codecFor(ext string) decodeFunc {
	switch ext {
	case ".mp3":
		return mp3.Decode
	case ".wav":
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(rc)
		}
	case ".ogg", ".oga":
		return vorbis.Decode
	}
	return nil
}
