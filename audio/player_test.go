package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gopxl/beep"
)

// pcmWAV builds a mono 16-bit PCM wav file of n samples.
func pcmWAV(rate, n int) []byte {
	var b bytes.Buffer
	dataLen := n * 2
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1)) // channels
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*2))
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	for i := 0; i < n; i++ {
		binary.Write(&b, binary.LittleEndian, int16((i%64)*256))
	}
	return b.Bytes()
}

func testPlayer(client *http.Client) *BeepPlayer {
	return &BeepPlayer{
		client:     client,
		sampleRate: beep.SampleRate(44100),
		enabled:    true,
		buffers:    make(map[string]*beep.Buffer),
	}
}

func TestDisabledPlayerFailsFast(t *testing.T) {
	p := &BeepPlayer{}
	err := p.Play(context.Background(), Cue{URL: "http://host/sounds/a.mp3"}, 1)
	if !errors.Is(err, ErrAudioDisabled) {
		t.Errorf("Play() error = %v, want ErrAudioDisabled", err)
	}
}

func TestLoadDecodesAndCaches(t *testing.T) {
	var hits atomic.Int32
	wavData := pcmWAV(22050, 2205)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(wavData)
	}))
	defer srv.Close()

	p := testPlayer(srv.Client())
	url := srv.URL + "/sounds/beep.wav?v=2"
	first, err := p.load(context.Background(), url)
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if first.Len() == 0 {
		t.Error("decoded buffer is empty")
	}
	if first.Format().SampleRate != 44100 {
		t.Errorf("buffer rate = %d, want the speaker rate", first.Format().SampleRate)
	}

	second, err := p.load(context.Background(), url)
	if err != nil {
		t.Fatalf("second load() error = %v", err)
	}
	if first != second {
		t.Error("second load did not reuse the cached buffer")
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestLoadErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	p := testPlayer(srv.Client())

	t.Run("unknown extension", func(t *testing.T) {
		_, err := p.load(context.Background(), srv.URL+"/sounds/a.flac")
		if !errors.Is(err, ErrNoDecoder) {
			t.Errorf("error = %v, want ErrNoDecoder", err)
		}
	})
	t.Run("missing file", func(t *testing.T) {
		if _, err := p.load(context.Background(), srv.URL+"/sounds/a.mp3"); err == nil {
			t.Error("expected an error for a 404")
		}
	})
	t.Run("garbage payload", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not a wav file"))
		}))
		defer bad.Close()
		if _, err := testPlayer(bad.Client()).load(context.Background(), bad.URL+"/x.wav"); err == nil {
			t.Error("expected a decode error")
		}
	})
}

func TestCodecFor(t *testing.T) {
	for _, ext := range []string{".mp3", ".wav", ".ogg", ".oga"} {
		if codecFor(ext) == nil {
			t.Errorf("codecFor(%q) = nil", ext)
		}
	}
	if codecFor(".aac") != nil {
		t.Error("codecFor(.aac) should be nil")
	}
}
