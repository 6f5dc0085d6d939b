// Package assets resolves sound and clip references against the backend's
// fixed asset paths.
package assets

import (
	"net/url"
	"path"
	"strings"
)

const (
	soundsPath = "/sounds/"
	clipsPath  = "/clips/"
)

// Kind classifies a clip resource.
type Kind int

const (
	KindImage Kind = iota
	KindVideo
)

func (k Kind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".m4v":  true,
	".ogv":  true,
}

// Resolver roots relative references at a backend origin.
type Resolver struct {
	base *url.URL
}

// NewResolver parses the backend origin, e.g. "http://localhost:8420".
func NewResolver(base string) (*Resolver, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	return &Resolver{base: u}, nil
}

// Sound resolves a sound reference. Absolute URLs pass through.
func (r *Resolver) Sound(ref string) string {
	return r.resolve(ref, soundsPath)
}

// Clip resolves a clip reference. Absolute URLs pass through.
func (r *Resolver) Clip(ref string) string {
	return r.resolve(ref, clipsPath)
}

func (r *Resolver) resolve(ref, dir string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	// Already rooted at a backend path ("/sounds/x.mp3")
	if strings.HasPrefix(ref, "/") {
		return r.base.ResolveReference(&url.URL{Path: ref}).String()
	}
	return r.base.ResolveReference(&url.URL{Path: dir + ref}).String()
}

// Classify reports whether a resolved clip URL is a video or an image,
// by file extension. Query strings are ignored.
func Classify(ref string) Kind {
	p := ref
	if u, err := url.Parse(ref); err == nil {
		p = u.Path
	}
	if videoExtensions[strings.ToLower(path.Ext(p))] {
		return KindVideo
	}
	return KindImage
}
