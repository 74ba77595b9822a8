// Package imagepkg loads the optional artwork and badge images.
package imagepkg

import (
	"context"
	"image"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Image is a decoded, readable image with its natural size.
type Image struct {
	image.Image
	Width  int
	Height int
}

// Source loads images by reference.
type Source interface {
	Load(ctx context.Context, ref string) (*Image, error)
}

// Loader resolves data URIs, http(s) URLs and file paths.
type Loader struct {
	root      string
	client    *http.Client
	maxBytes  int64
	maxPixels int64
	log       *zap.Logger
}

// DefaultMaxPixels is about 160 MB once decoded to NRGBA.
const DefaultMaxPixels = 40_000_000

type Option func(*Loader)

// WithRoot confines path refs to dir.
func WithRoot(dir string) Option {
	return func(l *Loader) { l.root = dir }
}

func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithMaxBytes caps the encoded size of a single image.
func WithMaxBytes(n int64) Option {
	return func(l *Loader) { l.maxBytes = n }
}

// WithMaxPixels caps the decoded width*height of a raster image.
func WithMaxPixels(n int64) Option {
	return func(l *Loader) { l.maxPixels = n }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		maxBytes:  32 << 20,
		maxPixels: DefaultMaxPixels,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and decodes ref.
func (l *Loader) Load(ctx context.Context, ref string) (*Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}
	data, mediaType, err := l.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data, mediaType, l.maxPixels)
	if err != nil {
		return nil, err
	}
	l.log.Debug("image loaded",
		zap.String("ref", shortRef(ref)),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))
	return img, nil
}

// Pending is an image load in progress.
type Pending struct {
	done chan struct{}
	img  *Image
	err  error
}

// Go starts loading ref in the background.
func Go(ctx context.Context, src Source, ref string) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.img, p.err = src.Load(ctx, ref)
	}()
	return p
}

// Wait blocks until the load finishes.
func (p *Pending) Wait() (*Image, error) {
	<-p.done
	return p.img, p.err
}

// shortRef keeps data URIs out of logs.
func shortRef(ref string) string {
	if strings.HasPrefix(ref, "data:") && len(ref) > 48 {
		return ref[:48] + "..."
	}
	return ref
}
