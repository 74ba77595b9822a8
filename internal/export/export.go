// Package export produces the downloadable icon file.
package export

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/youruser/cartridgeicon/internal/compose"
	"github.com/youruser/cartridgeicon/internal/util"
)

const (
	FileName      = "game-cartridge-icon.png"
	ContentType   = "image/png"
	CanonicalSize = 1024
)

// Renderer renders one spec. *compose.Compositor satisfies it.
type Renderer interface {
	Compose(ctx context.Context, spec compose.IconSpec) (*compose.Result, error)
}

// File is an encoded icon ready to be saved.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// WriteTo saves f into dir and returns the full path.
func (f *File) WriteTo(dir string) (string, error) {
	p := filepath.Join(dir, f.Name)
	if err := util.WriteFileAtomic(p, f.Data); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}

type Exporter struct {
	r    Renderer
	size int
	name string
	log  *zap.Logger
}

type Option func(*Exporter)

func WithLogger(log *zap.Logger) Option {
	return func(e *Exporter) { e.log = log }
}

// WithFileName overrides the fixed download name.
func WithFileName(name string) Option {
	return func(e *Exporter) { e.name = name }
}

func New(r Renderer, opts ...Option) *Exporter {
	e := &Exporter{r: r, size: CanonicalSize, name: FileName, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export returns spec rendered at the canonical size, whatever size the
// preview used. cached is reused when it already is that render.
func (e *Exporter) Export(ctx context.Context, spec compose.IconSpec, cached *compose.Result) (*File, error) {
	canonical := spec.WithSize(e.size)
	res := cached
	if res == nil || !res.Spec.Equal(canonical) {
		var err error
		res, err = e.r.Compose(ctx, canonical)
		if err != nil {
			return nil, fmt.Errorf("render export: %w", err)
		}
		e.log.Debug("export rendered", zap.Int("size", e.size), zap.Int("previewSize", spec.CanvasSize))
	}
	return &File{Name: e.name, ContentType: ContentType, Data: res.PNG}, nil
}
