package export

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/youruser/cartridgeicon/internal/compose"
	imagepkg "github.com/youruser/cartridgeicon/internal/image"
)

type countingRenderer struct {
	c     *compose.Compositor
	calls int
}

func (r *countingRenderer) Compose(ctx context.Context, s compose.IconSpec) (*compose.Result, error) {
	r.calls++
	return r.c.Compose(ctx, s)
}

func newRenderer() *countingRenderer {
	return &countingRenderer{c: compose.New(imagepkg.NewLoader())}
}

func spec(size int) compose.IconSpec {
	return compose.IconSpec{
		Badge:          "G",
		GradientColors: []string{"#9333ea", "#06b6d4"},
		ArtworkZoom:    1,
		CanvasSize:     size,
	}
}

func TestExportRendersCanonicalSize(t *testing.T) {
	r := newRenderer()
	f, err := New(r).Export(context.Background(), spec(300), nil)
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "game-cartridge-icon.png" || f.ContentType != "image/png" {
		t.Errorf("file = %q %q", f.Name, f.ContentType)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1024 || cfg.Height != 1024 {
		t.Errorf("exported %dx%d, want 1024x1024", cfg.Width, cfg.Height)
	}
}

func TestExportReusesCanonicalCache(t *testing.T) {
	r := newRenderer()
	cached, err := r.Compose(context.Background(), spec(1024))
	if err != nil {
		t.Fatal(err)
	}
	e := New(r)

	f, err := e.Export(context.Background(), spec(1024), cached)
	if err != nil {
		t.Fatal(err)
	}
	if r.calls != 1 {
		t.Errorf("renders = %d, want cached result reused", r.calls)
	}
	if !bytes.Equal(f.Data, cached.PNG) {
		t.Error("export bytes differ from cached render")
	}

	// A cache rendered at preview size is not reused.
	small, _ := r.Compose(context.Background(), spec(200))
	if _, err := e.Export(context.Background(), spec(200), small); err != nil {
		t.Fatal(err)
	}
	if r.calls != 3 {
		t.Errorf("renders = %d, want re-render for non-canonical cache", r.calls)
	}
}

func TestFileWriteTo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	f := &File{Name: FileName, ContentType: ContentType, Data: []byte("png")}
	p, err := f.WriteTo(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "png" || filepath.Base(p) != FileName {
		t.Errorf("wrote %q to %s", got, p)
	}
}

func TestExportInvalidSpec(t *testing.T) {
	s := spec(1024)
	s.GradientColors = nil
	if _, err := New(newRenderer()).Export(context.Background(), s, nil); err == nil {
		t.Error("export of invalid spec succeeded")
	}
}
