package compose

import (
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regularFont, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		boldFont, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

// LoadFontFile parses a TrueType or OpenType file. Only outline glyphs are
// drawn, so color bitmap emoji fonts render nothing; use a monochrome one
// such as Noto Emoji.
func LoadFontFile(path string) (*opentype.Font, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

func faceOptions(px float64) *opentype.FaceOptions {
	return &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	}
}

// newFace returns a face whose size is in pixels.
func newFace(bold bool, px float64) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("parse fonts: %w", err)
	}
	f := regularFont
	if bold {
		f = boldFont
	}
	return opentype.NewFace(f, faceOptions(px))
}

// newChainFace draws each rune with the first of fonts that has a glyph for
// it, falling back to Go Regular. Metrics come from Go Regular so anchoring
// does not depend on which fonts are installed.
func newChainFace(fonts []*opentype.Font, px float64) (font.Face, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("parse fonts: %w", err)
	}
	all := append(append([]*opentype.Font(nil), fonts...), regularFont)
	cf := &chainFace{fonts: all}
	for _, f := range all {
		face, err := opentype.NewFace(f, faceOptions(px))
		if err != nil {
			cf.Close()
			return nil, err
		}
		cf.faces = append(cf.faces, face)
	}
	return cf, nil
}

type chainFace struct {
	fonts []*opentype.Font
	faces []font.Face
	buf   sfnt.Buffer
}

func (c *chainFace) pick(r rune) font.Face {
	last := len(c.faces) - 1
	for i, f := range c.fonts[:last] {
		if gi, err := f.GlyphIndex(&c.buf, r); err == nil && gi != 0 {
			return c.faces[i]
		}
	}
	return c.faces[last]
}

func (c *chainFace) Close() error {
	var errs []error
	for _, f := range c.faces {
		errs = append(errs, f.Close())
	}
	return errors.Join(errs...)
}

func (c *chainFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return c.pick(r).Glyph(dot, r)
}

func (c *chainFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return c.pick(r).GlyphBounds(r)
}

func (c *chainFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	return c.pick(r).GlyphAdvance(r)
}

func (c *chainFace) Kern(r0, r1 rune) fixed.Int26_6 {
	f := c.pick(r0)
	if f != c.pick(r1) {
		return 0
	}
	return f.Kern(r0, r1)
}

func (c *chainFace) Metrics() font.Metrics {
	return c.faces[len(c.faces)-1].Metrics()
}
