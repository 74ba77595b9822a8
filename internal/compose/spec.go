// Package compose draws the cartridge icon: gradient border, background
// panel, artwork, badge and badge content, in that order.
package compose

import (
	"errors"
	"fmt"
	"image"
	"slices"
)

var (
	ErrNoColors    = errors.New("at least one gradient color is required")
	ErrInvalidSize = errors.New("canvas size must be positive")
	ErrInvalidZoom = errors.New("artwork zoom must be positive")
)

// IconSpec is one snapshot of the icon inputs. It carries no defaults:
// callers supply the zoom and canvas size.
type IconSpec struct {
	// Badge is a glyph string, or an image reference when BadgeIsImage is
	// set. Empty means no badge content.
	Badge          string   `json:"badge" yaml:"badge"`
	BadgeIsImage   bool     `json:"badgeIsImage" yaml:"badgeIsImage"`
	GradientColors []string `json:"gradientColors" yaml:"gradientColors"`
	// Artwork is an image reference; empty draws the placeholder.
	Artwork     string  `json:"artwork" yaml:"artwork"`
	ArtworkZoom float64 `json:"artworkZoom" yaml:"artworkZoom"`
	CanvasSize  int     `json:"canvasSize" yaml:"canvasSize"`
}

// Validate checks the preconditions Compose relies on. Zoom is only checked
// for sign; any positive value is accepted.
func (s IconSpec) Validate() error {
	if len(s.GradientColors) == 0 {
		return ErrNoColors
	}
	if s.CanvasSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, s.CanvasSize)
	}
	if !(s.ArtworkZoom > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, s.ArtworkZoom)
	}
	return nil
}

// Equal reports whether two specs describe the same render.
func (s IconSpec) Equal(o IconSpec) bool {
	return s.Badge == o.Badge &&
		s.BadgeIsImage == o.BadgeIsImage &&
		slices.Equal(s.GradientColors, o.GradientColors) &&
		s.Artwork == o.Artwork &&
		s.ArtworkZoom == o.ArtworkZoom &&
		s.CanvasSize == o.CanvasSize
}

// WithSize returns a copy of s rendered at size.
func (s IconSpec) WithSize(size int) IconSpec {
	s.GradientColors = slices.Clone(s.GradientColors)
	s.CanvasSize = size
	return s
}

// Result is a finished render. It is never modified after Compose returns.
type Result struct {
	Spec    IconSpec
	Image   *image.RGBA
	PNG     []byte
	DataURI string
}

// Size returns the edge length of the rendered square.
func (r *Result) Size() int {
	return r.Image.Bounds().Dx()
}
