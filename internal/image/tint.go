package imagepkg

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// FitWithin scales w x h so its longer side equals maxSide, keeping the
// aspect ratio. Results are rounded and never below one pixel.
func FitWithin(w, h int, maxSide float64) (int, int) {
	aspect := float64(w) / float64(h)
	dw, dh := maxSide, maxSide
	if aspect > 1 {
		dh = maxSide / aspect
	} else {
		dw = maxSide * aspect
	}
	return max(1, int(math.Round(dw))), max(1, int(math.Round(dh)))
}

// TintWhite turns every pixel white and keeps its alpha, so the image acts
// as a white silhouette of itself.
func TintWhite(img image.Image) *image.NRGBA {
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: c.A}
	})
}

// BadgeGlyph scales img to fit within maxSide and tints it white.
func BadgeGlyph(img image.Image, maxSide float64) *image.NRGBA {
	b := img.Bounds()
	w, h := FitWithin(b.Dx(), b.Dy(), maxSide)
	return TintWhite(imaging.Resize(img, w, h, imaging.Lanczos))
}
