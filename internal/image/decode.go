package imagepkg

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage = errors.New("image has no pixels")
	ErrTooLarge   = errors.New("image dimensions exceed limit")
)

// Largest side an SVG without a usable viewBox is rasterized at, and the
// cap for SVGs that declare something huge.
const (
	defaultSVGSize = 512
	maxSVGSize     = 4096
)

// Decode decodes raster formats registered with image (PNG, JPEG, GIF, WebP,
// BMP, TIFF) and SVG documents. Raster images with more than maxPixels
// pixels are rejected from their header before any pixel data is read;
// maxPixels <= 0 disables the check.
func Decode(data []byte, mediaType string, maxPixels int64) (*Image, error) {
	if isSVG(data, mediaType) {
		return decodeSVG(data)
	}
	if maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		if px := int64(cfg.Width) * int64(cfg.Height); px > maxPixels {
			return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
		}
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return newImage(img)
}

func newImage(img image.Image) (*Image, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	return &Image{Image: img, Width: b.Dx(), Height: b.Dy()}, nil
}

func isSVG(data []byte, mediaType string) bool {
	if strings.HasPrefix(mediaType, "image/svg") {
		return true
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

func decodeSVG(data []byte) (*Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}
	w, h := svgSize(icon.ViewBox.W, icon.ViewBox.H)
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return newImage(rgba)
}

func svgSize(vw, vh float64) (int, int) {
	if vw <= 0 || vh <= 0 {
		return defaultSVGSize, defaultSVGSize
	}
	if longest := math.Max(vw, vh); longest > maxSVGSize {
		k := maxSVGSize / longest
		vw, vh = vw*k, vh*k
	}
	return max(1, int(math.Ceil(vw))), max(1, int(math.Ceil(vh)))
}
