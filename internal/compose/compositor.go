package compose

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"

	"github.com/youruser/cartridgeicon/internal/geometry"
	"github.com/youruser/cartridgeicon/internal/gradient"
	imagepkg "github.com/youruser/cartridgeicon/internal/image"
)

const placeholderLabel = "No Artwork"

// Sizes in reference units or as fractions of the badge.
const (
	labelFontSize    = 40
	labelOffsetY     = 100
	badgeImageFactor = 0.5
	badgeGlyphFactor = 0.45
)

var (
	defaultBackground       = gradient.MustParseColor("#1f2937")
	defaultPlaceholderStart = gradient.MustParseColor("#374151")
	defaultPlaceholderEnd   = gradient.MustParseColor("#111827")
	defaultLabelColor       = gradient.MustParseColor("#6b7280")
)

// Compositor renders IconSpecs. It holds no per-render state and is safe
// for concurrent use.
type Compositor struct {
	src   imagepkg.Source
	log   *zap.Logger
	bg    color.NRGBA
	ph0   color.NRGBA
	ph1   color.NRGBA
	text  color.NRGBA
	fonts []*opentype.Font // tried in order before Go Regular for badge glyphs
}

type Option func(*Compositor)

func WithLogger(log *zap.Logger) Option {
	return func(c *Compositor) { c.log = log }
}

// WithBackground sets the opaque panel color behind the artwork.
func WithBackground(col color.NRGBA) Option {
	return func(c *Compositor) { c.bg = col }
}

// WithFonts adds fonts consulted rune by rune before Go Regular when a badge
// is drawn as text. Emoji and symbol badges need one that covers them.
func WithFonts(fonts ...*opentype.Font) Option {
	return func(c *Compositor) { c.fonts = append(c.fonts, fonts...) }
}

func New(src imagepkg.Source, opts ...Option) *Compositor {
	c := &Compositor{
		src:  src,
		log:  zap.NewNop(),
		bg:   defaultBackground,
		ph0:  defaultPlaceholderStart,
		ph1:  defaultPlaceholderEnd,
		text: defaultLabelColor,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose draws spec onto a fresh canvas and encodes it as PNG. A failed
// artwork or badge image only degrades its own layer; errors are returned
// for invalid specs, encoding failures and a cancelled ctx.
func (c *Compositor) Compose(ctx context.Context, spec IconSpec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	paint, err := gradient.Build(spec.GradientColors, 0, 0, geometry.ReferenceSize, geometry.ReferenceSize)
	if err != nil {
		return nil, err
	}
	l := geometry.ComputeLayout(spec.CanvasSize)

	// Loads run concurrently; layers are still drawn strictly in depth order.
	var art, badge *imagepkg.Pending
	if spec.Artwork != "" && l.HasInner() {
		art = imagepkg.Go(ctx, c.src, spec.Artwork)
	}
	if spec.Badge != "" && spec.BadgeIsImage {
		badge = imagepkg.Go(ctx, c.src, spec.Badge)
	}

	dc := gg.NewContext(spec.CanvasSize, spec.CanvasSize)
	fill := paint.Pattern(l.Scale)

	c.drawBorder(dc, l, fill)
	if l.HasInner() {
		c.drawPanel(dc, l)
		c.drawArtwork(dc, l, spec, art)
	}
	c.drawBadge(dc, l, fill)
	c.drawBadgeContent(dc, l, spec, badge)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected surface type %T", dc.Image())
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &Result{
		Spec:    spec.WithSize(spec.CanvasSize),
		Image:   rgba,
		PNG:     buf.Bytes(),
		DataURI: imagepkg.EncodeDataURI("image/png", buf.Bytes()),
	}, nil
}

func (c *Compositor) drawBorder(dc *gg.Context, l geometry.Layout, fill gg.Pattern) {
	size := float64(l.CanvasSize)
	geometry.RoundedRectPath(0, 0, size, size, l.OuterRadius).Trace(dc)
	dc.SetFillStyle(fill)
	dc.Fill()
}

func (c *Compositor) innerPath(l geometry.Layout) geometry.Path {
	in := l.Inner()
	return geometry.RoundedRectPath(in.X, in.Y, in.W, in.H, l.InnerRadius)
}

func (c *Compositor) drawPanel(dc *gg.Context, l geometry.Layout) {
	c.innerPath(l).Trace(dc)
	dc.SetColor(c.bg)
	dc.Fill()
}

func (c *Compositor) drawArtwork(dc *gg.Context, l geometry.Layout, spec IconSpec, art *imagepkg.Pending) {
	if art == nil {
		c.drawPlaceholder(dc, l)
		return
	}
	img, err := art.Wait()
	if err != nil {
		c.log.Warn("artwork unavailable, drawing placeholder",
			zap.String("ref", logRef(spec.Artwork)), zap.Error(err))
		c.drawPlaceholder(dc, l)
		return
	}

	inner := l.Inner()
	fit := geometry.FitCover(inner.W, inner.H, float64(img.Width), float64(img.Height), spec.ArtworkZoom).
		Offset(inner.X, inner.Y)
	visible := fit.Intersect(inner)
	if visible.Empty() {
		return
	}

	scaled, at := resampleVisible(img, fit, visible)
	if scaled == nil {
		return
	}
	c.innerPath(l).Trace(dc)
	dc.Clip()
	dc.DrawImage(scaled, at.X, at.Y)
	dc.ResetClip()
}

// resampleVisible scales the part of img that lands in visible and returns
// it with its canvas position. Shrinking goes through a Lanczos resize of the
// cropped source, which is never larger than the source. Enlarging maps the
// source straight onto a buffer the size of visible, so memory stays bounded
// by the canvas for any zoom.
func resampleVisible(img *imagepkg.Image, fit, visible geometry.Rect) (image.Image, image.Point) {
	kx := fit.W / float64(img.Width)
	ky := fit.H / float64(img.Height)
	origin := img.Bounds().Min

	if kx <= 1 && ky <= 1 {
		sx0 := clampInt(int(math.Floor((visible.X-fit.X)/kx)), 0, img.Width)
		sy0 := clampInt(int(math.Floor((visible.Y-fit.Y)/ky)), 0, img.Height)
		sx1 := clampInt(int(math.Ceil((visible.X+visible.W-fit.X)/kx)), 0, img.Width)
		sy1 := clampInt(int(math.Ceil((visible.Y+visible.H-fit.Y)/ky)), 0, img.Height)
		if sx1 <= sx0 || sy1 <= sy0 {
			return nil, image.Point{}
		}
		crop := imaging.Crop(img.Image, image.Rect(sx0, sy0, sx1, sy1).Add(origin))
		dw := max(1, int(math.Round(float64(sx1-sx0)*kx)))
		dh := max(1, int(math.Round(float64(sy1-sy0)*ky)))
		at := image.Pt(int(math.Round(fit.X+float64(sx0)*kx)), int(math.Round(fit.Y+float64(sy0)*ky)))
		return imaging.Resize(crop, dw, dh, imaging.Lanczos), at
	}

	x0, y0 := int(math.Floor(visible.X)), int(math.Floor(visible.Y))
	x1, y1 := int(math.Ceil(visible.X+visible.W)), int(math.Ceil(visible.Y+visible.H))
	if x1 <= x0 || y1 <= y0 {
		return nil, image.Point{}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	s2d := f64.Aff3{
		kx, 0, fit.X - float64(x0) - kx*float64(origin.X),
		0, ky, fit.Y - float64(y0) - ky*float64(origin.Y),
	}
	xdraw.CatmullRom.Transform(dst, s2d, img.Image, img.Bounds(), xdraw.Src, nil)
	return dst, image.Pt(x0, y0)
}

func (c *Compositor) drawPlaceholder(dc *gg.Context, l geometry.Layout) {
	inner := l.Inner()
	size := float64(l.CanvasSize)
	b := l.BorderThickness

	g := gg.NewLinearGradient(b, b, size-b, size-b)
	g.AddColorStop(0, c.ph0)
	g.AddColorStop(1, c.ph1)

	c.innerPath(l).Trace(dc)
	dc.Clip()
	dc.SetFillStyle(g)
	dc.DrawRectangle(inner.X, inner.Y, inner.W, inner.H)
	dc.Fill()
	dc.ResetClip()

	px := labelFontSize * l.Scale
	if px < 1 {
		return
	}
	face, err := newFace(true, px)
	if err != nil {
		c.log.Warn("placeholder label skipped", zap.Error(err))
		return
	}
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(c.text)
	dc.DrawStringAnchored(placeholderLabel, size/2, size/2+labelOffsetY*l.Scale, 0.5, 0.5)
}

// drawBadge fills the badge silhouette with the border's own gradient. The
// outer contour stays clipped so the badge never paints past the icon edge.
func (c *Compositor) drawBadge(dc *gg.Context, l geometry.Layout, fill gg.Pattern) {
	size := float64(l.CanvasSize)
	geometry.RoundedRectPath(0, 0, size, size, l.OuterRadius).Trace(dc)
	dc.Clip()
	geometry.BadgeMaskPath(l.BadgeSize, l.BadgeRadius).Trace(dc)
	dc.Clip()
	dc.SetFillStyle(fill)
	dc.DrawRectangle(0, 0, l.BadgeSize, l.BadgeSize)
	dc.Fill()
	dc.ResetClip()
}

// drawBadgeContent centers the glyph or tinted image on the full badge
// square, ignoring the diagonal cut.
func (c *Compositor) drawBadgeContent(dc *gg.Context, l geometry.Layout, spec IconSpec, badge *imagepkg.Pending) {
	if spec.Badge == "" {
		return
	}
	center := l.BadgeSize / 2
	if badge != nil {
		img, err := badge.Wait()
		if err == nil {
			glyph := imagepkg.BadgeGlyph(img, l.BadgeSize*badgeImageFactor)
			b := glyph.Bounds()
			x := int(math.Round(center - float64(b.Dx())/2))
			y := int(math.Round(center - float64(b.Dy())/2))
			dc.DrawImage(glyph, x, y)
			return
		}
		c.log.Warn("badge image unavailable, drawing reference as text",
			zap.String("ref", logRef(spec.Badge)), zap.Error(err))
	}
	c.drawGlyph(dc, spec.Badge, center, l.BadgeSize*badgeGlyphFactor)
}

func (c *Compositor) drawGlyph(dc *gg.Context, s string, center, px float64) {
	if px < 1 {
		return
	}
	face, err := newChainFace(c.fonts, px)
	if err != nil {
		c.log.Warn("badge glyph skipped", zap.Error(err))
		return
	}
	defer face.Close()
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(s, center, center, 0.5, 0.5)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func logRef(ref string) string {
	if len(ref) > 64 {
		return ref[:64] + "..."
	}
	return ref
}
