// Package geometry computes the icon layout and the contours used to fill
// and clip each layer. Everything here is pure.
package geometry

// ReferenceSize is the canvas size the layout constants are expressed in.
const ReferenceSize = 1024

// Constants at ReferenceSize.
const (
	refOuterRadius     = 80
	refBorderThickness = 25
	refInnerRadius     = 55
	refBadgeSize       = 180
	refBadgeRadius     = 80
)

// Layout holds the layout constants scaled to one canvas size.
type Layout struct {
	CanvasSize      int
	Scale           float64
	OuterRadius     float64
	BorderThickness float64
	InnerRadius     float64
	InnerSize       float64
	BadgeSize       float64
	BadgeRadius     float64
}

// ComputeLayout scales the reference constants by canvasSize/ReferenceSize.
// InnerSize is not guaranteed positive: canvases below roughly 50px leave
// no room inside the border and callers should skip the inner layers.
func ComputeLayout(canvasSize int) Layout {
	s := float64(canvasSize) / ReferenceSize
	border := refBorderThickness * s
	return Layout{
		CanvasSize:      canvasSize,
		Scale:           s,
		OuterRadius:     refOuterRadius * s,
		BorderThickness: border,
		InnerRadius:     refInnerRadius * s,
		InnerSize:       float64(canvasSize) - 2*border,
		BadgeSize:       refBadgeSize * s,
		BadgeRadius:     refBadgeRadius * s,
	}
}

// HasInner reports whether there is a drawable region inside the border.
func (l Layout) HasInner() bool {
	return l.InnerSize > 0
}

// Inner returns the rectangle inside the border.
func (l Layout) Inner() Rect {
	return Rect{X: l.BorderThickness, Y: l.BorderThickness, W: l.InnerSize, H: l.InnerSize}
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X, Y, W, H float64
}

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersect returns the overlap of r and o, or the zero Rect if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.W, o.X+o.W), min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// FitCover scales an image of imageW x imageH to cover a container of
// containerW x containerH while preserving its aspect ratio, multiplies the
// result by zoom and centers it. X and Y are relative to the container
// origin and go negative when the image overflows; the overflow is meant to
// be clipped, not letterboxed.
func FitCover(containerW, containerH, imageW, imageH, zoom float64) Rect {
	imageAspect := imageW / imageH
	containerAspect := containerW / containerH

	var w, h float64
	if imageAspect > containerAspect {
		h = containerH
		w = containerH * imageAspect
	} else {
		w = containerW
		h = containerW / imageAspect
	}
	w *= zoom
	h *= zoom
	return Rect{
		X: (containerW - w) / 2,
		Y: (containerH - h) / 2,
		W: w,
		H: h,
	}
}
