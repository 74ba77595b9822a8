// Package gradient builds the multi-stop diagonal gradient shared by the
// border and the badge.
package gradient

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

var ErrNoColors = errors.New("gradient: at least one color is required")

// Stop is a color at an offset in [0, 1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Paint is a linear gradient defined in reference coordinates. It is built
// once per render and shared by every layer that fills with it, so the badge
// shows a crop of the border's gradient rather than a gradient of its own.
type Paint struct {
	X0, Y0, X1, Y1 float64
	stops          []Stop
}

// Build parses colors and places stop i at i/(N-1). A single color yields
// two identical stops at 0 and 1, which fills solid.
func Build(colors []string, x0, y0, x1, y1 float64) (*Paint, error) {
	if len(colors) == 0 {
		return nil, ErrNoColors
	}
	parsed := make([]color.NRGBA, len(colors))
	for i, s := range colors {
		c, err := ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("gradient color %d: %w", i, err)
		}
		parsed[i] = c
	}

	p := &Paint{X0: x0, Y0: y0, X1: x1, Y1: y1}
	if len(parsed) == 1 {
		p.stops = []Stop{{Offset: 0, Color: parsed[0]}, {Offset: 1, Color: parsed[0]}}
		return p, nil
	}
	last := float64(len(parsed) - 1)
	p.stops = make([]Stop, len(parsed))
	for i, c := range parsed {
		p.stops[i] = Stop{Offset: float64(i) / last, Color: c}
	}
	return p, nil
}

// Stops returns a copy of the gradient stops in order.
func (p *Paint) Stops() []Stop {
	out := make([]Stop, len(p.stops))
	copy(out, p.stops)
	return out
}

// Pattern returns a gg fill pattern in device pixels for a canvas drawn at
// scale device pixels per reference unit.
func (p *Paint) Pattern(scale float64) gg.Gradient {
	g := gg.NewLinearGradient(p.X0*scale, p.Y0*scale, p.X1*scale, p.Y1*scale)
	for _, s := range p.stops {
		g.AddColorStop(s.Offset, s.Color)
	}
	return g
}
