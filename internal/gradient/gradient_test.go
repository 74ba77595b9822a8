package gradient

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"
	"github.com/google/go-cmp/cmp"
)

func TestBuildStopOffsets(t *testing.T) {
	for n := 2; n <= 7; n++ {
		colors := make([]string, n)
		for i := range colors {
			colors[i] = "#102030"
		}
		p, err := Build(colors, 0, 0, 1024, 1024)
		if err != nil {
			t.Fatal(err)
		}
		stops := p.Stops()
		if len(stops) != n {
			t.Fatalf("n=%d: %d stops", n, len(stops))
		}
		for i, s := range stops {
			if want := float64(i) / float64(n-1); s.Offset != want {
				t.Errorf("n=%d: stop %d at %v, want %v", n, i, s.Offset, want)
			}
		}
		if stops[0].Offset != 0 || stops[n-1].Offset != 1 {
			t.Errorf("n=%d: end stops at %v and %v", n, stops[0].Offset, stops[n-1].Offset)
		}
	}
}

func TestBuildKeepsColorOrder(t *testing.T) {
	p, err := Build([]string{"#9333ea", "#06b6d4", "white"}, 0, 0, 1024, 1024)
	if err != nil {
		t.Fatal(err)
	}
	want := []Stop{
		{Offset: 0, Color: color.NRGBA{0x93, 0x33, 0xea, 0xff}},
		{Offset: 0.5, Color: color.NRGBA{0x06, 0xb6, 0xd4, 0xff}},
		{Offset: 1, Color: color.NRGBA{0xff, 0xff, 0xff, 0xff}},
	}
	if diff := cmp.Diff(want, p.Stops()); diff != "" {
		t.Errorf("stops mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSingleColor(t *testing.T) {
	p, err := Build([]string{"#06b6d4"}, 0, 0, 1024, 1024)
	if err != nil {
		t.Fatal(err)
	}
	c := color.NRGBA{0x06, 0xb6, 0xd4, 0xff}
	want := []Stop{{Offset: 0, Color: c}, {Offset: 1, Color: c}}
	if diff := cmp.Diff(want, p.Stops()); diff != "" {
		t.Errorf("stops mismatch (-want +got):\n%s", diff)
	}
}

func fill(t *testing.T, colors []string) *image.RGBA {
	t.Helper()
	p, err := Build(colors, 0, 0, 1024, 1024)
	if err != nil {
		t.Fatal(err)
	}
	dc := gg.NewContext(64, 64)
	dc.SetFillStyle(p.Pattern(64.0 / 1024))
	dc.DrawRectangle(0, 0, 64, 64)
	dc.Fill()
	return dc.Image().(*image.RGBA)
}

func TestSingleColorMatchesDuplicatedColor(t *testing.T) {
	one := fill(t, []string{"#9333ea"})
	two := fill(t, []string{"#9333ea", "#9333ea"})
	if !cmp.Equal(one.Pix, two.Pix) {
		t.Fatal("single color gradient differs from duplicated color gradient")
	}
	if got := one.RGBAAt(32, 32); got != (color.RGBA{0x93, 0x33, 0xea, 0xff}) {
		t.Errorf("solid fill = %v", got)
	}
}

func TestPatternSpansScaledReference(t *testing.T) {
	img := fill(t, []string{"#000000", "#ffffff"})
	start := img.RGBAAt(0, 0)
	end := img.RGBAAt(63, 63)
	if start.R > 8 {
		t.Errorf("top-left = %v, want near black", start)
	}
	if end.R < 240 {
		t.Errorf("bottom-right = %v, want near white", end)
	}
}

func TestBuildErrors(t *testing.T) {
	if _, err := Build(nil, 0, 0, 1, 1); !errors.Is(err, ErrNoColors) {
		t.Errorf("Build(nil) err = %v, want ErrNoColors", err)
	}
	if _, err := Build([]string{"#12"}, 0, 0, 1, 1); !errors.Is(err, ErrBadColor) {
		t.Errorf("Build(bad) err = %v, want ErrBadColor", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#1f2937", color.NRGBA{0x1f, 0x29, 0x37, 0xff}},
		{"#1F293780", color.NRGBA{0x1f, 0x29, 0x37, 0x80}},
		{"#f008", color.NRGBA{0xff, 0, 0, 0x88}},
		{" white ", color.NRGBA{255, 255, 255, 255}},
		{"Navy", color.NRGBA{0, 0, 0x80, 0xff}},
		{"transparent", color.NRGBA{}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "#", "#12345", "#gggggg", "notacolor"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}
