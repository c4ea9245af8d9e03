package binarizer

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// grayGrid builds a w×h grid from row-major gray values.
func grayGrid(t *testing.T, w, h int, vals ...uint8) *Grid {
	t.Helper()
	if len(vals) != w*h {
		t.Fatalf("grayGrid: got %d values for %dx%d", len(vals), w, h)
	}
	g := NewGrid(w, h)
	for i, v := range vals {
		g.SetGray(i%w, i/w, v)
	}
	return g
}

func uniformGrid(w, h int, v uint8) *Grid {
	g := NewGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.SetGray(x, y, v)
		}
	}
	return g
}

func colorRGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func TestNewGridIsWhite(t *testing.T) {
	g := NewGrid(3, 2)
	if g.Width() != 3 || g.Height() != 2 {
		t.Fatalf("size: got %dx%d, want 3x2", g.Width(), g.Height())
	}
	want := []byte{255, 255, 255, 255, 255, 255}
	if diff := cmp.Diff(want, g.GrayPlane()); diff != "" {
		t.Errorf("gray plane mismatch (-want +got):\n%s", diff)
	}
}

func TestSetOutOfRangeIsNoop(t *testing.T) {
	g := uniformGrid(2, 2, 10)
	before := g.Clone()

	for _, p := range []image.Point{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {5, 5}} {
		g.SetGray(p.X, p.Y, 200)
	}

	if !g.Equal(before) {
		t.Errorf("out-of-range Set modified the grid")
	}
}

func TestGridFromImage(t *testing.T) {
	t.Run("flattens transparency onto white", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		src.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})
		src.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

		g := GridFromImage(src)
		if got := g.At(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("transparent pixel: got %v, want white", got)
		}
		if got := g.At(1, 0); got != (color.RGBA{0, 0, 0, 255}) {
			t.Errorf("opaque pixel: got %v, want black", got)
		}
	})

	t.Run("keeps color and rebases bounds", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(10, 20, 12, 21))
		src.SetRGBA(10, 20, color.RGBA{R: 30, G: 60, B: 90, A: 255})

		g := GridFromImage(src)
		if g.Width() != 2 || g.Height() != 1 {
			t.Fatalf("size: got %dx%d, want 2x1", g.Width(), g.Height())
		}
		if got := g.At(0, 0); got != (color.RGBA{30, 60, 90, 255}) {
			t.Errorf("got %v, want {30 60 90 255}", got)
		}
	})
}

func TestCloneIsIndependent(t *testing.T) {
	g := uniformGrid(2, 2, 50)
	c := g.Clone()
	c.SetGray(0, 0, 0)
	if g.Gray(0, 0) != 50 {
		t.Errorf("clone shares pixels with the original")
	}
	if g.Equal(c) {
		t.Errorf("Equal reported modified clone as equal")
	}
}
