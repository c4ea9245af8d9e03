package binarizer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Grid is a mutable row-major pixel buffer. Binarized samples keep the gray
// value in all three channels so the grid can be encoded as a normal image.
type Grid struct {
	img *image.RGBA
}

// NewGrid returns a w×h grid filled with white.
func NewGrid(w, h int) *Grid {
	g := &Grid{img: image.NewRGBA(image.Rect(0, 0, w, h))}
	draw.Draw(g.img, g.img.Bounds(), image.White, image.Point{}, draw.Src)
	return g
}

// GridFromImage copies img into a new grid, flattening any transparency onto
// a white background.
func GridFromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	draw.Draw(g.img, g.img.Bounds(), img, b.Min, draw.Over)
	return g
}

func (g *Grid) Width() int  { return g.img.Rect.Dx() }
func (g *Grid) Height() int { return g.img.Rect.Dy() }

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.Width() && y >= 0 && y < g.Height()
}

// At returns the sample at (x, y). Callers guard the coordinates.
func (g *Grid) At(x, y int) color.RGBA {
	i := g.img.PixOffset(x, y)
	p := g.img.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes c at (x, y); out-of-range coordinates are ignored.
func (g *Grid) Set(x, y int, c color.RGBA) {
	if !g.inBounds(x, y) {
		return
	}
	i := g.img.PixOffset(x, y)
	p := g.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, 255
}

// SetGray stores v in every channel of (x, y).
func (g *Grid) SetGray(x, y int, v uint8) {
	g.Set(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
}

// Gray is Luminance of the sample at (x, y).
func (g *Grid) Gray(x, y int) int {
	return Luminance(g.At(x, y))
}

func (g *Grid) Clone() *Grid {
	c := &Grid{img: image.NewRGBA(g.img.Rect)}
	copy(c.img.Pix, g.img.Pix)
	return c
}

// Image exposes the backing buffer. It shares memory with the grid.
func (g *Grid) Image() *image.RGBA {
	return g.img
}

// Equal reports whether both grids have the same size and samples.
func (g *Grid) Equal(o *Grid) bool {
	if g.Width() != o.Width() || g.Height() != o.Height() {
		return false
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.At(x, y) != o.At(x, y) {
				return false
			}
		}
	}
	return true
}

// GrayPlane returns the luminance of every pixel, row-major.
func (g *Grid) GrayPlane() []byte {
	w, h := g.Width(), g.Height()
	out := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y*w+x] = uint8(g.Gray(x, y))
		}
	}
	return out
}
