package binarizer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Halftone geometry. Each jump×jump input block becomes one dot whose radius
// is at most alpha*side/2 output pixels.
const (
	HalftoneSide  = 4
	HalftoneJump  = 4
	HalftoneAlpha = 3
)

// HalftoneSize returns the output dimensions for a w×h input.
func HalftoneSize(w, h int) (int, int) {
	return HalftoneSide * ceilDiv(w, HalftoneJump), HalftoneSide * ceilDiv(h, HalftoneJump)
}

// RenderHalftone renders g as black dots on a new white grid. Dots are
// anchored at the block origin in input coordinates, not at the output cell.
func RenderHalftone(g *Grid) *Grid {
	outW, outH := HalftoneSize(g.Width(), g.Height())
	out := NewGrid(outW, outH)

	for y := 0; y < g.Height(); y += HalftoneJump {
		for x := 0; x < g.Width(); x += HalftoneJump {
			intensity := 1 - blockMean(g, x, y, HalftoneJump)/255.0
			radius := int(float64(HalftoneAlpha) * intensity * float64(HalftoneSide) / 2)
			if radius > 0 {
				fillCircle(out, x, y, radius)
			}
		}
	}
	return out
}

// blockMean averages the gray values of the size×size block at (x, y),
// clipped to the grid.
func blockMean(g *Grid, x, y, size int) float64 {
	sum, count := 0, 0
	for i := y; i < y+size && i < g.Height(); i++ {
		for j := x; j < x+size && j < g.Width(); j++ {
			sum += g.Gray(j, i)
			count++
		}
	}
	return float64(sum) / float64(count)
}

func fillCircle(g *Grid, x, y, radius int) {
	m := &circle{origin: image.Pt(x, y), r: radius}
	draw.DrawMask(g.img, m.Bounds(), image.Black, image.Point{}, m, m.Bounds().Min, draw.Over)
}

// circle is an opaque mask of the disc inscribed in the 2r×2r square at
// origin. A pixel belongs to the disc when its center does.
type circle struct {
	origin image.Point
	r      int
}

func (c *circle) ColorModel() color.Model { return color.AlphaModel }

func (c *circle) Bounds() image.Rectangle {
	return image.Rect(c.origin.X, c.origin.Y, c.origin.X+2*c.r, c.origin.Y+2*c.r)
}

func (c *circle) At(x, y int) color.Color {
	// doubled coordinates keep the pixel-center test in integers
	dx := 2*(x-c.origin.X) + 1 - 2*c.r
	dy := 2*(y-c.origin.Y) + 1 - 2*c.r
	if dx*dx+dy*dy <= 4*c.r*c.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
