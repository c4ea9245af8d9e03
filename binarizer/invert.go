package binarizer

import "image/color"

// Invert flips every channel of g in place.
func Invert(g *Grid) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.At(x, y)
			g.Set(x, y, color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: 255})
		}
	}
}
