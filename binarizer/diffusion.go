package binarizer

// Midpoint splits gray values into black (<= Midpoint) and white.
const Midpoint = 127

// KernelEntry moves Num/Den of a pixel's quantization error to (x+DX, y+DY).
type KernelEntry struct {
	DX, DY   int
	Num, Den int
}

type Kernel []KernelEntry

var (
	FloydSteinbergKernel = Kernel{
		{DX: 1, DY: 0, Num: 7, Den: 16},
		{DX: -1, DY: 1, Num: 3, Den: 16},
		{DX: 0, DY: 1, Num: 5, Den: 16},
		{DX: 1, DY: 1, Num: 1, Den: 16},
	}

	// AtkinsonKernel spreads only 6/8 of the error.
	AtkinsonKernel = Kernel{
		{DX: 1, DY: 0, Num: 1, Den: 8},
		{DX: 2, DY: 0, Num: 1, Den: 8},
		{DX: -1, DY: 1, Num: 1, Den: 8},
		{DX: 0, DY: 1, Num: 1, Den: 8},
		{DX: 1, DY: 1, Num: 1, Den: 8},
		{DX: 0, DY: 2, Num: 1, Den: 8},
	}
)

// Diffuse dithers g in place with error diffusion over k, visiting pixels in
// raster order. Every tap of a source pixel is applied before moving on.
func Diffuse(g *Grid, k Kernel) {
	w, h := g.Width(), g.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			oldGray := g.Gray(x, y)
			newGray := 0
			if oldGray > Midpoint {
				newGray = 255
			}
			quantErr := oldGray - newGray
			g.SetGray(x, y, uint8(newGray))

			for _, e := range k {
				adjust(g, x+e.DX, y+e.DY, quantErr*e.Num/e.Den)
			}
		}
	}
}

// adjust adds delta to the gray value at (x, y), clamped to [0, 255].
func adjust(g *Grid, x, y, delta int) {
	if !g.inBounds(x, y) {
		return
	}
	g.SetGray(x, y, clampGray(g.Gray(x, y)+delta))
}
