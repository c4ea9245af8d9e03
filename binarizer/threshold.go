package binarizer

// NoneThreshold is the flat cutoff applied when no dithering is requested.
const NoneThreshold = 127

// Threshold maps every pixel to 255 when its gray value exceeds t, else 0.
func Threshold(g *Grid, t int) {
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			v := uint8(0)
			if g.Gray(x, y) > t {
				v = 255
			}
			g.SetGray(x, y, v)
		}
	}
}

// MeanCutoff is the cutoff ApplyMeanThreshold uses: the truncated brightness of
// the top-left pixel. That is 1 for a pure white corner and 0 for anything
// else, so it is not an image mean.
func MeanCutoff(g *Grid) int {
	return int(Brightness(g.At(0, 0)))
}

// ApplyMeanThreshold thresholds g at MeanCutoff. An empty grid is left as is.
func ApplyMeanThreshold(g *Grid) {
	if g.Width() == 0 || g.Height() == 0 {
		return
	}
	Threshold(g, MeanCutoff(g))
}
