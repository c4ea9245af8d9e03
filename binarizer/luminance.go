package binarizer

import "image/color"

// Luminance is the unweighted channel mean, truncated. It is not perceptual
// luma; the integer result must stay bit-exact.
func Luminance(c color.RGBA) int {
	return (int(c.R) + int(c.G) + int(c.B)) / 3
}

// Brightness is the HSL lightness of c in [0, 1].
func Brightness(c color.RGBA) float32 {
	hi, lo := c.R, c.R
	for _, v := range [2]uint8{c.G, c.B} {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return (float32(hi) + float32(lo)) / (255 * 2)
}

func clampGray(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
