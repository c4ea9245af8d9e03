package converter

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

type Resampler string

const (
	CatmullRom Resampler = "catmull-rom"
	Lanczos    Resampler = "lanczos"
	Nearest    Resampler = "nearest"
)

func ParseResampler(name string) (Resampler, error) {
	switch r := Resampler(strings.ToLower(name)); r {
	case CatmullRom, Lanczos, Nearest:
		return r, nil
	case "":
		return CatmullRom, nil
	}
	return "", fmt.Errorf("unknown resampler: %s", name)
}

// TargetHeight keeps the aspect ratio of a w×h image scaled to width,
// rounding to the nearest pixel. It never returns less than 1.
func TargetHeight(w, h, width int) int {
	height := int(math.Round(float64(h) * float64(width) / float64(w)))
	return max(height, 1)
}

// Resize scales src to width pixels, keeping its aspect ratio.
func (r Resampler) Resize(src image.Image, width int) (image.Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty source image")
	}
	height := TargetHeight(b.Dx(), b.Dy(), width)
	if b.Dx() == width && b.Dy() == height {
		return src, nil
	}

	switch r {
	case Lanczos:
		return imaging.Resize(src, width, height, imaging.Lanczos), nil
	case Nearest:
		return imaging.Resize(src, width, height, imaging.NearestNeighbor), nil
	case CatmullRom, "":
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		return dst, nil
	}
	return nil, fmt.Errorf("unknown resampler: %s", r)
}
