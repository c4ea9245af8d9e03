package converter

import (
	"errors"
	"fmt"
	"image"

	"img2bw/binarizer"
)

var (
	ErrWidthMismatch = errors.New("wrong image width")
	ErrInvalidWidth  = errors.New("invalid target width")
)

// Pipeline resizes, binarizes and inverts one image at a time.
type Pipeline struct {
	Resampler Resampler
}

func NewPipeline(resampler Resampler) *Pipeline {
	return &Pipeline{Resampler: resampler}
}

// Process runs the pipeline with the default resampler.
func Process(src image.Image, targetWidth int, algorithmName string) (*binarizer.Grid, error) {
	return NewPipeline(CatmullRom).Process(src, targetWidth, algorithmName)
}

// Process resizes src to targetWidth, binarizes it with the named algorithm
// and inverts the result to ink polarity. Nothing is returned on failure.
//
// "none" never resizes: src must already be targetWidth pixels wide.
func (p *Pipeline) Process(src image.Image, targetWidth int, algorithmName string) (*binarizer.Grid, error) {
	alg, err := binarizer.ParseAlgorithm(algorithmName)
	if err != nil {
		return nil, err
	}
	if targetWidth <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, targetWidth)
	}

	srcWidth := src.Bounds().Dx()
	var grid *binarizer.Grid
	if alg == binarizer.None {
		if srcWidth != targetWidth {
			return nil, fmt.Errorf("%w of %d px: an image with a width of %d px is required for '%s' binarization",
				ErrWidthMismatch, srcWidth, targetWidth, alg)
		}
		grid = binarizer.GridFromImage(src)
	} else {
		resized, err := p.Resampler.Resize(src, targetWidth)
		if err != nil {
			return nil, err
		}
		grid = binarizer.GridFromImage(resized)
	}

	out, err := binarizer.Binarize(grid, alg)
	if err != nil {
		return nil, err
	}
	binarizer.Invert(out)
	return out, nil
}
