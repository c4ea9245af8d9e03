package converter

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"img2bw/binarizer"
)

func uniformImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(w-1, 1))
			img.SetRGBA(x, y, color.RGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	return img
}

func TestProcessWhiteFloydSteinberg(t *testing.T) {
	src := uniformImage(8, 8, color.White)

	grid, err := Process(src, 8, "floyd-steinberg")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if grid.Width() != 8 || grid.Height() != 8 {
		t.Fatalf("got %dx%d, want 8x8", grid.Width(), grid.Height())
	}
	// white quantizes to 255 with no error; inversion turns it into 0
	for i, v := range grid.GrayPlane() {
		if v != 0 {
			t.Fatalf("pixel %d: got %d, want 0 after inversion", i, v)
		}
	}
}

func TestProcessInvertsEveryAlgorithm(t *testing.T) {
	// a black source prints everywhere: 255 after inversion
	for _, name := range binarizer.AlgorithmNames() {
		t.Run(name, func(t *testing.T) {
			grid, err := Process(uniformImage(8, 8, color.Black), 8, name)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			on := 0
			for _, v := range grid.GrayPlane() {
				if v != 0 && v != 255 {
					t.Fatalf("non-binary output %d", v)
				}
				if v == 255 {
					on++
				}
			}
			if on == 0 {
				t.Errorf("black source printed no dots")
			}
		})
	}
}

func TestProcessMatchesCoreWithInversion(t *testing.T) {
	src := gradientImage(32, 12)
	for _, alg := range []binarizer.Algorithm{binarizer.FloydSteinberg, binarizer.Atkinson, binarizer.Halftone, binarizer.MeanThreshold, binarizer.None} {
		want, err := binarizer.Binarize(binarizer.GridFromImage(src), alg)
		if err != nil {
			t.Fatal(err)
		}
		binarizer.Invert(want)

		got, err := Process(src, 32, alg.String())
		if err != nil {
			t.Fatalf("%v: %v", alg, err)
		}
		if !got.Equal(want) {
			t.Errorf("%v: pipeline output differs from binarize+invert", alg)
		}
	}
}

func TestProcessErrors(t *testing.T) {
	t.Run("unknown algorithm", func(t *testing.T) {
		src := gradientImage(10, 10)
		before := image.NewRGBA(src.Rect)
		copy(before.Pix, src.Pix)

		_, err := Process(src, 10, "bayer")
		if !errors.Is(err, binarizer.ErrUnknownAlgorithm) {
			t.Fatalf("got %v, want ErrUnknownAlgorithm", err)
		}
		for i := range src.Pix {
			if src.Pix[i] != before.Pix[i] {
				t.Fatalf("source modified at byte %d", i)
			}
		}
	})

	t.Run("none with mismatched width", func(t *testing.T) {
		grid, err := Process(gradientImage(100, 40), 50, "none")
		if !errors.Is(err, ErrWidthMismatch) {
			t.Fatalf("got %v, want ErrWidthMismatch", err)
		}
		if grid != nil {
			t.Errorf("grid returned on failure")
		}
	})

	t.Run("none with matching width", func(t *testing.T) {
		grid, err := Process(gradientImage(100, 40), 100, "NONE")
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		if grid.Width() != 100 || grid.Height() != 40 {
			t.Errorf("got %dx%d, want 100x40", grid.Width(), grid.Height())
		}
	})

	t.Run("invalid width", func(t *testing.T) {
		for _, w := range []int{0, -3} {
			if _, err := Process(gradientImage(10, 10), w, "atkinson"); !errors.Is(err, ErrInvalidWidth) {
				t.Errorf("width %d: got %v, want ErrInvalidWidth", w, err)
			}
		}
	})
}

func TestProcessOutputSizes(t *testing.T) {
	tests := []struct {
		algorithm    string
		srcW, srcH   int
		width        int
		wantW, wantH int
	}{
		{"floyd-steinberg", 100, 50, 40, 40, 20},
		{"atkinson", 300, 200, 384, 384, 256},
		{"mean-threshold", 3, 2, 4, 4, 3},
		{"halftone", 10, 10, 10, 12, 12},
		{"halftone", 200, 100, 384, 384, 192},
		{"none", 17, 5, 17, 17, 5},
	}
	for _, tt := range tests {
		grid, err := Process(gradientImage(tt.srcW, tt.srcH), tt.width, tt.algorithm)
		if err != nil {
			t.Fatalf("%s: %v", tt.algorithm, err)
		}
		if grid.Width() != tt.wantW || grid.Height() != tt.wantH {
			t.Errorf("%s %dx%d -> %d: got %dx%d, want %dx%d", tt.algorithm, tt.srcW, tt.srcH, tt.width,
				grid.Width(), grid.Height(), tt.wantW, tt.wantH)
		}
	}
}

func TestPipelineResamplers(t *testing.T) {
	for _, r := range []Resampler{CatmullRom, Lanczos, Nearest} {
		t.Run(string(r), func(t *testing.T) {
			grid, err := NewPipeline(r).Process(gradientImage(64, 30), 32, "atkinson")
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if grid.Width() != 32 || grid.Height() != 15 {
				t.Errorf("got %dx%d, want 32x15", grid.Width(), grid.Height())
			}
		})
	}
}
