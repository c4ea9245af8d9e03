package binarizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHalftoneSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{10, 10, 12, 12},
		{1, 1, 4, 4},
		{4, 4, 4, 4},
		{5, 4, 8, 4},
		{384, 217, 384, 220},
	}
	for _, tt := range tests {
		gotW, gotH := HalftoneSize(tt.w, tt.h)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("HalftoneSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
		}
		out := RenderHalftone(NewGrid(tt.w, tt.h))
		if out.Width() != tt.wantW || out.Height() != tt.wantH {
			t.Errorf("RenderHalftone(%dx%d) size = %dx%d, want %dx%d",
				tt.w, tt.h, out.Width(), out.Height(), tt.wantW, tt.wantH)
		}
	}
}

func TestHalftoneDots(t *testing.T) {
	const W, B = 255, 0
	tests := []struct {
		name string
		in   *Grid
		want []byte
	}{
		{
			// radius 6, disc centered at (6,6), only its upper-left arc fits
			name: "black block",
			in:   uniformGrid(4, 4, 0),
			want: []byte{
				W, W, W, W,
				W, W, B, B,
				W, B, B, B,
				W, B, B, B,
			},
		},
		{
			// intensity 127/255 gives radius int(2.988) = 2
			name: "mid gray block",
			in:   uniformGrid(4, 4, 128),
			want: []byte{
				W, B, B, W,
				B, B, B, B,
				B, B, B, B,
				W, B, B, W,
			},
		},
		{
			name: "white block draws nothing",
			in:   uniformGrid(4, 4, 255),
			want: []byte{
				W, W, W, W,
				W, W, W, W,
				W, W, W, W,
				W, W, W, W,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderHalftone(tt.in)
			if diff := cmp.Diff(tt.want, out.GrayPlane()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHalftoneEdgeBlockUsesSampledCount(t *testing.T) {
	// the 1×4 block at x=4 averages only its own four pixels
	t.Run("white edge", func(t *testing.T) {
		out := RenderHalftone(uniformGrid(5, 4, 255))
		for i, v := range out.GrayPlane() {
			if v != 255 {
				t.Fatalf("pixel %d: got %d, want 255", i, v)
			}
		}
	})

	t.Run("black edge", func(t *testing.T) {
		in := uniformGrid(5, 4, 255)
		for y := 0; y < 4; y++ {
			in.SetGray(4, y, 0)
		}
		const W, B = 255, 0
		want := []byte{
			W, W, W, W, W, W, W, W,
			W, W, W, W, W, W, B, B,
			W, W, W, W, W, B, B, B,
			W, W, W, W, W, B, B, B,
		}
		if diff := cmp.Diff(want, RenderHalftone(in).GrayPlane()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHalftoneLeavesInputUntouched(t *testing.T) {
	in := uniformGrid(6, 6, 90)
	before := in.Clone()
	RenderHalftone(in)
	if !in.Equal(before) {
		t.Errorf("input grid was modified")
	}
}
