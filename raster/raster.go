package raster

import (
	"bytes"
	"fmt"
	"io"
)

// Bilevel is a binarized pixel source. A gray value above 127 is "on": a
// printed dot on the device, a 1 bit in the packed rows.
type Bilevel interface {
	Width() int
	Height() int
	Gray(x, y int) int
}

type BitWriter struct {
	buf   bytes.Buffer
	bits  uint8
	count int
}

func (bw *BitWriter) WriteBit(bit uint8) {
	bw.bits = (bw.bits << 1) | (bit & 1)
	bw.count++
	if bw.count == 8 {
		bw.buf.WriteByte(bw.bits)
		bw.bits = 0
		bw.count = 0
	}
}

// Flush pads the pending byte with zero bits.
func (bw *BitWriter) Flush() {
	if bw.count > 0 {
		bw.bits <<= (8 - bw.count)
		bw.buf.WriteByte(bw.bits)
		bw.bits = 0
		bw.count = 0
	}
}

func (bw *BitWriter) Bytes() []byte {
	return bw.buf.Bytes()
}

func RowBytes(width int) int {
	return (width + 7) / 8
}

// Pack returns img as 1-bit rows, MSB first, each row padded to a byte.
func Pack(img Bilevel) []byte {
	width, height := img.Width(), img.Height()
	bw := &BitWriter{}
	bw.buf.Grow(RowBytes(width) * height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var bit uint8
			if img.Gray(x, y) > 127 {
				bit = 1
			}
			bw.WriteBit(bit)
		}
		// rows start on a byte boundary
		bw.Flush()
	}
	return bw.Bytes()
}

// ESC/POS commands.
var (
	cmdInit   = []byte{0x1b, 0x40}       // ESC @
	cmdRaster = []byte{0x1d, 0x76, 0x30} // GS v 0
)

// BandHeight is the number of rows sent per GS v 0 command.
const BandHeight = 256

// WriteESCPOS writes packed rows as printer init followed by GS v 0 raster
// bands of at most BandHeight rows.
func WriteESCPOS(w io.Writer, packed []byte, width, height int) error {
	rowBytes := RowBytes(width)
	if len(packed) != rowBytes*height {
		return fmt.Errorf("invalid packed bits length: got %d, want %d", len(packed), rowBytes*height)
	}
	if rowBytes > 0xffff {
		return fmt.Errorf("row of %d bytes exceeds raster limit", rowBytes)
	}

	if _, err := w.Write(cmdInit); err != nil {
		return fmt.Errorf("write init: %w", err)
	}

	for y := 0; y < height; y += BandHeight {
		rows := min(BandHeight, height-y)
		header := append(append([]byte{}, cmdRaster...),
			0, // normal density
			byte(rowBytes), byte(rowBytes>>8),
			byte(rows), byte(rows>>8),
		)
		if _, err := w.Write(header); err != nil {
			return fmt.Errorf("write band header at row %d: %w", y, err)
		}
		if _, err := w.Write(packed[y*rowBytes : (y+rows)*rowBytes]); err != nil {
			return fmt.Errorf("write band at row %d: %w", y, err)
		}
	}
	return nil
}
