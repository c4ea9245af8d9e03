package utils

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

var ErrNoDPI = errors.New("image carries no resolution")

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// GetImageDPI returns the horizontal resolution stored in the file, from the
// PNG pHYs chunk or from EXIF for everything else.
func GetImageDPI(filePath string) (float64, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return 0, err
	}
	if bytes.HasPrefix(data, pngSignature) {
		return GetDPIfromPNG(data)
	}
	return GetEXIFDPI(data)
}

func GetEXIFDPI(data []byte) (float64, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return 0, fmt.Errorf("%w: EXIF not found: %v", ErrNoDPI, err)
	}

	im := exifcommon.NewIfdMapping()
	ti := exif.NewTagIndex()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return 0, err
	}

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return 0, err
	}

	tag, err := index.RootIfd.FindTagWithName("XResolution")
	if err != nil || len(tag) == 0 {
		return 0, ErrNoDPI
	}
	val, err := tag[0].Value()
	if err != nil {
		return 0, fmt.Errorf("read XResolution: %w", err)
	}
	rats, ok := val.([]exifcommon.Rational)
	if !ok || len(rats) == 0 || rats[0].Denominator == 0 {
		return 0, ErrNoDPI
	}
	dpi := float64(rats[0].Numerator) / float64(rats[0].Denominator)

	if tag, err := index.RootIfd.FindTagWithName("ResolutionUnit"); err == nil && len(tag) > 0 {
		if val, err := tag[0].Value(); err == nil {
			// 3 = centimeters
			if u, ok := val.([]uint16); ok && len(u) > 0 && u[0] == 3 {
				dpi *= 2.54
			}
		}
	}
	return dpi, nil
}

func GetDPIfromPNG(data []byte) (float64, error) {
	const physChunk = "pHYs"
	buf := bytes.NewReader(data)

	if _, err := buf.Seek(int64(len(pngSignature)), io.SeekStart); err != nil {
		return 0, err
	}

	for {
		var length uint32
		if err := binary.Read(buf, binary.BigEndian, &length); err != nil {
			break
		}

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(buf, chunkType); err != nil {
			break
		}

		if string(chunkType) == physChunk {
			var pxPerUnitX, pxPerUnitY uint32
			var unit byte

			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitX); err != nil {
				return 0, err
			}
			if err := binary.Read(buf, binary.BigEndian, &pxPerUnitY); err != nil {
				return 0, err
			}
			if err := binary.Read(buf, binary.BigEndian, &unit); err != nil {
				return 0, err
			}

			if unit == 1 { // meter
				return float64(pxPerUnitX) * 0.0254, nil
			}
			break // unit = 0 (aspect ratio only)
		}
		if string(chunkType) == "IDAT" {
			// pHYs must precede image data
			break
		}

		// skip chunk data + CRC
		if _, err := buf.Seek(int64(length)+4, io.SeekCurrent); err != nil {
			break
		}
	}
	return 0, ErrNoDPI
}
