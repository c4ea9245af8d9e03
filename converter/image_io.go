package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"img2bw/binarizer"
	"img2bw/contracts"
	"img2bw/pdf_writer"
	"img2bw/raster"
)

// DecodeFile opens an image and applies its EXIF orientation.
func DecodeFile(filePath string) (image.Image, error) {
	img, err := imaging.Open(filePath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("error decoding image %s: %w", filePath, err)
	}
	return img, nil
}

func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}
	return img, nil
}

func grayImage(g *binarizer.Grid) *image.Gray {
	gray := image.NewGray(image.Rect(0, 0, g.Width(), g.Height()))
	copy(gray.Pix, g.GrayPlane())
	return gray
}

// NewConvertResult packs g for the PDF writers.
func NewConvertResult(g *binarizer.Grid, id string, pageIndex int, dpi float64) *contracts.ConvertResult {
	return &contracts.ConvertResult{
		ImgBuffer:   raster.Pack(g),
		ImageId:     id,
		PixelWidth:  g.Width(),
		PixelHeight: g.Height(),
		PageIndex:   pageIndex,
		DPI:         dpi,
	}
}

// Encode writes g to w in the given format. dpi sizes PDF pages.
func Encode(w io.Writer, g *binarizer.Grid, format contracts.OutputFormat, dpi float64) error {
	switch format {
	case contracts.PNG:
		return png.Encode(w, grayImage(g))
	case contracts.TIFF:
		return tiff.Encode(w, grayImage(g), &tiff.Options{Compression: tiff.Deflate})
	case contracts.BMP:
		return bmp.Encode(w, grayImage(g))
	case contracts.ESCPOS:
		return raster.WriteESCPOS(w, raster.Pack(g), g.Width(), g.Height())
	case contracts.PDF:
		pw, err := pdf_writer.NewPDFWriter(w)
		if err != nil {
			return err
		}
		if err := pw.WriteImage(NewConvertResult(g, "img_0", 0, dpi)); err != nil {
			return err
		}
		return pw.Finish()
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// EncodePNG encodes g as a grayscale PNG in memory.
func EncodePNG(g *binarizer.Grid) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, grayImage(g)); err != nil {
		return nil, err
	}
	return &buf, nil
}
