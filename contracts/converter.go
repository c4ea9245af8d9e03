package contracts

type OutputFormat string

const (
	PNG    OutputFormat = "png"
	TIFF   OutputFormat = "tiff"
	BMP    OutputFormat = "bmp"
	PDF    OutputFormat = "pdf"
	ESCPOS OutputFormat = "escpos"
)

// Extension is the file extension written for f.
func (f OutputFormat) Extension() string {
	switch f {
	case TIFF:
		return ".tif"
	case ESCPOS:
		return ".bin"
	default:
		return "." + string(f)
	}
}

func (f OutputFormat) Valid() bool {
	switch f {
	case PNG, TIFF, BMP, PDF, ESCPOS:
		return true
	}
	return false
}

type ConvertResult struct {
	ImgBuffer   []byte // packed 1-bit rows, MSB first
	ImageId     string
	PixelWidth  int
	PixelHeight int
	PageIndex   int
	DPI         float64
}
