package pdf_writer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"img2bw/contracts"

	"github.com/klauspost/compress/zlib"
)

type ConvertResult = contracts.ConvertResult

// DefaultDPI sizes pages whose result carries no resolution.
const DefaultDPI = 203

type PDFWriter struct {
	objects    []int64
	imageInfos []ImageInfo
	bw         *bufio.Writer
	cw         *countingWriter
	objNum     int

	pagesObjID   int64
	pageIDs      []int64
	catalogObjID int64

	// err is the first write error; later writes are skipped.
	err error
}

type ImageInfo struct {
	id     int64
	width  float64 // points
	height float64 // points
}

type countingWriter struct {
	w      io.Writer
	offset int64
}

func NewPDFWriter(dst io.Writer) (*PDFWriter, error) {
	cw := &countingWriter{
		w: dst,
	}
	pw := &PDFWriter{
		cw: cw,
		bw: bufio.NewWriterSize(cw, 1024*1024),
	}

	pw.writeString("%PDF-1.7\n%\xFF\xFF\xFF\xFF\n")
	if pw.err != nil {
		return nil, fmt.Errorf("error writing PDF header: %v", pw.err)
	}
	return pw, nil
}

func (pw *PDFWriter) writeString(s string) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.bw.WriteString(s)
}

func (pw *PDFWriter) write(p []byte) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.bw.Write(p)
}

func (cw *countingWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	if err == nil {
		cw.offset += int64(n)
	}
	return n, err
}

func (pw *PDFWriter) getOffset() int64 {
	return pw.cw.offset + int64(pw.bw.Buffered())
}

func (pw *PDFWriter) newObject() int64 {
	pw.objNum++
	pw.objects = append(pw.objects, pw.getOffset())
	pw.writeString(fmt.Sprintf("%d 0 obj\n", pw.objNum))
	return int64(pw.objNum)
}

// reserveObject allocates an object number whose body is written later by
// beginObject.
func (pw *PDFWriter) reserveObject() int64 {
	pw.objNum++
	pw.objects = append(pw.objects, 0)
	return int64(pw.objNum)
}

func (pw *PDFWriter) beginObject(id int64) {
	pw.objects[id-1] = pw.getOffset()
	pw.writeString(fmt.Sprintf("%d 0 obj\n", id))
}

// pageSize converts pixels at dpi into PDF points.
func pageSize(pixels int, dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return float64(pixels) * 72 / dpi
}

// WriteImage adds a page holding the packed bilevel image. Set bits render
// white, matching the grayscale encoders.
func (pw *PDFWriter) WriteImage(image *ConvertResult) error {
	if pw.err != nil {
		return fmt.Errorf("writer failed earlier: %w", pw.err)
	}
	if image.PixelWidth <= 0 || image.PixelHeight <= 0 {
		return fmt.Errorf("invalid image size %dx%d", image.PixelWidth, image.PixelHeight)
	}
	rowBytes := (image.PixelWidth + 7) / 8
	if len(image.ImgBuffer) != rowBytes*image.PixelHeight {
		return fmt.Errorf("invalid packed bits length: got %d, want %d",
			len(image.ImgBuffer), rowBytes*image.PixelHeight)
	}
	if err := pw.writeBilevelImage(image); err != nil {
		return fmt.Errorf("error writing bilevel image %s: %w", image.ImageId, err)
	}
	return nil
}

func (pw *PDFWriter) writeBilevelImage(image *ConvertResult) error {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(image.ImgBuffer); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	imgID := pw.newObject()
	pw.imageInfos = append(pw.imageInfos, ImageInfo{
		id:     imgID,
		width:  pageSize(image.PixelWidth, image.DPI),
		height: pageSize(image.PixelHeight, image.DPI),
	})

	pw.writeString("<<\n") // <-- open main dictionary of image
	pw.writeString("/Type /XObject\n")
	pw.writeString("/Subtype /Image\n")
	pw.writeString(fmt.Sprintf("/Width %d\n/Height %d\n", image.PixelWidth, image.PixelHeight))
	pw.writeString("/ColorSpace /DeviceGray\n")
	pw.writeString("/BitsPerComponent 1\n")
	pw.writeString("/Filter /FlateDecode\n")
	pw.writeString(fmt.Sprintf("/Length %d\n", compressed.Len()))
	pw.writeString(">>\n")
	pw.writeString("stream\n")
	pw.write(compressed.Bytes())
	pw.writeString("\nendstream\n")
	pw.writeString("endobj\n")
	return pw.err
}

func (pw *PDFWriter) writeContent(imgName string, width, height float64) int64 {
	content := fmt.Sprintf(
		"q\n%.2f 0 0 %.2f 0 0 cm\n/%s Do\nQ\n",
		width, height, imgName,
	)
	objID := pw.newObject()
	pw.writeString("<<\n")
	pw.writeString(fmt.Sprintf("/Length %d\n", len(content)))
	pw.writeString(">>\n")
	pw.writeString("stream\n")
	pw.writeString(content)
	pw.writeString("\nendstream\nendobj\n")
	return objID
}

func (pw *PDFWriter) writePage(imgName string,
	imgObjID int64,
	contentID int64,
	width, height float64) int64 {
	objID := pw.newObject()
	pw.writeString("<<\n")
	pw.writeString("/Type /Page\n")
	pw.writeString(fmt.Sprintf("/Parent %d 0 R\n", pw.pagesObjID))
	pw.writeString(fmt.Sprintf("/MediaBox [0 0 %.2f %.2f]\n", width, height))
	pw.writeString(fmt.Sprintf("/Resources << /XObject << /%s %d 0 R >> >>\n", imgName, imgObjID))
	pw.writeString(fmt.Sprintf("/Contents %d 0 R\n", contentID))
	pw.writeString(">>\nendobj\n")
	return objID
}

func (pw *PDFWriter) createDocumentStructure() error {
	if len(pw.imageInfos) == 0 {
		return fmt.Errorf("document has no pages")
	}

	pw.pagesObjID = pw.reserveObject()

	// Content and Page for each image
	for i, info := range pw.imageInfos {
		imgName := fmt.Sprintf("img_%d", i)
		contentID := pw.writeContent(imgName, info.width, info.height)
		pageID := pw.writePage(imgName, info.id, contentID, info.width, info.height)
		pw.pageIDs = append(pw.pageIDs, pageID)
	}

	pw.beginObject(pw.pagesObjID)
	pw.writeString("<<\n")
	pw.writeString("/Type /Pages\n")
	pw.writeString(fmt.Sprintf("/Count %d\n", len(pw.pageIDs)))
	pw.writeString("/Kids [")
	for _, id := range pw.pageIDs {
		pw.writeString(fmt.Sprintf(" %d 0 R", id))
	}
	pw.writeString(" ]\n>>\nendobj\n")

	pw.catalogObjID = pw.newObject()
	pw.writeString("<<\n")
	pw.writeString(fmt.Sprintf("/Type /Catalog\n/Pages %d 0 R\n", pw.pagesObjID))
	pw.writeString(">>\nendobj\n")
	if pw.err != nil {
		return fmt.Errorf("error writing document structure: %w", pw.err)
	}

	if err := pw.bw.Flush(); err != nil {
		return fmt.Errorf("error flushing buffer after creating structure: %v", err)
	}
	return nil
}

// Finish writes the page tree, cross-reference table and trailer.
func (pw *PDFWriter) Finish() error {
	if err := pw.createDocumentStructure(); err != nil {
		return fmt.Errorf("failed to create document structure before finishing: %w", err)
	}

	startXref := pw.cw.offset
	total := len(pw.objects) + 1

	if _, err := fmt.Fprintf(pw.cw, "xref\n0 %d\n", total); err != nil {
		return fmt.Errorf("error writing xref header: %v", err)
	}
	if _, err := fmt.Fprintf(pw.cw, "%010d %05d f \n", 0, 65535); err != nil {
		return fmt.Errorf("error writing free object xref entry: %v", err)
	}
	for _, off := range pw.objects {
		if _, err := fmt.Fprintf(pw.cw, "%010d %05d n \n", off, 0); err != nil {
			return fmt.Errorf("error writing object xref entry: %v", err)
		}
	}

	if _, err := fmt.Fprintf(pw.cw,
		"trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		total, pw.catalogObjID, startXref,
	); err != nil {
		return fmt.Errorf("error writing trailer and startxref: %v", err)
	}
	return nil
}
