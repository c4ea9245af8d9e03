package converter

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/phpdave11/gofpdf"

	"img2bw/binarizer"
	"img2bw/contracts"
	"img2bw/files_manager"
	"img2bw/pdf_writer"
	"img2bw/utils"
)

type convertResult struct {
	imageId    string
	imgBuffer  *bytes.Buffer
	drawWidth  float64
	drawHeight float64
	pageIndex  int
	err        error
}

type convertTask struct {
	filePath   string
	pageNumber int
	resultCh   chan convertResult
}

// ResolveWidth returns the requested print width. A zero width prints the
// image at its physical size: source pixels over source DPI times device DPI.
// Without a stored resolution the source width is kept.
func ResolveWidth(params contracts.InputFlags, filePath string, img image.Image) int {
	if params.Width > 0 {
		return params.Width
	}
	srcWidth := img.Bounds().Dx()
	srcDPI, err := utils.GetImageDPI(filePath)
	if err != nil || srcDPI <= 0 || params.DeviceDPI <= 0 {
		return srcWidth
	}
	return max(int(math.Round(float64(srcWidth)/srcDPI*float64(params.DeviceDPI))), 1)
}

func processFile(filePath string, params contracts.InputFlags) (*binarizer.Grid, error) {
	resampler, err := ParseResampler(params.Resample)
	if err != nil {
		return nil, err
	}
	img, err := DecodeFile(filePath)
	if err != nil {
		return nil, err
	}
	grid, err := NewPipeline(resampler).Process(img, ResolveWidth(params, filePath, img), params.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return grid, nil
}

// ConvertFile binarizes one image and writes it to outputDir in the requested
// format. The file appears under its final name only once fully written.
func ConvertFile(filePath string, outputDir string, params contracts.InputFlags) (string, error) {
	if !params.OutputFormat.Valid() {
		return "", fmt.Errorf("unsupported output format: %s", params.OutputFormat)
	}
	grid, err := processFile(filePath, params)
	if err != nil {
		return "", err
	}

	outPath := files_manager.OutputPath(params.InputPath, filePath, outputDir, params.OutputFormat.Extension())
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}
	tmpPath := outPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %v", err)
	}
	if err := Encode(out, grid, params.OutputFormat, float64(params.DeviceDPI)); err != nil {
		out.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("error encoding %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("error closing %s: %v", tmpPath, err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return "", fmt.Errorf("failed to rename file: %v", err)
	}
	return outPath, nil
}

func convertWorker(taskChan <-chan convertTask, params contracts.InputFlags, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range taskChan {
		grid, err := processFile(task.filePath, params)
		if err != nil {
			task.resultCh <- convertResult{pageIndex: task.pageNumber, err: err}
			continue
		}
		buf, err := EncodePNG(grid)
		if err != nil {
			task.resultCh <- convertResult{pageIndex: task.pageNumber, err: err}
			continue
		}

		dpi := float64(params.DeviceDPI)
		if dpi <= 0 {
			dpi = pdf_writer.DefaultDPI
		}
		task.resultCh <- convertResult{
			imageId:    fmt.Sprintf("img_%d", task.pageNumber),
			imgBuffer:  buf,
			drawWidth:  float64(grid.Width()) * 25.4 / dpi,
			drawHeight: float64(grid.Height()) * 25.4 / dpi,
			pageIndex:  task.pageNumber,
		}
	}
}

// calcBufferSize bounds how many encoded pages wait for the PDF assembler.
func calcBufferSize(totalSize int64) int {
	const maxBufferSize = 200 * 1024 * 1024 // 200 MB
	if totalSize <= 0 {
		return 1
	}
	estimatedPagesInMemory := int(maxBufferSize / totalSize)
	if estimatedPagesInMemory < 1 {
		estimatedPagesInMemory = 1
	}
	return estimatedPagesInMemory
}

// ConvertFolderToPDF binarizes every image of folder in parallel and
// assembles them, in order, into outputDir/<folder name>.pdf. Pages that fail
// are skipped; their errors are joined into the returned error.
func ConvertFolderToPDF(folder contracts.ImageFolder, outputDir string, params contracts.InputFlags, numWorkers int) (string, error) {
	if len(folder.ImagePaths) == 0 {
		return "", fmt.Errorf("no images found in %s", folder.Path)
	}
	numWorkers = max(numWorkers, 1)

	taskChan := make(chan convertTask)
	resultChan := make(chan convertResult, calcBufferSize(folder.ImagesSize))

	wg := &sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go convertWorker(taskChan, params, wg)
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	resultsBuffer := make(map[int]convertResult)
	nextIndex := 0
	var errs []error
	pages := 0

	done := make(chan struct{})

	go func() {
		for result := range resultChan {

			resultsBuffer[result.pageIndex] = result

			for {
				result, ok := resultsBuffer[nextIndex]
				if !ok {
					break
				}
				delete(resultsBuffer, nextIndex)
				nextIndex++

				if result.err != nil {
					errs = append(errs, result.err)
					continue
				}

				pdf.AddPageFormat("P", gofpdf.SizeType{Wd: result.drawWidth, Ht: result.drawHeight})

				opts := gofpdf.ImageOptions{
					ImageType: "PNG",
					ReadDpi:   false,
				}
				pdf.RegisterImageOptionsReader(result.imageId, opts, result.imgBuffer)
				pdf.ImageOptions(result.imageId, 0, 0, result.drawWidth, result.drawHeight, false, opts, 0, "")
				pages++
			}

		}
		close(done)
	}()

	for i, file := range folder.ImagePaths {
		taskChan <- convertTask{
			filePath:   file,
			pageNumber: i,
			resultCh:   resultChan,
		}
	}
	close(taskChan)

	wg.Wait()
	close(resultChan)
	<-done

	if pages == 0 {
		return "", fmt.Errorf("no page of %s could be converted: %w", folder.Path, errors.Join(errs...))
	}

	pdfFilePath := filepath.Join(outputDir, folder.Name+".pdf")
	tmpPath := pdfFilePath + ".tmp"
	if err := pdf.OutputFileAndClose(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("error saving PDF file: %v", err)
	}
	if err := os.Rename(tmpPath, pdfFilePath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename file: %v", err)
	}
	return pdfFilePath, errors.Join(errs...)
}
