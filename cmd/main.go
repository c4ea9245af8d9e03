package main

import (
	"flag"
	"fmt"
	"img2bw/binarizer"
	"img2bw/contracts"
	"img2bw/converter"
	"img2bw/files_manager"
	"img2bw/pdf_writer"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type InputFlags = contracts.InputFlags

func main() {
	inputPath := flag.String("input", "", "Input image or directory of images")
	outputDir := flag.String("output", "", "Output directory for converted files")
	width := flag.Int("width", 384, "Print width in dots (0 keeps the physical size)")
	algorithm := flag.String("algo", "floyd-steinberg",
		"Binarization algorithm: "+strings.Join(binarizer.AlgorithmNames(), ", "))
	format := flag.String("format", "png", "Output format: png, tiff, bmp, pdf, escpos")
	resample := flag.String("resample", "catmull-rom", "Resize filter: catmull-rom, lanczos, nearest")
	merge := flag.Bool("merge", false, "Merge each folder of images into one PDF")
	deviceDPI := flag.Int("dpi", pdf_writer.DefaultDPI, "Printer resolution in dots per inch")
	flag.Parse()

	args := InputFlags{
		InputPath:    *inputPath,
		OutputDir:    *outputDir,
		Algorithm:    *algorithm,
		OutputFormat: contracts.OutputFormat(strings.ToLower(*format)),
		Resample:     *resample,
		Width:        *width,
		DeviceDPI:    *deviceDPI,
		Merge:        *merge,
	}

	fmt.Println("input:", args.InputPath)
	fmt.Println("output:", args.OutputDir)

	if err := validateFlags(args); err != nil {
		fmt.Printf("[ERROR]: %v\n", err)
		os.Exit(1)
	}
	if err := files_manager.CheckProvidedPaths(args.InputPath, args.OutputDir); err != nil {
		fmt.Printf("[ERROR]: %v\n", err)
		os.Exit(1)
	}

	startTime := time.Now()
	maxConversions := max(runtime.NumCPU()-1, 1)

	var failed int
	if args.Merge {
		failed = mergeFolders(args, maxConversions)
	} else {
		failed = convertFiles(args, maxConversions)
	}

	fmt.Printf("Total time taken: %s\n", time.Since(startTime))
	if failed > 0 {
		fmt.Printf("%d conversion(s) failed.\n", failed)
		os.Exit(1)
	}
	fmt.Println("Conversion completed successfully.")
}

func validateFlags(args InputFlags) error {
	if !args.OutputFormat.Valid() {
		return fmt.Errorf("unsupported output format: %s", args.OutputFormat)
	}
	if _, err := binarizer.ParseAlgorithm(args.Algorithm); err != nil {
		return err
	}
	if _, err := converter.ParseResampler(args.Resample); err != nil {
		return err
	}
	if args.Width < 0 {
		return fmt.Errorf("%w: %d", converter.ErrInvalidWidth, args.Width)
	}
	if args.DeviceDPI <= 0 {
		return fmt.Errorf("invalid device dpi: %d", args.DeviceDPI)
	}
	return nil
}

func mergeFolders(args InputFlags, workers int) int {
	folders, err := files_manager.GetImageFolders(args.InputPath)
	if err != nil {
		fmt.Printf("Error getting image folders: %v\n", err)
		return 1
	}
	if len(folders) == 0 {
		fmt.Println("No images found in the input directory.")
		return 0
	}
	fmt.Printf("Found %d image folder(s).\n", len(folders))

	failed := 0
	for _, folder := range folders {
		pdfPath, err := converter.ConvertFolderToPDF(folder, args.OutputDir, args, workers)
		if err != nil {
			fmt.Printf("Error during conversion of %s: %v\n", folder.Path, err)
			failed++
		}
		if pdfPath != "" {
			fmt.Printf("Written %s (%d images)\n", pdfPath, len(folder.ImagePaths))
		}
	}
	return failed
}

func convertFiles(args InputFlags, workers int) int {
	files, err := files_manager.ResolveInputs(args.InputPath)
	if err != nil {
		fmt.Printf("Error listing input images: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Println("No images found in the input directory.")
		return 0
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var failed atomic.Int32

	fmt.Printf("Starting conversion of %d image(s)...\n", len(files))

	for _, file := range files {
		wg.Add(1)
		go func(file string) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire a token
			defer func() { <-sem }() // Release the token

			outPath, err := converter.ConvertFile(file, args.OutputDir, args)
			if err != nil {
				fmt.Printf("Error during conversion of %s: %v\n", file, err)
				failed.Add(1)
				return
			}
			fmt.Printf("%s -> %s\n", file, outPath)
		}(file)
	}
	wg.Wait()
	return int(failed.Load())
}
