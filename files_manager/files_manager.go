package files_manager

import (
	"fmt"
	"img2bw/contracts"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type ImageFolder = contracts.ImageFolder

var supportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
	".webp": true,
}

func IsSupportedImage(name string) bool {
	if strings.HasPrefix(filepath.Base(name), "._") {
		return false
	}
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// CheckProvidedPaths validates the input file or directory and creates the
// output directory when it is missing.
func CheckProvidedPaths(inputPath string, outputDir string) error {
	if inputPath == "" || outputDir == "" {
		return fmt.Errorf("input and output paths required")
	}

	stat, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("input %s: %w", inputPath, err)
	}
	if !stat.IsDir() && !IsSupportedImage(inputPath) {
		return fmt.Errorf("input %s is not a supported image", inputPath)
	}

	if stat, err := os.Stat(outputDir); err == nil && !stat.IsDir() {
		return fmt.Errorf("output %s is not a directory", outputDir)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// GetImagePaths lists the supported images directly inside dir, sorted by
// name, and their total size.
func GetImagePaths(dir string) ([]string, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, err
	}
	images := make([]string, 0, len(entries))
	var size int64 = 0
	for _, entry := range entries {
		if entry.IsDir() || !IsSupportedImage(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
		if info, err := entry.Info(); err == nil {
			size += info.Size()
		}
	}
	sort.Strings(images)
	return images, size, nil
}

// GetImageFolders returns rootFolder itself and each direct subdirectory that
// contains at least one supported image.
func GetImageFolders(rootFolder string) ([]ImageFolder, error) {
	entries, err := os.ReadDir(rootFolder)
	if err != nil {
		return nil, err
	}

	folders := make([]ImageFolder, 0, len(entries)+1)
	add := func(path string) {
		images, size, _ := GetImagePaths(path)
		if len(images) == 0 {
			return
		}
		folders = append(folders, ImageFolder{
			ImagePaths: images,
			Name:       filepath.Base(filepath.Clean(path)),
			Path:       path,
			ImagesSize: size,
		})
	}

	add(rootFolder)
	for _, entry := range entries {
		if entry.IsDir() {
			add(filepath.Join(rootFolder, entry.Name()))
		}
	}
	return folders, nil
}

// ResolveInputs expands inputPath into image files: the file itself, or every
// supported image found under the directory tree.
func ResolveInputs(inputPath string) ([]string, error) {
	stat, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		return []string{inputPath}, nil
	}

	var files []string
	err = filepath.WalkDir(inputPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsSupportedImage(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error while scanning directory: %w", err)
	}
	return files, nil
}

// OutputPath maps an input image found under inputRoot to its file in
// outputDir, keeping the subdirectories between the two so same-named images
// in sibling folders do not collide. A single-file root maps to its base name.
func OutputPath(inputRoot, inputPath, outputDir string, ext string) string {
	rel := filepath.Base(inputPath)
	if r, err := filepath.Rel(inputRoot, inputPath); err == nil && r != "." && r != ".." && !strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		rel = r
	}
	return filepath.Join(outputDir, strings.TrimSuffix(rel, filepath.Ext(rel))+ext)
}
