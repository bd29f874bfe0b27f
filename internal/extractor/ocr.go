package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// IsOCRAvailable reports whether both external tools OCR needs are on
// PATH: pdftoppm to rasterize pages and tesseract to read them.
func IsOCRAvailable() bool {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return false
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return false
	}
	return true
}

// extractWithOCR rasterizes each page at 300 DPI and runs tesseract
// over the images. Slow, so it is the last resort for scanned
// statements.
func extractWithOCR(filePath string) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "stmt-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir for OCR: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	if out, err := exec.Command("pdftoppm", "-png", "-r", "300", filePath, prefix).CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}
	sort.Strings(images)

	var pages []string
	for _, img := range images {
		out, err := exec.Command("tesseract", img, "stdout", "--psm", "6").Output()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(string(out)); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("OCR produced no text")
	}
	return pages, nil
}
