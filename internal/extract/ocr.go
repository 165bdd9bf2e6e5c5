package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ocrPDF rasterizes each page to PNG and runs OCR per page, concatenating
// recognized text in page order. Per-page OCR failures are warnings, not
// errors; the document fails only when no page yields anything.
func (e *Extractor) ocrPDF(ctx context.Context, data []byte) (text string, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "es-ocr-*")
	if err != nil {
		return "", nil, err
	}
	defer func(path string) {
		if rmErr := os.RemoveAll(path); rmErr != nil {
			e.logger.Warn("extract.ocr.tmp_cleanup_failed", "path", path, "error", rmErr)
		}
	}(tmpDir)

	src := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return "", nil, err
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", src, prefix)
	if err != nil {
		return "", []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var parts []string
	var warns []string
	for _, img := range matches {
		out, errb, runErr := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "-l", e.cfg.TesseractLang)
		if runErr != nil {
			warns = append(warns, fmt.Sprintf("tesseract %s: %v: %s", filepath.Base(img), runErr, errb))
			continue
		}
		if page := Normalize(string(out)); page != "" {
			parts = append(parts, page)
		}
	}
	return strings.Join(parts, pageSeparator), warns, nil
}
