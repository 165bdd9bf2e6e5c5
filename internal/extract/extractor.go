package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/evidence-screener/internal/common"
)

// Extraction methods recorded on every result.
const (
	MethodTextLayer = "text-layer"
	MethodOCR       = "ocr"
	MethodNone      = "none"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	// MinTextChars is the sparsity threshold: fewer non-whitespace characters
	// than this across the whole text layer triggers the OCR fallback.
	MinTextChars int // default 50
}

type Result struct {
	Text     string
	Method   string // MethodTextLayer | MethodOCR | MethodNone
	Pages    int
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	// stubbable in tests, like the runner
	textLayer func(data []byte) ([]string, error)
	pageCount func(data []byte) (int, error)
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 50
	}
	return &Extractor{
		cfg:       cfg,
		runner:    execRunner{},
		logger:    logger,
		textLayer: readTextLayer,
		pageCount: pdfPageCount,
	}
}

// Extract produces normalized plain text from raw PDF bytes, trying the
// embedded text layer first and falling back to per-page OCR when the layer
// is missing or too sparse. An empty result is an error, never a silent
// empty string.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (Result, error) {
	start := time.Now()

	pages, err := e.pageCount(data)
	if err != nil {
		e.logger.Error("extract.unreadable", "file", filename, "error", err)
		return Result{Method: MethodNone}, fmt.Errorf("%w: %s: unreadable pdf: %v", common.ErrExtraction, filename, err)
	}
	if pages == 0 {
		return Result{Method: MethodNone}, fmt.Errorf("%w: %s: pdf has no pages", common.ErrExtraction, filename)
	}

	var warnings []string
	pageTexts, tlErr := e.textLayer(data)
	if tlErr != nil {
		// not fatal: a broken text layer still leaves the OCR path
		e.logger.Warn("extract.text_layer_failed", "file", filename, "error", tlErr)
		warnings = append(warnings, tlErr.Error())
	}
	text := joinPages(pageTexts)

	if meaningfulChars(text) >= e.cfg.MinTextChars {
		e.logger.Info("extract.text_layer_ok",
			"file", filename,
			"pages", pages,
			"bytes", len(text),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return Result{Text: text, Method: MethodTextLayer, Pages: pages, Duration: time.Since(start), Warnings: warnings}, nil
	}

	e.logger.Info("extract.text_layer_insufficient",
		"file", filename,
		"chars", meaningfulChars(text),
		"threshold", e.cfg.MinTextChars,
	)

	ocrText, ocrWarns, ocrErr := e.ocrPDF(ctx, data)
	warnings = append(warnings, ocrWarns...)
	if ocrErr != nil {
		e.logger.Error("extract.ocr_failed", "file", filename, "error", ocrErr)
		return Result{Method: MethodNone, Pages: pages, Warnings: warnings},
			fmt.Errorf("%w: %s: ocr fallback: %v", common.ErrExtraction, filename, ocrErr)
	}
	if meaningfulChars(ocrText) == 0 {
		e.logger.Error("extract.empty", "file", filename)
		return Result{Method: MethodNone, Pages: pages, Warnings: warnings},
			fmt.Errorf("%w: %s: no extractable text after text-layer and ocr", common.ErrExtraction, filename)
	}

	e.logger.Info("extract.ocr_ok",
		"file", filename,
		"pages", pages,
		"bytes", len(ocrText),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Text: ocrText, Method: MethodOCR, Pages: pages, Duration: time.Since(start), Warnings: warnings}, nil
}

// joinPages normalizes each page and concatenates the non-empty ones in page
// order with the page separator.
func joinPages(pageTexts []string) string {
	parts := make([]string, 0, len(pageTexts))
	for _, p := range pageTexts {
		if n := Normalize(p); n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, pageSeparator)
}
