package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/joseph-ayodele/evidence-screener/internal/common"
)

// stubRunner fakes pdftoppm and tesseract. When the rasterizer is invoked it
// writes PNG placeholders at the output prefix so the glob finds them.
type stubRunner struct {
	pages    int
	ocrText  map[int]string // page number -> recognized text
	ocrErrs  map[int]error
	rasterEr error
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	switch name {
	case "pdftoppm":
		if s.rasterEr != nil {
			return nil, []byte("raster failed"), s.rasterEr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		img := args[0]
		for i := 1; i <= s.pages; i++ {
			if strings.HasSuffix(img, fmt.Sprintf("-%d.png", i)) {
				if err := s.ocrErrs[i]; err != nil {
					return nil, []byte("ocr failed"), err
				}
				return []byte(s.ocrText[i]), nil, nil
			}
		}
		return nil, nil, fmt.Errorf("unexpected image %s", img)
	}
	return nil, nil, fmt.Errorf("unexpected command %s", name)
}

func newTestExtractor(t *testing.T, runner Runner, textLayer func([]byte) ([]string, error), pages int) *Extractor {
	t.Helper()
	e := NewExtractor(Config{MinTextChars: 50}, nil)
	if runner != nil {
		e.runner = runner
	}
	e.textLayer = textLayer
	e.pageCount = func([]byte) (int, error) { return pages, nil }
	return e
}

func TestExtractTextLayerSufficient(t *testing.T) {
	body := strings.Repeat("substantial embedded text. ", 10)
	e := newTestExtractor(t, &stubRunner{}, func([]byte) ([]string, error) {
		return []string{body, body}, nil
	}, 2)

	res, err := e.Extract(context.Background(), "paper.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != MethodTextLayer {
		t.Errorf("Method = %q, want %q", res.Method, MethodTextLayer)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	if !strings.Contains(res.Text, "substantial embedded text") {
		t.Errorf("Text missing expected content: %q", res.Text[:80])
	}
	if strings.Count(res.Text, pageSeparator) == 0 {
		t.Error("pages not separated")
	}
}

func TestExtractFallsBackToOCRWhenSparse(t *testing.T) {
	runner := &stubRunner{
		pages: 2,
		ocrText: map[int]string{
			1: "Recognized page one text with plenty of characters to pass.",
			2: "Recognized page two text, also long enough to matter here.",
		},
	}
	// text layer present but nearly empty
	e := newTestExtractor(t, runner, func([]byte) ([]string, error) {
		return []string{"  \n ", "x"}, nil
	}, 2)

	res, err := e.Extract(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != MethodOCR {
		t.Errorf("Method = %q, want %q", res.Method, MethodOCR)
	}
	if !strings.Contains(res.Text, "page one") || !strings.Contains(res.Text, "page two") {
		t.Errorf("OCR text incomplete: %q", res.Text)
	}
}

func TestExtractPerPageOCRFailureIsWarning(t *testing.T) {
	runner := &stubRunner{
		pages: 2,
		ocrText: map[int]string{
			2: "Only the second page produced any recognized characters at all.",
		},
		ocrErrs: map[int]error{1: errors.New("exit status 1")},
	}
	e := newTestExtractor(t, runner, func([]byte) ([]string, error) {
		return nil, nil
	}, 2)

	res, err := e.Extract(context.Background(), "scan.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != MethodOCR {
		t.Errorf("Method = %q, want %q", res.Method, MethodOCR)
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for the failed page")
	}
	if !strings.Contains(res.Text, "second page") {
		t.Errorf("surviving page text missing: %q", res.Text)
	}
}

func TestExtractEmptyAfterBothPaths(t *testing.T) {
	runner := &stubRunner{pages: 1, ocrText: map[int]string{1: "   "}}
	e := newTestExtractor(t, runner, func([]byte) ([]string, error) {
		return nil, nil
	}, 1)

	res, err := e.Extract(context.Background(), "blank.pdf", []byte("%PDF"))
	if err == nil {
		t.Fatal("Extract() error = nil, want extraction error")
	}
	if !errors.Is(err, common.ErrExtraction) {
		t.Errorf("error = %v, want wrapped ErrExtraction", err)
	}
	if res.Method != MethodNone {
		t.Errorf("Method = %q, want %q", res.Method, MethodNone)
	}
}

func TestExtractUnreadablePDF(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.pageCount = func([]byte) (int, error) { return 0, errors.New("xref table corrupt") }

	_, err := e.Extract(context.Background(), "bad.pdf", []byte("not a pdf"))
	if err == nil {
		t.Fatal("Extract() error = nil, want error for unreadable pdf")
	}
	if !errors.Is(err, common.ErrExtraction) {
		t.Errorf("error = %v, want wrapped ErrExtraction", err)
	}
}

func TestExtractZeroPages(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.pageCount = func([]byte) (int, error) { return 0, nil }

	_, err := e.Extract(context.Background(), "empty.pdf", []byte("%PDF"))
	if err == nil || !errors.Is(err, common.ErrExtraction) {
		t.Errorf("error = %v, want wrapped ErrExtraction", err)
	}
}
