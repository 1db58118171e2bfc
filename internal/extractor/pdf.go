package extractor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pdftotextInput = "input.pdf"

// pageSource is the part of a PDF reader the extractor needs.
type pageSource interface {
	NumPage() int
	PageText(n int) (string, error)
}

type ledongthucPages struct {
	r *pdf.Reader
}

func openLedongthuc(content []byte) (src pageSource, err error) {
	// the parser panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	return &ledongthucPages{r: r}, nil
}

func (p *ledongthucPages) NumPage() int {
	return p.r.NumPage()
}

func (p *ledongthucPages) PageText(n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("page %d: %v", n, r)
		}
	}()

	page := p.r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

// readPDF concatenates page text in page order with no separator.
// Pages without extractable text contribute "".
func (e *implExtractor) readPDF(ctx context.Context, content []byte) (string, error) {
	src, err := e.openPDF(content)
	if err != nil {
		if e.pdftotext == "" || e.executor == nil {
			return "", corrupt("open pdf", err)
		}
		e.logger.Warn(ctx, "Native PDF reader failed, trying pdftotext: %v", err)
		return e.readPDFWithPdftotext(ctx, content)
	}

	var sb strings.Builder
	for i := 1; i <= src.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := src.PageText(i)
		if err != nil {
			e.logger.Warn(ctx, "No text extracted from page %d: %v", i, err)
			continue
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

// readPDFWithPdftotext runs poppler's pdftotext inside a private scratch directory.
// pdftotext ends every page with a form feed.
func (e *implExtractor) readPDFWithPdftotext(ctx context.Context, content []byte) (string, error) {
	dir, err := os.MkdirTemp("", "extract-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := os.WriteFile(filepath.Join(dir, pdftotextInput), content, 0o600); err != nil {
		return "", fmt.Errorf("write scratch pdf: %w", err)
	}

	out, err := e.executor.ExecuteInDir(ctx, dir, e.pdftotext, "-enc", "UTF-8", pdftotextInput, "-")
	if err != nil {
		return "", corrupt("pdftotext", err)
	}

	return strings.ReplaceAll(out, "\f", ""), nil
}
