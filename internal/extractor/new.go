package extractor

import (
	"context"

	"github.com/nguyentantai21042004/docnarrator/internal/config"
	"github.com/nguyentantai21042004/docnarrator/internal/document"
	"github.com/nguyentantai21042004/docnarrator/internal/logger"
	"github.com/nguyentantai21042004/docnarrator/pkg/executor"
)

type reader func(ctx context.Context, content []byte) (string, error)

type implExtractor struct {
	executor  executor.Executor
	pdftotext string
	logger    logger.Logger
	openPDF   func(content []byte) (pageSource, error)
	readers   map[document.Format]reader
}

// New creates an Extractor. exec may be nil when no pdftotext fallback is configured.
func New(cfg config.ExtractorConfig, exec executor.Executor, log logger.Logger) Extractor {
	e := &implExtractor{
		executor:  exec,
		pdftotext: cfg.PdfToTextPath,
		logger:    log,
		openPDF:   openLedongthuc,
	}
	e.readers = map[document.Format]reader{
		document.FormatPDF:  e.readPDF,
		document.FormatDOCX: e.readDOCX,
		document.FormatText: e.readText,
	}
	return e
}
