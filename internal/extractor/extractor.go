package extractor

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/docnarrator/internal/document"
)

// Extract dispatches on the document format. The format is checked before any parsing.
func (e *implExtractor) Extract(ctx context.Context, doc *document.Document) (string, error) {
	if doc == nil {
		return "", errors.New("extract: nil document")
	}

	read, ok := e.readers[doc.Format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, doc.Format)
	}

	// A zero-byte upload has no textual content whatever its declared format.
	if len(doc.Content) == 0 {
		return "", nil
	}

	e.logger.Debug(ctx, "Extracting %s (%s, %d bytes)", doc.Filename, doc.Format, len(doc.Content))

	text, err := read(ctx, doc.Content)
	if err != nil {
		return "", err
	}

	e.logger.Debug(ctx, "Extracted %d characters from %s", len(text), doc.Filename)
	return text, nil
}

func corrupt(what string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrCorruptDocument, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrCorruptDocument, what, err)
}
