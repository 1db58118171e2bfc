package extractor

import (
	"bytes"
	"context"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readText decodes the bytes as UTF-8 verbatim.
func (e *implExtractor) readText(ctx context.Context, content []byte) (string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return "", corrupt("text is not valid UTF-8", nil)
	}
	return string(content), nil
}
