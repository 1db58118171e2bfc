package extractor

import "errors"

var (
	// ErrUnsupportedFormat is returned for a type tag outside pdf, docx and txt.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrCorruptDocument is returned when the bytes cannot be decoded as the declared format.
	ErrCorruptDocument = errors.New("corrupt document")
)
