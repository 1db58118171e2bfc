// Package document holds the uploaded document model and its closed set of formats.
package document

import (
	"mime"
	"path/filepath"
	"strings"
)

// Format is the declared type of an uploaded document.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "txt"
)

var mimeFormats = map[string]Format{
	"application/pdf": FormatPDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FormatDOCX,
	"text/plain": FormatText,
}

// Supported reports whether f is one of the formats the extractor can read.
func (f Format) Supported() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatText:
		return true
	}
	return false
}

// ParseFormat normalizes a type tag: an extension with or without the dot, or a MIME type.
// Unknown tags are returned lowercased so the caller can report them.
func ParseFormat(tag string) Format {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if strings.Contains(tag, "/") {
		if mt, _, err := mime.ParseMediaType(tag); err == nil {
			tag = mt
		}
		if f, ok := mimeFormats[tag]; ok {
			return f
		}
		return Format(tag)
	}
	return Format(strings.TrimPrefix(tag, "."))
}

// FormatFromFilename derives the format from the file extension.
func FormatFromFilename(name string) Format {
	return ParseFormat(filepath.Ext(name))
}

// Document is an uploaded file. Content must not be modified after New.
type Document struct {
	Filename string
	Format   Format
	Content  []byte
}

// New builds a Document. An empty tag falls back to the filename extension.
func New(filename string, content []byte, tag string) *Document {
	format := ParseFormat(tag)
	if format == "" || format == "application/octet-stream" {
		format = FormatFromFilename(filename)
	}
	return &Document{
		Filename: filename,
		Format:   format,
		Content:  content,
	}
}

// Stem returns the filename without directory and extension.
func (d *Document) Stem() string {
	base := filepath.Base(d.Filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
